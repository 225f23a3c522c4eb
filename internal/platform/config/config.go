package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Kafka holds broker addresses, topic names, and tuning knobs for the event
// log. Topic names default to the patient event streams; partition counts and
// the replication factor are deployment parameters, not correctness ones.
type Kafka struct {
	Brokers           []string
	CreatedTopic      string
	UpdatedTopic      string
	DeletedTopic      string
	AllEventsTopic    string
	GroupID           string
	AllEventsGroupID  string
	TopicPartitions   int32
	MergedPartitions  int32
	ReplicationFactor int16
}

// Redis holds connection settings for the consumer dedupe store.
type Redis struct {
	URL      string
	DedupTTL time.Duration
}

// Server captures process-level configuration for the patient service.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	AdminUser     string
	AdminPassword string
	Kafka         Kafka
	Redis         Redis
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:          envOr("MEDREC_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("JWT_ISSUER", "medrec"),
		TokenTTL:      envDuration("JWT_TOKEN_TTL", time.Hour),
		AdminUser:     envOr("MEDREC_ADMIN_USER", "admin"),
		AdminPassword: envOr("MEDREC_ADMIN_PASSWORD", "admin"),
		Kafka: Kafka{
			Brokers:           strings.Split(envOr("KAFKA_BROKERS", "localhost:9092"), ","),
			CreatedTopic:      envOr("KAFKA_TOPIC_PATIENT_CREATED", "patient.created"),
			UpdatedTopic:      envOr("KAFKA_TOPIC_PATIENT_UPDATED", "patient.updated"),
			DeletedTopic:      envOr("KAFKA_TOPIC_PATIENT_DELETED", "patient.deleted"),
			AllEventsTopic:    envOr("KAFKA_TOPIC_PATIENT_EVENTS", "patient.events"),
			GroupID:           envOr("KAFKA_GROUP_ID", "patient-service"),
			AllEventsGroupID:  envOr("KAFKA_ALL_EVENTS_GROUP_ID", "patient-service-all-events"),
			TopicPartitions:   int32(envInt("KAFKA_TOPIC_PARTITIONS", 3)),
			MergedPartitions:  int32(envInt("KAFKA_MERGED_PARTITIONS", 5)),
			ReplicationFactor: int16(envInt("KAFKA_REPLICATION_FACTOR", 1)),
		},
		Redis: Redis{
			URL:      os.Getenv("REDIS_URL"),
			DedupTTL: envDuration("REDIS_DEDUP_TTL", 24*time.Hour),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
