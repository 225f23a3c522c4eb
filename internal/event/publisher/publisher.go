// Package publisher delivers patient event envelopes to the event log.
//
// Publish is fire-and-forget from the caller's perspective: the send happens
// on the client's background produce path and the delivery result arrives in
// a promise callback. A failed send is logged and counted, never surfaced to
// the mutation that triggered it.
package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/twmb/franz-go/pkg/kgo"

	"medrec/internal/event"
	"medrec/internal/platform/config"
	"medrec/internal/platform/metrics"
)

// Producer is the subset of the Kafka client the publisher needs. kgo.Client
// satisfies it; tests substitute a capture fake.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// Publisher sends every envelope to its class topic and to the merged
// all-events topic, keyed by the patient id so events for one record stay
// ordered relative to each other on each stream.
type Publisher struct {
	producer Producer
	topics   config.Kafka
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(producer Producer, topics config.Kafka, logger *slog.Logger, m *metrics.Metrics) *Publisher {
	return &Publisher{
		producer: producer,
		topics:   topics,
		logger:   logger,
		metrics:  m,
	}
}

// Publish hands the envelope to the event log and returns immediately.
// Serialization failures and delivery failures are logged; the caller's
// mutation is never affected.
func (p *Publisher) Publish(ctx context.Context, env event.Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("failed to serialize patient event",
			"event_type", env.EventType,
			"patient_id", env.PatientID,
			"error", err,
		)
		return
	}

	classTopic, ok := p.topicFor(env.EventType)
	if !ok {
		p.logger.Error("unknown patient event type, dropping",
			"event_type", env.EventType,
			"patient_id", env.PatientID,
		)
		return
	}

	key := []byte(strconv.FormatInt(env.PatientID, 10))
	for _, topic := range []string{classTopic, p.topics.AllEventsTopic} {
		p.send(ctx, topic, key, payload)
	}
}

func (p *Publisher) send(ctx context.Context, topic string, key, payload []byte) {
	p.logger.Info("sending patient event",
		"topic", topic,
		"key", string(key),
	)
	record := &kgo.Record{Topic: topic, Key: key, Value: payload}
	p.producer.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("failed to send patient event",
				"topic", topic,
				"key", string(key),
				"error", err,
			)
			if p.metrics != nil {
				p.metrics.PublishFailures.WithLabelValues(topic).Inc()
			}
			return
		}
		p.logger.Info("patient event delivered",
			"topic", r.Topic,
			"key", string(r.Key),
			"partition", r.Partition,
			"offset", r.Offset,
		)
		if p.metrics != nil {
			p.metrics.EventsPublished.WithLabelValues(r.Topic).Inc()
		}
	})
}

func (p *Publisher) topicFor(eventType event.Type) (string, bool) {
	switch eventType {
	case event.TypeCreated:
		return p.topics.CreatedTopic, true
	case event.TypeUpdated:
		return p.topics.UpdatedTopic, true
	case event.TypeDeleted:
		return p.topics.DeletedTopic, true
	default:
		return "", false
	}
}
