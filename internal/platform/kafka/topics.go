package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"medrec/internal/platform/config"
)

// EnsureTopics creates the patient event topics if they do not already exist.
// The three class topics share a partition count; the merged topic gets a
// higher one so more consumers can share the aggregate stream.
func EnsureTopics(ctx context.Context, client *kgo.Client, cfg config.Kafka) error {
	adm := kadm.NewClient(client)

	if err := createTopics(ctx, adm, cfg.TopicPartitions, cfg.ReplicationFactor,
		cfg.CreatedTopic, cfg.UpdatedTopic, cfg.DeletedTopic); err != nil {
		return err
	}
	return createTopics(ctx, adm, cfg.MergedPartitions, cfg.ReplicationFactor, cfg.AllEventsTopic)
}

func createTopics(ctx context.Context, adm *kadm.Client, partitions int32, replicas int16, topics ...string) error {
	resp, err := adm.CreateTopics(ctx, partitions, replicas, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, res := range resp.Sorted() {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", res.Topic, res.Err)
		}
	}
	return nil
}
