// Package consumer runs the manual-acknowledgment processing loop for one
// consumer group.
//
// Each message moves through received → processing → acknowledged. The offset
// for a message is committed only after its handler returns nil; on handler
// error the partition is rewound to the failed record, so the next poll
// redelivers it and progress on that partition stalls until the handler
// succeeds. There is no dead-letter route: a permanently failing message
// blocks its partition until fixed or skipped by hand.
package consumer

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"medrec/internal/platform/metrics"
)

// Handler processes one delivered message. Returning nil acknowledges the
// message; returning an error leaves it unacknowledged for redelivery.
// Because delivery is at-least-once, handlers must be idempotent.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Client is the subset of the Kafka group client the loop needs. kgo.Client
// satisfies it; tests substitute a fake to observe commits and rewinds.
type Client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
	SetOffsets(setOffsets map[string]map[int32]kgo.EpochOffset)
	AllowRebalance()
	Close()
}

// Consumer drives one consumer group. Within the group each partition is
// processed by a single member at a time, which is what keeps one record's
// events in order; no application-level locking is involved.
type Consumer struct {
	group   string
	client  Client
	handler Handler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(group string, client Client, handler Handler, logger *slog.Logger, m *metrics.Metrics) *Consumer {
	return &Consumer{
		group:   group,
		client:  client,
		handler: handler,
		logger:  logger,
		metrics: m,
	}
}

// Run polls until the context is canceled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started", "group", c.group)
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("fetch error",
				"group", c.group,
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			c.processPartition(ctx, p.Topic, p.Partition, p.Records)
		})

		c.client.AllowRebalance()
	}
}

// processPartition walks one partition's records in delivery order. The first
// handler failure stops the walk: the failed record stays uncommitted and the
// partition is rewound to it.
func (c *Consumer) processPartition(ctx context.Context, topic string, partition int32, records []*kgo.Record) {
	for _, record := range records {
		msg := &Message{
			Topic:     record.Topic,
			Partition: record.Partition,
			Offset:    record.Offset,
			Key:       record.Key,
			Value:     record.Value,
			Timestamp: record.Timestamp,
		}

		if err := c.handler.Handle(ctx, msg); err != nil {
			c.logger.Error("handler failed, leaving message unacknowledged",
				"group", c.group,
				"topic", topic,
				"partition", partition,
				"offset", record.Offset,
				"error", err,
			)
			if c.metrics != nil {
				c.metrics.HandlerFailures.WithLabelValues(c.group, topic).Inc()
			}
			c.client.SetOffsets(map[string]map[int32]kgo.EpochOffset{
				topic: {partition: {Epoch: record.LeaderEpoch, Offset: record.Offset}},
			})
			return
		}

		if err := c.client.CommitRecords(ctx, record); err != nil {
			// At-least-once: a lost commit only means redelivery.
			c.logger.Error("failed to commit offset",
				"group", c.group,
				"topic", topic,
				"partition", partition,
				"offset", record.Offset,
				"error", err,
			)
			continue
		}

		c.logger.Info("acknowledged patient event",
			"group", c.group,
			"topic", topic,
			"partition", partition,
			"offset", record.Offset,
		)
		if c.metrics != nil {
			c.metrics.EventsConsumed.WithLabelValues(c.group, topic).Inc()
		}
	}
}
