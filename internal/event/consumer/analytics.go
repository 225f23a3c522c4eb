package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"medrec/internal/event"
	"medrec/internal/event/consumer/dedupe"
)

// AnalyticsHandler keeps running counts of events per type from the merged
// stream. Counts are kept in memory; the dedupe store keeps redeliveries from
// inflating them.
type AnalyticsHandler struct {
	dedupe dedupe.Store
	logger *slog.Logger

	mu     sync.Mutex
	counts map[event.Type]int64
}

func NewAnalyticsHandler(store dedupe.Store, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		dedupe: store,
		logger: logger,
		counts: make(map[event.Type]int64),
	}
}

func (h *AnalyticsHandler) Handle(ctx context.Context, msg *Message) error {
	env, err := msg.Envelope()
	if err != nil {
		h.logger.Warn("skipping undecodable event in analytics",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	// A second dedupe namespace keeps these counts independent of the other
	// handlers sharing the store.
	id := "analytics/" + msg.ID()
	seen, err := h.dedupe.Seen(ctx, id)
	if err != nil {
		return fmt.Errorf("check dedupe: %w", err)
	}
	if seen {
		return nil
	}

	h.mu.Lock()
	h.counts[env.EventType]++
	total := h.counts[env.EventType]
	h.mu.Unlock()

	if err := h.dedupe.Mark(ctx, id); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	h.logger.Info("event counted",
		"event_type", env.EventType,
		"patient_id", env.PatientID,
		"total", total,
	)
	return nil
}

// Snapshot returns a copy of the current per-type counts.
func (h *AnalyticsHandler) Snapshot() map[event.Type]int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[event.Type]int64, len(h.counts))
	for t, n := range h.counts {
		out[t] = n
	}
	return out
}
