package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"medrec/internal/audit"
)

// TrailHandler materializes every event on the merged stream into the audit
// trail. The store keys entries by log position, so redeliveries collapse into
// one row and the handler needs no separate dedupe step.
type TrailHandler struct {
	store  audit.Store
	logger *slog.Logger
}

func NewTrailHandler(store audit.Store, logger *slog.Logger) *TrailHandler {
	return &TrailHandler{store: store, logger: logger}
}

func (h *TrailHandler) Handle(ctx context.Context, msg *Message) error {
	env, err := msg.Envelope()
	if err != nil {
		h.logger.Warn("skipping undecodable event on merged stream",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	entry := audit.Entry{
		Topic:       msg.Topic,
		Partition:   msg.Partition,
		Offset:      msg.Offset,
		EventType:   string(env.EventType),
		EventTime:   env.Timestamp,
		PatientID:   env.PatientID,
		PatientName: env.Name,
		TriggeredBy: env.TriggeredBy,
	}
	if err := h.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	h.logger.Info("audit trail updated",
		"patient_id", env.PatientID,
		"event_type", env.EventType,
		"triggered_by", env.TriggeredBy,
	)
	return nil
}
