package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"medrec/internal/event"
	"medrec/internal/event/consumer/dedupe"
	"medrec/pkg/email"
)

// WelcomeHandler reacts to created events by sending a welcome email.
// Delivery is at-least-once, so the handler checks the dedupe store before
// sending and marks the message only after the send succeeds. A crash between
// send and mark can produce one duplicate email; that beats losing the send.
type WelcomeHandler struct {
	sender email.Sender
	dedupe dedupe.Store
	logger *slog.Logger
}

func NewWelcomeHandler(sender email.Sender, store dedupe.Store, logger *slog.Logger) *WelcomeHandler {
	return &WelcomeHandler{sender: sender, dedupe: store, logger: logger}
}

func (h *WelcomeHandler) Handle(ctx context.Context, msg *Message) error {
	env, err := msg.Envelope()
	if err != nil {
		// Undecodable payloads would block the partition forever; skip them.
		h.logger.Warn("skipping undecodable created event",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	seen, err := h.dedupe.Seen(ctx, msg.ID())
	if err != nil {
		return fmt.Errorf("check dedupe: %w", err)
	}
	if seen {
		h.logger.Info("created event already processed, skipping",
			"patient_id", env.PatientID,
			"offset", msg.Offset,
		)
		return nil
	}

	name := email.DeriveNameFromEmail(env.Email)
	body := fmt.Sprintf("Welcome %s, your patient record has been created.", name)
	if err := h.sender.Send(ctx, env.Email, "Welcome to the patient service", body); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	if err := h.dedupe.Mark(ctx, msg.ID()); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	h.logger.Info("welcome email sent",
		"patient_id", env.PatientID,
		"triggered_by", env.TriggeredBy,
	)
	return nil
}

// SyncHandler reacts to updated events. It stands in for downstream systems
// that mirror patient state; here it records the sync in the log.
type SyncHandler struct {
	logger *slog.Logger
}

func NewSyncHandler(logger *slog.Logger) *SyncHandler {
	return &SyncHandler{logger: logger}
}

func (h *SyncHandler) Handle(_ context.Context, msg *Message) error {
	env, err := msg.Envelope()
	if err != nil {
		h.logger.Warn("skipping undecodable updated event",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	h.logger.Info("patient state synced",
		"patient_id", env.PatientID,
		"name", env.Name,
		"blood_group", env.BloodGroup,
		"diagnosis", env.DiagnosisDetails,
		"triggered_by", env.TriggeredBy,
	)
	return nil
}

// ArchiveHandler reacts to deleted events. The envelope carries the last
// known state of the record, captured before deletion.
type ArchiveHandler struct {
	logger *slog.Logger
}

func NewArchiveHandler(logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{logger: logger}
}

func (h *ArchiveHandler) Handle(_ context.Context, msg *Message) error {
	env, err := msg.Envelope()
	if err != nil {
		h.logger.Warn("skipping undecodable deleted event",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if env.EventType != event.TypeDeleted {
		h.logger.Warn("unexpected event type on deleted topic, skipping",
			"event_type", env.EventType,
			"patient_id", env.PatientID,
		)
		return nil
	}

	h.logger.Info("patient record archived",
		"patient_id", env.PatientID,
		"name", env.Name,
		"email", env.Email,
		"triggered_by", env.TriggeredBy,
	)
	return nil
}
