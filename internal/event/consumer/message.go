package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"medrec/internal/event"
)

// Message is one record delivered from the event log, with the metadata a
// handler needs for logging and idempotence.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// ID identifies the log record. Redeliveries of the same record carry the
// same topic, partition, and offset, so this is the natural dedupe key.
func (m *Message) ID() string {
	return fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset)
}

// Envelope decodes the message payload.
func (m *Message) Envelope() (event.Envelope, error) {
	var env event.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return event.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
