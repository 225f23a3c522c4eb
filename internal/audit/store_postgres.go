package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the trail in the patient_audit_trail table.
// Duplicate log positions are ignored, which is what keeps replays and
// redeliveries idempotent.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO patient_audit_trail
			(topic, partition, record_offset, event_type, event_time, patient_id, patient_name, triggered_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (topic, partition, record_offset) DO NOTHING
	`, entry.Topic, entry.Partition, entry.Offset, entry.EventType, entry.EventTime,
		entry.PatientID, entry.PatientName, entry.TriggeredBy)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByPatient(ctx context.Context, patientID int64) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT topic, partition, record_offset, event_type, event_time, patient_id, patient_name, triggered_by
		FROM patient_audit_trail
		WHERE patient_id = $1
		ORDER BY event_time ASC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("select audit entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Topic, &entry.Partition, &entry.Offset, &entry.EventType,
			&entry.EventTime, &entry.PatientID, &entry.PatientName, &entry.TriggeredBy); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
