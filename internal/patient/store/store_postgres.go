package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medrec/internal/patient/models"
)

// PostgresStore persists patients in PostgreSQL. Diagnoses live in a child
// table and are loaded eagerly, most recent first, matching the Store
// contract.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var allowedSortColumns = map[string]string{
	"id":    "id",
	"name":  "name",
	"email": "email",
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.Patient, error) {
	patient := &models.Patient{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, blood_group, is_active
		FROM patients WHERE id = $1
	`, id).Scan(&patient.ID, &patient.Name, &patient.Email, &patient.BloodGroup, &patient.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select patient: %w", err)
	}

	if err := s.loadDiagnoses(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]*models.Patient, error) {
	// Single join-fetch pass, diagnoses ordered per patient.
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.email, p.blood_group, p.is_active,
		       d.id, d.details, d.diagnosis_date
		FROM patients p
		LEFT JOIN patient_diagnoses d ON d.patient_id = p.id
		ORDER BY p.id ASC, d.diagnosis_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select patients: %w", err)
	}
	defer rows.Close()

	var out []*models.Patient
	byID := make(map[int64]*models.Patient)
	for rows.Next() {
		var (
			patient models.Patient
			diagID  *int64
			details *string
			date    *time.Time
		)
		if err := rows.Scan(&patient.ID, &patient.Name, &patient.Email, &patient.BloodGroup, &patient.Active,
			&diagID, &details, &date); err != nil {
			return nil, fmt.Errorf("scan patient row: %w", err)
		}
		existing, ok := byID[patient.ID]
		if !ok {
			existing = &patient
			byID[patient.ID] = existing
			out = append(out, existing)
		}
		if diagID != nil {
			existing.Diagnoses = append(existing.Diagnoses, models.Diagnosis{
				ID:      *diagID,
				Details: *details,
				Date:    *date,
			})
		}
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindPage(ctx context.Context, page Page) ([]*models.Patient, int64, error) {
	column, ok := allowedSortColumns[page.SortBy]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if page.SortDir == "desc" {
		direction = "DESC"
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, blood_group, is_active
		FROM patients
		ORDER BY %s %s
		LIMIT $1 OFFSET $2
	`, column, direction)
	rows, err := s.pool.Query(ctx, query, page.Size, page.Number*page.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("select patient page: %w", err)
	}
	defer rows.Close()

	var out []*models.Patient
	for rows.Next() {
		patient := &models.Patient{}
		if err := rows.Scan(&patient.ID, &patient.Name, &patient.Email, &patient.BloodGroup, &patient.Active); err != nil {
			return nil, 0, fmt.Errorf("scan patient row: %w", err)
		}
		out = append(out, patient)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, patient := range out {
		if err := s.loadDiagnoses(ctx, patient); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (s *PostgresStore) Save(ctx context.Context, patient *models.Patient) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if patient.ID == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO patients (name, email, blood_group, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, patient.Name, patient.Email, patient.BloodGroup, patient.Active).Scan(&patient.ID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE patients SET name = $2, email = $3, blood_group = $4, is_active = $5
			WHERE id = $1
		`, patient.ID, patient.Name, patient.Email, patient.BloodGroup, patient.Active)
	}
	if err != nil {
		return fmt.Errorf("save patient: %w", err)
	}

	for i := range patient.Diagnoses {
		diagnosis := &patient.Diagnoses[i]
		if diagnosis.ID == 0 {
			err = tx.QueryRow(ctx, `
				INSERT INTO patient_diagnoses (patient_id, details, diagnosis_date)
				VALUES ($1, $2, $3)
				RETURNING id
			`, patient.ID, diagnosis.Details, diagnosis.Date).Scan(&diagnosis.ID)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE patient_diagnoses SET details = $2, diagnosis_date = $3
				WHERE id = $1
			`, diagnosis.ID, diagnosis.Details, diagnosis.Date)
		}
		if err != nil {
			return fmt.Errorf("save diagnosis: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) loadDiagnoses(ctx context.Context, patient *models.Patient) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, details, diagnosis_date
		FROM patient_diagnoses
		WHERE patient_id = $1
		ORDER BY diagnosis_date DESC
	`, patient.ID)
	if err != nil {
		return fmt.Errorf("select diagnoses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var diagnosis models.Diagnosis
		if err := rows.Scan(&diagnosis.ID, &diagnosis.Details, &diagnosis.Date); err != nil {
			return fmt.Errorf("scan diagnosis row: %w", err)
		}
		patient.Diagnoses = append(patient.Diagnoses, diagnosis)
	}
	return rows.Err()
}
