package store

import (
	"context"
	"errors"

	"medrec/internal/patient/models"
)

// ErrNotFound is returned when no patient matches the requested id.
var ErrNotFound = errors.New("patient not found")

// Page describes one page of a patient listing. Size is capped by the
// transport layer; SortBy must be one of the allowed columns.
type Page struct {
	Number  int
	Size    int
	SortBy  string
	SortDir string
}

// Store is the persistence collaborator for patient records. Reads return
// patients with their diagnoses eagerly loaded, most recent diagnosis first.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Patient, error)
	FindAll(ctx context.Context) ([]*models.Patient, error)
	FindPage(ctx context.Context, page Page) ([]*models.Patient, int64, error)
	Save(ctx context.Context, patient *models.Patient) error
	DeleteByID(ctx context.Context, id int64) error
}
