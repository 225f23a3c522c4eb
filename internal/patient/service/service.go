// Package service orchestrates patient persistence and event emission.
//
// Every successful mutation emits exactly one envelope describing the
// post-mutation state (pre-delete state for deletes). Event delivery is a
// best-effort side channel: the publisher never blocks the mutation and its
// failures never roll it back.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"medrec/internal/event"
	"medrec/internal/patient/models"
	"medrec/internal/patient/store"
	pkgerrors "medrec/pkg/errors"
	"medrec/pkg/requestcontext"
)

// Publisher hands a completed envelope to the event log, asynchronously.
type Publisher interface {
	Publish(ctx context.Context, env event.Envelope)
}

// Input carries the mutable patient fields for create and update.
type Input struct {
	Name             string
	Email            string
	BloodGroup       models.BloodGroup
	DiagnosisDetails string
	DiagnosisDate    time.Time
}

type Service struct {
	store     store.Store
	publisher Publisher
	logger    *slog.Logger
}

func New(store store.Store, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, publisher: publisher, logger: logger}
}

// Create persists a new active patient with one diagnosis and publishes a
// CREATED event built from the persisted state.
func (s *Service) Create(ctx context.Context, in Input) (*models.Patient, error) {
	s.logger.Info("creating patient", "email", in.Email)

	patient := &models.Patient{
		Name:       in.Name,
		Email:      in.Email,
		BloodGroup: in.BloodGroup,
		Active:     true,
		Diagnoses: []models.Diagnosis{{
			Details: in.DiagnosisDetails,
			Date:    in.DiagnosisDate,
		}},
	}
	if err := s.store.Save(ctx, patient); err != nil {
		return nil, fmt.Errorf("save patient: %w", err)
	}

	s.emit(ctx, event.TypeCreated, patient)
	return patient, nil
}

// Get returns one patient with diagnoses.
func (s *Service) Get(ctx context.Context, id int64) (*models.Patient, error) {
	patient, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(id, err)
	}
	return patient, nil
}

// List returns all patients with diagnoses.
func (s *Service) List(ctx context.Context) ([]*models.Patient, error) {
	return s.store.FindAll(ctx)
}

// ListPage returns one page of patients plus the total count.
func (s *Service) ListPage(ctx context.Context, page store.Page) ([]*models.Patient, int64, error) {
	return s.store.FindPage(ctx, page)
}

// Update mutates an existing patient in place, persists it, and publishes an
// UPDATED event carrying the new state. The latest diagnosis is updated, or
// created when the patient has none.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*models.Patient, error) {
	patient, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(id, err)
	}

	patient.Name = in.Name
	patient.Email = in.Email
	patient.BloodGroup = in.BloodGroup

	if len(patient.Diagnoses) == 0 {
		patient.Diagnoses = append(patient.Diagnoses, models.Diagnosis{})
	}
	patient.Diagnoses[0].Details = in.DiagnosisDetails
	patient.Diagnoses[0].Date = in.DiagnosisDate

	if err := s.store.Save(ctx, patient); err != nil {
		return nil, fmt.Errorf("save patient: %w", err)
	}

	s.emit(ctx, event.TypeUpdated, patient)
	return patient, nil
}

// Delete publishes a DELETED event from the pre-delete state, then removes
// the record. The envelope is constructed before the delete because the
// state is gone afterwards.
func (s *Service) Delete(ctx context.Context, id int64) error {
	patient, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.mapStoreError(id, err)
	}

	s.emit(ctx, event.TypeDeleted, patient)

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return s.mapStoreError(id, err)
	}
	s.logger.Info("deleted patient", "patient_id", id)
	return nil
}

// emit builds and publishes one envelope. The publisher is fire-and-forget;
// nothing here can fail the surrounding mutation.
func (s *Service) emit(ctx context.Context, eventType event.Type, patient *models.Patient) {
	env := event.New(eventType, patient, requestcontext.Principal(ctx))
	s.publisher.Publish(ctx, env)
	s.logger.Info("published patient event",
		"event_type", eventType,
		"patient_id", patient.ID,
		"triggered_by", env.TriggeredBy,
	)
}

func (s *Service) mapStoreError(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("patient %d not found", id))
	}
	return err
}
