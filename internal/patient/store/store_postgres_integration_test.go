//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"medrec/internal/patient/models"
	"medrec/internal/patient/store"
	"medrec/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgresStore(s.postgres.Pool)
	s.ctx = context.Background()

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	s.Require().NoError(err)
	s.postgres.Exec(s.T(), string(schema))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.postgres.Exec(s.T(), "TRUNCATE patients CASCADE")
}

func (s *PostgresStoreSuite) newPatient(name, email string) *models.Patient {
	return &models.Patient{
		Name:       name,
		Email:      email,
		BloodGroup: models.BloodGroupABNegative,
		Active:     true,
		Diagnoses: []models.Diagnosis{
			{Details: "Initial checkup", Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func (s *PostgresStoreSuite) TestSaveAndFindByID() {
	patient := s.newPatient("Alice Smith", "alice@example.com")
	s.Require().NoError(s.store.Save(s.ctx, patient))
	s.NotZero(patient.ID)
	s.NotZero(patient.Diagnoses[0].ID)

	found, err := s.store.FindByID(s.ctx, patient.ID)
	s.Require().NoError(err)
	s.Equal("Alice Smith", found.Name)
	s.Equal(models.BloodGroupABNegative, found.BloodGroup)
	s.True(found.Active)
	s.Require().Len(found.Diagnoses, 1)
	s.Equal("Initial checkup", found.Diagnoses[0].Details)
}

func (s *PostgresStoreSuite) TestFindByIDNotFound() {
	_, err := s.store.FindByID(s.ctx, 999)
	s.Require().ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateExisting() {
	patient := s.newPatient("Alice Smith", "alice@example.com")
	s.Require().NoError(s.store.Save(s.ctx, patient))

	patient.Name = "Alice Jones"
	patient.Diagnoses[0].Details = "Recovered"
	s.Require().NoError(s.store.Save(s.ctx, patient))

	found, err := s.store.FindByID(s.ctx, patient.ID)
	s.Require().NoError(err)
	s.Equal("Alice Jones", found.Name)
	s.Require().Len(found.Diagnoses, 1)
	s.Equal("Recovered", found.Diagnoses[0].Details)
}

func (s *PostgresStoreSuite) TestDiagnosesOrderedMostRecentFirst() {
	patient := s.newPatient("Alice Smith", "alice@example.com")
	patient.Diagnoses = append(patient.Diagnoses, models.Diagnosis{
		Details: "Follow-up",
		Date:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(s.store.Save(s.ctx, patient))

	found, err := s.store.FindByID(s.ctx, patient.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Diagnoses, 2)
	s.Equal("Follow-up", found.Diagnoses[0].Details)
}

func (s *PostgresStoreSuite) TestFindAll() {
	s.Require().NoError(s.store.Save(s.ctx, s.newPatient("Alice", "alice@example.com")))
	s.Require().NoError(s.store.Save(s.ctx, s.newPatient("Bob", "bob@example.com")))

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Len(all[0].Diagnoses, 1)
}

func (s *PostgresStoreSuite) TestFindPage() {
	for _, name := range []string{"Carol", "Alice", "Bob"} {
		s.Require().NoError(s.store.Save(s.ctx, s.newPatient(name, name+"@example.com")))
	}

	page, total, err := s.store.FindPage(s.ctx, store.Page{Number: 0, Size: 2, SortBy: "name", SortDir: "asc"})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(page, 2)
	s.Equal("Alice", page[0].Name)
	s.Equal("Bob", page[1].Name)
}

func (s *PostgresStoreSuite) TestDeleteCascadesDiagnoses() {
	patient := s.newPatient("Alice Smith", "alice@example.com")
	s.Require().NoError(s.store.Save(s.ctx, patient))

	s.Require().NoError(s.store.DeleteByID(s.ctx, patient.ID))

	_, err := s.store.FindByID(s.ctx, patient.ID)
	s.Require().ErrorIs(err, store.ErrNotFound)

	var count int
	s.Require().NoError(s.postgres.Pool.QueryRow(s.ctx,
		"SELECT count(*) FROM patient_diagnoses WHERE patient_id = $1", patient.ID).Scan(&count))
	s.Zero(count)
}

func (s *PostgresStoreSuite) TestDeleteNotFound() {
	s.Require().ErrorIs(s.store.DeleteByID(s.ctx, 999), store.ErrNotFound)
}
