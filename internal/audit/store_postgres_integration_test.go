//go:build integration

package audit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"medrec/internal/audit"
	"medrec/pkg/testutil/containers"
)

type PostgresAuditSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *audit.PostgresStore
	ctx      context.Context
}

func TestPostgresAuditSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditSuite))
}

func (s *PostgresAuditSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = audit.NewPostgresStore(s.postgres.Pool)
	s.ctx = context.Background()

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	s.Require().NoError(err)
	s.postgres.Exec(s.T(), string(schema))
}

func (s *PostgresAuditSuite) SetupTest() {
	s.postgres.Exec(s.T(), "TRUNCATE patient_audit_trail")
}

func (s *PostgresAuditSuite) entry(offset int64) audit.Entry {
	return audit.Entry{
		Topic:       "patient.events",
		Partition:   0,
		Offset:      offset,
		EventType:   "CREATED",
		EventTime:   time.Now().UTC().Truncate(time.Millisecond),
		PatientID:   42,
		PatientName: "Alice Smith",
		TriggeredBy: "admin",
	}
}

func (s *PostgresAuditSuite) TestAppendAndList() {
	s.Require().NoError(s.store.Append(s.ctx, s.entry(1)))
	s.Require().NoError(s.store.Append(s.ctx, s.entry(2)))

	entries, err := s.store.ListByPatient(s.ctx, 42)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("CREATED", entries[0].EventType)
	s.Equal("admin", entries[0].TriggeredBy)
}

func (s *PostgresAuditSuite) TestDuplicatePositionIsIgnored() {
	s.Require().NoError(s.store.Append(s.ctx, s.entry(5)))
	s.Require().NoError(s.store.Append(s.ctx, s.entry(5)))

	entries, err := s.store.ListByPatient(s.ctx, 42)
	s.Require().NoError(err)
	s.Len(entries, 1)
}
