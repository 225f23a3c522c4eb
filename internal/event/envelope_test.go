package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrec/internal/patient/models"
)

func newPatient() *models.Patient {
	return &models.Patient{
		ID:         42,
		Name:       "Alice Smith",
		Email:      "alice@example.com",
		BloodGroup: models.BloodGroupAPositive,
		Active:     true,
		Diagnoses: []models.Diagnosis{
			{ID: 1, Details: "Seasonal flu", Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestNewEnvelopeSnapshotsPatientState(t *testing.T) {
	env := New(TypeCreated, newPatient(), "admin")

	assert.Equal(t, TypeCreated, env.EventType)
	assert.Equal(t, int64(42), env.PatientID)
	assert.Equal(t, "Alice Smith", env.Name)
	assert.Equal(t, "alice@example.com", env.Email)
	assert.Equal(t, models.BloodGroupAPositive, env.BloodGroup)
	assert.Equal(t, "Seasonal flu", env.DiagnosisDetails)
	assert.Equal(t, "2025-03-10", env.DiagnosisDate)
	assert.Equal(t, "admin", env.TriggeredBy)
	assert.True(t, env.Active)
	assert.WithinDuration(t, time.Now(), env.Timestamp, time.Second)
}

func TestNewEnvelopeWithoutDiagnosis(t *testing.T) {
	patient := newPatient()
	patient.Diagnoses = nil

	env := New(TypeDeleted, patient, "system")

	assert.Empty(t, env.DiagnosisDetails)
	assert.Empty(t, env.DiagnosisDate)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "diagnosisDetails")
	assert.NotContains(t, string(data), "diagnosisDate")
}

func TestEnvelopeWireFormat(t *testing.T) {
	env := New(TypeUpdated, newPatient(), "admin")

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "UPDATED", decoded["eventType"])
	assert.Equal(t, float64(42), decoded["patientId"])
	assert.Equal(t, "A_POSITIVE", decoded["bloodGroup"])
	assert.Equal(t, "admin", decoded["triggeredBy"])
	assert.Equal(t, true, decoded["active"])
	assert.Contains(t, decoded, "timestamp")
}
