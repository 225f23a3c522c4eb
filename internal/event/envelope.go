// Package event defines the canonical envelope describing one patient
// mutation. An envelope is a denormalized snapshot of the record's state at
// emission time: consumers act on it without re-querying the source of truth.
// Treat an envelope as immutable once constructed.
package event

import (
	"time"

	"medrec/internal/patient/models"
)

// Type enumerates the mutation classes an envelope can describe.
type Type string

const (
	TypeCreated Type = "CREATED"
	TypeUpdated Type = "UPDATED"
	TypeDeleted Type = "DELETED"
)

// diagnosisDateLayout is the date-only wire format for DiagnosisDate.
const diagnosisDateLayout = "2006-01-02"

// Envelope is the unit of record on the event streams. The JSON shape is the
// cross-service contract; all consumer groups decode this exact structure.
type Envelope struct {
	EventType        Type              `json:"eventType"`
	Timestamp        time.Time         `json:"timestamp"`
	PatientID        int64             `json:"patientId"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	BloodGroup       models.BloodGroup `json:"bloodGroup"`
	DiagnosisDetails string            `json:"diagnosisDetails,omitempty"`
	DiagnosisDate    string            `json:"diagnosisDate,omitempty"`
	TriggeredBy      string            `json:"triggeredBy"`
	Active           bool              `json:"active"`
}

// New builds an envelope from a patient snapshot. For deletes the snapshot is
// captured before the record leaves the store, so the last-known state is
// still available.
func New(eventType Type, patient *models.Patient, triggeredBy string) Envelope {
	env := Envelope{
		EventType:   eventType,
		Timestamp:   time.Now(),
		PatientID:   patient.ID,
		Name:        patient.Name,
		Email:       patient.Email,
		BloodGroup:  patient.BloodGroup,
		TriggeredBy: triggeredBy,
		Active:      patient.Active,
	}
	if d := patient.LatestDiagnosis(); d != nil {
		env.DiagnosisDetails = d.Details
		env.DiagnosisDate = d.Date.Format(diagnosisDateLayout)
	}
	return env
}
