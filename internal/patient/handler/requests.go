package handler

import (
	"strings"
	"time"

	"medrec/internal/patient/models"
	"medrec/internal/patient/service"
	pkgerrors "medrec/pkg/errors"
)

const dateLayout = "2006-01-02"

type patientRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	BloodGroup       string `json:"bloodGroup"`
	PatientDiagnosis string `json:"patientDiagnosis"`
	DiagnosisDate    string `json:"diagnosisDate"`
}

// toInput validates the request body and converts it to a service input.
func (r patientRequest) toInput() (service.Input, error) {
	if strings.TrimSpace(r.Name) == "" {
		return service.Input{}, pkgerrors.New(pkgerrors.CodeInvalidInput, "name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return service.Input{}, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid email")
	}
	bloodGroup := models.BloodGroup(r.BloodGroup)
	if !bloodGroup.Valid() {
		return service.Input{}, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid blood group")
	}
	if strings.TrimSpace(r.PatientDiagnosis) == "" {
		return service.Input{}, pkgerrors.New(pkgerrors.CodeInvalidInput, "patientDiagnosis is required")
	}
	date, err := time.Parse(dateLayout, r.DiagnosisDate)
	if err != nil {
		return service.Input{}, pkgerrors.New(pkgerrors.CodeInvalidInput, "diagnosisDate must be YYYY-MM-DD")
	}

	return service.Input{
		Name:             r.Name,
		Email:            r.Email,
		BloodGroup:       bloodGroup,
		DiagnosisDetails: r.PatientDiagnosis,
		DiagnosisDate:    date,
	}, nil
}
