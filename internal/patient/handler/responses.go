package handler

import "medrec/internal/patient/models"

type patientResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	BloodGroup       string `json:"bloodGroup"`
	PatientDiagnosis string `json:"patientDiagnosis,omitempty"`
	DiagnosisDate    string `json:"diagnosisDate,omitempty"`
}

type pageResponse struct {
	Content       []patientResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
}

func toResponse(patient *models.Patient) patientResponse {
	resp := patientResponse{
		ID:         patient.ID,
		Name:       patient.Name,
		Email:      patient.Email,
		BloodGroup: string(patient.BloodGroup),
	}
	if d := patient.LatestDiagnosis(); d != nil {
		resp.PatientDiagnosis = d.Details
		resp.DiagnosisDate = d.Date.Format(dateLayout)
	}
	return resp
}

func toResponses(patients []*models.Patient) []patientResponse {
	out := make([]patientResponse, 0, len(patients))
	for _, patient := range patients {
		out = append(out, toResponse(patient))
	}
	return out
}
