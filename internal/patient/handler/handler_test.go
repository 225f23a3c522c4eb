package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"medrec/internal/event"
	"medrec/internal/patient/service"
	"medrec/internal/patient/store"
	"medrec/pkg/testutil"
)

type capturePublisher struct {
	published []event.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, env event.Envelope) {
	p.published = append(p.published, env)
}

// HandlerSuite exercises the patient HTTP surface against the real service
// with an in-memory store. No mocks.
type HandlerSuite struct {
	suite.Suite
	router    http.Handler
	publisher *capturePublisher
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.publisher = &capturePublisher{}
	svc := service.New(store.NewMemoryStore(), s.publisher, logger)

	r := chi.NewRouter()
	New(svc).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func validBody() map[string]string {
	return map[string]string{
		"name":             "Alice Smith",
		"email":            "alice@example.com",
		"bloodGroup":       "A_POSITIVE",
		"patientDiagnosis": "Seasonal flu",
		"diagnosisDate":    "2025-03-10",
	}
}

func (s *HandlerSuite) createPatient() patientResponse {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", validBody())
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)

	var resp patientResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) TestCreatePatient() {
	resp := s.createPatient()

	s.NotZero(resp.ID)
	s.Equal("Alice Smith", resp.Name)
	s.Equal("A_POSITIVE", resp.BloodGroup)
	s.Equal("Seasonal flu", resp.PatientDiagnosis)
	s.Equal("2025-03-10", resp.DiagnosisDate)
}

func (s *HandlerSuite) TestCreateValidation() {
	cases := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing name", func(b map[string]string) { b["name"] = " " }},
		{"bad email", func(b map[string]string) { b["email"] = "not-an-email" }},
		{"unknown blood group", func(b map[string]string) { b["bloodGroup"] = "PURPLE" }},
		{"missing diagnosis", func(b map[string]string) { b["patientDiagnosis"] = "" }},
		{"bad date", func(b map[string]string) { b["diagnosisDate"] = "10/03/2025" }},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			body := validBody()
			tc.mutate(body)
			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", body)
			rr := testutil.DoRequest(s.router, req)
			s.Equal(http.StatusBadRequest, rr.Code)
		})
	}
}

func (s *HandlerSuite) TestCreateRejectsMalformedJSON() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/patients", "{broken")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestCreateEmitsRequestPrincipal() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", validBody())
	req = testutil.WithPrincipal(req, "dr.jones")
	rr := testutil.DoRequest(s.router, req)

	s.Require().Equal(http.StatusCreated, rr.Code)
	s.Require().Len(s.publisher.published, 1)
	s.Equal("dr.jones", s.publisher.published[0].TriggeredBy)
}

func (s *HandlerSuite) TestGetPatient() {
	created := s.createPatient()

	req := testutil.NewRequest(s.T(), http.MethodGet, fmt.Sprintf("/patients/%d", created.ID))
	rr := testutil.DoRequest(s.router, req)

	s.Require().Equal(http.StatusOK, rr.Code)
	var resp patientResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal(created.ID, resp.ID)
	s.Equal("Alice Smith", resp.Name)
}

func (s *HandlerSuite) TestGetNotFound() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/patients/999")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestGetRejectsBadID() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/patients/abc")
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestListPatients() {
	s.createPatient()

	req := testutil.NewRequest(s.T(), http.MethodGet, "/patients")
	rr := testutil.DoRequest(s.router, req)

	s.Require().Equal(http.StatusOK, rr.Code)
	var resp []patientResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Len(resp, 1)
}

func (s *HandlerSuite) TestListPaginated() {
	for i := 0; i < 3; i++ {
		body := validBody()
		body["name"] = fmt.Sprintf("Patient %d", i)
		body["email"] = fmt.Sprintf("patient%d@example.com", i)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", body)
		s.Require().Equal(http.StatusCreated, testutil.DoRequest(s.router, req).Code)
	}

	req := testutil.NewRequest(s.T(), http.MethodGet, "/patients/paginated?page=0&size=2&sortBy=name&sortDir=asc")
	rr := testutil.DoRequest(s.router, req)

	s.Require().Equal(http.StatusOK, rr.Code)
	var resp pageResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal(int64(3), resp.TotalElements)
	s.Require().Len(resp.Content, 2)
	s.Equal("Patient 0", resp.Content[0].Name)
}

func (s *HandlerSuite) TestListPaginatedRejectsBadParams() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/patients/paginated?size=0")
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestUpdatePatient() {
	created := s.createPatient()

	body := validBody()
	body["patientDiagnosis"] = "Recovered"
	body["diagnosisDate"] = "2025-04-02"
	req := testutil.NewJSONRequest(s.T(), http.MethodPut, fmt.Sprintf("/patients/%d", created.ID), body)
	rr := testutil.DoRequest(s.router, req)

	s.Require().Equal(http.StatusOK, rr.Code)
	var resp patientResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal("Recovered", resp.PatientDiagnosis)
	s.Equal("2025-04-02", resp.DiagnosisDate)
}

func (s *HandlerSuite) TestUpdateNotFound() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/patients/999", validBody())
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestDeletePatient() {
	created := s.createPatient()

	req := testutil.NewRequest(s.T(), http.MethodDelete, fmt.Sprintf("/patients/%d", created.ID))
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNoContent, rr.Code)

	req = testutil.NewRequest(s.T(), http.MethodGet, fmt.Sprintf("/patients/%d", created.ID))
	s.Equal(http.StatusNotFound, testutil.DoRequest(s.router, req).Code)
}

func (s *HandlerSuite) TestDeleteNotFound() {
	req := testutil.NewRequest(s.T(), http.MethodDelete, "/patients/999")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}
