package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"medrec/internal/auth"
	"medrec/internal/event"
	patienthandler "medrec/internal/patient/handler"
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

// RouterSuite exercises the assembled HTTP surface end to end, from
// authentication through an authenticated mutation to the emitted event.
type RouterSuite struct {
	suite.Suite
	router    http.Handler
	publisher *capturePublisher
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	s.publisher = &capturePublisher{}
	svc := service.New(store.NewMemoryStore(), s.publisher, logger)

	jwtSvc := auth.NewJWTService("test-key", "medrec-test", time.Hour)
	authSvc := auth.NewService(jwtSvc)
	s.Require().NoError(authSvc.Seed("admin", "s3cret"))

	s.router = NewRouter(patienthandler.New(svc), authSvc, jwtSvc, prometheus.NewRegistry())
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) authenticate() string {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/authenticate",
		map[string]string{"username": "admin", "password": "s3cret"})
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp map[string]string
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp["token"])
	return resp["token"]
}

func (s *RouterSuite) TestAuthenticateRejectsBadCredentials() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/authenticate",
		map[string]string{"username": "admin", "password": "wrong"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusUnauthorized, rr.Code)
	testutil.AssertErrorCode(s.T(), rr, "unauthorized")
}

func (s *RouterSuite) TestAuthenticateRequiresBothFields() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/authenticate",
		map[string]string{"username": "admin"})
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RouterSuite) TestAPIRequiresToken() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/patients")
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *RouterSuite) TestAPIRejectsInvalidToken() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/patients")
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *RouterSuite) TestAuthenticatedMutationCarriesPrincipal() {
	token := s.authenticate()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/patients", map[string]string{
		"name":             "Alice Smith",
		"email":            "alice@example.com",
		"bloodGroup":       "A_POSITIVE",
		"patientDiagnosis": "Seasonal flu",
		"diagnosisDate":    "2025-03-10",
	})
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.DoRequest(s.router, req)

	s.Require().Equal(http.StatusCreated, rr.Code)
	s.Require().Len(s.publisher.published, 1)
	s.Equal("admin", s.publisher.published[0].TriggeredBy)
}

func (s *RouterSuite) TestHealthz() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/healthz")
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestMetricsEndpoint() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/metrics")
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)
}
