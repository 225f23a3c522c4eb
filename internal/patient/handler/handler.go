// Package handler is the thin HTTP layer over the patient service. It
// delegates to the service without embedding business logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"medrec/internal/patient/models"
	"medrec/internal/patient/service"
	"medrec/internal/patient/store"
	pkgerrors "medrec/pkg/errors"
)

const maxPageSize = 100

// PatientService is the service surface the handler consumes.
type PatientService interface {
	Create(ctx context.Context, in service.Input) (*models.Patient, error)
	Get(ctx context.Context, id int64) (*models.Patient, error)
	List(ctx context.Context) ([]*models.Patient, error)
	ListPage(ctx context.Context, page store.Page) ([]*models.Patient, int64, error)
	Update(ctx context.Context, id int64, in service.Input) (*models.Patient, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	patients PatientService
}

func New(patients PatientService) *Handler {
	return &Handler{patients: patients}
}

// Register mounts the patient routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/patients", h.create)
	r.Get("/patients", h.list)
	r.Get("/patients/paginated", h.listPaginated)
	r.Get("/patients/{id}", h.get)
	r.Put("/patients/{id}", h.update)
	r.Delete("/patients/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	patient, err := h.patients.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(patient))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	patient, err := h.patients.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(patient))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponses(patients))
}

func (h *Handler) listPaginated(w http.ResponseWriter, r *http.Request) {
	page := store.Page{
		Number:  queryInt(r, "page", 0),
		Size:    queryInt(r, "size", 20),
		SortBy:  queryOr(r, "sortBy", "id"),
		SortDir: queryOr(r, "sortDir", "asc"),
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
	if page.Size < 1 || page.Number < 0 {
		writeError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid page parameters"))
		return
	}

	patients, total, err := h.patients.ListPage(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Content:       toResponses(patients),
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: total,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	patient, err := h.patients.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(patient))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.patients.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid patient id")
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func queryOr(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation to HTTP responses so all
// handlers produce consistent JSON error envelopes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(pkgerrors.CodeInternal)
	var domainErr pkgerrors.Error
	if errors.As(err, &domainErr) {
		status = pkgerrors.ToHTTPStatus(domainErr.Code)
		code = string(domainErr.Code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": err.Error(),
	})
}
