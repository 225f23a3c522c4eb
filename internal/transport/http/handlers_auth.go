package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"medrec/internal/auth"
	pkgerrors "medrec/pkg/errors"
)

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authenticateResponse struct {
	Token string `json:"token"`
}

func handleAuthenticate(authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authenticateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "username and password are required"))
			return
		}

		token, err := authSvc.Authenticate(req.Username, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authenticateResponse{Token: token})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := pkgerrors.CodeInternal
	var domainErr pkgerrors.Error
	if errors.As(err, &domainErr) {
		status = pkgerrors.ToHTTPStatus(domainErr.Code)
		code = domainErr.Code
	}
	writeJSON(w, status, map[string]string{
		"error":   string(code),
		"message": err.Error(),
	})
}
