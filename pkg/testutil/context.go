package testutil

import (
	"net/http"

	"medrec/pkg/requestcontext"
)

// WithPrincipal attaches an authenticated principal to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithPrincipal(req *http.Request, principal string) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), principal))
}
