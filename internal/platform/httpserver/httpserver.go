// Package httpserver builds the process HTTP server with the timeout
// profile used across the service.
package httpserver

import (
	"net/http"
	"time"
)

// ShutdownTimeout bounds graceful connection draining on exit.
const ShutdownTimeout = 10 * time.Second

// New builds the HTTP server for the patient API. Write timeout leaves
// headroom for paginated listings against a cold database.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
