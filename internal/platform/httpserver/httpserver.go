// Package httpserver constructs the process's HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server. The write timeout stays above the router's
// per-request timeout so the middleware deadline fires first and the client
// still receives a response body.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
