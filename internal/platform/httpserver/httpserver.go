package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// Option tunes the server returned by New.
type Option func(*http.Server)

// WithErrorLog routes net/http's internal errors (TLS handshakes, hijack
// failures) into the structured logger.
func WithErrorLog(logger *slog.Logger) Option {
	return func(s *http.Server) {
		s.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelWarn)
	}
}

// WithWriteTimeout bounds how long a response may take to write. Imports are
// large, so keep this above the request timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *http.Server) {
		s.WriteTimeout = d
	}
}

// New builds an HTTP server with sane defaults for this project.
func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}
