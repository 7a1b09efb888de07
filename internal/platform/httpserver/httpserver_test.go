package httpserver

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	srv := New(":0", http.NotFoundHandler())

	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	assert.Zero(t, srv.WriteTimeout)
	assert.Nil(t, srv.ErrorLog)
}

func TestNewOptions(t *testing.T) {
	srv := New(":0", http.NotFoundHandler(),
		WithWriteTimeout(30*time.Second),
		WithErrorLog(slog.New(slog.DiscardHandler)),
	)

	assert.Equal(t, 30*time.Second, srv.WriteTimeout)
	assert.NotNil(t, srv.ErrorLog)
}
