package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeValidation, "name must not be empty")
		assert.True(t, HasCode(err, CodeValidation))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("update citizen: %w", New(CodeNotFound, "import not found"))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "failed to load import")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load import: connection refused", err.Error())
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     Code
		expected int
	}{
		{CodeMalformedRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeRelativesConsistency, http.StatusBadRequest},
		{CodeIdentifierConflict, http.StatusBadRequest},
		{CodeImmutableField, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, ToHTTPStatus(tt.code))
		})
	}
}
