package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"census/pkg/requestcontext"
)

func TestWithClock(t *testing.T) {
	fixed := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	var seen time.Time
	h := WithClock(func() time.Time { return fixed })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Now(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, fixed, seen)
}
