package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementImportsCreated(3)
	m.IncrementImportsCreated(2)
	m.IncrementCitizenUpdates()
	m.IncrementValidationFailure("create_import", "validation_error")
	m.ObserveReportDuration("birthdays", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ImportsCreated))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CitizensImported))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CitizenUpdates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("create_import", "validation_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReportDuration))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementImportsCreated(1)
		m.IncrementCitizenUpdates()
		m.IncrementValidationFailure("update_citizen", "invalid_relatives")
		m.ObserveReportDuration("age_percentiles", time.Millisecond)
	})
}
