package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the citizens module.
type Metrics struct {
	ImportsCreated     prometheus.Counter
	CitizensImported   prometheus.Counter
	CitizenUpdates     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	ReportDuration     *prometheus.HistogramVec
}

// New creates the citizens module metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ImportsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_imports_created_total",
			Help: "Total number of imports stored",
		}),
		CitizensImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_citizens_imported_total",
			Help: "Total number of citizens received in stored imports",
		}),
		CitizenUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_citizen_updates_total",
			Help: "Total number of applied citizen updates",
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "census_validation_failures_total",
			Help: "Rejected create and update requests by error code",
		}, []string{"operation", "code"}),
		ReportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "census_report_duration_seconds",
			Help:    "Time spent deriving a report from a stored import",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"report"}), // report: "birthdays", "age_percentiles"
	}
}

// IncrementImportsCreated records a stored import and its size.
func (m *Metrics) IncrementImportsCreated(citizens int) {
	if m != nil {
		m.ImportsCreated.Inc()
		m.CitizensImported.Add(float64(citizens))
	}
}

func (m *Metrics) IncrementCitizenUpdates() {
	if m != nil {
		m.CitizenUpdates.Inc()
	}
}

// IncrementValidationFailure records a rejected request.
func (m *Metrics) IncrementValidationFailure(operation, code string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(operation, code).Inc()
	}
}

// ObserveReportDuration records how long a report took to derive.
func (m *Metrics) ObserveReportDuration(report string, d time.Duration) {
	if m != nil {
		m.ReportDuration.WithLabelValues(report).Observe(d.Seconds())
	}
}
