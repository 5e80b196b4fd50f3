package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters and a histogram for served HTTP requests,
// a histogram for database query latency, and counters for employee events.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	EmployeesCreated    prometheus.Counter
	DuplicateEmails     prometheus.Counter
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employeeapi_http_requests_total",
			Help: "Total number of HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employeeapi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employeeapi_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'save_employee', 'find_employee_by_id'
		EmployeesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "employeeapi_employees_created_total",
			Help: "Total number of employees created.",
		}),
		DuplicateEmails: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "employeeapi_duplicate_emails_total",
			Help: "Total number of employee creations rejected because the email was already taken.",
		}),
	}

	return metrics
}
