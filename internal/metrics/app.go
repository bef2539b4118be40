package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest and chat metrics, registered explicitly from the composition root
// (no init()).
var (
	IngestImportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docket",
			Name:      "ingest_imports_total",
			Help:      "Spreadsheet imports by variant and outcome",
		},
		[]string{"variant", "status"},
	)

	IngestRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docket",
			Name:      "ingest_rows_total",
			Help:      "Evidence rows ingested by variant",
		},
		[]string{"variant"},
	)

	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docket",
			Name:      "chat_requests_total",
			Help:      "Conversational provider calls by model and outcome",
		},
		[]string{"provider", "model", "status"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docket",
			Name:      "chat_request_duration_seconds",
			Help:      "Conversational provider call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	ChatTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docket",
			Name:      "chat_tokens_total",
			Help:      "Tokens consumed by conversational provider calls",
		},
		[]string{"provider", "model", "kind"},
	)
)

// RegisterAppMetrics registers ingest and chat metric vectors.
func RegisterAppMetrics() {
	prometheus.MustRegister(IngestImportsTotal)
	prometheus.MustRegister(IngestRowsTotal)
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(ChatRequestDuration)
	prometheus.MustRegister(ChatTokensTotal)
}
