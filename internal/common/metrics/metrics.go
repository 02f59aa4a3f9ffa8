// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_attempts_total",
			Help: "Total number of profile extraction attempts by outcome",
		},
		[]string{"source", "outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "extraction_duration_seconds",
			Help: "Duration of profile extraction in seconds",
		},
		[]string{"source"},
	)

	TranscriptsFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_transcripts_filtered_total",
			Help: "Total number of voice hypotheses filtered by decision",
		},
		[]string{"decision"},
	)

	AssistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Total number of assistant requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	ActiveVoiceSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voice_sessions_active",
			Help: "Number of open voice dictation streams",
		},
	)
)
