// Package metrics exposes Prometheus counters for the orchestration core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueryAttempts counts individual ask attempts by outcome.
	QueryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "askdoc",
		Subsystem: "query",
		Name:      "attempts_total",
		Help:      "Ask attempts broken down by outcome.",
	}, []string{"outcome"})

	// QueriesExhausted counts user actions whose ask retry budget ran out.
	QueriesExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "askdoc",
		Subsystem: "query",
		Name:      "exhausted_total",
		Help:      "Queries that failed after exhausting the attempt budget.",
	})

	// TokenRefreshes counts refresh attempts by outcome.
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "askdoc",
		Subsystem: "auth",
		Name:      "token_refreshes_total",
		Help:      "Credential refresh attempts broken down by outcome.",
	}, []string{"outcome"})

	// Uploads counts file uploads by outcome.
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "askdoc",
		Subsystem: "gateway",
		Name:      "uploads_total",
		Help:      "File uploads broken down by outcome.",
	}, []string{"outcome"})

	// Cleanups counts uploaded-file delete attempts by outcome.
	Cleanups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "askdoc",
		Subsystem: "gateway",
		Name:      "cleanups_total",
		Help:      "Uploaded-file cleanup deletes broken down by outcome.",
	}, []string{"outcome"})
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome maps an error to its counter label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
