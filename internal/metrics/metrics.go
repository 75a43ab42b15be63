// Package metrics exposes the bot's Prometheus instrumentation.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpdatesHandled counts Telegram updates by update type.
	UpdatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripsplit_updates_handled_total",
		Help: "Telegram updates processed, by update type.",
	}, []string{"type"})

	// HandlerErrors counts update handlers that returned an error.
	HandlerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripsplit_handler_errors_total",
		Help: "Update handlers that failed.",
	})

	// ExpensesCreated counts successfully logged shared expenses.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripsplit_expenses_created_total",
		Help: "Shared expenses logged to the ledger.",
	})

	// DebtsSettled counts debts marked paid, excluding idempotent re-stamps.
	DebtsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripsplit_debts_settled_total",
		Help: "Debts marked as paid.",
	})

	// NotifyFailures counts failed notification deliveries.
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripsplit_notify_failures_total",
		Help: "Notification deliveries that failed.",
	})

	// UpdateDuration observes end-to-end update handling time.
	UpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tripsplit_update_duration_seconds",
		Help:    "Time spent handling one Telegram update.",
		Buckets: prometheus.DefBuckets,
	})
)

// Serve runs the /metrics and /healthz endpoints. It blocks, so callers
// run it in a goroutine; a listen failure is fatal for observability only,
// not for the bot, hence log-and-return.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	slog.Info("Metrics server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server failed", "error", err)
	}
}
