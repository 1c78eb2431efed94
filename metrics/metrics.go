package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SettledBets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_settled_bets_total",
		Help: "Bets transitioned out of PENDING by the settlement engine.",
	})
	SettlementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_settlement_failures_total",
		Help: "Settlement units that aborted and rolled back.",
	})
	AutoSettlePasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_auto_settle_passes_total",
		Help: "Completed auto-settlement poller passes.",
	})
	AutoSettleBookFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_auto_settle_book_failures_total",
		Help: "Books skipped by the poller because of an error.",
	})
)

type HealthFunc func(ctx context.Context) error

// StartServer runs a side HTTP server exposing /metrics and /healthz, away
// from the public API port.
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
