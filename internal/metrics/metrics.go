// Package metrics records operation counts and latencies. The Prometheus
// recorder keeps its own registry so tests and the optional /metrics
// listener never touch the global default.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation names.
const (
	OpEvaluate  = "evaluate"
	OpCommit    = "commit"
	OpRemove    = "remove"
	OpClear     = "clear"
	OpExport    = "export"
	OpAssistant = "assistant"
	OpPersist   = "persist"
)

// Recorder observes the outcome and duration of an operation.
type Recorder interface {
	Observe(ctx context.Context, op string, success bool, d time.Duration)
}

// Nop discards observations.
type Nop struct{}

// Observe implements Recorder.
func (Nop) Observe(context.Context, string, bool, time.Duration) {}

// Prometheus is a Recorder backed by a private Prometheus registry.
type Prometheus struct {
	registry *prometheus.Registry
	results  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	ledger   prometheus.Gauge
}

// Compile-time interface checks.
var (
	_ Recorder = Nop{}
	_ Recorder = (*Prometheus)(nil)
)

// NewPrometheus creates the recorder and registers its collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calcsite",
			Name:      "operations_total",
			Help:      "Operations by name and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "calcsite",
			Name:      "operation_duration_seconds",
			Help:      "Operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		ledger: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "calcsite",
			Name:      "ledger_items",
			Help:      "Items currently in the bill of quantities.",
		}),
	}
	p.registry.MustRegister(p.results, p.duration, p.ledger)
	return p
}

// Observe implements Recorder.
func (p *Prometheus) Observe(_ context.Context, op string, success bool, d time.Duration) {
	result := "success"
	if !success {
		result = "error"
	}
	p.results.WithLabelValues(op, result).Inc()
	p.duration.WithLabelValues(op).Observe(d.Seconds())
}

// SetLedgerSize records the current item count.
func (p *Prometheus) SetLedgerSize(n int) { p.ledger.Set(float64(n)) }

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (p *Prometheus) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Since is a small helper for deferred observations:
//
//	defer metrics.Since(ctx, rec, metrics.OpCommit, time.Now(), &err)
func Since(ctx context.Context, rec Recorder, op string, start time.Time, errp *error) {
	ok := errp == nil || *errp == nil
	rec.Observe(ctx, op, ok, time.Since(start))
}
