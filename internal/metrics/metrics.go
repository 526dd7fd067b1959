// Package metrics defines the Prometheus collectors exported by tablesplit.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tablesplit"

// Metrics groups every collector so tests can use a private registry.
type Metrics struct {
	RPCRequests        *prometheus.CounterVec
	RPCDuration        *prometheus.HistogramVec
	BreakdownsComputed prometheus.Counter
	UnallocatedLines   *prometheus.GaugeVec
	ReceiptsRendered   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs handled, by procedure and code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		BreakdownsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breakdowns_computed_total",
			Help:      "Split computations run for a table.",
		}),
		UnallocatedLines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unallocated_lines",
			Help:      "Individual order lines with no assigned diner, by open table.",
		}, []string{"table_id"}),
		ReceiptsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_rendered_total",
			Help:      "Receipts rendered, by format.",
		}, []string{"format"}),
	}
	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.BreakdownsComputed, m.UnallocatedLines, m.ReceiptsRendered)
	return m
}
