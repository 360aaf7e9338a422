package todosync

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_sync_operations_total",
			Help: "Todo synchronization operations by result",
		},
		[]string{"operation", "result"},
	)
	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todo_sync_operation_duration_seconds",
			Help:    "Store round trip latency of todo synchronization operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "todo_sessions_active",
			Help: "Live todo sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal, operationDuration, sessionsActive)
}

const (
	opFetch  = "fetch"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)
