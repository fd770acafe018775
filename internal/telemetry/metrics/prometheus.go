package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func SetupPrometheus(extra ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	// Add Go module build info, runtime metrics and process collectors.
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if len(extra) > 0 {
		promRegistry.MustRegister(extra...)
	}

	return promRegistry
}

// ObserveStorageOp records the result and duration of one persistence operation.
// A nil manager is allowed so callers do not need to guard.
func (m *Manager) ObserveStorageOp(op string, begin time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CounterStorageOps.With(prometheus.Labels{"op": op, "status": status}).Inc()
	m.HistogramStorageDuration.With(prometheus.Labels{"op": op}).Observe(time.Since(begin).Seconds())
}
