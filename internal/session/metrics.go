package session

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionStartsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pluginbuilder",
		Subsystem: "session",
		Name:      "starts_total",
		Help:      "Build subprocesses started",
	})

	liveSubprocesses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pluginbuilder",
		Subsystem: "session",
		Name:      "live_subprocesses",
		Help:      "Build subprocesses currently held by sessions",
	})

	commandsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pluginbuilder",
		Subsystem: "session",
		Name:      "commands_sent_total",
		Help:      "Commands written to build subprocess stdin",
	}, []string{"result"})

	outputLinesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pluginbuilder",
		Subsystem: "session",
		Name:      "output_lines_total",
		Help:      "Output lines captured from build subprocesses",
	})

	outputDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pluginbuilder",
		Subsystem: "session",
		Name:      "output_dropped_total",
		Help:      "Output lines evicted from a full queue",
	})
)

func init() {
	prometheus.MustRegister(sessionStartsTotal, liveSubprocesses, commandsSentTotal, outputLinesTotal, outputDroppedTotal)
}
