package reload

import "github.com/prometheus/client_golang/prometheus"

var reloadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pluginbuilder",
		Subsystem: "reload",
		Name:      "total",
		Help:      "Plugin reload attempts by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(reloadsTotal)
}
