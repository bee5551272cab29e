package builder

import "github.com/prometheus/client_golang/prometheus"

var (
	projectsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pluginbuilder",
			Subsystem: "builder",
			Name:      "projects_created_total",
			Help:      "Project creations by result",
		},
		[]string{"template", "result"},
	)

	buildCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pluginbuilder",
			Subsystem: "builder",
			Name:      "commands_total",
			Help:      "Build commands sent to the session by action",
		},
		[]string{"action"},
	)

	installsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pluginbuilder",
			Subsystem: "builder",
			Name:      "installs_total",
			Help:      "Plugin installs by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(projectsCreatedTotal, buildCommandsTotal, installsTotal)
}
