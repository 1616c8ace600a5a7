package bwatch

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the per-invocation poll statistics. They live in a
// private registry so they can be dumped to a node_exporter textfile.
type Metrics struct {
	Registry *prometheus.Registry `json:"-"`

	StatRunningJobs  *prometheus.GaugeVec   `json:"-"`
	StatPolls        *prometheus.CounterVec `json:"-"`
	StatPollLatency  *prometheus.SummaryVec `json:"-"`
	StatConsoleLines *prometheus.CounterVec `json:"-"`

	observed []Target
}

func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}
	targetLabels := []string{"kind", "name"}

	m.StatRunningJobs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bwatch_running_jobs",
			Help: "running jobs reported by the daemon"},
		targetLabels)
	m.Registry.MustRegister(m.StatRunningJobs)

	m.StatPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bwatch_polls_total",
			Help: "num of bconsole polls by result"},
		[]string{"kind", "name", "result"})
	m.Registry.MustRegister(m.StatPolls)

	m.StatPollLatency = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "bwatch_poll_latency_seconds",
			Help: "bconsole poll latency",
		}, []string{"kind"})
	m.Registry.MustRegister(m.StatPollLatency)

	m.StatConsoleLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bwatch_console_lines_total",
			Help: "num of lines bconsole wrote, by stream"},
		[]string{"kind", "name", "stream"})
	m.Registry.MustRegister(m.StatConsoleLines)

	return m
}

func (m *Metrics) Observe(s *Status) {
	kind := s.Target.Kind.Keyword()
	result := "ok"
	if s.Err != nil {
		result = "error"
	}

	m.StatRunningJobs.WithLabelValues(kind, s.Target.Name).Set(float64(s.JobCount))
	m.StatPolls.WithLabelValues(kind, s.Target.Name, result).Inc()
	m.StatPollLatency.WithLabelValues(kind).Observe(s.Elapsed.Seconds())
	m.observed = append(m.observed, s.Target)
}

// ConsoleLines reads back the line counter of one target's stream.
func (m *Metrics) ConsoleLines(t Target, stream string) float64 {
	var metric = &dto.Metric{}
	err := m.StatConsoleLines.WithLabelValues(t.Kind.Keyword(), t.Name, stream).Write(metric)
	if err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

// RunningJobs reads back the gauge of one target.
func (m *Metrics) RunningJobs(t Target) float64 {
	var metric = &dto.Metric{}
	err := m.StatRunningJobs.WithLabelValues(t.Kind.Keyword(), t.Name).Write(metric)
	if err != nil {
		return 0
	}
	return metric.GetGauge().GetValue()
}

// TotalRunning sums the running jobs gauge over every observed target.
func (m *Metrics) TotalRunning() float64 {
	total := float64(0)
	seen := map[Target]bool{}
	for _, t := range m.observed {
		if seen[t] {
			continue
		}
		seen[t] = true
		total += m.RunningJobs(t)
	}
	return total
}

// WriteTextfile dumps the registry in the text exposition format,
// atomically replacing path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
