package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"beacon-deploy-backend/internal/pkg/beacon"
)

type Metrics struct {
	deployments *prometheus.CounterVec
	duration    prometheus.Histogram
	steps       *prometheus.CounterVec
	checks      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		deployments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "beacon",
				Subsystem: "deploy",
				Name:      "requests_total",
				Help:      "Total number of deployment requests by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "beacon",
				Subsystem: "deploy",
				Name:      "duration_seconds",
				Help:      "Duration of deployment requests in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 9), // 0.5s to ~2min
			},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "beacon",
				Subsystem: "deploy",
				Name:      "steps_total",
				Help:      "Total number of remote pipeline steps by step, policy and outcome",
			},
			[]string{"step", "policy", "outcome"},
		),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "beacon",
				Subsystem: "ssh",
				Name:      "checks_total",
				Help:      "Total number of credential checks by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.deployments, m.duration, m.steps, m.checks)
	return m
}

func (m *Metrics) observeDeployment(result string, start time.Time) {
	m.deployments.WithLabelValues(result).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeSteps(report *beacon.Report) {
	if report == nil {
		return
	}
	for _, s := range report.Steps {
		outcome := "ok"
		if !s.Succeeded() {
			outcome = "failed"
		}
		m.steps.WithLabelValues(s.Step, s.Policy.String(), outcome).Inc()
	}
}

func (m *Metrics) observeCheck(result string) {
	m.checks.WithLabelValues(result).Inc()
}
