// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "tutor"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// =============================================================================
// STATS
// =============================================================================

// Stats summarizes the exchanges recorded so far in this process.
type Stats struct {
	Exchanges      int
	Failures       int
	InFlight       int
	TotalLatency   time.Duration
	AverageLatency time.Duration
	Agents         int
	ByAgent        []AgentCount
	StartTime      time.Time
}

// AgentCount is the number of replies attributed to one agent.
type AgentCount struct {
	Agent string
	Count int
}

// SuccessRate returns the fraction of exchanges that succeeded, 0 when none.
func (s Stats) SuccessRate() float64 {
	if s.Exchanges == 0 {
		return 0
	}
	return float64(s.Exchanges-s.Failures) / float64(s.Exchanges)
}

// =============================================================================
// METRICS
// =============================================================================

// Metrics records exchange outcomes. The zero value is not usable; call New.
type Metrics struct {
	registry *prometheus.Registry

	exchanges *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	agents    prometheus.Gauge

	mu      sync.Mutex
	stats   Stats
	byAgent map[string]int
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchanges_total",
			Help:      "Chat exchanges by outcome and replying agent.",
		}, []string{"outcome", "agent"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Time from submit until the reply was appended.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exchanges_in_flight",
			Help:      "Exchanges awaiting a reply.",
		}),
		agents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "agents_loaded",
			Help:      "Agents reported by the backend directory.",
		}),
		byAgent: make(map[string]int),
	}
	m.stats.StartTime = time.Now()

	reg.MustRegister(
		m.exchanges,
		m.latency,
		m.inFlight,
		m.agents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry for serving or gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ExchangeStarted marks one exchange as in flight.
func (m *Metrics) ExchangeStarted() {
	m.inFlight.Inc()

	m.mu.Lock()
	m.stats.InFlight++
	m.mu.Unlock()
}

// ExchangeFinished records a completed exchange. agent is the replying agent
// on success and ignored on failure.
func (m *Metrics) ExchangeFinished(agent string, ok bool, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
		agent = "error"
	}
	if agent == "" {
		agent = "unknown"
	}

	m.inFlight.Dec()
	m.exchanges.WithLabelValues(outcome, agent).Inc()
	m.latency.WithLabelValues(outcome).Observe(elapsed.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.InFlight--
	m.stats.Exchanges++
	m.stats.TotalLatency += elapsed
	if !ok {
		m.stats.Failures++
	} else {
		m.byAgent[agent]++
	}
}

// AgentsLoaded records the size of the agent directory.
func (m *Metrics) AgentsLoaded(n int) {
	m.agents.Set(float64(n))

	m.mu.Lock()
	m.stats.Agents = n
	m.mu.Unlock()
}

// Snapshot returns the current statistics.
func (m *Metrics) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	if s.Exchanges > 0 {
		s.AverageLatency = s.TotalLatency / time.Duration(s.Exchanges)
	}
	s.ByAgent = make([]AgentCount, 0, len(m.byAgent))
	for agent, n := range m.byAgent {
		s.ByAgent = append(s.ByAgent, AgentCount{Agent: agent, Count: n})
	}
	sort.Slice(s.ByAgent, func(i, j int) bool {
		if s.ByAgent[i].Count != s.ByAgent[j].Count {
			return s.ByAgent[i].Count > s.ByAgent[j].Count
		}
		return s.ByAgent[i].Agent < s.ByAgent[j].Agent
	})
	return s
}
