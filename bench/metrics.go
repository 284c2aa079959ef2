// Copyright 2025 SCION Association
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/devbench/devbench/pkg/private/prom"
)

// Metrics holds the Prometheus metrics of the harness. Counters are
// flushed once per run from the run counters; only the poll histogram
// and the in-flight gauge are fed while a run is in progress.
type Metrics struct {
	// Runs counts finished runs by case, device and result.
	Runs *prometheus.CounterVec
	// Bursts counts submitted bursts.
	Bursts prometheus.Counter
	// Items counts drained descriptors by classified status.
	Items *prometheus.CounterVec
	// FailedOps counts descriptors that completed with a failure status.
	FailedOps prometheus.Counter
	// PollTicks accumulates polling overhead ticks.
	PollTicks prometheus.Counter
	// UsefulTicks accumulates reported useful ticks.
	UsefulTicks prometheus.Counter
	// InFlight tracks descriptors submitted but not yet drained.
	InFlight prometheus.Gauge
	// BurstPolls histograms dequeue calls needed per burst.
	BurstPolls prometheus.Histogram
}

// NewMetrics creates the harness metrics and registers them with reg.
// A nil registerer leaves them unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prom.Namespace,
				Name:      "runs_total",
				Help:      "Finished benchmark runs.",
			},
			[]string{prom.LabelCase, prom.LabelDevice, prom.LabelResult},
		),
		Bursts: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: prom.Namespace,
				Name:      "bursts_total",
				Help:      "Submitted descriptor bursts.",
			},
		),
		Items: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prom.Namespace,
				Name:      "items_total",
				Help:      "Drained descriptors by completion status.",
			},
			[]string{prom.LabelStatus},
		),
		FailedOps: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: prom.Namespace,
				Name:      "failed_ops_total",
				Help:      "Descriptors that completed with a failure status.",
			},
		),
		PollTicks: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: prom.Namespace,
				Name:      "poll_ticks_total",
				Help:      "Ticks spent polling for completions.",
			},
		),
		UsefulTicks: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: prom.Namespace,
				Name:      "useful_ticks_total",
				Help:      "Reported useful ticks.",
			},
		),
		InFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: prom.Namespace,
				Name:      "in_flight",
				Help:      "Descriptors submitted but not yet drained.",
			},
		),
		BurstPolls: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: prom.Namespace,
				Name:      "burst_polls",
				Help:      "Dequeue calls needed to drain one burst.",
				Buckets:   prom.DefaultPollBuckets,
			},
		),
	}
}
