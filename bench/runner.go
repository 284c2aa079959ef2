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

// Package bench implements the benchmark harness core: the burst driver,
// the device session, the run lifecycle and the report contract.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/bench/params"
	"github.com/devbench/devbench/pkg/cycles"
	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/pkg/private/prom"
	"github.com/devbench/devbench/pkg/private/serrors"
)

// Fatal condition classes. Configuration errors and accounting violations
// abort a run; per-descriptor status failures never do.
var (
	ErrConfig     = serrors.New("invalid configuration")
	ErrAccounting = serrors.New("accounting violation")
)

// Generic parameter defaults.
const (
	DefaultBurstSize  = 32
	DefaultDataSize   = 1024
	DefaultQueueDepth = 512
)

// State is a phase of the run lifecycle.
type State int

const (
	StateUninit State = iota
	StateDeviceReady
	StateDescriptorsReady
	StateRunning
	StateDrained
	StateReported
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninit:
		return "UNINIT"
	case StateDeviceReady:
		return "DEVICE_READY"
	case StateDescriptorsReady:
		return "DESCRIPTORS_READY"
	case StateRunning:
		return "RUNNING"
	case StateDrained:
		return "DRAINED"
	case StateReported:
		return "REPORTED"
	case StateTornDown:
		return "TORN_DOWN"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// RunContext accumulates the counters of one run. Cases feed it from
// Step; the Runner resets it at loop start and reads it once at report
// time. All run accounting lives here, never in globals.
type RunContext struct {
	Bursts       uint64
	Items        uint64
	FailedOps    uint64
	PollTicks    uint64
	Polls        uint64
	InFlight     int
	StatusCounts [device.StatusCount]uint64

	pollHist      prometheus.Observer
	inFlightGauge prometheus.Gauge
}

// Reset clears the counters, keeping the attached observers.
func (rc *RunContext) Reset() {
	*rc = RunContext{pollHist: rc.pollHist, inFlightGauge: rc.inFlightGauge}
	if rc.inFlightGauge != nil {
		rc.inFlightGauge.Set(0)
	}
}

// AddBurst folds one burst result into the run counters.
func (rc *RunContext) AddBurst(res BurstResult) {
	rc.Bursts++
	rc.Items += uint64(res.Drained)
	rc.FailedOps += uint64(res.Failed)
	rc.PollTicks += res.PollTicks
	rc.Polls += uint64(res.Polls)
	for s, n := range res.Statuses {
		if n > 0 {
			rc.StatusCounts[s] += uint64(n)
		}
	}
	if rc.pollHist != nil {
		rc.pollHist.Observe(float64(res.Polls))
	}
}

// TrackInFlight adjusts the in-flight descriptor count by delta.
func (rc *RunContext) TrackInFlight(delta int) {
	rc.InFlight += delta
	if rc.inFlightGauge != nil {
		rc.inFlightGauge.Add(float64(delta))
	}
}

// RunSpec names what to run and how.
type RunSpec struct {
	Case Case
	// Device is the provider name. Empty selects the case's default.
	Device     string
	DeviceArgs map[string]string
	Params     *params.Store
	// Policy overrides the drain policy the case configured in Setup.
	// Nil keeps the case's choice.
	Policy *OverheadPolicy
	// IdleLimit bounds consecutive empty polls per burst; 0 is unbounded.
	IdleLimit int
}

// Runner drives one case through the lifecycle: session setup, timed
// loop, drain, report, teardown.
type Runner struct {
	// Log defaults to the root logger.
	Log log.Logger
	// Metrics, when set, receives the run counters.
	Metrics *Metrics
	// Ticks overrides the cycle source, for tests.
	Ticks cycles.Source
	// Out is the report destination. Defaults to stdout.
	Out io.Writer
	// StateHook observes lifecycle transitions.
	StateHook func(State)
}

// Run executes the case once and returns its report. Setup failures,
// unconsumed parameters and accounting violations are returned as errors;
// per-descriptor failures only show up in the counters.
func (r *Runner) Run(ctx context.Context, spec RunSpec) (*Report, error) {
	c := spec.Case
	if c == nil {
		return nil, serrors.Join(ErrConfig, nil, "reason", "no case given")
	}
	if spec.Params == nil {
		spec.Params = params.Empty()
	}
	lg := r.log().New("case", c.Name())
	advance := func(next State) {
		if r.StateHook != nil {
			r.StateHook(next)
		}
		lg.Debug("State transition", "state", next)
	}

	burst, err := spec.Params.Int("burst_size", DefaultBurstSize)
	if err == nil && burst <= 0 {
		err = serrors.New("burst size must be positive", "burst_size", burst)
	}
	if err != nil {
		return nil, serrors.Join(ErrConfig, err)
	}
	dataSize, err := spec.Params.Bytes("data_size", DefaultDataSize)
	if err != nil {
		return nil, serrors.Join(ErrConfig, err)
	}
	queueDepth, err := spec.Params.Int("queue_depth", DefaultQueueDepth)
	if err != nil {
		return nil, serrors.Join(ErrConfig, err)
	}
	if burst > queueDepth {
		return nil, serrors.Join(ErrConfig, nil,
			"reason", "burst size exceeds queue depth",
			"burst_size", burst, "queue_depth", queueDepth)
	}

	devName := spec.Device
	devArgs := spec.DeviceArgs
	if devName == "" {
		doc := c.Doc()
		devName = doc.Device
		if devArgs == nil {
			devArgs = doc.DeviceArgs
		}
	}
	if devName == "" {
		devName = "null"
	}

	sess, err := OpenSession(SessionConfig{
		Device:     devName,
		DeviceArgs: devArgs,
		QueueDepth: queueDepth,
		// Destination buffers must absorb expansion: compressed or
		// sealed output can exceed the payload.
		BufSize: 2*dataSize + 64,
	}, lg)
	if err != nil {
		return nil, serrors.Join(ErrConfig, err, "stage", "session")
	}
	if info := sess.Device().Info(); info.MaxBurst > 0 && burst > info.MaxBurst {
		if cerr := sess.Close(); cerr != nil {
			lg.Error("Session close after rejected burst size", "err", cerr)
		}
		return nil, serrors.Join(ErrConfig, nil,
			"reason", "burst size exceeds device limit",
			"burst_size", burst, "max_burst", info.MaxBurst)
	}
	advance(StateDeviceReady)

	driver := &Driver{
		Ticks:     r.ticks(),
		IdleLimit: spec.IdleLimit,
		Log:       lg,
	}
	env := &CaseEnv{Session: sess, Driver: driver, Params: spec.Params, Log: lg}
	if err := c.Setup(ctx, env); err != nil {
		if cerr := sess.Close(); cerr != nil {
			lg.Error("Session close after failed setup", "err", cerr)
		}
		return nil, serrors.Wrap("case setup", err, "case", c.Name())
	}
	if spec.Policy != nil {
		driver.Policy = *spec.Policy
	}
	if rest := spec.Params.Rest(); len(rest) > 0 {
		r.cleanup(c, sess, lg)
		return nil, serrors.Join(ErrConfig, nil,
			"reason", "unrecognized parameters", "keys", strings.Join(rest, ", "))
	}
	advance(StateDescriptorsReady)

	rc := &RunContext{}
	if r.Metrics != nil {
		rc.pollHist = r.Metrics.BurstPolls
		rc.inFlightGauge = r.Metrics.InFlight
	}
	rc.Reset()
	iterations := spec.Params.Iterations()
	lg.Info("Run starting", "device", devName, "iterations", iterations,
		"burst_size", burst, "policy", driver.Policy.String())

	advance(StateRunning)
	src := r.ticks()
	start := src.Ticks()
	var runErr error
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			runErr = serrors.Wrap("run canceled", err, "iteration", i)
			break
		}
		if err := c.Step(rc); err != nil {
			runErr = serrors.Wrap("case step", err, "iteration", i)
			break
		}
	}
	total := src.Ticks() - start

	if runErr == nil {
		if d, ok := c.(Drainer); ok {
			runErr = d.Drain(rc)
		}
	}
	if runErr == nil && rc.InFlight != 0 {
		runErr = serrors.Join(ErrAccounting, nil,
			"reason", "descriptors still in flight", "in_flight", rc.InFlight)
	}
	if runErr != nil {
		r.observeFailure(c.Name(), devName, runErr)
		r.cleanup(c, sess, lg)
		return nil, runErr
	}
	advance(StateDrained)

	useful := total - rc.PollTicks
	report := &Report{TotalCycles: useful}
	c.Metadata(&report.Meta)
	report.Meta.Set("total_poll_cycles", rc.PollTicks)
	report.Meta.Set("total_failed_ops", rc.FailedOps)
	if err := report.Write(r.out()); err != nil {
		r.observeFailure(c.Name(), devName, err)
		r.cleanup(c, sess, lg)
		return nil, serrors.Wrap("writing report", err)
	}
	advance(StateReported)

	if err := c.Teardown(); err != nil {
		if cerr := sess.Close(); cerr != nil {
			lg.Error("Session close after failed teardown", "err", cerr)
		}
		r.observeFailure(c.Name(), devName, err)
		return nil, serrors.Wrap("case teardown", err, "case", c.Name())
	}
	if err := sess.Close(); err != nil {
		r.observeFailure(c.Name(), devName, err)
		return nil, serrors.Wrap("closing session", err)
	}
	advance(StateTornDown)

	r.flushMetrics(c.Name(), devName, rc, useful)
	lg.Info("Run finished", "device", devName,
		"total_cycles", useful,
		"poll_cycles", rc.PollTicks,
		"bursts", rc.Bursts,
		"failed_ops", rc.FailedOps)
	return report, nil
}

// cleanup tears down best-effort after a failed run. Errors are logged,
// not returned, so the original failure stays visible.
func (r *Runner) cleanup(c Case, sess *Session, lg log.Logger) {
	if err := c.Teardown(); err != nil {
		lg.Error("Case teardown", "err", err)
	}
	if err := sess.Close(); err != nil {
		lg.Error("Session close", "err", err)
	}
}

func (r *Runner) flushMetrics(caseName, devName string, rc *RunContext, useful uint64) {
	if r.Metrics == nil {
		return
	}
	m := r.Metrics
	m.Runs.WithLabelValues(caseName, devName, prom.Success).Inc()
	m.Bursts.Add(float64(rc.Bursts))
	m.FailedOps.Add(float64(rc.FailedOps))
	m.PollTicks.Add(float64(rc.PollTicks))
	m.UsefulTicks.Add(float64(useful))
	for s, n := range rc.StatusCounts {
		if n > 0 {
			m.Items.WithLabelValues(device.Status(s).String()).Add(float64(n))
		}
	}
}

func (r *Runner) observeFailure(caseName, devName string, err error) {
	if r.Metrics == nil {
		return
	}
	result := prom.ErrNotClassified
	switch {
	case errors.Is(err, ErrConfig):
		result = prom.ErrConfig
	case errors.Is(err, ErrAccounting):
		result = prom.ErrAccounting
	}
	r.Metrics.Runs.WithLabelValues(caseName, devName, result).Inc()
}

func (r *Runner) log() log.Logger {
	if r.Log != nil {
		return r.Log
	}
	return log.Root()
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) ticks() cycles.Source {
	if r.Ticks == nil {
		r.Ticks = cycles.NewMonotonic()
	}
	return r.Ticks
}
