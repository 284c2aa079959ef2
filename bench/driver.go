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
	"fmt"

	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/cycles"
	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/pkg/private/serrors"
)

// OverheadPolicy selects which part of the drain loop is charged as
// polling overhead.
type OverheadPolicy int

const (
	// OverheadFullDrain charges the entire drain loop, from the first
	// poll through the last completion.
	OverheadFullDrain OverheadPolicy = iota
	// OverheadUntilFirstYield stops the overhead clock at the last poll
	// that yielded nothing before the first completion. Draining after
	// the device starts yielding counts as useful work.
	OverheadUntilFirstYield
)

func (p OverheadPolicy) String() string {
	switch p {
	case OverheadFullDrain:
		return "full-drain"
	case OverheadUntilFirstYield:
		return "until-first-yield"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParseOverheadPolicy parses the CLI/config spelling of a policy.
func ParseOverheadPolicy(name string) (OverheadPolicy, error) {
	switch name {
	case "full-drain":
		return OverheadFullDrain, nil
	case "until-first-yield":
		return OverheadUntilFirstYield, nil
	}
	return 0, serrors.New("unknown overhead policy", "policy", name,
		"known", "full-drain, until-first-yield")
}

// BurstResult carries the accounting of one submitted burst.
type BurstResult struct {
	// Enqueued is the prefix of the burst the device accepted.
	Enqueued int
	// Drained is the number of completions collected. Equal to Enqueued
	// unless the burst failed.
	Drained int
	// Polls counts dequeue calls, including those that yielded nothing.
	Polls int
	// PollTicks is the polling overhead under the driver's policy.
	PollTicks uint64
	// Failed counts completions with a non-success status. Only filled
	// when status checking is enabled.
	Failed int
	// Statuses histograms completions by classified status. Only filled
	// when status checking is enabled.
	Statuses [device.StatusCount]int
}

// Driver submits descriptor bursts and polls them to completion. It is
// not safe for concurrent use; each run drives its own instance.
type Driver struct {
	// Ticks is the cycle source. Defaults to the monotonic clock.
	Ticks cycles.Source
	// Policy picks the overhead accounting variant.
	Policy OverheadPolicy
	// CheckStatus enables per-completion status classification.
	CheckStatus bool
	// IdleLimit bounds consecutive polls that yield nothing before the
	// burst is abandoned with an accounting error. Zero keeps the
	// unbounded spin.
	IdleLimit int
	// Pause, when set, runs between polls that yielded nothing.
	Pause func()
	Log   log.Logger

	scratch []*device.Op
}

// SubmitAndDrain submits ops as one burst and polls until every accepted
// descriptor has completed. The device may accept a shorter prefix; only
// accepted descriptors are waited for.
func (d *Driver) SubmitAndDrain(q device.Queue, ops []*device.Op) (BurstResult, error) {
	var res BurstResult
	if len(ops) == 0 {
		return res, nil
	}
	src := d.source()
	res.Enqueued = q.EnqueueBurst(ops)
	if res.Enqueued == 0 {
		return res, nil
	}
	out := d.scratchFor(res.Enqueued)

	idle := 0
	yielded := false
	start := src.Ticks()
	pollEnd := start
	for res.Drained < res.Enqueued {
		n := q.DequeueBurst(out[res.Drained:res.Enqueued])
		res.Polls++
		if n == 0 {
			if !yielded {
				pollEnd = src.Ticks()
			}
			idle++
			if d.IdleLimit > 0 && idle >= d.IdleLimit {
				return res, serrors.Join(ErrAccounting, nil,
					"reason", "idle poll limit reached",
					"idle_polls", idle,
					"enqueued", res.Enqueued,
					"drained", res.Drained)
			}
			if d.Pause != nil {
				d.Pause()
			}
			continue
		}
		idle = 0
		yielded = true
		res.Drained += n
	}
	switch d.Policy {
	case OverheadUntilFirstYield:
		res.PollTicks = pollEnd - start
	default:
		res.PollTicks = src.Ticks() - start
	}

	if d.CheckStatus {
		for _, op := range out[:res.Drained] {
			s := device.Classify(op.Status)
			res.Statuses[s]++
			if s.Failure() {
				res.Failed++
				if d.Log != nil {
					d.Log.Debug("Operation failed", "status", s)
				}
			}
		}
	}
	return res, nil
}

// SubmitPollOnce enqueues a burst and makes a single dequeue attempt
// without spinning. The caller tracks descriptors left in flight.
func (d *Driver) SubmitPollOnce(q device.Queue, ops []*device.Op) (enqueued, drained int) {
	enqueued = q.EnqueueBurst(ops)
	out := d.scratchFor(len(ops))
	drained = q.DequeueBurst(out)
	return enqueued, drained
}

// DrainRemaining collects completions left in flight after the timed
// region. It stops once inFlight descriptors have drained or a poll makes
// no progress, whichever comes first, and returns the number collected.
func (d *Driver) DrainRemaining(q device.Queue, inFlight int) int {
	if inFlight <= 0 {
		return 0
	}
	out := d.scratchFor(inFlight)
	total := 0
	for total < inFlight {
		n := q.DequeueBurst(out[:inFlight-total])
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

func (d *Driver) source() cycles.Source {
	if d.Ticks == nil {
		d.Ticks = cycles.NewMonotonic()
	}
	return d.Ticks
}

func (d *Driver) scratchFor(n int) []*device.Op {
	if cap(d.scratch) < n {
		d.scratch = make([]*device.Op, n)
	}
	return d.scratch[:n]
}
