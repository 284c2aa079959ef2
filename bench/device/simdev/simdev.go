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

// Package simdev provides a simulated device with scriptable behavior.
// It completes descriptors without doing any work, which makes it useful
// both for exercising harness plumbing in tests and for measuring the
// harness's own overhead.
package simdev

import (
	"strconv"
	"strings"

	"github.com/eapache/queue"

	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/private/serrors"
)

const (
	maxQueues = 16
	maxBurst  = 256
)

func init() {
	device.Register("sim", func(args map[string]string) (device.Device, error) {
		var script Script
		if v, ok := args["yields"]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, serrors.Wrap("parsing yields", err, "value", v)
			}
			script.YieldPolls = n
		}
		if v, ok := args["accept"]; ok {
			for _, part := range strings.Split(v, ",") {
				n, err := strconv.Atoi(part)
				if err != nil {
					return nil, serrors.Wrap("parsing accept", err, "value", v)
				}
				script.Accept = append(script.Accept, n)
			}
		}
		return New(script), nil
	})
}

// Script determines how the simulated device responds to bursts. The zero
// value accepts every burst in full and completes it on the next poll.
type Script struct {
	// Accept holds the number of descriptors accepted by successive
	// enqueue calls. Once the slice is exhausted, bursts are accepted
	// in full, subject to queue space.
	Accept []int
	// YieldPolls is the number of dequeue calls that return zero
	// completions after each enqueue, before pending descriptors
	// become visible.
	YieldPolls int
	// Statuses overrides the completion status of individual
	// descriptors, keyed by submission order across all bursts.
	// Descriptors without an entry complete successfully.
	Statuses map[int]device.Status
	// Lose marks submission indices that are accepted but never
	// complete.
	Lose map[int]bool
	// CompleteMax caps how many descriptors a single dequeue returns.
	// Zero means no cap.
	CompleteMax int
}

type state int

const (
	stateNew state = iota
	stateConfigured
	stateStarted
	stateStopped
	stateClosed
)

// Device is a scriptable in-memory device. It is not safe for concurrent
// use; the harness drives every queue from a single goroutine.
type Device struct {
	script     Script
	state      state
	queues     []*simQueue
	submitted  int
	acceptIdx  int
	xformsLive int
}

// New returns a device that behaves according to the given script.
func New(script Script) *Device {
	return &Device{script: script}
}

func (d *Device) Configure(cfg device.Config) error {
	if d.state != stateNew && d.state != stateConfigured {
		return serrors.Join(device.ErrInvalidState, nil, "op", "configure", "state", d.state)
	}
	if cfg.Queues <= 0 || cfg.Queues > maxQueues {
		return serrors.New("invalid queue count", "queues", cfg.Queues, "max", maxQueues)
	}
	if cfg.QueueDepth <= 0 {
		return serrors.New("invalid queue depth", "depth", cfg.QueueDepth)
	}
	d.queues = make([]*simQueue, cfg.Queues)
	for i := range d.queues {
		d.queues[i] = &simQueue{
			dev:     d,
			pending: queue.New(),
			depth:   cfg.QueueDepth,
		}
	}
	d.state = stateConfigured
	return nil
}

func (d *Device) Start() error {
	if d.state != stateConfigured && d.state != stateStopped {
		return serrors.Join(device.ErrInvalidState, nil, "op", "start", "state", d.state)
	}
	d.state = stateStarted
	return nil
}

func (d *Device) Stop() error {
	if d.state != stateStarted {
		return serrors.Join(device.ErrInvalidState, nil, "op", "stop", "state", d.state)
	}
	d.state = stateStopped
	return nil
}

func (d *Device) Close() error {
	if d.state == stateStarted {
		return serrors.Join(device.ErrInvalidState, nil, "op", "close", "state", d.state)
	}
	d.state = stateClosed
	return nil
}

func (d *Device) CreateXform(spec device.XformSpec) (*device.Xform, error) {
	if d.state == stateClosed {
		return nil, serrors.Join(device.ErrInvalidState, nil, "op", "create xform")
	}
	d.xformsLive++
	return device.NewXform(spec, nil, func(any) { d.xformsLive-- }), nil
}

func (d *Device) Queue(i int) (device.Queue, bool) {
	if i < 0 || i >= len(d.queues) {
		return nil, false
	}
	return d.queues[i], true
}

func (d *Device) Info() device.Info {
	return device.Info{Name: "sim", MaxQueues: maxQueues, MaxBurst: maxBurst}
}

// Submitted returns the number of descriptors accepted so far.
func (d *Device) Submitted() int { return d.submitted }

// XformsLive returns the number of transforms created and not yet released.
func (d *Device) XformsLive() int { return d.xformsLive }

func (d *Device) nextAccept() int {
	if d.acceptIdx >= len(d.script.Accept) {
		return -1
	}
	n := d.script.Accept[d.acceptIdx]
	d.acceptIdx++
	return n
}

type simQueue struct {
	dev     *Device
	pending *queue.Queue
	depth   int
	yields  int
}

func (q *simQueue) EnqueueBurst(ops []*device.Op) int {
	if q.dev.state != stateStarted {
		return 0
	}
	n := len(ops)
	if space := q.depth - q.pending.Length(); n > space {
		n = space
	}
	if k := q.dev.nextAccept(); k >= 0 && k < n {
		n = k
	}
	for i := 0; i < n; i++ {
		idx := q.dev.submitted
		q.dev.submitted++
		op := ops[i]
		if s, ok := q.dev.script.Statuses[idx]; ok {
			op.Status = s
		} else {
			op.Status = device.StatusSuccess
		}
		op.Consumed = op.Length
		op.Produced = op.Length
		if q.dev.script.Lose[idx] {
			continue
		}
		q.pending.Add(op)
	}
	q.yields = q.dev.script.YieldPolls
	return n
}

func (q *simQueue) DequeueBurst(out []*device.Op) int {
	if q.dev.state != stateStarted {
		return 0
	}
	if q.pending.Length() == 0 {
		return 0
	}
	if q.yields > 0 {
		q.yields--
		return 0
	}
	n := len(out)
	if m := q.pending.Length(); n > m {
		n = m
	}
	if c := q.dev.script.CompleteMax; c > 0 && n > c {
		n = c
	}
	for i := 0; i < n; i++ {
		out[i] = q.pending.Remove().(*device.Op)
	}
	return n
}
