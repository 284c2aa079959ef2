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

// Package softdev implements software device providers. Providers execute
// descriptors synchronously at enqueue time and park the results in a
// completion queue, preserving the asynchronous submit/poll contract
// without hardware.
package softdev

import (
	"github.com/eapache/queue"

	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/private/serrors"
)

type state int

const (
	stateNew state = iota
	stateConfigured
	stateStarted
	stateStopped
	stateClosed
)

// processFunc executes one descriptor and returns its completion status.
type processFunc func(op *device.Op) device.Status

// xformFunc validates a transform spec and builds the provider payload.
type xformFunc func(spec device.XformSpec) (any, error)

// base carries the lifecycle state machine shared by all providers.
type base struct {
	info      device.Info
	state     state
	queues    []device.Queue
	newQueue  func(depth int) device.Queue
	makeXform xformFunc
}

func (d *base) Configure(cfg device.Config) error {
	if d.state != stateNew && d.state != stateConfigured {
		return serrors.Join(device.ErrInvalidState, nil, "op", "configure", "state", d.state)
	}
	if cfg.Queues <= 0 || cfg.Queues > d.info.MaxQueues {
		return serrors.New("invalid queue count",
			"queues", cfg.Queues, "max", d.info.MaxQueues)
	}
	if cfg.QueueDepth <= 0 {
		return serrors.New("invalid queue depth", "depth", cfg.QueueDepth)
	}
	d.queues = make([]device.Queue, cfg.Queues)
	for i := range d.queues {
		d.queues[i] = d.newQueue(cfg.QueueDepth)
	}
	d.state = stateConfigured
	return nil
}

func (d *base) Start() error {
	if d.state != stateConfigured && d.state != stateStopped {
		return serrors.Join(device.ErrInvalidState, nil, "op", "start", "state", d.state)
	}
	d.state = stateStarted
	return nil
}

func (d *base) Stop() error {
	if d.state != stateStarted {
		return serrors.Join(device.ErrInvalidState, nil, "op", "stop", "state", d.state)
	}
	d.state = stateStopped
	return nil
}

func (d *base) Close() error {
	if d.state == stateStarted {
		return serrors.Join(device.ErrInvalidState, nil, "op", "close", "state", d.state)
	}
	d.state = stateClosed
	return nil
}

func (d *base) CreateXform(spec device.XformSpec) (*device.Xform, error) {
	if d.state == stateClosed {
		return nil, serrors.Join(device.ErrInvalidState, nil, "op", "create xform")
	}
	if d.makeXform == nil {
		return nil, serrors.New("device does not support transforms", "device", d.info.Name)
	}
	payload, err := d.makeXform(spec)
	if err != nil {
		return nil, err
	}
	return device.NewXform(spec, payload, nil), nil
}

func (d *base) Queue(i int) (device.Queue, bool) {
	if i < 0 || i >= len(d.queues) {
		return nil, false
	}
	return d.queues[i], true
}

func (d *base) Info() device.Info { return d.info }

// softQueue runs descriptors through a process function at enqueue time.
// Acceptance is bounded by the free space in the completion queue, so a
// caller that never polls eventually sees short acceptance.
type softQueue struct {
	dev       *base
	process   processFunc
	completed *queue.Queue
	depth     int
}

func newSoftQueue(dev *base, process processFunc, depth int) *softQueue {
	return &softQueue{
		dev:       dev,
		process:   process,
		completed: queue.New(),
		depth:     depth,
	}
}

func (q *softQueue) EnqueueBurst(ops []*device.Op) int {
	if q.dev.state != stateStarted {
		return 0
	}
	n := len(ops)
	if space := q.depth - q.completed.Length(); n > space {
		n = space
	}
	for i := 0; i < n; i++ {
		op := ops[i]
		op.Status = device.Classify(q.process(op))
		q.completed.Add(op)
	}
	return n
}

func (q *softQueue) DequeueBurst(out []*device.Op) int {
	if q.dev.state != stateStarted {
		return 0
	}
	n := len(out)
	if m := q.completed.Length(); n > m {
		n = m
	}
	for i := 0; i < n; i++ {
		out[i] = q.completed.Remove().(*device.Op)
	}
	return n
}

// noArgs rejects unexpected device arguments so that typos surface at
// open time instead of being silently ignored.
func noArgs(name string, args map[string]string) error {
	for k := range args {
		return serrors.New("unexpected device argument", "device", name, "arg", k)
	}
	return nil
}
