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

package softdev

import (
	"strconv"

	"github.com/eapache/queue"

	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/private/serrors"
)

func init() {
	device.Register("loop", func(args map[string]string) (device.Device, error) {
		sink := false
		for k, v := range args {
			if k != "sink" {
				return nil, serrors.New("unexpected device argument", "device", "loop", "arg", k)
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, serrors.Wrap("parsing sink", err, "value", v)
			}
			sink = b
		}
		return newLoop(sink), nil
	})
}

// newLoop returns a packet loopback device. Descriptors carrying only a
// source buffer are transmissions: the frame bytes are copied onto an
// internal wire and the descriptor completes. Descriptors carrying only a
// destination buffer are receive slots: they complete once a frame is
// available on the wire. With sink enabled, transmitted frames are counted
// and dropped instead of looped back.
func newLoop(sink bool) device.Device {
	d := &loopDevice{sink: sink}
	d.base = base{
		info: device.Info{Name: "loop", MaxQueues: 8, MaxBurst: 256},
		makeXform: func(spec device.XformSpec) (any, error) {
			return nil, serrors.New("device does not support transforms", "device", "loop")
		},
	}
	d.newQueue = func(depth int) device.Queue {
		return &loopQueue{
			dev:       d,
			completed: queue.New(),
			depth:     depth,
		}
	}
	return d
}

type loopDevice struct {
	base
	wire *queue.Queue
	sink bool
}

func (d *loopDevice) Configure(cfg device.Config) error {
	if err := d.base.Configure(cfg); err != nil {
		return err
	}
	d.wire = queue.New()
	return nil
}

type loopQueue struct {
	dev       *loopDevice
	completed *queue.Queue
	pendingRx []*device.Op
	depth     int
}

func (q *loopQueue) EnqueueBurst(ops []*device.Op) int {
	if q.dev.state != stateStarted {
		return 0
	}
	n := len(ops)
	if space := q.depth - q.completed.Length() - len(q.pendingRx); n > space {
		n = space
	}
	for i := 0; i < n; i++ {
		op := ops[i]
		switch {
		case op.Src != nil && op.Dst == nil:
			q.transmit(op)
		case op.Dst != nil && op.Src == nil:
			q.pendingRx = append(q.pendingRx, op)
		default:
			op.Status = device.StatusInvalidArgs
			q.completed.Add(op)
		}
	}
	return n
}

func (q *loopQueue) transmit(op *device.Op) {
	src := op.Src.Bytes()
	if op.Offset < 0 || op.Length < 0 || op.Offset+op.Length > len(src) {
		op.Status = device.StatusInvalidArgs
		q.completed.Add(op)
		return
	}
	if !q.dev.sink {
		frame := make([]byte, op.Length)
		copy(frame, src[op.Offset:op.Offset+op.Length])
		q.dev.wire.Add(frame)
	}
	op.Status = device.StatusSuccess
	op.Consumed = op.Length
	op.Produced = 0
	q.completed.Add(op)
}

func (q *loopQueue) DequeueBurst(out []*device.Op) int {
	if q.dev.state != stateStarted {
		return 0
	}
	// Deliver wire frames into posted receive slots first.
	for len(q.pendingRx) > 0 && q.dev.wire.Length() > 0 {
		op := q.pendingRx[0]
		q.pendingRx = q.pendingRx[1:]
		frame := q.dev.wire.Remove().([]byte)
		region, err := op.Dst.Append(len(frame))
		if err != nil {
			op.Status = device.StatusOutOfSpaceTerminated
		} else {
			copy(region, frame)
			op.Status = device.StatusSuccess
			op.Produced = len(frame)
		}
		q.completed.Add(op)
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
