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
	"github.com/devbench/devbench/bench/device"
)

func init() {
	device.Register("null", func(args map[string]string) (device.Device, error) {
		if err := noArgs("null", args); err != nil {
			return nil, err
		}
		return newNull(), nil
	})
}

// newNull returns a device that completes every descriptor immediately.
// When both buffers are attached it copies source to destination, which
// stands in for a plain DMA engine.
func newNull() device.Device {
	d := &base{
		info:      device.Info{Name: "null", MaxQueues: 16, MaxBurst: 256},
		makeXform: func(spec device.XformSpec) (any, error) { return nil, nil },
	}
	d.newQueue = func(depth int) device.Queue {
		return newSoftQueue(d, nullProcess, depth)
	}
	return d
}

func nullProcess(op *device.Op) device.Status {
	if op.Src == nil || op.Dst == nil {
		return device.StatusSuccess
	}
	src := op.Src.Bytes()
	if op.Offset < 0 || op.Length < 0 || op.Offset+op.Length > len(src) {
		return device.StatusInvalidArgs
	}
	src = src[op.Offset : op.Offset+op.Length]
	region, err := op.Dst.Append(len(src))
	if err != nil {
		return device.StatusOutOfSpaceTerminated
	}
	copy(region, src)
	op.Consumed = len(src)
	op.Produced = len(src)
	return device.StatusSuccess
}
