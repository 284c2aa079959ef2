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

package cases

import (
	"context"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/private/serrors"
)

func init() {
	Register("alloc_ops", func() bench.Case { return &allocOpsCase{} })
	Register("alloc_bufs", func() bench.Case { return &allocBufsCase{} })
}

// allocOpsCase bulk-allocates a burst of descriptors and frees them again,
// once per iteration. Nothing is submitted; the cost under measurement is
// the pool round trip.
type allocOpsCase struct {
	pool  *device.OpPool
	burst int
	ops   []*device.Op
}

func (c *allocOpsCase) Name() string { return "alloc_ops" }

func (c *allocOpsCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "Bulk alloc/free of a descriptor burst per iteration",
		Device:  "null",
		Params:  "burst_size",
	}
}

func (c *allocOpsCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	burst, err := env.Params.Int("burst_size", bench.DefaultBurstSize)
	if err != nil {
		return err
	}
	pool := env.Session.Ops()
	if burst > pool.Capacity() {
		return serrors.New("burst size exceeds descriptor pool",
			"burst_size", burst, "capacity", pool.Capacity())
	}
	c.pool = pool
	c.burst = burst
	c.ops = make([]*device.Op, burst)
	return nil
}

func (c *allocOpsCase) Step(rc *bench.RunContext) error {
	if err := c.pool.AllocBulk(c.ops); err != nil {
		return err
	}
	for i, op := range c.ops {
		op.Release()
		c.ops[i] = nil
	}
	return nil
}

func (c *allocOpsCase) Teardown() error { return nil }

func (c *allocOpsCase) Metadata(m *bench.Metadata) {
	m.Set("burst_size", c.burst)
}

// allocBufsCase is the buffer pool twin of allocOpsCase.
type allocBufsCase struct {
	pool  *device.BufPool
	burst int
	bufs  []*device.Buf
}

func (c *allocBufsCase) Name() string { return "alloc_bufs" }

func (c *allocBufsCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "Bulk alloc/free of a buffer burst per iteration",
		Device:  "null",
		Params:  "burst_size",
	}
}

func (c *allocBufsCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	burst, err := env.Params.Int("burst_size", bench.DefaultBurstSize)
	if err != nil {
		return err
	}
	pool := env.Session.Bufs()
	if burst > pool.Capacity() {
		return serrors.New("burst size exceeds buffer pool",
			"burst_size", burst, "capacity", pool.Capacity())
	}
	c.pool = pool
	c.burst = burst
	c.bufs = make([]*device.Buf, burst)
	return nil
}

func (c *allocBufsCase) Step(rc *bench.RunContext) error {
	if err := c.pool.AllocBulk(c.bufs); err != nil {
		return err
	}
	for i, b := range c.bufs {
		b.Release()
		c.bufs[i] = nil
	}
	return nil
}

func (c *allocBufsCase) Teardown() error { return nil }

func (c *allocBufsCase) Metadata(m *bench.Metadata) {
	m.Set("burst_size", c.burst)
}
