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
	Register("compress_burst", func() bench.Case { return &compCase{} })
	Register("decompress_burst", func() bench.Case { return &compCase{decompress: true} })
}

// compCase submits bursts of compression descriptors and polls them to
// completion. With decompress set, setup runs one untimed compression
// pass and the timed loop inflates its output instead.
type compCase struct {
	decompress bool

	burst    int
	dataSize int
	cp       compParams

	driver *bench.Driver
	queue  device.Queue
	ops    []*device.Op
	srcs   []*device.Buf
	dsts   []*device.Buf
}

func (c *compCase) Name() string {
	if c.decompress {
		return "decompress_burst"
	}
	return "compress_burst"
}

func (c *compCase) Doc() bench.CaseDoc {
	summary := "Compression burst submit and drain"
	if c.decompress {
		summary = "Decompression burst submit and drain"
	}
	return bench.CaseDoc{
		Summary: summary,
		Device:  "soft-comp",
		Params:  "burst_size, data_size, algorithm, checksum, huffman, window_size",
	}
}

func (c *compCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	burst, err := env.Params.Int("burst_size", bench.DefaultBurstSize)
	if err != nil {
		return err
	}
	dataSize, err := env.Params.Bytes("data_size", bench.DefaultDataSize)
	if err != nil {
		return err
	}
	cp, err := parseCompParams(env.Params)
	if err != nil {
		return err
	}
	compSpec, err := cp.spec(device.XformCompress)
	if err != nil {
		return err
	}
	compXf, err := env.Session.CreateXform(compSpec)
	if err != nil {
		return err
	}

	ops, err := env.Session.AllocOps(burst)
	if err != nil {
		return err
	}
	srcs, err := env.Session.AllocBufs(burst)
	if err != nil {
		return err
	}
	dsts, err := env.Session.AllocBufs(burst)
	if err != nil {
		return err
	}
	if err := bench.FillDeterministic(srcs, dataSize); err != nil {
		return err
	}
	for i, op := range ops {
		op.Src = srcs[i]
		op.Dst = dsts[i]
		op.Offset = 0
		op.Length = dataSize
		op.Xform = compXf
	}

	c.burst = burst
	c.dataSize = dataSize
	c.cp = cp
	c.driver = env.Driver
	c.queue = env.Session.Queue()
	c.ops = ops
	c.srcs = srcs
	c.dsts = dsts
	env.Driver.CheckStatus = true

	if !c.decompress {
		return nil
	}
	return c.prepareDecompress(env, cp)
}

// prepareDecompress compresses the payloads once, untimed, and rewires
// the descriptors so the timed loop inflates dsts back into srcs.
func (c *compCase) prepareDecompress(env *bench.CaseEnv, cp compParams) error {
	decSpec, err := cp.spec(device.XformDecompress)
	if err != nil {
		return err
	}
	decXf, err := env.Session.CreateXform(decSpec)
	if err != nil {
		return err
	}
	res, err := c.driver.SubmitAndDrain(c.queue, c.ops)
	if err != nil {
		return serrors.Wrap("priming compressed payloads", err)
	}
	if res.Drained != len(c.ops) {
		return serrors.New("priming pass lost descriptors",
			"enqueued", res.Enqueued, "drained", res.Drained)
	}
	for i, op := range c.ops {
		if s := device.Classify(op.Status); s != device.StatusSuccess {
			return serrors.New("priming compression failed",
				"index", i, "status", s)
		}
	}
	for i, op := range c.ops {
		op.Src = c.dsts[i]
		op.Length = c.dsts[i].Len()
		c.srcs[i].Reset()
		op.Dst = c.srcs[i]
		op.Xform = decXf
	}
	return nil
}

func (c *compCase) Step(rc *bench.RunContext) error {
	for _, op := range c.ops {
		op.Dst.Reset()
	}
	res, err := c.driver.SubmitAndDrain(c.queue, c.ops)
	rc.AddBurst(res)
	return err
}

func (c *compCase) Teardown() error {
	for _, op := range c.ops {
		op.Release()
	}
	for _, b := range c.srcs {
		b.Release()
	}
	for _, b := range c.dsts {
		b.Release()
	}
	return nil
}

func (c *compCase) Metadata(m *bench.Metadata) {
	m.Set("burst_size", c.burst)
	m.Set("algorithm", c.cp.algorithm)
	m.Set("checksum", c.cp.checksum)
}
