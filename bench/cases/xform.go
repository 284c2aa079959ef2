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
	"github.com/devbench/devbench/bench/params"
	"github.com/devbench/devbench/pkg/private/serrors"
)

func init() {
	Register("xform_create_free", func() bench.Case { return &xformCreateFreeCase{} })
	Register("session_create_free", func() bench.Case { return &sessionCreateFreeCase{} })
}

// compParams carries the transform parameters shared by the compression
// cases, with the corpus defaults.
type compParams struct {
	algorithm string
	checksum  string
	huffman   string
	window    int
}

func parseCompParams(p *params.Store) (compParams, error) {
	var cp compParams
	var err error
	if cp.algorithm, err = p.Enum("algorithm", "deflate",
		"deflate", "lz4", "null"); err != nil {
		return cp, err
	}
	if cp.checksum, err = p.Enum("checksum", "none",
		"none", "crc32", "adler32", "xxhash32", "combined"); err != nil {
		return cp, err
	}
	if cp.huffman, err = p.Enum("huffman", "dynamic", "dynamic", "fixed"); err != nil {
		return cp, err
	}
	if cp.window, err = p.Int("window_size", 32768); err != nil {
		return cp, err
	}
	if cp.window <= 0 || cp.window&(cp.window-1) != 0 {
		return cp, serrors.New("window size must be a power of two",
			"window_size", cp.window)
	}
	return cp, nil
}

// spec translates the parameters into a transform spec for the given
// direction.
func (cp compParams) spec(op device.XformOp) (device.XformSpec, error) {
	algo, err := device.ParseCompAlgo(cp.algorithm)
	if err != nil {
		return device.XformSpec{}, err
	}
	cks, err := device.ParseChecksum(cp.checksum)
	if err != nil {
		return device.XformSpec{}, err
	}
	huf, err := device.ParseHuffman(cp.huffman)
	if err != nil {
		return device.XformSpec{}, err
	}
	return device.XformSpec{
		Op:         op,
		Comp:       algo,
		Checksum:   cks,
		Huffman:    huf,
		WindowSize: cp.window,
	}, nil
}

// xformCreateFreeCase creates and destroys a compression transform per
// iteration.
type xformCreateFreeCase struct {
	dev  device.Device
	cp   compParams
	spec device.XformSpec
}

func (c *xformCreateFreeCase) Name() string { return "xform_create_free" }

func (c *xformCreateFreeCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "Compression transform create/destroy per iteration",
		Device:  "soft-comp",
		Params:  "algorithm, checksum, huffman, window_size",
	}
}

func (c *xformCreateFreeCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	cp, err := parseCompParams(env.Params)
	if err != nil {
		return err
	}
	spec, err := cp.spec(device.XformCompress)
	if err != nil {
		return err
	}
	// Fail at setup, not mid-loop, when the device rejects the spec.
	xf, err := env.Session.Device().CreateXform(spec)
	if err != nil {
		return err
	}
	xf.Release()
	c.dev = env.Session.Device()
	c.cp = cp
	c.spec = spec
	return nil
}

func (c *xformCreateFreeCase) Step(rc *bench.RunContext) error {
	xf, err := c.dev.CreateXform(c.spec)
	if err != nil {
		return err
	}
	xf.Release()
	return nil
}

func (c *xformCreateFreeCase) Teardown() error { return nil }

func (c *xformCreateFreeCase) Metadata(m *bench.Metadata) {
	m.Set("algorithm", c.cp.algorithm)
	m.Set("checksum", c.cp.checksum)
}

// sessionCreateFreeCase creates and destroys an AEAD transform per
// iteration, the crypto session analogue of xformCreateFreeCase.
type sessionCreateFreeCase struct {
	dev  device.Device
	spec device.XformSpec
}

func (c *sessionCreateFreeCase) Name() string { return "session_create_free" }

func (c *sessionCreateFreeCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "Crypto session create/destroy per iteration",
		Device:  "soft-crypto",
	}
}

func (c *sessionCreateFreeCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	spec := device.XformSpec{
		Op:     device.XformDecrypt,
		Key:    aes128Key(),
		IVLen:  gcmIVLen,
		TagLen: gcmTagLen,
	}
	xf, err := env.Session.Device().CreateXform(spec)
	if err != nil {
		return err
	}
	xf.Release()
	c.dev = env.Session.Device()
	c.spec = spec
	return nil
}

func (c *sessionCreateFreeCase) Step(rc *bench.RunContext) error {
	xf, err := c.dev.CreateXform(c.spec)
	if err != nil {
		return err
	}
	xf.Release()
	return nil
}

func (c *sessionCreateFreeCase) Teardown() error { return nil }

func (c *sessionCreateFreeCase) Metadata(m *bench.Metadata) {}
