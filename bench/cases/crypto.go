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

const (
	aes128KeyLen = 16
	gcmIVLen     = 12
	gcmTagLen    = 16
)

// aes128Key returns the fixed benchmark key, byte i holds i.
func aes128Key() []byte {
	key := make([]byte, aes128KeyLen)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func init() {
	Register("encrypt_burst", func() bench.Case { return &cryptoCase{} })
	Register("decrypt_burst", func() bench.Case { return &cryptoCase{decrypt: true} })
	Register("encrypt_wait_burst", func() bench.Case { return &cryptoCase{wait: true} })
	Register("decrypt_wait_burst", func() bench.Case {
		return &cryptoCase{decrypt: true, wait: true}
	})
}

// cryptoCase submits AEAD bursts. The wait variants poll each burst to
// completion; the no-wait variants make a single dequeue attempt per step
// and track what stays in flight, draining it after the timed region.
// With decrypt set, setup runs one untimed encryption pass and the timed
// loop opens its output instead.
type cryptoCase struct {
	decrypt bool
	wait    bool

	burst    int
	dataSize int

	driver *bench.Driver
	queue  device.Queue
	ops    []*device.Op
	srcs   []*device.Buf
	dsts   []*device.Buf
	ivs    [][]byte
}

func (c *cryptoCase) Name() string {
	switch {
	case c.decrypt && c.wait:
		return "decrypt_wait_burst"
	case c.decrypt:
		return "decrypt_burst"
	case c.wait:
		return "encrypt_wait_burst"
	}
	return "encrypt_burst"
}

func (c *cryptoCase) Doc() bench.CaseDoc {
	op := "Encryption"
	if c.decrypt {
		op = "Decryption"
	}
	summary := op + " burst submit with single-poll dequeue"
	if c.wait {
		summary = op + " burst submit and drain"
	}
	return bench.CaseDoc{
		Summary: summary,
		Device:  "soft-crypto",
		Params:  "burst_size, data_size",
	}
}

func (c *cryptoCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	burst, err := env.Params.Int("burst_size", bench.DefaultBurstSize)
	if err != nil {
		return err
	}
	dataSize, err := env.Params.Bytes("data_size", bench.DefaultDataSize)
	if err != nil {
		return err
	}
	if dataSize < gcmTagLen {
		return serrors.New("data size below the GCM tag",
			"data_size", dataSize, "tag_len", gcmTagLen)
	}
	// Ciphertext plus tag fills exactly data_size bytes.
	plainLen := dataSize - gcmTagLen

	encXf, err := env.Session.CreateXform(device.XformSpec{
		Op:     device.XformEncrypt,
		Key:    aes128Key(),
		IVLen:  gcmIVLen,
		TagLen: gcmTagLen,
	})
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
	if err := bench.FillDeterministic(srcs, plainLen); err != nil {
		return err
	}
	ivs := make([][]byte, burst)
	for i := range ivs {
		iv := make([]byte, gcmIVLen)
		for j := range iv {
			iv[j] = byte(i + j)
		}
		ivs[i] = iv
	}
	for i, op := range ops {
		op.Src = srcs[i]
		op.Dst = dsts[i]
		op.Offset = 0
		op.Length = plainLen
		op.IV = ivs[i]
		op.Xform = encXf
	}

	c.burst = burst
	c.dataSize = dataSize
	c.driver = env.Driver
	c.queue = env.Session.Queue()
	c.ops = ops
	c.srcs = srcs
	c.dsts = dsts
	c.ivs = ivs
	if c.wait {
		env.Driver.Policy = bench.OverheadUntilFirstYield
	}

	if !c.decrypt {
		return nil
	}
	return c.prepareDecrypt(env)
}

// prepareDecrypt encrypts the payloads once, untimed, and rewires the
// descriptors so the timed loop opens dsts back into srcs.
func (c *cryptoCase) prepareDecrypt(env *bench.CaseEnv) error {
	decXf, err := env.Session.CreateXform(device.XformSpec{
		Op:     device.XformDecrypt,
		Key:    aes128Key(),
		IVLen:  gcmIVLen,
		TagLen: gcmTagLen,
	})
	if err != nil {
		return err
	}
	res, err := c.driver.SubmitAndDrain(c.queue, c.ops)
	if err != nil {
		return serrors.Wrap("priming ciphertexts", err)
	}
	if res.Drained != len(c.ops) {
		return serrors.New("priming pass lost descriptors",
			"enqueued", res.Enqueued, "drained", res.Drained)
	}
	for i, op := range c.ops {
		if s := device.Classify(op.Status); s != device.StatusSuccess {
			return serrors.New("priming encryption failed",
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

func (c *cryptoCase) Step(rc *bench.RunContext) error {
	for _, op := range c.ops {
		op.Dst.Reset()
	}
	if c.wait {
		res, err := c.driver.SubmitAndDrain(c.queue, c.ops)
		rc.AddBurst(res)
		return err
	}
	enqueued, drained := c.driver.SubmitPollOnce(c.queue, c.ops)
	rc.Bursts++
	rc.Items += uint64(drained)
	rc.Polls++
	rc.TrackInFlight(enqueued - drained)
	return nil
}

// Drain collects descriptors the single-poll steps left in flight. It
// stops on the first poll that makes no progress; whatever remains is an
// accounting violation the runner reports.
func (c *cryptoCase) Drain(rc *bench.RunContext) error {
	drained := c.driver.DrainRemaining(c.queue, rc.InFlight)
	rc.TrackInFlight(-drained)
	return nil
}

func (c *cryptoCase) Teardown() error {
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

func (c *cryptoCase) Metadata(m *bench.Metadata) {
	m.Set("burst_size", c.burst)
}
