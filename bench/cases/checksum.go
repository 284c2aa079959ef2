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
	"hash/adler32"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/bench/device"
)

func init() {
	Register("checksum", func() bench.Case { return &checksumCase{} })
	Register("cksum_ipv4", func() bench.Case { return &cksumIPv4Case{} })
	Register("memcpy", func() bench.Case { return &memcpyCase{} })
}

// checksumCase runs a software checksum routine over a fixed payload.
// The device plays no part beyond providing the buffer.
type checksumCase struct {
	kind   string
	size   int
	data   []byte
	buf    *device.Buf
	result uint64
}

func (c *checksumCase) Name() string { return "checksum" }

func (c *checksumCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "Software checksum over a payload",
		Device:  "null",
		Params:  "checksum, data_size",
	}
}

func (c *checksumCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	kind, err := env.Params.Enum("checksum", "crc32", "crc32", "adler32", "xxhash32")
	if err != nil {
		return err
	}
	size, err := env.Params.Bytes("data_size", bench.DefaultDataSize)
	if err != nil {
		return err
	}
	buf, err := env.Session.Bufs().Alloc()
	if err != nil {
		return err
	}
	if err := bench.FillDeterministic([]*device.Buf{buf}, size); err != nil {
		buf.Release()
		return err
	}
	c.kind = kind
	c.size = size
	c.buf = buf
	c.data = buf.Bytes()
	return nil
}

func (c *checksumCase) Step(rc *bench.RunContext) error {
	switch c.kind {
	case "crc32":
		c.result = uint64(crc32.ChecksumIEEE(c.data))
	case "adler32":
		c.result = uint64(adler32.Checksum(c.data))
	case "xxhash32":
		c.result = uint64(uint32(xxhash.Sum64(c.data)))
	}
	return nil
}

func (c *checksumCase) Teardown() error {
	if c.buf != nil {
		c.buf.Release()
	}
	return nil
}

func (c *checksumCase) Metadata(m *bench.Metadata) {
	m.Set("checksum", c.kind)
	m.Set("checksum_size", c.size)
	m.Set("checksum_result", c.result)
}

// cksumIPv4Case serializes an Ethernet/IPv4/UDP frame with computed
// checksums per step. Serialization rewrites the checksum fields on the
// layer structs, which the metadata reports.
type cksumIPv4Case struct {
	payloadSize int

	eth     *layers.Ethernet
	ip      *layers.IPv4
	udp     *layers.UDP
	payload gopacket.Payload
	buf     gopacket.SerializeBuffer
	opts    gopacket.SerializeOptions
}

func (c *cksumIPv4Case) Name() string { return "cksum_ipv4" }

func (c *cksumIPv4Case) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "IPv4 and UDP checksum computation via frame serialization",
		Device:  "null",
		Params:  "payload_size",
	}
}

func (c *cksumIPv4Case) Setup(ctx context.Context, env *bench.CaseEnv) error {
	payloadSize, err := env.Params.Bytes("payload_size", 64)
	if err != nil {
		return err
	}
	c.payloadSize = payloadSize
	c.eth, c.ip, c.udp, c.payload, err = udpFrameLayers(payloadSize)
	if err != nil {
		return err
	}
	c.buf = gopacket.NewSerializeBuffer()
	c.opts = gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	// One untimed pass, so malformed layers fail here.
	return gopacket.SerializeLayers(c.buf, c.opts, c.eth, c.ip, c.udp, c.payload)
}

func (c *cksumIPv4Case) Step(rc *bench.RunContext) error {
	return gopacket.SerializeLayers(c.buf, c.opts, c.eth, c.ip, c.udp, c.payload)
}

func (c *cksumIPv4Case) Teardown() error { return nil }

func (c *cksumIPv4Case) Metadata(m *bench.Metadata) {
	m.Set("payload_size", c.payloadSize)
	m.Set("ipv4_checksum", c.ip.Checksum)
	m.Set("udp_checksum", c.udp.Checksum)
}

// memcpyCase copies a payload between two pooled buffers per step.
type memcpyCase struct {
	size int
	src  []byte
	dst  []byte
	bufs []*device.Buf
}

func (c *memcpyCase) Name() string { return "memcpy" }

func (c *memcpyCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "Buffer to buffer copy",
		Device:  "null",
		Params:  "data_size",
	}
}

func (c *memcpyCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	size, err := env.Params.Bytes("data_size", bench.DefaultDataSize)
	if err != nil {
		return err
	}
	bufs, err := env.Session.AllocBufs(2)
	if err != nil {
		return err
	}
	if err := bench.FillDeterministic(bufs[:1], size); err != nil {
		return err
	}
	dst, err := bufs[1].Append(size)
	if err != nil {
		return err
	}
	c.size = size
	c.src = bufs[0].Bytes()
	c.dst = dst
	c.bufs = bufs
	return nil
}

func (c *memcpyCase) Step(rc *bench.RunContext) error {
	copy(c.dst, c.src)
	return nil
}

func (c *memcpyCase) Teardown() error {
	for _, b := range c.bufs {
		b.Release()
	}
	return nil
}

func (c *memcpyCase) Metadata(m *bench.Metadata) {
	m.Set("data_size", c.size)
}
