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
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/private/serrors"
)

func init() {
	Register("tx_burst", func() bench.Case { return &txBurstCase{} })
	Register("rx_burst", func() bench.Case { return &rxBurstCase{} })
}

// udpFrameLayers builds the canonical benchmark frame: fixed MACs,
// 10.0.0.1 to 10.0.0.2, UDP port 53, a patterned payload of the given
// size.
func udpFrameLayers(payloadSize int) (
	*layers.Ethernet, *layers.IPv4, *layers.UDP, gopacket.Payload, error,
) {
	eth := &layers.Ethernet{
		DstMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		Flags:    layers.IPv4DontFragment,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IP{10, 0, 0, 1},
		DstIP:    net.IP{10, 0, 0, 2},
	}
	udp := &layers.UDP{SrcPort: 53, DstPort: 53}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, nil, nil, nil, serrors.Wrap("binding checksum layer", err)
	}
	payload := make(gopacket.Payload, payloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	return eth, ip, udp, payload, nil
}

// serializeUDPFrame renders the canonical frame to bytes.
func serializeUDPFrame(payloadSize int) ([]byte, error) {
	eth, ip, udp, payload, err := udpFrameLayers(payloadSize)
	if err != nil {
		return nil, err
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, payload); err != nil {
		return nil, serrors.Wrap("serializing frame", err)
	}
	frame := make([]byte, len(buf.Bytes()))
	copy(frame, buf.Bytes())
	return frame, nil
}

// txBurstCase enqueues frame transmissions and harvests the completions
// in the same step. Sent frames give up their buffer; each step refills
// from the pool so every iteration pays the clone cost.
type txBurstCase struct {
	burst       int
	payloadSize int
	frame       []byte
	sent        uint64

	driver  *bench.Driver
	queue   device.Queue
	pool    *device.BufPool
	ops     []*device.Op
	srcs    []*device.Buf
	scratch []*device.Op
}

func (c *txBurstCase) Name() string { return "tx_burst" }

func (c *txBurstCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary:    "Packet transmit bursts onto the loopback wire",
		Device:     "loop",
		DeviceArgs: map[string]string{"sink": "true"},
		Params:     "burst_size, payload_size",
	}
}

func (c *txBurstCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	burst, err := env.Params.Int("burst_size", bench.DefaultBurstSize)
	if err != nil {
		return err
	}
	payloadSize, err := env.Params.Bytes("payload_size", 64)
	if err != nil {
		return err
	}
	frame, err := serializeUDPFrame(payloadSize)
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
	for i, op := range ops {
		region, err := srcs[i].Append(len(frame))
		if err != nil {
			return serrors.Wrap("filling frame buffer", err,
				"frame_len", len(frame))
		}
		copy(region, frame)
		op.Src = srcs[i]
		op.Dst = nil
		op.Offset = 0
		op.Length = len(frame)
	}
	c.burst = burst
	c.payloadSize = payloadSize
	c.frame = frame
	c.driver = env.Driver
	c.queue = env.Session.Queue()
	c.pool = env.Session.Bufs()
	c.ops = ops
	c.srcs = srcs
	c.scratch = make([]*device.Op, burst)
	return nil
}

func (c *txBurstCase) Step(rc *bench.RunContext) error {
	sent := c.queue.EnqueueBurst(c.ops)
	c.sent += uint64(sent)
	rc.Bursts++
	drained := c.queue.DequeueBurst(c.scratch[:sent])
	rc.Polls++
	rc.Items += uint64(drained)
	rc.TrackInFlight(sent - drained)
	for i := 0; i < sent; i++ {
		op := c.ops[i]
		op.Src.Release()
		b, err := c.pool.Alloc()
		if err != nil {
			return serrors.Wrap("replacing sent buffer", err, "index", i)
		}
		region, err := b.Append(len(c.frame))
		if err != nil {
			return serrors.Wrap("refilling frame buffer", err)
		}
		copy(region, c.frame)
		op.Src = b
		c.srcs[i] = b
	}
	return nil
}

// Drain collects completions a short final dequeue left behind.
func (c *txBurstCase) Drain(rc *bench.RunContext) error {
	drained := c.driver.DrainRemaining(c.queue, rc.InFlight)
	rc.TrackInFlight(-drained)
	return nil
}

func (c *txBurstCase) Teardown() error {
	for _, op := range c.ops {
		op.Release()
	}
	for _, b := range c.srcs {
		b.Release()
	}
	return nil
}

func (c *txBurstCase) Metadata(m *bench.Metadata) {
	m.Set("burst_size", c.burst)
	m.Set("total_packets_sent", c.sent)
}

// rxBurstCase keeps a standing set of posted receive slots and polls them
// once per step. With nothing transmitting on the wire every poll comes
// back empty, which is the measured path.
type rxBurstCase struct {
	burst    int
	received uint64

	queue   device.Queue
	ops     []*device.Op
	dsts    []*device.Buf
	scratch []*device.Op
}

func (c *rxBurstCase) Name() string { return "rx_burst" }

func (c *rxBurstCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "Packet receive polling on posted slots",
		Device:  "loop",
		Params:  "burst_size",
	}
}

func (c *rxBurstCase) Setup(ctx context.Context, env *bench.CaseEnv) error {
	burst, err := env.Params.Int("burst_size", bench.DefaultBurstSize)
	if err != nil {
		return err
	}
	ops, err := env.Session.AllocOps(burst)
	if err != nil {
		return err
	}
	dsts, err := env.Session.AllocBufs(burst)
	if err != nil {
		return err
	}
	for i, op := range ops {
		op.Src = nil
		op.Dst = dsts[i]
	}
	c.burst = burst
	c.queue = env.Session.Queue()
	c.ops = ops
	c.dsts = dsts
	c.scratch = make([]*device.Op, burst)
	if posted := c.queue.EnqueueBurst(ops); posted != burst {
		return serrors.New("short receive post",
			"posted", posted, "burst_size", burst)
	}
	return nil
}

func (c *rxBurstCase) Step(rc *bench.RunContext) error {
	n := c.queue.DequeueBurst(c.scratch)
	rc.Bursts++
	rc.Polls++
	if n == 0 {
		return nil
	}
	rc.Items += uint64(n)
	c.received += uint64(n)
	for _, op := range c.scratch[:n] {
		op.Dst.Reset()
	}
	if reposted := c.queue.EnqueueBurst(c.scratch[:n]); reposted != n {
		return serrors.New("short receive repost", "reposted", reposted, "want", n)
	}
	return nil
}

func (c *rxBurstCase) Teardown() error {
	for _, op := range c.ops {
		op.Release()
	}
	for _, b := range c.dsts {
		b.Release()
	}
	return nil
}

func (c *rxBurstCase) Metadata(m *bench.Metadata) {
	m.Set("burst_size", c.burst)
	m.Set("total_packets_received", c.received)
}
