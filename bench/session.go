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

package bench

import (
	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/pkg/private/serrors"
)

// SessionConfig sizes the resources a session owns. Zero fields fall back
// to defaults.
type SessionConfig struct {
	Device     string
	DeviceArgs map[string]string
	Queues     int
	QueueDepth int
	// OpPoolSize is the descriptor pool capacity. Defaults to QueueDepth.
	OpPoolSize int
	// BufPoolSize is the buffer pool capacity. Defaults to twice the
	// descriptor pool, one source and one destination per descriptor.
	BufPoolSize int
	BufSize     int
}

func (cfg SessionConfig) withDefaults() SessionConfig {
	if cfg.Queues == 0 {
		cfg.Queues = 1
	}
	if cfg.QueueDepth == 0 {
		cfg.QueueDepth = 512
	}
	if cfg.OpPoolSize == 0 {
		cfg.OpPoolSize = cfg.QueueDepth
	}
	if cfg.BufPoolSize == 0 {
		cfg.BufPoolSize = 2 * cfg.OpPoolSize
	}
	if cfg.BufSize == 0 {
		cfg.BufSize = 2048
	}
	return cfg
}

// Session owns one configured device plus the descriptor and buffer pools
// of a run, and tears all of it down exactly once. It is not safe for
// concurrent use.
type Session struct {
	log     log.Logger
	name    string
	dev     device.Device
	queue   device.Queue
	ops     *device.OpPool
	bufs    *device.BufPool
	xforms  []*device.Xform
	started bool
	closed  bool
}

// OpenSession opens the named provider, configures and starts it, and
// builds the pools. On error nothing is left allocated.
func OpenSession(cfg SessionConfig, lg log.Logger) (*Session, error) {
	cfg = cfg.withDefaults()
	dev, err := device.Open(cfg.Device, cfg.DeviceArgs)
	if err != nil {
		return nil, serrors.Wrap("opening device", err, "device", cfg.Device)
	}
	if err := dev.Configure(device.Config{
		Queues:     cfg.Queues,
		QueueDepth: cfg.QueueDepth,
	}); err != nil {
		_ = dev.Close()
		return nil, serrors.Wrap("configuring device", err, "device", cfg.Device)
	}
	if err := dev.Start(); err != nil {
		_ = dev.Close()
		return nil, serrors.Wrap("starting device", err, "device", cfg.Device)
	}
	q, ok := dev.Queue(0)
	if !ok {
		_ = dev.Stop()
		_ = dev.Close()
		return nil, serrors.New("device exposes no queue", "device", cfg.Device)
	}
	ops, err := device.NewOpPool("descriptors", cfg.OpPoolSize, 0)
	if err != nil {
		_ = dev.Stop()
		_ = dev.Close()
		return nil, serrors.Wrap("creating descriptor pool", err)
	}
	bufs, err := device.NewBufPool("buffers", cfg.BufPoolSize, 0, cfg.BufSize)
	if err != nil {
		_ = dev.Stop()
		_ = dev.Close()
		return nil, serrors.Wrap("creating buffer pool", err)
	}
	lg.Debug("Session open", "device", cfg.Device,
		"queues", cfg.Queues, "queue_depth", cfg.QueueDepth,
		"descriptors", cfg.OpPoolSize, "buffers", cfg.BufPoolSize,
		"buf_size", cfg.BufSize)
	return &Session{
		log:     lg,
		name:    cfg.Device,
		dev:     dev,
		queue:   q,
		ops:     ops,
		bufs:    bufs,
		started: true,
	}, nil
}

// Device returns the underlying device, for cases that manage transforms
// or sessions outside the tracked set.
func (s *Session) Device() device.Device { return s.dev }

// Queue returns queue 0, the queue every benchmark drives.
func (s *Session) Queue() device.Queue { return s.queue }

// Ops returns the descriptor pool.
func (s *Session) Ops() *device.OpPool { return s.ops }

// Bufs returns the buffer pool.
func (s *Session) Bufs() *device.BufPool { return s.bufs }

// DeviceName returns the provider name the session was opened with.
func (s *Session) DeviceName() string { return s.name }

// AllocOps bulk-allocates n descriptors, all or nothing.
func (s *Session) AllocOps(n int) ([]*device.Op, error) {
	ops := make([]*device.Op, n)
	if err := s.ops.AllocBulk(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// AllocBufs bulk-allocates n buffers, all or nothing.
func (s *Session) AllocBufs(n int) ([]*device.Buf, error) {
	bufs := make([]*device.Buf, n)
	if err := s.bufs.AllocBulk(bufs); err != nil {
		return nil, err
	}
	return bufs, nil
}

// CreateXform builds a transform on the device and registers it for
// release at session close. Cases that create and destroy transforms
// themselves go through Device() instead.
func (s *Session) CreateXform(spec device.XformSpec) (*device.Xform, error) {
	xf, err := s.dev.CreateXform(spec)
	if err != nil {
		return nil, serrors.Wrap("creating transform", err, "device", s.name)
	}
	s.xforms = append(s.xforms, xf)
	return xf, nil
}

// Close releases tracked transforms, closes the pools and shuts the
// device down. The first call does the work; later calls are no-ops.
// Descriptors or buffers still held when the pools close are an
// accounting violation.
func (s *Session) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	var errs serrors.List
	for _, xf := range s.xforms {
		xf.Release()
	}
	s.xforms = nil
	if err := s.ops.Close(); err != nil {
		errs = append(errs, serrors.Join(ErrAccounting, err, "resource", "descriptor pool"))
	}
	if err := s.bufs.Close(); err != nil {
		errs = append(errs, serrors.Join(ErrAccounting, err, "resource", "buffer pool"))
	}
	if s.started {
		if err := s.dev.Stop(); err != nil {
			errs = append(errs, serrors.Wrap("stopping device", err, "device", s.name))
		}
	}
	if err := s.dev.Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing device", err, "device", s.name))
	}
	s.log.Debug("Session closed", "device", s.name, "errors", len(errs))
	return errs.ToError()
}

// FillDeterministic writes the canonical payload pattern into each buffer:
// buffer i gets size bytes with data[j] = byte(i + j).
func FillDeterministic(bufs []*device.Buf, size int) error {
	for i, b := range bufs {
		region, err := b.Append(size)
		if err != nil {
			return serrors.Wrap("filling buffer", err, "index", i, "size", size)
		}
		for j := range region {
			region[j] = byte(i + j)
		}
	}
	return nil
}
