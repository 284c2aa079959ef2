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

// Package device defines the burst-oriented processing device consumed by the
// benchmark harness: operation descriptors, payload buffers, descriptor and
// buffer pools, algorithm transforms, and the device/queue interfaces.
//
// Devices are registered by name through Register, typically from an init
// function of the provider package, and opened by Open. A device accepts
// bursts of operation descriptors on a queue and completes them
// asynchronously; completed descriptors are retrieved by polling the same
// queue. Acceptance is prefix based: EnqueueBurst returns how many
// descriptors, counted from the front, the queue took.
package device

import (
	"errors"
	"sort"
	"sync"

	"github.com/devbench/devbench/pkg/private/serrors"
)

// Errors returned by devices and pools.
var (
	// ErrExhausted is returned when a pool cannot satisfy an allocation.
	ErrExhausted = errors.New("pool exhausted")
	// ErrInUse is returned when a pool is closed while items are unreturned.
	ErrInUse = errors.New("pool items still in use")
	// ErrInvalidState is returned when a device call violates the
	// configure/start/stop lifecycle.
	ErrInvalidState = errors.New("invalid device state")
	// ErrNoProvider is returned by Open for an unregistered provider name.
	ErrNoProvider = errors.New("no such device provider")
)

// Config carries the queue layout requested by the benchmark session.
type Config struct {
	// Queues is the number of queue pairs to set up.
	Queues int
	// QueueDepth is the descriptor capacity of each queue pair.
	QueueDepth int
}

// Info describes static limits of a device.
type Info struct {
	// Name of the provider that produced the device.
	Name string
	// MaxQueues is the maximum number of configurable queue pairs.
	MaxQueues int
	// MaxBurst caps the burst size a queue accepts in one call. Zero means
	// the queue depth is the only bound.
	MaxBurst int
}

// Queue is one submission/completion queue pair of a device.
type Queue interface {
	// EnqueueBurst submits ops for processing. It returns the number of
	// descriptors accepted, counted from the front of ops. The device never
	// accepts more than the queue can currently hold.
	EnqueueBurst(ops []*Op) int
	// DequeueBurst retrieves up to len(out) completed descriptors into out
	// and returns how many were written. A return of zero means no
	// completions were available at this poll.
	DequeueBurst(out []*Op) int
}

// Device is a burst-processing device under benchmark.
type Device interface {
	// Configure sets up the queue pairs. It must be called before Start.
	Configure(cfg Config) error
	// Start makes the queues operational.
	Start() error
	// Stop quiesces the device. In-flight descriptors are dropped.
	Stop() error
	// Close releases device resources. It is idempotent.
	Close() error
	// CreateXform builds an algorithm transform for use by descriptors.
	CreateXform(spec XformSpec) (*Xform, error)
	// Queue returns the i-th queue pair of a started device.
	Queue(i int) (Queue, bool)
	// Info reports the device limits.
	Info() Info
}

// Factory constructs a device from provider-specific arguments.
type Factory func(args map[string]string) (Device, error)

var (
	providersMtx sync.RWMutex
	providers    = map[string]Factory{}
)

// Register makes a device provider available to Open under the given name.
// It panics if the name is already taken.
func Register(name string, factory Factory) {
	providersMtx.Lock()
	defer providersMtx.Unlock()
	if _, ok := providers[name]; ok {
		panic("device provider registered twice: " + name)
	}
	providers[name] = factory
}

// Open constructs the device registered under name.
func Open(name string, args map[string]string) (Device, error) {
	providersMtx.RLock()
	factory, ok := providers[name]
	providersMtx.RUnlock()
	if !ok {
		return nil, serrors.Join(ErrNoProvider, nil, "name", name)
	}
	dev, err := factory(args)
	if err != nil {
		return nil, serrors.Wrap("opening device", err, "name", name)
	}
	return dev, nil
}

// Providers lists the registered provider names, sorted.
func Providers() []string {
	providersMtx.RLock()
	defer providersMtx.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
