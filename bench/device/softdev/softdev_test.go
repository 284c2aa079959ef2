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

package softdev_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbench/devbench/bench/device"
)

func startProvider(t *testing.T, name string, args map[string]string) (device.Device, device.Queue) {
	t.Helper()
	dev, err := device.Open(name, args)
	require.NoError(t, err)
	require.NoError(t, dev.Configure(device.Config{Queues: 1, QueueDepth: 64}))
	require.NoError(t, dev.Start())
	q, ok := dev.Queue(0)
	require.True(t, ok)
	return dev, q
}

func newTestPool(t *testing.T, bufSize int) *device.BufPool {
	t.Helper()
	pool, err := device.NewBufPool("test", 16, 0, bufSize)
	require.NoError(t, err)
	return pool
}

func fillBuf(t *testing.T, pool *device.BufPool, content []byte) *device.Buf {
	t.Helper()
	b, err := pool.Alloc()
	require.NoError(t, err)
	region, err := b.Append(len(content))
	require.NoError(t, err)
	copy(region, content)
	return b
}

func emptyBuf(t *testing.T, pool *device.BufPool) *device.Buf {
	t.Helper()
	b, err := pool.Alloc()
	require.NoError(t, err)
	return b
}

// roundTrip pushes a single descriptor through the queue and returns it.
func roundTrip(t *testing.T, q device.Queue, op *device.Op) *device.Op {
	t.Helper()
	require.Equal(t, 1, q.EnqueueBurst([]*device.Op{op}))
	out := make([]*device.Op, 1)
	require.Equal(t, 1, q.DequeueBurst(out))
	require.Same(t, op, out[0])
	return out[0]
}

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func TestProvidersRegistered(t *testing.T) {
	names := device.Providers()
	for _, name := range []string{"null", "soft-comp", "soft-crypto", "loop"} {
		assert.Contains(t, names, name)
	}
}

func TestUnexpectedArgs(t *testing.T) {
	for _, name := range []string{"null", "soft-comp", "soft-crypto", "loop"} {
		t.Run(name, func(t *testing.T) {
			_, err := device.Open(name, map[string]string{"bogus": "1"})
			assert.Error(t, err)
		})
	}
}

func TestEnqueueRequiresStart(t *testing.T) {
	dev, err := device.Open("null", nil)
	require.NoError(t, err)
	require.NoError(t, dev.Configure(device.Config{Queues: 1, QueueDepth: 8}))
	q, ok := dev.Queue(0)
	require.True(t, ok)

	assert.Equal(t, 0, q.EnqueueBurst([]*device.Op{{}}))
	out := make([]*device.Op, 1)
	assert.Equal(t, 0, q.DequeueBurst(out))
}

func TestAcceptanceBoundedByQueueSpace(t *testing.T) {
	dev, err := device.Open("null", nil)
	require.NoError(t, err)
	require.NoError(t, dev.Configure(device.Config{Queues: 1, QueueDepth: 4}))
	require.NoError(t, dev.Start())
	q, ok := dev.Queue(0)
	require.True(t, ok)

	ops := make([]*device.Op, 6)
	for i := range ops {
		ops[i] = &device.Op{}
	}
	// Without polling, only the queue depth is accepted.
	assert.Equal(t, 4, q.EnqueueBurst(ops))
	assert.Equal(t, 0, q.EnqueueBurst(ops[4:]))

	out := make([]*device.Op, 6)
	assert.Equal(t, 4, q.DequeueBurst(out))
	assert.Equal(t, 2, q.EnqueueBurst(ops[4:]))
}
