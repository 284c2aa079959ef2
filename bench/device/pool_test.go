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

package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbench/devbench/bench/device"
)

func TestNewOpPoolValidation(t *testing.T) {
	testCases := map[string]struct {
		capacity  int
		cache     int
		assertErr assert.ErrorAssertionFunc
	}{
		"valid":              {capacity: 8, cache: 0, assertErr: assert.NoError},
		"valid with cache":   {capacity: 8, cache: 8, assertErr: assert.NoError},
		"zero capacity":      {capacity: 0, cache: 0, assertErr: assert.Error},
		"negative capacity":  {capacity: -1, cache: 0, assertErr: assert.Error},
		"cache over capacity": {capacity: 4, cache: 5, assertErr: assert.Error},
		"negative cache":     {capacity: 4, cache: -1, assertErr: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := device.NewOpPool("test", tc.capacity, tc.cache)
			tc.assertErr(t, err)
		})
	}
}

func TestOpPoolAllocBulk(t *testing.T) {
	pool, err := device.NewOpPool("ops", 4, 0)
	require.NoError(t, err)

	t.Run("full allocation", func(t *testing.T) {
		ops := make([]*device.Op, 4)
		require.NoError(t, pool.AllocBulk(ops))
		assert.Equal(t, 4, pool.InUse())
		for _, op := range ops {
			require.NotNil(t, op)
			op.Release()
		}
		assert.Equal(t, 0, pool.InUse())
	})

	t.Run("all or nothing", func(t *testing.T) {
		ops := make([]*device.Op, 3)
		require.NoError(t, pool.AllocBulk(ops))

		over := make([]*device.Op, 2)
		err := pool.AllocBulk(over)
		assert.ErrorIs(t, err, device.ErrExhausted)
		// The failed request must not leak partial allocations.
		assert.Equal(t, 3, pool.InUse())
		for _, op := range over {
			assert.Nil(t, op)
		}
		for _, op := range ops {
			op.Release()
		}
	})
}

func TestOpReleaseIdempotent(t *testing.T) {
	pool, err := device.NewOpPool("ops", 2, 0)
	require.NoError(t, err)
	ops := make([]*device.Op, 1)
	require.NoError(t, pool.AllocBulk(ops))

	op := ops[0]
	op.Release()
	assert.Equal(t, 0, pool.InUse())
	// The second release must not return the descriptor twice.
	op.Release()
	assert.Equal(t, 0, pool.InUse())

	var nilOp *device.Op
	assert.NotPanics(t, func() { nilOp.Release() })
}

func TestOpPoolClose(t *testing.T) {
	pool, err := device.NewOpPool("ops", 2, 0)
	require.NoError(t, err)
	ops := make([]*device.Op, 2)
	require.NoError(t, pool.AllocBulk(ops))

	err = pool.Close()
	assert.ErrorIs(t, err, device.ErrInUse)

	for _, op := range ops {
		op.Release()
	}
	assert.NoError(t, pool.Close())
	assert.NoError(t, pool.Close())
}

func TestBufPool(t *testing.T) {
	pool, err := device.NewBufPool("bufs", 2, 0, 64)
	require.NoError(t, err)

	b, err := pool.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 64, b.Cap())
	assert.Equal(t, 0, b.Len())

	region, err := b.Append(16)
	require.NoError(t, err)
	assert.Len(t, region, 16)
	assert.Equal(t, 16, b.Len())
	assert.Len(t, b.Bytes(), 16)

	_, err = b.Append(64)
	assert.Error(t, err, "tailroom exceeded")

	b.Release()
	assert.Equal(t, 0, pool.InUse())
	b.Release()
	assert.Equal(t, 0, pool.InUse())
}

func TestBufPoolAllocBulk(t *testing.T) {
	pool, err := device.NewBufPool("bufs", 2, 0, 16)
	require.NoError(t, err)

	bufs := make([]*device.Buf, 3)
	err = pool.AllocBulk(bufs)
	assert.ErrorIs(t, err, device.ErrExhausted)
	assert.Equal(t, 0, pool.InUse())

	bufs = make([]*device.Buf, 2)
	require.NoError(t, pool.AllocBulk(bufs))
	assert.Equal(t, 2, pool.InUse())
	for _, b := range bufs {
		b.Release()
	}
	assert.NoError(t, pool.Close())
}

func TestBufferReuseKeepsCapacity(t *testing.T) {
	pool, err := device.NewBufPool("bufs", 1, 0, 32)
	require.NoError(t, err)

	b, err := pool.Alloc()
	require.NoError(t, err)
	region, err := b.Append(32)
	require.NoError(t, err)
	region[0] = 0xff
	b.Release()

	// The recycled buffer starts empty again.
	b, err = pool.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 32, b.Cap())
	b.Release()
}
