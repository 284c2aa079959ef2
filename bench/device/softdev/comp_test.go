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
	"hash/adler32"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbench/devbench/bench/device"
)

// compressible returns data with enough repetition for every supported
// algorithm to shrink it.
func compressible(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 16)
	}
	return data
}

func compRoundTrip(t *testing.T, algo device.CompAlgo, huffman device.Huffman) {
	t.Helper()
	dev, q := startProvider(t, "soft-comp", nil)
	pool := newTestPool(t, 4096)

	comp, err := dev.CreateXform(device.XformSpec{
		Op:         device.XformCompress,
		Comp:       algo,
		Huffman:    huffman,
		WindowSize: 1 << 15,
	})
	require.NoError(t, err)
	decomp, err := dev.CreateXform(device.XformSpec{
		Op:         device.XformDecompress,
		Comp:       algo,
		WindowSize: 1 << 15,
	})
	require.NoError(t, err)

	payload := compressible(1024)
	op := &device.Op{
		Src:    fillBuf(t, pool, payload),
		Dst:    emptyBuf(t, pool),
		Length: len(payload),
		Xform:  comp,
	}
	op = roundTrip(t, q, op)
	require.Equal(t, device.StatusSuccess, op.Status, op.Status.String())
	require.Equal(t, len(payload), op.Consumed)
	require.Equal(t, op.Produced, op.Dst.Len())
	if algo != device.CompNull {
		assert.Less(t, op.Produced, len(payload))
	}

	back := &device.Op{
		Src:    op.Dst,
		Dst:    emptyBuf(t, pool),
		Length: op.Dst.Len(),
		Xform:  decomp,
	}
	back = roundTrip(t, q, back)
	require.Equal(t, device.StatusSuccess, back.Status, back.Status.String())
	assert.Equal(t, payload, back.Dst.Bytes())
}

func TestCompRoundTrip(t *testing.T) {
	t.Run("deflate dynamic", func(t *testing.T) {
		compRoundTrip(t, device.CompDeflate, device.HuffmanDynamic)
	})
	t.Run("deflate fixed", func(t *testing.T) {
		compRoundTrip(t, device.CompDeflate, device.HuffmanFixed)
	})
	t.Run("lz4", func(t *testing.T) {
		compRoundTrip(t, device.CompLZ4, device.HuffmanDynamic)
	})
	t.Run("null", func(t *testing.T) {
		compRoundTrip(t, device.CompNull, device.HuffmanDynamic)
	})
}

func TestCompChecksums(t *testing.T) {
	payload := compressible(512)
	testCases := map[string]struct {
		checksum device.Checksum
		want     uint64
	}{
		"none":  {checksum: device.ChecksumNone, want: 0},
		"crc32": {
			checksum: device.ChecksumCRC32,
			want:     uint64(crc32.ChecksumIEEE(payload)),
		},
		"adler32": {
			checksum: device.ChecksumAdler32,
			want:     uint64(adler32.Checksum(payload)),
		},
		"combined": {
			checksum: device.ChecksumCombined,
			want: uint64(adler32.Checksum(payload))<<32 |
				uint64(crc32.ChecksumIEEE(payload)),
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			dev, q := startProvider(t, "soft-comp", nil)
			pool := newTestPool(t, 4096)
			xf, err := dev.CreateXform(device.XformSpec{
				Op:       device.XformCompress,
				Comp:     device.CompNull,
				Checksum: tc.checksum,
			})
			require.NoError(t, err)

			op := &device.Op{
				Src:    fillBuf(t, pool, payload),
				Dst:    emptyBuf(t, pool),
				Length: len(payload),
				Xform:  xf,
			}
			op = roundTrip(t, q, op)
			require.Equal(t, device.StatusSuccess, op.Status)
			assert.Equal(t, tc.want, op.OutputChecksum)
		})
	}
}

func TestCompXXHash32Stable(t *testing.T) {
	dev, q := startProvider(t, "soft-comp", nil)
	pool := newTestPool(t, 4096)
	xf, err := dev.CreateXform(device.XformSpec{
		Op:       device.XformCompress,
		Comp:     device.CompNull,
		Checksum: device.ChecksumXXHash32,
	})
	require.NoError(t, err)

	payload := compressible(512)
	var digests []uint64
	for i := 0; i < 2; i++ {
		op := &device.Op{
			Src:    fillBuf(t, pool, payload),
			Dst:    emptyBuf(t, pool),
			Length: len(payload),
			Xform:  xf,
		}
		op = roundTrip(t, q, op)
		require.Equal(t, device.StatusSuccess, op.Status)
		digests = append(digests, op.OutputChecksum)
	}
	assert.Equal(t, digests[0], digests[1])
	assert.NotZero(t, digests[0])
	// Truncated digest fits 32 bits.
	assert.Zero(t, digests[0]>>32)
}

func TestCompDstTooSmall(t *testing.T) {
	dev, q := startProvider(t, "soft-comp", nil)
	srcPool := newTestPool(t, 4096)
	dstPool := newTestPool(t, 8)

	xf, err := dev.CreateXform(device.XformSpec{
		Op:   device.XformCompress,
		Comp: device.CompDeflate,
	})
	require.NoError(t, err)

	op := &device.Op{
		Src:    fillBuf(t, srcPool, pattern(1024)),
		Dst:    emptyBuf(t, dstPool),
		Length: 1024,
		Xform:  xf,
	}
	op = roundTrip(t, q, op)
	assert.Equal(t, device.StatusOutOfSpaceTerminated, op.Status)
	assert.Equal(t, 0, op.Consumed)
	assert.Equal(t, 0, op.Produced)
}

func TestDecompressCorruptInput(t *testing.T) {
	dev, q := startProvider(t, "soft-comp", nil)
	pool := newTestPool(t, 4096)

	xf, err := dev.CreateXform(device.XformSpec{
		Op:   device.XformDecompress,
		Comp: device.CompDeflate,
	})
	require.NoError(t, err)

	op := &device.Op{
		Src:    fillBuf(t, pool, []byte{0xde, 0xad, 0xbe, 0xef}),
		Dst:    emptyBuf(t, pool),
		Length: 4,
		Xform:  xf,
	}
	op = roundTrip(t, q, op)
	assert.Equal(t, device.StatusError, op.Status)
}

func TestCompMissingXform(t *testing.T) {
	_, q := startProvider(t, "soft-comp", nil)
	pool := newTestPool(t, 64)

	op := &device.Op{
		Src:    fillBuf(t, pool, pattern(16)),
		Dst:    emptyBuf(t, pool),
		Length: 16,
	}
	op = roundTrip(t, q, op)
	assert.Equal(t, device.StatusInvalidArgs, op.Status)
}

func TestCompXformValidation(t *testing.T) {
	dev, _ := startProvider(t, "soft-comp", nil)

	_, err := dev.CreateXform(device.XformSpec{Op: device.XformEncrypt})
	assert.Error(t, err)

	_, err = dev.CreateXform(device.XformSpec{
		Op:         device.XformCompress,
		Comp:       device.CompDeflate,
		WindowSize: 1 << 20,
	})
	assert.Error(t, err)
}
