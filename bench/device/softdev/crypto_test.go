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

func gcmKey(n int) []byte {
	key := make([]byte, n)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestCryptoRoundTrip(t *testing.T) {
	dev, q := startProvider(t, "soft-crypto", nil)
	pool := newTestPool(t, 4096)

	enc, err := dev.CreateXform(device.XformSpec{
		Op:     device.XformEncrypt,
		Key:    gcmKey(16),
		IVLen:  12,
		TagLen: 16,
	})
	require.NoError(t, err)
	dec, err := dev.CreateXform(device.XformSpec{
		Op:     device.XformDecrypt,
		Key:    gcmKey(16),
		IVLen:  12,
		TagLen: 16,
	})
	require.NoError(t, err)

	payload := pattern(1024)
	iv := make([]byte, 12)
	op := &device.Op{
		Src:    fillBuf(t, pool, payload),
		Dst:    emptyBuf(t, pool),
		Length: len(payload),
		Xform:  enc,
		IV:     iv,
	}
	op = roundTrip(t, q, op)
	require.Equal(t, device.StatusSuccess, op.Status, op.Status.String())
	// GCM appends the 16 byte tag.
	assert.Equal(t, len(payload)+16, op.Produced)

	back := &device.Op{
		Src:    op.Dst,
		Dst:    emptyBuf(t, pool),
		Length: op.Dst.Len(),
		Xform:  dec,
		IV:     iv,
	}
	back = roundTrip(t, q, back)
	require.Equal(t, device.StatusSuccess, back.Status, back.Status.String())
	assert.Equal(t, payload, back.Dst.Bytes())
}

func TestCryptoAuthFailure(t *testing.T) {
	dev, q := startProvider(t, "soft-crypto", nil)
	pool := newTestPool(t, 4096)

	enc, err := dev.CreateXform(device.XformSpec{Op: device.XformEncrypt, Key: gcmKey(32)})
	require.NoError(t, err)
	dec, err := dev.CreateXform(device.XformSpec{Op: device.XformDecrypt, Key: gcmKey(32)})
	require.NoError(t, err)

	iv := make([]byte, 12)
	op := &device.Op{
		Src:    fillBuf(t, pool, pattern(256)),
		Dst:    emptyBuf(t, pool),
		Length: 256,
		Xform:  enc,
		IV:     iv,
	}
	op = roundTrip(t, q, op)
	require.Equal(t, device.StatusSuccess, op.Status)

	// Flip one ciphertext bit. The tag check must fail without
	// aborting the run.
	op.Dst.Bytes()[0] ^= 0x01
	back := &device.Op{
		Src:    op.Dst,
		Dst:    emptyBuf(t, pool),
		Length: op.Dst.Len(),
		Xform:  dec,
		IV:     iv,
	}
	back = roundTrip(t, q, back)
	assert.Equal(t, device.StatusError, back.Status)
}

func TestCryptoBadIV(t *testing.T) {
	dev, q := startProvider(t, "soft-crypto", nil)
	pool := newTestPool(t, 256)

	enc, err := dev.CreateXform(device.XformSpec{Op: device.XformEncrypt, Key: gcmKey(16)})
	require.NoError(t, err)

	op := &device.Op{
		Src:    fillBuf(t, pool, pattern(64)),
		Dst:    emptyBuf(t, pool),
		Length: 64,
		Xform:  enc,
		IV:     make([]byte, 8),
	}
	op = roundTrip(t, q, op)
	assert.Equal(t, device.StatusInvalidArgs, op.Status)
}

func TestCryptoXformValidation(t *testing.T) {
	dev, _ := startProvider(t, "soft-crypto", nil)

	_, err := dev.CreateXform(device.XformSpec{Op: device.XformCompress, Key: gcmKey(16)})
	assert.Error(t, err)

	_, err = dev.CreateXform(device.XformSpec{Op: device.XformEncrypt, Key: gcmKey(7)})
	assert.Error(t, err)

	_, err = dev.CreateXform(device.XformSpec{
		Op:     device.XformEncrypt,
		Key:    gcmKey(16),
		IVLen:  16,
		TagLen: 12,
	})
	assert.Error(t, err)
}
