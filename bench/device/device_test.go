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

func TestOpenUnknownProvider(t *testing.T) {
	_, err := device.Open("no-such-provider", nil)
	assert.ErrorIs(t, err, device.ErrNoProvider)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	factory := func(args map[string]string) (device.Device, error) {
		return nil, nil
	}
	device.Register("dup-test", factory)
	assert.Panics(t, func() {
		device.Register("dup-test", factory)
	})
	assert.Contains(t, device.Providers(), "dup-test")
}

func TestXformReleaseOnce(t *testing.T) {
	destroyed := 0
	xf := device.NewXform(
		device.XformSpec{Op: device.XformCompress},
		"payload",
		func(payload any) {
			destroyed++
			assert.Equal(t, "payload", payload)
		},
	)
	require.Equal(t, "payload", xf.Payload())
	assert.Equal(t, device.XformCompress, xf.Spec().Op)

	xf.Release()
	assert.Equal(t, 1, destroyed)
	assert.Nil(t, xf.Payload())
	xf.Release()
	assert.Equal(t, 1, destroyed)

	var nilXf *device.Xform
	assert.NotPanics(t, func() { nilXf.Release() })
}

func TestParseCompAlgo(t *testing.T) {
	testCases := map[string]struct {
		algo      device.CompAlgo
		assertErr assert.ErrorAssertionFunc
	}{
		"deflate": {algo: device.CompDeflate, assertErr: assert.NoError},
		"lz4":     {algo: device.CompLZ4, assertErr: assert.NoError},
		"null":    {algo: device.CompNull, assertErr: assert.NoError},
		"bogus":   {assertErr: assert.Error},
		"":        {assertErr: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			algo, err := device.ParseCompAlgo(name)
			tc.assertErr(t, err)
			if err == nil {
				assert.Equal(t, tc.algo, algo)
				assert.Equal(t, name, algo.String())
			}
		})
	}
}

func TestParseChecksum(t *testing.T) {
	testCases := map[string]struct {
		checksum  device.Checksum
		assertErr assert.ErrorAssertionFunc
	}{
		"none":     {checksum: device.ChecksumNone, assertErr: assert.NoError},
		"crc32":    {checksum: device.ChecksumCRC32, assertErr: assert.NoError},
		"adler32":  {checksum: device.ChecksumAdler32, assertErr: assert.NoError},
		"xxhash32": {checksum: device.ChecksumXXHash32, assertErr: assert.NoError},
		"combined": {checksum: device.ChecksumCombined, assertErr: assert.NoError},
		"md5":      {assertErr: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c, err := device.ParseChecksum(name)
			tc.assertErr(t, err)
			if err == nil {
				assert.Equal(t, tc.checksum, c)
				assert.Equal(t, name, c.String())
			}
		})
	}
}

func TestParseHuffman(t *testing.T) {
	h, err := device.ParseHuffman("dynamic")
	require.NoError(t, err)
	assert.Equal(t, device.HuffmanDynamic, h)

	h, err = device.ParseHuffman("fixed")
	require.NoError(t, err)
	assert.Equal(t, device.HuffmanFixed, h)

	_, err = device.ParseHuffman("static")
	assert.Error(t, err)
}

func TestOpReset(t *testing.T) {
	op := &device.Op{
		Offset:   4,
		Length:   128,
		Status:   device.StatusError,
		Consumed: 7,
		Produced: 9,
	}
	op.Reset()
	assert.Equal(t, 0, op.Offset)
	assert.Equal(t, 0, op.Length)
	assert.Equal(t, device.StatusSuccess, op.Status)
	assert.Equal(t, 0, op.Consumed)
	assert.Equal(t, 0, op.Produced)
	assert.Nil(t, op.Src)
	assert.Nil(t, op.Dst)
}
