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

package softdev

import (
	"bytes"
	"errors"
	"hash/adler32"
	"hash/crc32"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"

	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/private/serrors"
)

var errOutOfSpace = serrors.New("destination too small")

func init() {
	device.Register("soft-comp", func(args map[string]string) (device.Device, error) {
		if err := noArgs("soft-comp", args); err != nil {
			return nil, err
		}
		return newComp(), nil
	})
}

// newComp returns a software compression device. Deflate is backed by
// klauspost/compress, lz4 by the pierrec block codec, and the null
// algorithm is a plain copy. The deflate window is fixed at 32 KiB;
// smaller requested windows are accepted and ignored.
func newComp() device.Device {
	d := &base{
		info:      device.Info{Name: "soft-comp", MaxQueues: 16, MaxBurst: 256},
		makeXform: makeCompXform,
	}
	d.newQueue = func(depth int) device.Queue {
		return newSoftQueue(d, compProcess, depth)
	}
	return d
}

func makeCompXform(spec device.XformSpec) (any, error) {
	switch spec.Op {
	case device.XformCompress, device.XformDecompress:
	default:
		return nil, serrors.New("unsupported transform", "op", spec.Op)
	}
	switch spec.Comp {
	case device.CompDeflate, device.CompLZ4, device.CompNull:
	default:
		return nil, serrors.New("unsupported algorithm", "algo", spec.Comp)
	}
	if spec.WindowSize < 0 || spec.WindowSize > 1<<15 {
		return nil, serrors.New("unsupported window size", "window_size", spec.WindowSize)
	}
	return nil, nil
}

func compProcess(op *device.Op) device.Status {
	if op.Xform == nil || op.Src == nil || op.Dst == nil {
		return device.StatusInvalidArgs
	}
	spec := op.Xform.Spec()
	src := op.Src.Bytes()
	if op.Offset < 0 || op.Length < 0 || op.Offset+op.Length > len(src) {
		return device.StatusInvalidArgs
	}
	src = src[op.Offset : op.Offset+op.Length]
	tailroom := op.Dst.Cap() - op.Dst.Len()

	var out []byte
	var err error
	switch spec.Op {
	case device.XformCompress:
		out, err = compressBlock(spec, src)
	case device.XformDecompress:
		out, err = decompressBlock(spec, src, tailroom)
	default:
		return device.StatusInvalidArgs
	}
	switch {
	case err == nil:
	case errors.Is(err, errOutOfSpace):
		op.Consumed = 0
		op.Produced = 0
		return device.StatusOutOfSpaceTerminated
	default:
		return device.StatusError
	}

	region, err := op.Dst.Append(len(out))
	if err != nil {
		op.Consumed = 0
		op.Produced = 0
		return device.StatusOutOfSpaceTerminated
	}
	copy(region, out)
	op.Consumed = len(src)
	op.Produced = len(out)

	// Checksums always cover the uncompressed data: the input when
	// compressing and the output when decompressing.
	if spec.Op == device.XformCompress {
		op.OutputChecksum = checksumValue(spec.Checksum, src)
	} else {
		op.OutputChecksum = checksumValue(spec.Checksum, out)
	}
	return device.StatusSuccess
}

func compressBlock(spec device.XformSpec, src []byte) ([]byte, error) {
	switch spec.Comp {
	case device.CompDeflate:
		var buf bytes.Buffer
		level := flate.DefaultCompression
		if spec.Huffman == device.HuffmanFixed {
			level = flate.HuffmanOnly
		}
		w, err := flate.NewWriter(&buf, level)
		if err != nil {
			return nil, serrors.Wrap("creating deflate writer", err)
		}
		if _, err := w.Write(src); err != nil {
			return nil, serrors.Wrap("compressing", err)
		}
		if err := w.Close(); err != nil {
			return nil, serrors.Wrap("flushing deflate stream", err)
		}
		return buf.Bytes(), nil
	case device.CompLZ4:
		var c lz4.Compressor
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := c.CompressBlock(src, dst)
		if err != nil {
			return nil, serrors.Wrap("compressing", err)
		}
		if n == 0 {
			// The block codec cannot represent incompressible input.
			return nil, serrors.New("incompressible input", "len", len(src))
		}
		return dst[:n], nil
	case device.CompNull:
		return src, nil
	}
	return nil, serrors.New("unsupported algorithm", "algo", spec.Comp)
}

func decompressBlock(spec device.XformSpec, src []byte, tailroom int) ([]byte, error) {
	switch spec.Comp {
	case device.CompDeflate:
		r := flate.NewReader(bytes.NewReader(src))
		defer r.Close()
		out, err := io.ReadAll(io.LimitReader(r, int64(tailroom)+1))
		if err != nil {
			return nil, serrors.Wrap("decompressing", err)
		}
		if len(out) > tailroom {
			return nil, errOutOfSpace
		}
		return out, nil
	case device.CompLZ4:
		dst := make([]byte, tailroom)
		n, err := lz4.UncompressBlock(src, dst)
		if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, errOutOfSpace
		}
		if err != nil {
			return nil, serrors.Wrap("decompressing", err)
		}
		return dst[:n], nil
	case device.CompNull:
		return src, nil
	}
	return nil, serrors.New("unsupported algorithm", "algo", spec.Comp)
}

// checksumValue computes the transform checksum over data. The 32-bit
// xxhash digest is derived from the 64-bit variant; the combined form
// packs adler32 into the upper and crc32 into the lower half.
func checksumValue(kind device.Checksum, data []byte) uint64 {
	switch kind {
	case device.ChecksumCRC32:
		return uint64(crc32.ChecksumIEEE(data))
	case device.ChecksumAdler32:
		return uint64(adler32.Checksum(data))
	case device.ChecksumXXHash32:
		return uint64(uint32(xxhash.Sum64(data)))
	case device.ChecksumCombined:
		return uint64(adler32.Checksum(data))<<32 | uint64(crc32.ChecksumIEEE(data))
	}
	return 0
}
