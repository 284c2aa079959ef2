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

package device

import (
	"github.com/devbench/devbench/pkg/private/serrors"
)

// XformOp selects the direction of an algorithm transform.
type XformOp int

const (
	XformCompress XformOp = iota
	XformDecompress
	XformEncrypt
	XformDecrypt
)

func (o XformOp) String() string {
	switch o {
	case XformCompress:
		return "compress"
	case XformDecompress:
		return "decompress"
	case XformEncrypt:
		return "encrypt"
	case XformDecrypt:
		return "decrypt"
	default:
		return "invalid"
	}
}

// CompAlgo is the compression algorithm of a transform.
type CompAlgo int

const (
	CompDeflate CompAlgo = iota
	CompLZ4
	CompNull
)

// ParseCompAlgo maps an algorithm name onto CompAlgo. Unrecognized names are
// a configuration error.
func ParseCompAlgo(name string) (CompAlgo, error) {
	switch name {
	case "deflate":
		return CompDeflate, nil
	case "lz4":
		return CompLZ4, nil
	case "null":
		return CompNull, nil
	default:
		return 0, serrors.New("unsupported algorithm", "algorithm", name)
	}
}

func (a CompAlgo) String() string {
	switch a {
	case CompDeflate:
		return "deflate"
	case CompLZ4:
		return "lz4"
	case CompNull:
		return "null"
	default:
		return "invalid"
	}
}

// Checksum selects the checksum a transform computes over the payload.
type Checksum int

const (
	ChecksumNone Checksum = iota
	ChecksumCRC32
	ChecksumAdler32
	ChecksumXXHash32
	ChecksumCombined
)

// ParseChecksum maps a checksum name onto Checksum. Unrecognized names are a
// configuration error.
func ParseChecksum(name string) (Checksum, error) {
	switch name {
	case "none":
		return ChecksumNone, nil
	case "crc32":
		return ChecksumCRC32, nil
	case "adler32":
		return ChecksumAdler32, nil
	case "xxhash32":
		return ChecksumXXHash32, nil
	case "combined":
		return ChecksumCombined, nil
	default:
		return 0, serrors.New("unsupported checksum", "checksum", name)
	}
}

func (c Checksum) String() string {
	switch c {
	case ChecksumNone:
		return "none"
	case ChecksumCRC32:
		return "crc32"
	case ChecksumAdler32:
		return "adler32"
	case ChecksumXXHash32:
		return "xxhash32"
	case ChecksumCombined:
		return "combined"
	default:
		return "invalid"
	}
}

// Huffman selects the Huffman coding mode of deflate transforms. The zero
// value is the dynamic mode, matching the benchmark default.
type Huffman int

const (
	HuffmanDynamic Huffman = iota
	HuffmanFixed
)

// ParseHuffman maps a Huffman mode name onto Huffman. Unrecognized names are
// a configuration error.
func ParseHuffman(name string) (Huffman, error) {
	switch name {
	case "dynamic":
		return HuffmanDynamic, nil
	case "fixed":
		return HuffmanFixed, nil
	default:
		return 0, serrors.New("unsupported huffman mode", "huffman", name)
	}
}

func (h Huffman) String() string {
	switch h {
	case HuffmanDynamic:
		return "dynamic"
	case HuffmanFixed:
		return "fixed"
	default:
		return "invalid"
	}
}

// XformSpec describes the algorithm configuration to create. Providers reject
// specs they cannot serve.
type XformSpec struct {
	Op         XformOp
	Comp       CompAlgo
	Checksum   Checksum
	Huffman    Huffman
	WindowSize int
	// Key, IVLen and TagLen parameterize crypto transforms.
	Key    []byte
	IVLen  int
	TagLen int
}

// Xform is an algorithm configuration handle returned by a device. It is
// immutable while any descriptor references it. The payload is provider
// private state.
type Xform struct {
	spec     XformSpec
	payload  any
	destroy  func(any)
	released bool
}

// NewXform wraps provider state into a transform handle. destroy, if not
// nil, runs exactly once on the first Release.
func NewXform(spec XformSpec, payload any, destroy func(any)) *Xform {
	return &Xform{spec: spec, payload: payload, destroy: destroy}
}

// Spec returns the creating spec.
func (x *Xform) Spec() XformSpec {
	return x.spec
}

// Payload returns the provider private state.
func (x *Xform) Payload() any {
	return x.payload
}

// Release destroys the transform. It is safe to call on a nil or already
// released transform; the second and later calls are no-ops.
func (x *Xform) Release() {
	if x == nil || x.released {
		return
	}
	x.released = true
	if x.destroy != nil {
		x.destroy(x.payload)
	}
	x.payload = nil
}
