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

// Op is one unit of asynchronous work. Descriptors are allocated in bulk from
// an OpPool, populated with buffer and transform references, submitted in
// bursts, and recycled across iterations. Release is idempotent; a released
// descriptor must not be touched again until the pool hands it out anew.
type Op struct {
	// Src is the payload the operation reads.
	Src *Buf
	// Dst receives output for operations that produce any. Packet
	// transmission leaves it nil; a posted receive slot carries only Dst.
	Dst *Buf
	// Offset and Length select the payload window within Src.
	Offset int
	Length int
	// Xform is the algorithm configuration to apply. It is shared read-only
	// between descriptors and must outlive all of them.
	Xform *Xform
	// IV is the per-operation initialization vector for crypto transforms.
	IV []byte

	// Status is stamped by the device on completion.
	Status Status
	// Consumed and Produced are the byte counts the device reports.
	Consumed int
	Produced int
	// OutputChecksum is filled when the transform requests checksumming.
	OutputChecksum uint64

	pool *OpPool
}

// Reset clears the descriptor for reuse. The pool association survives.
func (op *Op) Reset() {
	op.Src = nil
	op.Dst = nil
	op.Offset = 0
	op.Length = 0
	op.Xform = nil
	op.IV = nil
	op.Status = StatusSuccess
	op.Consumed = 0
	op.Produced = 0
	op.OutputChecksum = 0
}

// Release returns the descriptor to its pool. It is safe to call on a nil or
// already released descriptor; the second and later calls are no-ops.
func (op *Op) Release() {
	if op == nil || op.pool == nil {
		return
	}
	pool := op.pool
	op.pool = nil
	op.Reset()
	pool.put(op)
}

// Buf is a fixed-capacity chunk of payload memory owned by a BufPool. The
// valid region grows by Append and is read through Bytes.
type Buf struct {
	data   []byte
	length int
	pool   *BufPool
}

// Cap returns the buffer capacity in bytes.
func (b *Buf) Cap() int {
	return len(b.data)
}

// Len returns the number of valid bytes.
func (b *Buf) Len() int {
	return b.length
}

// Reset drops the valid region.
func (b *Buf) Reset() {
	b.length = 0
}

// Append extends the valid region by n bytes and returns the newly valid
// slice for the caller to fill. It fails when the tailroom is insufficient.
func (b *Buf) Append(n int) ([]byte, error) {
	if b.length+n > len(b.data) {
		return nil, serrors.New("buffer tailroom exceeded",
			"cap", len(b.data), "len", b.length, "append", n)
	}
	region := b.data[b.length : b.length+n]
	b.length += n
	return region, nil
}

// Bytes returns the valid region. The slice aliases the buffer memory.
func (b *Buf) Bytes() []byte {
	return b.data[:b.length]
}

// Release returns the buffer to its pool. It is safe to call on a nil or
// already released buffer; the second and later calls are no-ops.
func (b *Buf) Release() {
	if b == nil || b.pool == nil {
		return
	}
	pool := b.pool
	b.pool = nil
	b.Reset()
	pool.put(b)
}
