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

// OpPool hands out operation descriptors. All descriptors are preallocated at
// construction; AllocBulk either fills the whole request or takes nothing.
type OpPool struct {
	name     string
	pool     chan *Op
	capacity int
	closed   bool
}

// NewOpPool creates a pool of capacity descriptors. The cache size mirrors
// the per-thread cache hint of hardware descriptor pools; it is validated
// against the capacity but the channel-backed pool does not need one.
func NewOpPool(name string, capacity, cacheSize int) (*OpPool, error) {
	if capacity <= 0 {
		return nil, serrors.New("invalid pool capacity", "pool", name, "capacity", capacity)
	}
	if cacheSize < 0 || cacheSize > capacity {
		return nil, serrors.New("invalid pool cache size",
			"pool", name, "capacity", capacity, "cache", cacheSize)
	}
	p := &OpPool{
		name:     name,
		pool:     make(chan *Op, capacity),
		capacity: capacity,
	}
	for i := 0; i < capacity; i++ {
		p.pool <- &Op{}
	}
	return p, nil
}

// AllocBulk fills ops with descriptors from the pool. On shortfall nothing
// is allocated and ErrExhausted is returned.
func (p *OpPool) AllocBulk(ops []*Op) error {
	for i := range ops {
		select {
		case op := <-p.pool:
			op.pool = p
			ops[i] = op
		default:
			for j := 0; j < i; j++ {
				ops[j].Release()
				ops[j] = nil
			}
			return serrors.Join(ErrExhausted, nil,
				"pool", p.name, "want", len(ops), "free", 0)
		}
	}
	return nil
}

func (p *OpPool) put(op *Op) {
	select {
	case p.pool <- op:
	default:
		// Every descriptor originates here, so a full pool on return means
		// a foreign or double-released descriptor.
		panic("descriptor returned to full pool: " + p.name)
	}
}

// InUse returns the number of descriptors currently allocated.
func (p *OpPool) InUse() int {
	return p.capacity - len(p.pool)
}

// Capacity returns the pool capacity.
func (p *OpPool) Capacity() int {
	return p.capacity
}

// Name returns the pool name.
func (p *OpPool) Name() string {
	return p.name
}

// Close verifies that all descriptors were returned. Closing with
// outstanding descriptors fails with ErrInUse and leaves the pool usable, so
// the caller can release and retry. Close is idempotent.
func (p *OpPool) Close() error {
	if p == nil || p.closed {
		return nil
	}
	if n := p.InUse(); n != 0 {
		return serrors.Join(ErrInUse, nil, "pool", p.name, "count", n)
	}
	p.closed = true
	return nil
}

// BufPool hands out payload buffers of a fixed size.
type BufPool struct {
	name     string
	pool     chan *Buf
	capacity int
	bufSize  int
	closed   bool
}

// NewBufPool creates a pool of capacity buffers, each of bufSize bytes. The
// cache size is validated the same way as for NewOpPool.
func NewBufPool(name string, capacity, cacheSize, bufSize int) (*BufPool, error) {
	if capacity <= 0 {
		return nil, serrors.New("invalid pool capacity", "pool", name, "capacity", capacity)
	}
	if cacheSize < 0 || cacheSize > capacity {
		return nil, serrors.New("invalid pool cache size",
			"pool", name, "capacity", capacity, "cache", cacheSize)
	}
	if bufSize <= 0 {
		return nil, serrors.New("invalid buffer size", "pool", name, "buf_size", bufSize)
	}
	p := &BufPool{
		name:     name,
		pool:     make(chan *Buf, capacity),
		capacity: capacity,
		bufSize:  bufSize,
	}
	for i := 0; i < capacity; i++ {
		p.pool <- &Buf{data: make([]byte, bufSize)}
	}
	return p, nil
}

// Alloc returns one buffer, or ErrExhausted when the pool is empty.
func (p *BufPool) Alloc() (*Buf, error) {
	select {
	case b := <-p.pool:
		b.pool = p
		return b, nil
	default:
		return nil, serrors.Join(ErrExhausted, nil, "pool", p.name)
	}
}

// AllocBulk fills bufs with buffers from the pool. On shortfall nothing is
// allocated and ErrExhausted is returned.
func (p *BufPool) AllocBulk(bufs []*Buf) error {
	for i := range bufs {
		b, err := p.Alloc()
		if err != nil {
			for j := 0; j < i; j++ {
				bufs[j].Release()
				bufs[j] = nil
			}
			return serrors.Join(ErrExhausted, nil,
				"pool", p.name, "want", len(bufs))
		}
		bufs[i] = b
	}
	return nil
}

func (p *BufPool) put(b *Buf) {
	select {
	case p.pool <- b:
	default:
		panic("buffer returned to full pool: " + p.name)
	}
}

// InUse returns the number of buffers currently allocated.
func (p *BufPool) InUse() int {
	return p.capacity - len(p.pool)
}

// Capacity returns the pool capacity.
func (p *BufPool) Capacity() int {
	return p.capacity
}

// BufSize returns the capacity of each buffer in the pool.
func (p *BufPool) BufSize() int {
	return p.bufSize
}

// Name returns the pool name.
func (p *BufPool) Name() string {
	return p.name
}

// Close verifies that all buffers were returned. Closing with outstanding
// buffers fails with ErrInUse and leaves the pool usable. Close is
// idempotent.
func (p *BufPool) Close() error {
	if p == nil || p.closed {
		return nil
	}
	if n := p.InUse(); n != 0 {
		return serrors.Join(ErrInUse, nil, "pool", p.name, "count", n)
	}
	p.closed = true
	return nil
}
