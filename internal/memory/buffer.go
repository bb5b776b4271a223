package memory

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/skiprunback/extension/pkg/core"
)

// Buffer is an Accessor over a byte slice that pretends to live at Base.
// Out of range reads return zero and out of range writes are dropped.
type Buffer struct {
	mu   sync.Mutex
	base core.Address
	data []byte
}

// NewBuffer returns a zeroed buffer of size bytes mapped at base.
func NewBuffer(base core.Address, size int) *Buffer {
	return &Buffer{base: base, data: make([]byte, size)}
}

// NewBufferFrom maps an existing byte slice at base.
func NewBufferFrom(base core.Address, data []byte) *Buffer {
	return &Buffer{base: base, data: data}
}

// Base returns the address of the first byte.
func (b *Buffer) Base() core.Address {
	return b.base
}

func (b *Buffer) index(addr core.Address, n int) (int, bool) {
	if addr < b.base {
		return 0, false
	}
	off := int(addr - b.base)
	if off+n > len(b.data) {
		return 0, false
	}
	return off, true
}

func (b *Buffer) ReadFloat32(addr core.Address) float32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	off, ok := b.index(addr, 4)
	if !ok {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:]))
}

func (b *Buffer) WriteFloat32(addr core.Address, v float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	off, ok := b.index(addr, 4)
	if !ok {
		return
	}
	binary.LittleEndian.PutUint32(b.data[off:], math.Float32bits(v))
}

func (b *Buffer) Image(base core.Address, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if base.IsNull() {
		return nil, ErrNullAddress
	}
	off, ok := b.index(base, int(size))
	if !ok {
		return nil, fmt.Errorf("image %s+%#x outside buffer", base, size)
	}
	out := make([]byte, size)
	copy(out, b.data[off:])
	return out, nil
}
