package plugin

import (
	"sync"

	"github.com/skiprunback/extension/pkg/core"
)

// PointerSlot holds the currently discovered base address, if any. It is
// written by the probe on a game thread and read by the host loop; nothing
// that blocks may run while the lock is held.
type PointerSlot struct {
	mu   sync.Mutex
	addr core.Address
	set  bool
}

// Load returns the current address and whether one is set.
func (s *PointerSlot) Load() (core.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr, s.set
}

// Publish stores addr. changed is false when addr was already the current value.
func (s *PointerSlot) Publish(addr core.Address) (old core.Address, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set && s.addr == addr {
		return addr, false
	}
	old = s.addr
	s.addr, s.set = addr, true
	return old, true
}

// Clear empties the slot.
func (s *PointerSlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addr, s.set = 0, false
}

// View runs fn with the current address under the lock. It returns false
// without calling fn when the slot is empty.
func (s *PointerSlot) View(fn func(base core.Address)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return false
	}
	fn(s.addr)
	return true
}

// Transition clears the slot and runs fn while still holding the lock, so no
// reader can observe the old address once fn starts. If fn returns an address
// it is published before the lock is released.
func (s *PointerSlot) Transition(fn func() (core.Address, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addr, s.set = 0, false
	if addr, ok := fn(); ok {
		s.addr, s.set = addr, true
	}
}
