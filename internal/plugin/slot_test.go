package plugin

import (
	"sync"
	"testing"

	"github.com/skiprunback/extension/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestPointerSlot(t *testing.T) {
	var s PointerSlot

	_, ok := s.Load()
	assert.False(t, ok)
	assert.False(t, s.View(func(core.Address) { t.Fatal("view on empty slot") }))

	old, changed := s.Publish(0x1000)
	assert.True(t, changed)
	assert.Equal(t, core.Address(0), old)

	_, changed = s.Publish(0x1000)
	assert.False(t, changed)

	old, changed = s.Publish(0x2000)
	assert.True(t, changed)
	assert.Equal(t, core.Address(0x1000), old)

	var seen core.Address
	assert.True(t, s.View(func(base core.Address) { seen = base }))
	assert.Equal(t, core.Address(0x2000), seen)

	s.Clear()
	_, ok = s.Load()
	assert.False(t, ok)
}

func TestPointerSlot_ZeroIsAValue(t *testing.T) {
	var s PointerSlot

	_, changed := s.Publish(0)
	assert.True(t, changed)
	addr, ok := s.Load()
	assert.True(t, ok)
	assert.Equal(t, core.Address(0), addr)
}

func TestPointerSlot_Transition(t *testing.T) {
	var s PointerSlot
	s.Publish(0x1000)

	s.Transition(func() (core.Address, bool) {
		return 0, false
	})
	_, ok := s.Load()
	assert.False(t, ok)

	s.Transition(func() (core.Address, bool) {
		return 0x3000, true
	})
	addr, ok := s.Load()
	assert.True(t, ok)
	assert.Equal(t, core.Address(0x3000), addr)
}

func TestPointerSlot_Concurrent(t *testing.T) {
	var s PointerSlot
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(base core.Address) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				s.Publish(base + core.Address(j%2))
			}
		}(core.Address(i * 0x100))
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				s.View(func(core.Address) {})
			}
		}()
	}
	wg.Wait()

	_, ok := s.Load()
	assert.True(t, ok)
}
