package input

import "sync"

// KeyState reports whether a key is held right now.
type KeyState interface {
	Down(k Key) bool
}

// Manager samples each key at most once per frame and remembers the previous
// frame, so a combination fires once when it becomes fully held.
type Manager struct {
	state KeyState

	mu       sync.Mutex
	current  map[Key]bool
	previous map[Key]bool
}

// NewManager creates a Manager over the given key state source.
func NewManager(state KeyState) *Manager {
	return &Manager{
		state:    state,
		current:  make(map[Key]bool),
		previous: make(map[Key]bool),
	}
}

// Down reports whether k is held in this frame.
func (m *Manager) Down(k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.down(k)
}

func (m *Manager) down(k Key) bool {
	if v, ok := m.current[k]; ok {
		return v
	}
	v := m.state.Down(k)
	m.current[k] = v
	return v
}

// AllPressed reports whether every key of c is held now and at least one of
// them was not held in the previous frame.
func (m *Manager) AllPressed(c Combo) bool {
	if len(c) == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := false
	for _, k := range c {
		if !m.down(k) {
			return false
		}
		if !m.previous[k] {
			fresh = true
		}
	}
	return fresh
}

// EndFrame makes this frame's samples the previous frame.
func (m *Manager) EndFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.previous, m.current = m.current, m.previous
	clear(m.current)
}
