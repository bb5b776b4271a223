// Package console opens and closes the debug console window of the host
// process and shows blocking error dialogs.
package console

import "sync"

// Console tracks whether this library allocated a console.
type Console struct {
	mu   sync.Mutex
	open bool
}

// Open reports whether the console is currently allocated.
func (c *Console) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Set allocates or frees the console so that it matches want.
func (c *Console) Set(want bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if want == c.open {
		return nil
	}
	var err error
	if want {
		err = alloc()
	} else {
		err = free()
	}
	if err != nil {
		return err
	}
	c.open = want
	return nil
}
