//go:build !windows

package input

// System reports every key as released outside Windows.
type System struct{}

func (System) Down(Key) bool { return false }
