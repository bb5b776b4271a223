//go:build !windows

package input

// Foreground is always true where there is no window to check.
func Foreground() bool { return true }
