//go:build windows

package input

import "golang.org/x/sys/windows"

// Foreground reports whether the focused window belongs to this process.
func Foreground() bool {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return false
	}
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
		return false
	}
	return pid == windows.GetCurrentProcessId()
}
