//go:build !windows && !linux

package nativebridge

// ModulePath is unknown on this platform.
func ModulePath() string {
	return ""
}
