// Package plugin implements the data-driven coordinate hook: locating the
// instruction, publishing the captured base address, and reading or writing
// the coordinate triple at the configured offsets.
package plugin

import (
	"github.com/skiprunback/extension/internal/process"
	"github.com/skiprunback/extension/pkg/core"
)

// Plugin is the surface the host loop drives.
type Plugin interface {
	Identifiers() Identifiers
	// Start locates and attaches (or resolves a static address). Called once.
	Start() error
	// GetCurrentCoordinates returns false while no base address is known.
	GetCurrentCoordinates() (core.Coordinates, bool)
	SetCurrentCoordinates(c core.Coordinates) error
	ReloadConfig() error
	ShouldApply(proc process.Introspector) bool
}

// Applies reports whether ids match proc: the expected module is loaded, or
// the executable has the expected file name.
func Applies(ids Identifiers, proc process.Introspector) bool {
	if ids.ExpectedModule != "" {
		if _, err := proc.FindModule(ids.ExpectedModule); err == nil {
			return true
		}
	}
	if ids.ExpectedExeName != "" {
		if name, err := process.ExecutableName(proc); err == nil && process.SameName(name, ids.ExpectedExeName) {
			return true
		}
	}
	return false
}
