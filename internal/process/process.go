// Package process answers questions about the process this library lives in:
// which module is the executable, where a named module is mapped, and what the
// executable file is called.
package process

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/skiprunback/extension/pkg/core"
)

var (
	// ErrModuleNotFound is returned when no loaded module has the requested name.
	ErrModuleNotFound = errors.New("module not found")
	// ErrUnsupported is returned on platforms without an introspection backend.
	ErrUnsupported = errors.New("process introspection not supported on this platform")
)

// Module is one mapped image.
type Module struct {
	Name string
	Path string
	Base core.Address
	Size uint64
}

func (m Module) String() string {
	return fmt.Sprintf("%s@%s+%#x", m.Name, m.Base, m.Size)
}

// Introspector describes the current process.
type Introspector interface {
	// BaseModule is the executable image the process was started from.
	BaseModule() (Module, error)
	FindModule(name string) (Module, error)
	Modules() ([]Module, error)
	ExecutablePath() (string, error)
}

// SameName compares module or file names the way the loader does on Windows.
func SameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ExecutableName returns the file name of the process executable.
func ExecutableName(p Introspector) (string, error) {
	path, err := p.ExecutablePath()
	if err != nil {
		return "", err
	}
	// Windows paths must split on backslashes on every platform for Static.
	path = strings.ReplaceAll(path, `\`, "/")
	return filepath.Base(path), nil
}

func findIn(modules []Module, name string) (Module, error) {
	for _, m := range modules {
		if SameName(m.Name, name) {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}
