package instrument

import (
	"errors"
	"fmt"
	"os"

	"github.com/skiprunback/extension/internal/memory"
	"github.com/skiprunback/extension/internal/process"
	"github.com/skiprunback/extension/pkg/core"
)

var (
	// ErrSignatureNotFound is returned when a pattern has no match in the scanned image.
	ErrSignatureNotFound = errors.New("signature not found")
	// ErrModuleUnavailable is returned when the module to scan cannot be read.
	ErrModuleUnavailable = errors.New("module unavailable")
)

// Locator finds the address of the first instruction matching a signature.
type Locator interface {
	Locate(sig Signature) (core.Address, error)
}

// ModuleLocator scans the image of the process' base module.
type ModuleLocator struct {
	Process process.Introspector
	Memory  memory.Accessor
}

func (l ModuleLocator) Locate(sig Signature) (core.Address, error) {
	module, err := l.Process.BaseModule()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrModuleUnavailable, err)
	}
	return LocateIn(l.Memory, module, sig)
}

// LocateIn scans one module.
func LocateIn(mem memory.Accessor, module process.Module, sig Signature) (core.Address, error) {
	image, err := mem.Image(module.Base, module.Size)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrModuleUnavailable, module.Name, err)
	}
	at := sig.Index(image)
	if at < 0 {
		return 0, fmt.Errorf("%w: %q in %s", ErrSignatureNotFound, sig, module.Name)
	}
	return module.Base.Offset(int64(at)), nil
}

// ScanFile returns the file offset of the first match of sig in the file at path.
// File offsets differ from RVAs by the section alignment; it is meant for checking
// that a signature is present and unique in a shipped executable.
func ScanFile(path string, sig Signature) (offset int, matches int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, 0, fmt.Errorf("%w: %w", ErrModuleUnavailable, err)
	}

	offset = -1
	for from := 0; from+sig.Len() <= len(data); {
		i := sig.Index(data[from:])
		if i < 0 {
			break
		}
		if offset < 0 {
			offset = from + i
		}
		matches++
		from += i + 1
	}
	if matches == 0 {
		return -1, 0, fmt.Errorf("%w: %q in %s", ErrSignatureNotFound, sig, path)
	}
	return offset, matches, nil
}
