// Package memory is the only place that turns a core.Address into a dereference.
//
// Reads and writes through an Accessor are unchecked. An address discovered at
// runtime cannot be validated against the live memory map cheaply, so a stale or
// wrong address yields garbage values or takes the host process down. Callers
// accept that risk when they hand an address to this package.
package memory

import (
	"errors"

	"github.com/skiprunback/extension/pkg/core"
)

// ErrNullAddress is returned when an image is requested at address zero.
var ErrNullAddress = errors.New("null address")

// Accessor reads and writes raw memory.
type Accessor interface {
	ReadFloat32(addr core.Address) float32
	WriteFloat32(addr core.Address, v float32)

	// Image returns size bytes starting at base, for scanning.
	Image(base core.Address, size uint64) ([]byte, error)
}
