package memory

import (
	"fmt"
	"unsafe"

	"github.com/skiprunback/extension/pkg/core"
)

// Local accesses the memory of the process this library is loaded into.
type Local struct{}

func (Local) ReadFloat32(addr core.Address) float32 {
	return *(*float32)(unsafe.Pointer(uintptr(addr)))
}

func (Local) WriteFloat32(addr core.Address, v float32) {
	*(*float32)(unsafe.Pointer(uintptr(addr))) = v
}

// Image aliases the module's mapped pages; the slice must not be written to.
func (Local) Image(base core.Address, size uint64) ([]byte, error) {
	if base.IsNull() {
		return nil, ErrNullAddress
	}
	if size == 0 {
		return nil, fmt.Errorf("empty image at %s", base)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(base))), int(size)), nil
}
