// pkg/core/address.go
package core

import "fmt"

// Address is an opaque location in the host process' address space.
// It is never converted to a typed Go pointer outside internal/memory.
type Address uintptr

// IsNull reports whether the address is zero.
func (a Address) IsNull() bool {
	return a == 0
}

// Offset returns the address displaced by delta bytes. Wrapping is not checked.
func (a Address) Offset(delta int64) Address {
	return Address(uintptr(int64(a) + delta))
}

func (a Address) String() string {
	return fmt.Sprintf("%#X", uintptr(a))
}
