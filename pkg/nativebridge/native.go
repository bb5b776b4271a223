package nativebridge

/*
#include "bridge.h"

static int call_attach(skip_attach_fn fn, uintptr_t at, uintptr_t handle) {
    return fn(at, handle);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/pkg/core"
)

func nativeAttach(fn C.skip_attach_fn) AttachFunc {
	return func(at core.Address, h instrument.Handle) error {
		if rc := C.call_attach(fn, C.uintptr_t(at), C.uintptr_t(h)); rc != 0 {
			return fmt.Errorf("native attach at %s failed with code %d", at, int(rc))
		}
		return nil
	}
}

// registers copies a native snapshot. skip_cpu_context has the same layout
// as instrument.Registers.
func registers(ctx *C.skip_cpu_context) instrument.Registers {
	return *(*instrument.Registers)(unsafe.Pointer(ctx))
}
