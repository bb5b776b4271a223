package nativebridge

import (
	"reflect"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ModulePath returns the path of the DLL this runtime was loaded from.
// It is empty when the loader cannot tell.
func ModulePath() string {
	// Any code address inside the image identifies the module.
	var module windows.Handle
	err := windows.GetModuleHandleEx(
		windows.GET_MODULE_HANDLE_EX_FLAG_FROM_ADDRESS|windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT,
		(*uint16)(unsafe.Pointer(reflect.ValueOf(ModulePath).Pointer())),
		&module,
	)
	if err != nil {
		return ""
	}

	for size := uint32(windows.MAX_PATH); size <= windows.MAX_LONG_PATH; size *= 2 {
		buf := make([]uint16, size)
		n, err := windows.GetModuleFileName(module, &buf[0], size)
		if err != nil {
			return ""
		}
		// n == size means the name was truncated.
		if n < size {
			return windows.UTF16ToString(buf[:n])
		}
	}
	return ""
}
