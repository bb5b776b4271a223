package nativebridge

/*
#cgo LDFLAGS: -ldl
#define _GNU_SOURCE
#include <dlfcn.h>

static const char* skip_image_path(void) {
	Dl_info info;
	if (dladdr((void*)skip_image_path, &info) == 0) {
		return NULL;
	}
	return info.dli_fname;
}
*/
import "C"

// ModulePath returns the path of the shared object this runtime was loaded from.
// It is empty when the loader cannot tell.
func ModulePath() string {
	// dli_fname is owned by the loader.
	path := C.skip_image_path()
	if path == nil {
		return ""
	}
	return C.GoString(path)
}
