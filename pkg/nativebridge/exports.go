package nativebridge

/*
#include <stdlib.h>
#include <string.h>
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/skiprunback/extension/internal/instrument"
)

// SkipVersion writes the extension version into output.
//
//export SkipVersion
func SkipVersion(output *C.char, outputsize C.size_t) {
	Config.mu.RLock()
	v := Config.version
	Config.mu.RUnlock()
	reply(v, output, outputsize)
}

// SkipCommand runs a host command such as ":WAYPOINT:SAVE:" and writes the
// response into output.
//
//export SkipCommand
func SkipCommand(output *C.char, outputsize C.size_t, input *C.char) {
	reply(handleCommand(C.GoString(input)), output, outputsize)
}

// SkipRegisterInterceptor hands over the shim's attach function.
//
//export SkipRegisterInterceptor
func SkipRegisterInterceptor(fn C.skip_attach_fn) {
	if fn == nil {
		setAttach(nil)
		return
	}
	setAttach(nativeAttach(fn))
}

// SkipProbeHit is called on the game thread for every hit of an attached probe.
//
//export SkipProbeHit
func SkipProbeHit(handle C.uintptr_t, ctx *C.skip_cpu_context) {
	if ctx == nil {
		return
	}
	instrument.Probes.Fire(instrument.Handle(handle), registers(ctx))
}

// SkipLog forwards a log line from the shim.
//
//export SkipLog
func SkipLog(source, level, data *C.char) {
	writeLog(C.GoString(source), C.GoString(data), C.GoString(level))
}

// SkipShutdown is called once before the extension is unloaded.
//
//export SkipShutdown
func SkipShutdown() {
	shutdown()
}

func reply(response string, output *C.char, outputsize C.size_t) {
	if output == nil || outputsize == 0 {
		return
	}
	result := C.CString(response)
	defer C.free(unsafe.Pointer(result))
	size := C.strlen(result) + 1
	if size > outputsize {
		size = outputsize
	}
	C.memmove(unsafe.Pointer(output), unsafe.Pointer(result), size)
	// Truncated replies still end in a terminator.
	*(*C.char)(unsafe.Add(unsafe.Pointer(output), outputsize-1)) = 0
}
