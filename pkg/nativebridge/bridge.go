// Package nativebridge is the C surface of the extension. The native
// instrumentation shim registers its attach function, forwards probe hits,
// and may issue host commands; everything behind that is Go.
package nativebridge

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/skiprunback/extension/internal/dispatcher"
	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/pkg/core"
)

// ErrNoInterceptor is returned by Attach before the shim registered itself.
var ErrNoInterceptor = errors.New("no native interceptor registered")

// AttachFunc installs a native probe that reports hits for handle.
type AttachFunc func(at core.Address, handle instrument.Handle) error

// LogSink receives log lines from the shim.
type LogSink func(source, data, level string)

type configStruct struct {
	mu sync.RWMutex

	version    string
	dispatcher *dispatcher.Dispatcher
	attach     AttachFunc
	logSink    LogSink
	onReady    func()
	onShutdown func()
}

// Config is the process-wide bridge state.
var Config = &configStruct{version: "No version set"}

// SetVersion sets the string SkipVersion reports.
func SetVersion(version string) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.version = version
}

// SetDispatcher routes SkipCommand calls to d.
func SetDispatcher(d *dispatcher.Dispatcher) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.dispatcher = d
}

// SetLogSink forwards SkipLog calls to sink.
func SetLogSink(sink LogSink) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.logSink = sink
}

// OnShutdown registers fn to run when the shim unloads the extension.
func OnShutdown(fn func()) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.onShutdown = fn
}

// OnReady registers fn to run, on its own goroutine, every time the shim
// registers a non-nil attach function. Callers that must start only once
// guard fn themselves (cmd/skip_runback wraps it in a sync.Once).
func OnReady(fn func()) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.onReady = fn
}

func setAttach(fn AttachFunc) {
	Config.mu.Lock()
	Config.attach = fn
	ready := Config.onReady
	Config.mu.Unlock()

	if fn != nil && ready != nil {
		go ready()
	}
}

// Registered reports whether the shim has handed over its attach function.
func Registered() bool {
	Config.mu.RLock()
	defer Config.mu.RUnlock()
	return Config.attach != nil
}

// Interceptor attaches probes through the registered native shim. Probes are
// pinned in table, which defaults to instrument.Probes.
type Interceptor struct {
	table *instrument.Pinned
}

// NewInterceptor returns an Interceptor pinning into table.
func NewInterceptor(table *instrument.Pinned) *Interceptor {
	if table == nil {
		table = instrument.Probes
	}
	return &Interceptor{table: table}
}

func (i *Interceptor) Attach(at core.Address, probe instrument.Probe) error {
	Config.mu.RLock()
	attach := Config.attach
	Config.mu.RUnlock()

	if attach == nil {
		return ErrNoInterceptor
	}
	// Pinned before the shim can fire it; a failed attach leaves an unused entry.
	h := i.table.Pin(probe)
	return attach(at, h)
}

// handleCommand runs a command through the dispatcher. A command may carry
// arguments after a "|", in which case the part before it is looked up.
func handleCommand(command string) string {
	Config.mu.RLock()
	d := Config.dispatcher
	Config.mu.RUnlock()

	name, _, _ := strings.Cut(command, "|")
	if d == nil || !d.HasHandler(name) {
		return fmt.Sprintf(`["error", "%s", "no handler registered"]`, command)
	}

	result, err := d.Dispatch(dispatcher.Event{Command: name, Payload: command})
	return formatDispatchResponse(name, result, err)
}

func formatDispatchResponse(command string, result any, err error) string {
	if err != nil {
		return fmt.Sprintf(`["error", "%s", "%s"]`, command, err.Error())
	}
	if result == nil {
		return fmt.Sprintf(`["ok", "%s"]`, command)
	}
	return fmt.Sprintf(`["ok", "%s", "%v"]`, command, result)
}

func writeLog(source, data, level string) {
	Config.mu.RLock()
	sink := Config.logSink
	Config.mu.RUnlock()
	if sink != nil {
		sink(source, data, level)
	}
}

func shutdown() {
	Config.mu.RLock()
	fn := Config.onShutdown
	Config.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
