package instrument

import (
	"fmt"
	"sync"

	"github.com/skiprunback/extension/pkg/core"
)

// Probe is called synchronously on the game thread every time the instrumented
// instruction executes. Implementations must not block or do I/O.
type Probe interface {
	OnHit(regs Registers)
}

// Interceptor installs a probe at an instruction address. There is no detach:
// once attached, a probe may be called until the process exits.
type Interceptor interface {
	Attach(at core.Address, probe Probe) error
}

// Handle identifies a pinned probe across the native boundary. Zero is never issued.
type Handle uintptr

// Pinned owns every probe handed to native code. Entries are intentionally
// never released: the native interceptor keeps calling a handle for as long as
// the game runs, so dropping one would turn a hit into a lookup miss at best.
type Pinned struct {
	mu     sync.RWMutex
	probes []Probe
}

// Probes is the process-wide pin table used by the native bridge.
var Probes = &Pinned{}

// Pin keeps probe alive for the life of the process and returns its handle.
func (p *Pinned) Pin(probe Probe) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes = append(p.probes, probe)
	return Handle(len(p.probes))
}

// Lookup returns the probe for h.
func (p *Pinned) Lookup(h Handle) (Probe, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if h == 0 || int(h) > len(p.probes) {
		return nil, false
	}
	return p.probes[h-1], true
}

// Fire dispatches a hit to the probe behind h. Unknown handles are ignored.
func (p *Pinned) Fire(h Handle, regs Registers) bool {
	probe, ok := p.Lookup(h)
	if !ok {
		return false
	}
	probe.OnHit(regs)
	return true
}

// Len is the number of pinned probes.
func (p *Pinned) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.probes)
}

func (h Handle) String() string {
	return fmt.Sprintf("probe#%d", uintptr(h))
}
