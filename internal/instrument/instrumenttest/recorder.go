// Package instrumenttest provides an in-process Interceptor for tests.
package instrumenttest

import (
	"errors"
	"sync"

	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/pkg/core"
)

// Attachment is one recorded Attach call.
type Attachment struct {
	At     core.Address
	Handle instrument.Handle
}

// Recorder pins probes in its own table and lets tests fire them.
type Recorder struct {
	mu       sync.Mutex
	pinned   instrument.Pinned
	attached []Attachment

	// Fail makes the next Attach calls return this error.
	Fail error
}

func (r *Recorder) Attach(at core.Address, probe instrument.Probe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	if probe == nil {
		return errors.New("nil probe")
	}
	h := r.pinned.Pin(probe)
	r.attached = append(r.attached, Attachment{At: at, Handle: h})
	return nil
}

// Attachments returns every successful Attach in order.
func (r *Recorder) Attachments() []Attachment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Attachment(nil), r.attached...)
}

// Hit fires every probe attached at the given address.
func (r *Recorder) Hit(at core.Address, regs instrument.Registers) int {
	fired := 0
	for _, a := range r.Attachments() {
		if a.At == at && r.pinned.Fire(a.Handle, regs) {
			fired++
		}
	}
	return fired
}
