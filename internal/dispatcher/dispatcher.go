package dispatcher

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrQueueFull      = errors.New("queue full")
	ErrClosed         = errors.New("dispatcher closed")
)

// Event is one host action, raised by a key combination or by the native side.
type Event struct {
	Command   string
	Payload   any
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger is satisfied by *slog.Logger and logging.CommandLogger.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*route)

// Buffered runs the handler on its own goroutine behind a queue of the given
// size. Dispatch then returns "queued" without waiting for the handler.
func Buffered(size int) Option {
	return func(r *route) {
		r.queueSize = size
	}
}

// Blocking makes a full queue wait for space instead of dropping the event.
func Blocking() Option {
	return func(r *route) {
		r.blocking = true
	}
}

// Logged logs start, duration and failure of every event.
func Logged() Option {
	return func(r *route) {
		r.logged = true
	}
}

type route struct {
	command string
	handle  HandlerFunc

	queueSize int
	blocking  bool
	logged    bool
	queue     chan Event
}

// Dispatcher routes commands to their handlers. Registration happens before
// the first Dispatch; Dispatch and Close are safe from any goroutine.
type Dispatcher struct {
	logger  Logger
	metrics *metrics

	mu     sync.RWMutex
	routes map[string]*route
	closed bool
	wg     sync.WaitGroup
}

// New creates a dispatcher reporting to the global OTel meter.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		logger: logger,
		routes: make(map[string]*route),
	}
	m, err := newMetrics(d.queueLengths)
	if err != nil {
		return nil, err
	}
	d.metrics = m
	return d, nil
}

// Register sets the handler for command, replacing any earlier one.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	r := &route{command: command}
	for _, opt := range opts {
		opt(r)
	}

	r.handle = d.metrics.count(command, h)
	if r.logged {
		r.handle = d.logged(command, r.handle)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if r.queueSize > 0 {
		r.queue = make(chan Event, r.queueSize)
		d.wg.Add(1)
		go d.drain(r)
	}
	d.routes[command] = r
}

// Dispatch runs the handler for e.Command, or queues e for a buffered one.
// A zero Timestamp is set to now.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	d.mu.RLock()
	r, ok := d.routes[e.Command]
	if !ok {
		d.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	if r.queue == nil {
		d.mu.RUnlock()
		return r.handle(e)
	}
	// Close needs the write lock, so the queue stays open while we send.
	defer d.mu.RUnlock()
	return d.enqueue(r, e)
}

func (d *Dispatcher) enqueue(r *route, e Event) (any, error) {
	if d.closed {
		return nil, fmt.Errorf("%w: %s", ErrClosed, r.command)
	}
	if r.blocking {
		r.queue <- e
		return "queued", nil
	}
	select {
	case r.queue <- e:
		return "queued", nil
	default:
		d.metrics.drop(r.command)
		return nil, fmt.Errorf("%w: %s", ErrQueueFull, r.command)
	}
}

func (d *Dispatcher) drain(r *route) {
	defer d.wg.Done()
	for e := range r.queue {
		r.handle(e)
	}
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.routes[command]
	return ok
}

// Close waits for queued events to finish. Later dispatches to buffered
// handlers return ErrClosed; synchronous handlers keep working.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, r := range d.routes {
			if r.queue != nil {
				close(r.queue)
			}
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) queueLengths(observe func(command string, n int)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	for cmd, r := range d.routes {
		if r.queue != nil {
			observe(cmd, len(r.queue))
		}
	}
}

func (d *Dispatcher) logged(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("Handling command", "command", command, "waited", start.Sub(e.Timestamp))

		result, err := h(e)
		if err != nil {
			d.logger.Error("Command failed", "command", command, "duration", time.Since(start), "error", err)
			return result, err
		}
		d.logger.Debug("Command done", "command", command, "duration", time.Since(start), "result", result)
		return result, nil
	}
}
