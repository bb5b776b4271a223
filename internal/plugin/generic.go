package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rs/zerolog"
	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/internal/memory"
	"github.com/skiprunback/extension/internal/process"
	"github.com/skiprunback/extension/pkg/core"
	"go.opentelemetry.io/otel/metric"
)

// Dependencies are the capabilities a Generic plugin works through.
type Dependencies struct {
	Process     process.Introspector
	Memory      memory.Accessor
	Interceptor instrument.Interceptor

	// Locator defaults to a ModuleLocator over Process and Memory.
	Locator instrument.Locator
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// ProbeLogger is used on the game thread; only trace events are written.
	ProbeLogger zerolog.Logger
	// Meter defaults to the global meter.
	Meter metric.Meter
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Locator == nil {
		d.Locator = instrument.ModuleLocator{Process: d.Process, Memory: d.Memory}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Meter == nil {
		d.Meter = meter()
	}
	return d
}

// Generic is a plugin driven entirely by a Config. Built-in presets have no
// backing file; plugins loaded from a file can be reloaded while running.
type Generic struct {
	deps   Dependencies
	path   string
	logger *slog.Logger

	// mu serialises host calls and guards config and intercept.
	mu        sync.RWMutex
	config    Config
	started   bool
	degraded  bool
	intercept *CoordinateIntercept

	// attachedSig is the signature the intercept was located with.
	attachedSig string

	slot PointerSlot
}

var _ Plugin = (*Generic)(nil)

// New returns a plugin for a fixed config.
func New(cfg Config, deps Dependencies) *Generic {
	deps = deps.withDefaults()
	return &Generic{
		deps:   deps,
		config: cfg,
		logger: deps.Logger.With("plugin", cfg.Identifiers.PluginName),
	}
}

// NewFromFile loads path and returns a plugin that reloads from it.
func NewFromFile(path string, deps Dependencies) (*Generic, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	g := New(cfg, deps)
	g.path = path
	return g, nil
}

// Path is the backing file, empty for presets.
func (g *Generic) Path() string {
	return g.path
}

func (g *Generic) Identifiers() Identifiers {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config.Identifiers
}

// Config returns the active config.
func (g *Generic) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

func (g *Generic) ShouldApply(proc process.Introspector) bool {
	return Applies(g.Identifiers(), proc)
}

func (g *Generic) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return errors.New("plugin already started")
	}

	switch p := g.config.Position.(type) {
	case InterceptConfig:
		if err := g.attach(p); err != nil {
			return err
		}
	case AbsolutePointer, RelativePointer:
		addr, err := g.resolve(p)
		if err != nil {
			return err
		}
		g.slot.Publish(addr)
		g.logger.Info("Using given pointer", "position", p, "pointer", addr)
	default:
		return fmt.Errorf("unknown position source %T", p)
	}

	g.started = true
	return nil
}

// attach locates the signature and installs the intercept. Must hold g.mu.
func (g *Generic) attach(cfg InterceptConfig) error {
	sig, err := instrument.ParseSignature(cfg.Signature)
	if err != nil {
		return err
	}
	at, err := g.deps.Locator.Locate(sig)
	if err != nil {
		return err
	}
	g.logger.Info("Found position modification instruction", "address", at)

	intercept := NewCoordinateIntercept(&g.slot, cfg, g.deps.ProbeLogger.With().
		Str("plugin", g.config.Identifiers.PluginName).Logger())
	if err := g.deps.Interceptor.Attach(at, intercept); err != nil {
		return fmt.Errorf("attaching intercept at %s: %w", at, err)
	}
	g.intercept = intercept
	g.attachedSig = cfg.Signature

	if err := intercept.registerMetrics(g.deps.Meter, g.config.Identifiers.PluginName); err != nil {
		g.logger.Warn("Intercept metrics unavailable", "error", err)
	}
	g.logger.Info("Initiated interceptor", "address", at, "register", cfg.Register, "filter", cfg.Filter)
	return nil
}

// resolve turns a static position source into an address.
func (g *Generic) resolve(src PositionSource) (core.Address, error) {
	var addr core.Address
	switch p := src.(type) {
	case AbsolutePointer:
		addr = core.Address(p)
	case RelativePointer:
		name, err := p.Module()
		if err != nil {
			return 0, err
		}
		offset, err := p.Offset()
		if err != nil {
			return 0, err
		}
		module, err := g.deps.Process.FindModule(name)
		if err != nil {
			return 0, fmt.Errorf("resolving %q: %w", string(p), err)
		}
		addr = module.Base.Offset(int64(offset))
	default:
		return 0, fmt.Errorf("position source %T is not static", src)
	}
	if addr.IsNull() {
		return 0, ErrNullPointer
	}
	return addr, nil
}

func (g *Generic) GetCurrentCoordinates() (core.Coordinates, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	off := g.config.PointerOffsets
	mem := g.deps.Memory
	var c core.Coordinates
	ok := g.slot.View(func(base core.Address) {
		c.X = mem.ReadFloat32(base.Offset(off.X))
		c.Y = mem.ReadFloat32(base.Offset(off.Y))
		c.Z = mem.ReadFloat32(base.Offset(off.Z))
	})
	return c, ok
}

func (g *Generic) SetCurrentCoordinates(c core.Coordinates) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	off := g.config.PointerOffsets
	mem := g.deps.Memory
	ok := g.slot.View(func(base core.Address) {
		mem.WriteFloat32(base.Offset(off.X), c.X)
		mem.WriteFloat32(base.Offset(off.Y), c.Y)
		mem.WriteFloat32(base.Offset(off.Z), c.Z)
	})
	if !ok {
		return ErrPointerNotInitialized
	}
	return nil
}

// CurrentPointer returns the discovered base address.
func (g *Generic) CurrentPointer() (core.Address, bool) {
	return g.slot.Load()
}

// Stats returns the intercept counters, or false when no intercept is attached.
func (g *Generic) Stats() (InterceptStats, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.intercept == nil {
		return InterceptStats{}, false
	}
	return g.intercept.Stats(), true
}

// ReloadConfig re-reads the backing file. An unchanged file is a no-op. A
// changed one clears the pointer, then either reconfigures the attached
// intercept in place or re-resolves the static address. On a load or parse
// error the active config is kept; on a resolution error the new config is
// kept with an empty pointer and the next reload retries.
func (g *Generic) ReloadConfig() error {
	if g.path == "" {
		return nil
	}

	cfg, err := LoadFile(g.path)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if cfg.Equal(g.config) && !g.degraded {
		return nil
	}
	if !g.started {
		g.config = cfg
		return nil
	}

	var resolveErr error
	needsAttach := false

	g.slot.Transition(func() (core.Address, bool) {
		switch p := cfg.Position.(type) {
		case InterceptConfig:
			if g.intercept == nil {
				needsAttach = true
				return 0, false
			}
			g.intercept.Reconfigure(p)
			return 0, false
		default:
			if g.intercept != nil {
				g.intercept.Disable()
			}
			addr, err := g.resolve(p)
			if err != nil {
				resolveErr = err
				return 0, false
			}
			return addr, true
		}
	})

	g.config = cfg
	g.logger = g.deps.Logger.With("plugin", cfg.Identifiers.PluginName)

	if p, ok := cfg.Position.(InterceptConfig); ok {
		if needsAttach {
			resolveErr = g.attach(p)
		} else if p.Signature != g.attachedSig {
			g.logger.Warn("Intercept signature changed; the attached probe keeps its location until restart",
				"attached", g.attachedSig, "configured", p.Signature)
		}
	}

	g.degraded = resolveErr != nil
	if resolveErr != nil {
		return fmt.Errorf("reloading %s: %w", g.path, resolveErr)
	}

	g.logger.Info("Reloaded plugin config", "path", g.path)
	return nil
}
