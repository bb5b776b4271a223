package plugin

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CoordinateIntercept is the probe attached at the located instruction. It
// only publishes the captured base address into the slot.
type CoordinateIntercept struct {
	slot   *PointerSlot
	config atomic.Pointer[InterceptConfig]
	logger zerolog.Logger

	hits     atomic.Uint64
	filtered atomic.Uint64
	updates  atomic.Uint64
}

// InterceptStats are cumulative probe counters.
type InterceptStats struct {
	Hits     uint64 `json:"hits"`
	Filtered uint64 `json:"filtered"`
	Updates  uint64 `json:"updates"`
}

// NewCoordinateIntercept creates an intercept publishing into slot.
func NewCoordinateIntercept(slot *PointerSlot, cfg InterceptConfig, logger zerolog.Logger) *CoordinateIntercept {
	c := &CoordinateIntercept{slot: slot, logger: logger}
	c.Reconfigure(cfg)
	return c
}

// OnHit runs on the game thread.
func (c *CoordinateIntercept) OnHit(regs instrument.Registers) {
	c.hits.Add(1)

	cfg := c.config.Load()
	if cfg == nil {
		return
	}
	if cfg.Filter != nil && !cfg.Filter.Matches(regs) {
		c.filtered.Add(1)
		return
	}

	base := core.Address(regs.Value(cfg.Register))
	old, changed := c.slot.Publish(base)
	if !changed {
		return
	}
	c.updates.Add(1)
	c.logger.Trace().Stringer("old", old).Stringer("new", base).Msg("Updated player pointer")
}

// Reconfigure swaps the register and filter used from the next hit on.
func (c *CoordinateIntercept) Reconfigure(cfg InterceptConfig) {
	if cfg.Filter != nil {
		f := *cfg.Filter
		cfg.Filter = &f
	}
	c.config.Store(&cfg)
}

// Disable makes every following hit a no-op. The probe stays attached.
func (c *CoordinateIntercept) Disable() {
	c.config.Store(nil)
}

// Config returns the active snapshot, or false when disabled.
func (c *CoordinateIntercept) Config() (InterceptConfig, bool) {
	cfg := c.config.Load()
	if cfg == nil {
		return InterceptConfig{}, false
	}
	return *cfg, true
}

func (c *CoordinateIntercept) Stats() InterceptStats {
	return InterceptStats{
		Hits:     c.hits.Load(),
		Filtered: c.filtered.Load(),
		Updates:  c.updates.Load(),
	}
}

// registerMetrics exports the counters as observable counters tagged with the plugin name.
func (c *CoordinateIntercept) registerMetrics(m metric.Meter, pluginName string) error {
	hits, err := m.Int64ObservableCounter(
		"intercept.hits",
		metric.WithDescription("Probe hits at the intercepted instruction"),
	)
	if err != nil {
		return fmt.Errorf("creating hits counter: %w", err)
	}
	filtered, err := m.Int64ObservableCounter(
		"intercept.filtered",
		metric.WithDescription("Probe hits rejected by the filter"),
	)
	if err != nil {
		return fmt.Errorf("creating filtered counter: %w", err)
	}
	updates, err := m.Int64ObservableCounter(
		"intercept.pointer.updates",
		metric.WithDescription("Times the discovered pointer changed"),
	)
	if err != nil {
		return fmt.Errorf("creating updates counter: %w", err)
	}

	attrs := metric.WithAttributes(attribute.String("plugin", pluginName))
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			s := c.Stats()
			o.ObserveInt64(hits, int64(s.Hits), attrs)
			o.ObserveInt64(filtered, int64(s.Filtered), attrs)
			o.ObserveInt64(updates, int64(s.Updates), attrs)
			return nil
		},
		hits, filtered, updates,
	)
	if err != nil {
		return fmt.Errorf("registering intercept callback: %w", err)
	}
	return nil
}
