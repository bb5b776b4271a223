// Package app runs the host loop: it polls the configured key combinations
// and turns them into waypoint and reload commands for the active plugin.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skiprunback/extension/internal/config"
	"github.com/skiprunback/extension/internal/dispatcher"
	"github.com/skiprunback/extension/internal/input"
	"github.com/skiprunback/extension/internal/monitor"
	"github.com/skiprunback/extension/internal/plugin"
	"github.com/skiprunback/extension/internal/waypoint"
	"github.com/skiprunback/extension/pkg/core"
)

// Commands routed through the dispatcher.
const (
	CmdSaveWaypoint     = ":WAYPOINT:SAVE:"
	CmdPersistWaypoint  = ":WAYPOINT:PERSIST:"
	CmdTeleport         = ":WAYPOINT:TELEPORT:"
	CmdReloadConfig     = ":CONFIG:RELOAD:"
	persistQueueSize    = 16
	defaultPollInterval = time.Second / 60
)

// Settings is the part of the host config the loop reacts to.
type Settings struct {
	Host     config.HostConfig
	Keybinds config.Keybinds
}

// CurrentSettings reads Settings from the loaded host config.
func CurrentSettings() Settings {
	return Settings{Host: config.GetHostConfig(), Keybinds: config.GetKeybinds()}
}

// ReloadSettings re-reads the host config file.
func ReloadSettings() (Settings, error) {
	if err := config.Reload(); err != nil {
		return Settings{}, err
	}
	return CurrentSettings(), nil
}

// Console is toggled to follow the console setting.
type Console interface {
	Set(open bool) error
}

// Dependencies wires an App.
type Dependencies struct {
	Plugin    plugin.Plugin
	Waypoints waypoint.Store
	Keys      input.KeyState
	// Foreground reports whether the game window has focus.
	Foreground func() bool
	Console    Console
	Settings   Settings
	// Reload returns fresh settings for the reload command.
	Reload func() (Settings, error)
	Logger *slog.Logger
	// DispatchLogger defaults to Logger.
	DispatchLogger dispatcher.Logger
}

type combos struct {
	save, teleport, reload input.Combo
}

// App owns the active plugin for the lifetime of the extension.
type App struct {
	plugin     plugin.Plugin
	name       string
	waypoints  waypoint.Store
	keys       *input.Manager
	foreground func() bool
	console    Console
	reload     func() (Settings, error)
	logger     *slog.Logger
	dispatcher *dispatcher.Dispatcher

	mu       sync.Mutex
	settings Settings
	combos   combos
	latest   *core.Coordinates
	interval time.Duration
	// intervalChanged wakes Run after a reload changed the poll rate.
	intervalChanged chan struct{}
}

// New starts the plugin and loads the last waypoint. A plugin that fails to
// start is fatal.
func New(deps Dependencies) (*App, error) {
	if deps.Plugin == nil {
		return nil, errors.New("no plugin")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Foreground == nil {
		deps.Foreground = input.Foreground
	}
	if deps.Keys == nil {
		deps.Keys = input.System{}
	}
	if deps.DispatchLogger == nil {
		deps.DispatchLogger = deps.Logger
	}

	d, err := dispatcher.New(deps.DispatchLogger)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	name := deps.Plugin.Identifiers().PluginName
	a := &App{
		plugin:          deps.Plugin,
		name:            name,
		waypoints:       deps.Waypoints,
		keys:            input.NewManager(deps.Keys),
		foreground:      deps.Foreground,
		console:         deps.Console,
		reload:          deps.Reload,
		logger:          deps.Logger,
		dispatcher:      d,
		interval:        defaultPollInterval,
		intervalChanged: make(chan struct{}, 1),
	}

	if err := a.plugin.Start(); err != nil {
		return nil, fmt.Errorf("starting plugin %q: %w", name, err)
	}

	if a.waypoints != nil {
		c, ok, err := a.waypoints.Latest(name)
		if err != nil {
			a.logger.Warn("Failed to load last waypoint", "error", err)
		} else if ok {
			a.latest = &c
			a.logger.Info("Loaded last waypoint", "waypoint", c)
		}
	}

	a.apply(deps.Settings)
	a.registerHandlers()
	return a, nil
}

func (a *App) registerHandlers() {
	a.dispatcher.Register(CmdSaveWaypoint, a.handleSave, dispatcher.Logged())
	a.dispatcher.Register(CmdPersistWaypoint, a.handlePersist, dispatcher.Buffered(persistQueueSize), dispatcher.Logged())
	a.dispatcher.Register(CmdTeleport, a.handleTeleport, dispatcher.Logged())
	a.dispatcher.Register(CmdReloadConfig, func(dispatcher.Event) (any, error) {
		return nil, a.Reload()
	}, dispatcher.Logged())
}

// Dispatcher exposes the command router, for the native bridge.
func (a *App) Dispatcher() *dispatcher.Dispatcher {
	return a.dispatcher
}

// Dispatch runs a command by name, for triggers outside the key loop.
func (a *App) Dispatch(command string) (any, error) {
	return a.dispatcher.Dispatch(dispatcher.Event{Command: command})
}

// apply swaps in new settings. Unknown key names disable that binding.
func (a *App) apply(s Settings) {
	var c combos
	var err error
	if c.save, err = input.ParseCombo(s.Keybinds.SaveWaypoint); err != nil {
		a.logger.Error("Invalid save waypoint keybind", "error", err)
	}
	if c.teleport, err = input.ParseCombo(s.Keybinds.TeleportToWaypoint); err != nil {
		a.logger.Error("Invalid teleport keybind", "error", err)
	}
	if c.reload, err = input.ParseCombo(s.Keybinds.ReloadConfig); err != nil {
		a.logger.Error("Invalid reload keybind", "error", err)
	}

	interval := defaultPollInterval
	if s.Host.PollRate > 0 {
		interval = time.Second / time.Duration(s.Host.PollRate)
	}

	if a.console != nil {
		if err := a.console.Set(s.Host.Console); err != nil {
			a.logger.Warn("Failed to toggle console", "console", s.Host.Console, "error", err)
		}
	}

	a.mu.Lock()
	a.settings = s
	a.combos = c
	changed := interval != a.interval
	a.interval = interval
	a.mu.Unlock()

	if changed {
		select {
		case a.intervalChanged <- struct{}{}:
		default:
		}
	}
	a.logger.Debug("Applied host settings",
		"save", c.save, "teleport", c.teleport, "reload", c.reload, "interval", interval)
}

// Settings returns the settings in use.
func (a *App) Settings() Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// Interval is the time between two ticks.
func (a *App) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// Tick samples the keyboard once. The reload combination works even when
// the game is not focused.
func (a *App) Tick() {
	defer a.keys.EndFrame()

	a.mu.Lock()
	c := a.combos
	foregroundOnly := a.settings.Host.ForegroundOnly
	a.mu.Unlock()

	if a.keys.AllPressed(c.reload) {
		a.Dispatch(CmdReloadConfig)
	}

	if foregroundOnly && !a.foreground() {
		return
	}
	if a.keys.AllPressed(c.save) {
		a.Dispatch(CmdSaveWaypoint)
	}
	if a.keys.AllPressed(c.teleport) {
		a.Dispatch(CmdTeleport)
	}
}

// Run ticks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.Interval())
	defer ticker.Stop()

	a.logger.Info("Host loop started", "interval", a.Interval())
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Host loop stopped")
			return nil
		case <-a.intervalChanged:
			ticker.Reset(a.Interval())
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Reload re-reads the host config, then the plugin config. A host config
// error keeps the previous settings.
func (a *App) Reload() error {
	a.logger.Debug("Reloading config")

	var errs []error
	if a.reload != nil {
		s, err := a.reload()
		if err != nil {
			a.logger.Error("Failed to reload host config, keeping the previous one", "error", err)
			errs = append(errs, err)
		} else {
			a.apply(s)
		}
	}

	if err := a.plugin.ReloadConfig(); err != nil {
		a.logger.Error("Failed to reload plugin config", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Latest returns the waypoint teleports go to.
func (a *App) Latest() (core.Coordinates, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.latest == nil {
		return core.Coordinates{}, false
	}
	return *a.latest, true
}

func (a *App) handleSave(dispatcher.Event) (any, error) {
	c, ok := a.plugin.GetCurrentCoordinates()
	if !ok {
		a.logger.Info("No player pointer was found, couldn't save coordinates")
		return nil, nil
	}

	a.mu.Lock()
	a.latest = &c
	a.mu.Unlock()
	a.logger.Info("Saved new waypoint", "waypoint", c)

	if a.waypoints == nil {
		return c, nil
	}
	if _, err := a.dispatcher.Dispatch(dispatcher.Event{Command: CmdPersistWaypoint, Payload: c}); err != nil {
		return c, fmt.Errorf("queueing waypoint: %w", err)
	}
	return c, nil
}

func (a *App) handlePersist(e dispatcher.Event) (any, error) {
	c, ok := e.Payload.(core.Coordinates)
	if !ok {
		return nil, fmt.Errorf("unexpected waypoint payload %T", e.Payload)
	}
	return nil, a.waypoints.Record(a.name, c)
}

func (a *App) handleTeleport(dispatcher.Event) (any, error) {
	c, ok := a.Latest()
	if !ok {
		a.logger.Info("No waypoint exists as of yet, not teleporting")
		return nil, nil
	}
	if err := a.plugin.SetCurrentCoordinates(c); err != nil {
		a.logger.Info("Failed to teleport, maybe the player pointer wasn't initialised yet?", "error", err)
		return nil, err
	}
	a.logger.Info("Teleported player", "waypoint", c)
	return c, nil
}

// LogContext describes the active plugin for every log record.
func (a *App) LogContext() []slog.Attr {
	attrs := []slog.Attr{slog.String("plugin", a.name)}
	if p, ok := a.plugin.(interface {
		CurrentPointer() (core.Address, bool)
	}); ok {
		if addr, ok := p.CurrentPointer(); ok {
			attrs = append(attrs, slog.String("pointer", addr.String()))
		}
	}
	return attrs
}

// Status is a snapshot of the plugin state for the status file.
func (a *App) Status() monitor.Status {
	st := monitor.Status{Time: time.Now().UTC(), Plugin: a.name}
	if p, ok := a.plugin.(interface {
		CurrentPointer() (core.Address, bool)
	}); ok {
		if addr, ok := p.CurrentPointer(); ok {
			st.Pointer = addr.String()
		}
	}
	if p, ok := a.plugin.(interface {
		Stats() (plugin.InterceptStats, bool)
	}); ok {
		if stats, ok := p.Stats(); ok {
			st.Intercept = &stats
		}
	}
	if c, ok := a.plugin.GetCurrentCoordinates(); ok {
		st.Position = &c
	}
	if c, ok := a.Latest(); ok {
		st.Waypoint = &c
	}
	return st
}

// Close drains pending waypoint writes and closes the store.
func (a *App) Close() error {
	a.dispatcher.Close()
	if a.waypoints != nil {
		return a.waypoints.Close()
	}
	return nil
}
