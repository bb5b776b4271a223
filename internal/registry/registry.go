// Package registry enumerates the candidate plugins and picks the one for
// the running game.
package registry

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skiprunback/extension/internal/plugin"
	"github.com/skiprunback/extension/internal/process"
)

// PluginFileName is the user plugin looked up next to the extension.
const PluginFileName = "skip_runback_plugin.json"

// ErrNoApplicablePlugin is returned by Select when no candidate matches the process.
var ErrNoApplicablePlugin = errors.New("no applicable plugin")

// All returns the file plugin in dir, if there is one, followed by every preset.
// A broken plugin file is logged and skipped so the presets still apply.
func All(dir string, deps plugin.Dependencies) []plugin.Plugin {
	var out []plugin.Plugin

	path := filepath.Join(dir, PluginFileName)
	if _, err := os.Stat(path); err == nil {
		p, err := plugin.NewFromFile(path, deps)
		if err != nil {
			log := deps.Logger
			if log == nil {
				log = slog.Default()
			}
			log.Error("Failed to load plugin file, skipping it", "path", path, "error", err)
		} else {
			out = append(out, p)
		}
	}

	for _, cfg := range Presets {
		out = append(out, plugin.New(cfg, deps))
	}
	return out
}

// Select returns the first candidate that applies to proc.
func Select(candidates []plugin.Plugin, proc process.Introspector) (plugin.Plugin, error) {
	for _, p := range candidates {
		if p.ShouldApply(proc) {
			return p, nil
		}
	}
	return nil, ErrNoApplicablePlugin
}

// Names lists the plugin names in order.
func Names(candidates []plugin.Plugin) []string {
	names := make([]string, len(candidates))
	for i, p := range candidates {
		names[i] = p.Identifiers().PluginName
	}
	return names
}
