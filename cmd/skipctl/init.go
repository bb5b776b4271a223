package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/skiprunback/extension/internal/plugin"
	"github.com/skiprunback/extension/internal/registry"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		preset string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write an example plugin file",
		Long: `Write skip_runback_plugin.json into dir (default: the current directory).
The file starts from the Sekiro example, or from a built-in preset chosen
with --preset.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			cfg := plugin.DefaultConfig()
			if preset != "" {
				var ok bool
				if cfg, ok = findPreset(preset); !ok {
					return fmt.Errorf("no preset named %q", preset)
				}
			}

			path := filepath.Join(dir, registry.PluginFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := plugin.SaveFile(path, cfg); err != nil {
				return err
			}
			cmd.Printf("wrote %s (%s)\n", path, cfg.Identifiers.PluginName)
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "start from the named built-in preset")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing plugin file")
	return cmd
}

func findPreset(name string) (plugin.Config, bool) {
	for _, p := range registry.Presets {
		if strings.EqualFold(p.Identifiers.PluginName, name) {
			return p, true
		}
	}
	return plugin.Config{}, false
}
