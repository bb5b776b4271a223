package main

import (
	"fmt"

	"github.com/skiprunback/extension/internal/plugin"
	"github.com/skiprunback/extension/internal/registry"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a plugin file parses and is complete",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := registry.PluginFileName
			if len(args) == 1 {
				path = args[0]
			}

			cfg, err := plugin.LoadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%s is invalid: %w", path, err)
			}

			cmd.Printf("%s: ok\n", path)
			cmd.Printf("  plugin:   %s\n", cfg.Identifiers.PluginName)
			cmd.Printf("  position: %s\n", describePosition(cfg.Position))
			cmd.Printf("  offsets:  x=%#x y=%#x z=%#x\n",
				cfg.PointerOffsets.X, cfg.PointerOffsets.Y, cfg.PointerOffsets.Z)
			return nil
		},
	}
}
