package main

import (
	"fmt"

	"github.com/skiprunback/extension/internal/plugin"
	"github.com/spf13/cobra"
)

// Set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skipctl",
		Short: "Tooling for skip runback plugin files",
		Long: `skipctl works on plugin files offline.

A plugin file (skip_runback_plugin.json) next to the extension describes how
to find the player position of a game: a code signature and register, or a
static pointer, plus the offsets of the X, Y and Z floats.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newValidateCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newPresetsCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newWaypointsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("skipctl version %s\n", Version)
			cmd.Printf("Build date: %s\n", BuildDate)
		},
	}
}

// describePosition is a one-line summary of where a plugin finds the player.
func describePosition(src plugin.PositionSource) string {
	switch p := src.(type) {
	case plugin.InterceptConfig:
		s := fmt.Sprintf("intercept %q via %s", p.Signature, p.Register)
		if p.Filter != nil {
			s += fmt.Sprintf(" if %s", p.Filter)
		}
		return s
	case plugin.AbsolutePointer:
		return fmt.Sprintf("absolute %#x", uint64(p))
	case plugin.RelativePointer:
		return fmt.Sprintf("relative %s", string(p))
	default:
		return "none"
	}
}
