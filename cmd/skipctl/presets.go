package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/skiprunback/extension/internal/registry"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				data, err := json.MarshalIndent(registry.Presets, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMATCHES\tPOSITION\tOFFSETS")
			for _, p := range registry.Presets {
				matches := p.Identifiers.ExpectedExeName
				if p.Identifiers.ExpectedModule != "" && p.Identifiers.ExpectedModule != matches {
					matches = p.Identifiers.ExpectedModule + "/" + matches
				}
				o := p.PointerOffsets
				fmt.Fprintf(w, "%s\t%s\t%s\t%#x,%#x,%#x\n",
					p.Identifiers.PluginName, matches, describePosition(p.Position), o.X, o.Y, o.Z)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the presets as plugin file JSON")
	return cmd
}
