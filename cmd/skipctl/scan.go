package main

import (
	"errors"

	"github.com/skiprunback/extension/internal/instrument"
	"github.com/skiprunback/extension/internal/plugin"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var (
		signature  string
		pluginFile string
	)

	cmd := &cobra.Command{
		Use:   "scan <executable>",
		Short: "Search an executable on disk for an intercept signature",
		Long: `Search an executable file for a signature and report the file offset of
the first match and the number of matches. A signature should match exactly
once; more matches mean the intercept may land on the wrong instruction.

The signature comes from --signature, or from the intercept of --plugin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := signature
			if text == "" && pluginFile != "" {
				cfg, err := plugin.LoadFile(pluginFile)
				if err != nil {
					return err
				}
				ic, ok := cfg.Position.(plugin.InterceptConfig)
				if !ok {
					return errors.New("plugin does not use an intercept")
				}
				text = ic.Signature
			}
			if text == "" {
				return errors.New("one of --signature or --plugin is required")
			}

			sig, err := instrument.ParseSignature(text)
			if err != nil {
				return err
			}
			offset, matches, err := instrument.ScanFile(args[0], sig)
			if err != nil {
				return err
			}

			cmd.Printf("signature %s\n", sig)
			cmd.Printf("first match at file offset %#x\n", offset)
			cmd.Printf("%d match(es)\n", matches)
			if matches > 1 {
				cmd.PrintErrln("warning: signature is not unique, the first match is used")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&signature, "signature", "s", "", "signature such as \"0F 28 ?? 80\"")
	cmd.Flags().StringVarP(&pluginFile, "plugin", "p", "", "plugin file to take the signature from")
	return cmd
}
