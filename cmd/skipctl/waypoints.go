package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/skiprunback/extension/internal/waypoint"
	"github.com/spf13/cobra"
)

func newWaypointsCmd() *cobra.Command {
	var (
		dbFile string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "waypoints <plugin name>",
		Short: "List the saved waypoints of a plugin from the sqlite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(dbFile); err != nil {
				return err
			}
			store, err := waypoint.OpenSQLite(dbFile, 0, zerolog.Nop())
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.History(args[0], limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				cmd.Printf("no waypoints for %q\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSAVED\tX\tY\tZ")
			for _, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%.3f\t%.3f\t%.3f\n",
					r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.X, r.Y, r.Z)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbFile, "db", "skip_waypoints.db", "sqlite waypoint database")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of waypoints, 0 for all")
	return cmd
}
