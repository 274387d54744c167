package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [flags]",
	Short: "print one page of the configured data source.",
	Long: `Print one page of rows from the configured data source after applying
the given filters, sort and pagination.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.close(ctx)

		ds, err := env.openSource(ctx, env.cfg.Source)
		if err != nil {
			return err
		}
		columns, err := env.columns(ctx)
		if err != nil {
			return err
		}

		g, err := newGrid(ctx, env, ds, columns, readQueryFlags(cmd))
		if err != nil {
			return err
		}
		defer g.Close()

		snap := g.Snapshot()
		if snap.Err != nil {
			return snap.Err
		}

		if getFlag(cmd, "json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"items":     snap.Items,
				"itemCount": snap.ItemCount,
				"query":     snap.Query,
			})
		}
		renderSnapshot(os.Stdout, snap, terminalWidth())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addQueryFlags(queryCmd)
	queryCmd.Flags().Bool("json", false, "print the page as JSON")
}
