package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/grid"
	"github.com/kasuganosora/datagrid/pkg/resource/csv"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/excel"
	infraerrors "github.com/kasuganosora/datagrid/pkg/resource/infrastructure/errors"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] output_file",
	Short: "export the visible columns to an xlsx or csv file.",
	Long: `Export the visible columns of the current page, or of every row matching
the filters with --all, to an Excel (.xlsx) or CSV (.csv) file.`,
	Args: cobra.ExactArgs(1),
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

		snap, err := exportSnapshot(ctx, g, getFlag(cmd, "all"))
		if err != nil {
			return err
		}

		path := args[0]
		if err := writeExport(path, getString(cmd, "sheet"), snap.Columns, snap.Items); err != nil {
			return api.WrapError(err, api.ErrCodeExportFailed, fmt.Sprintf("export %s", path))
		}
		env.logger.Info("导出 %d 行到 %s", len(snap.Items), path)
		return nil
	},
}

// exportSnapshot returns the current page, or with all set, a single page
// holding every matching row.
func exportSnapshot(ctx context.Context, g *grid.Grid, all bool) (grid.Snapshot, error) {
	snap := g.Snapshot()
	if snap.Err != nil {
		return snap, snap.Err
	}
	if !all || snap.ItemCount <= len(snap.Items) {
		return snap, nil
	}

	if err := g.Dispatch(ctx, grid.ChangePageSize{PageSize: snap.ItemCount}); err != nil {
		return snap, err
	}
	g.Wait()
	snap = g.Snapshot()
	return snap, snap.Err
}

// writeExport picks the format from the file extension.
func writeExport(path, sheet string, columns []domain.Column, rows []domain.Row) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return excel.ExportFile(path, sheet, columns, rows)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := csv.Write(f, columns, rows, ','); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return infraerrors.NewErrUnsupportedFormat(path, filepath.Ext(path), ".xlsx", ".csv")
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addQueryFlags(exportCmd)
	exportCmd.Flags().Bool("all", false, "export every matching row instead of the current page")
	exportCmd.Flags().String("sheet", excel.DefaultSheet, "worksheet name for xlsx output")
}
