package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/csv"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/excel"
	infraerrors "github.com/kasuganosora/datagrid/pkg/resource/infrastructure/errors"
	"github.com/spf13/cobra"
)

// rowImporter is implemented by the SQL data sources.
type rowImporter interface {
	ImportRows(ctx context.Context, columns []domain.Column, rows []domain.Row) (int64, error)
}

var importCmd = &cobra.Command{
	Use:   "import [flags] input_file",
	Short: "load a csv or xlsx file into the configured SQL source.",
	Long: `Read a CSV (.csv) or Excel (.xlsx) file, infer its columns and insert
its rows into a table of the configured SQL data source (mysql, postgresql
or sqlite). The table is created when missing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.close(ctx)

		path := args[0]
		columns, rows, err := readImport(path, getString(cmd, "sheet"), getString(cmd, "delimiter"), !getFlag(cmd, "no-header"))
		if err != nil {
			return api.WrapError(err, api.ErrCodeImportFailed, fmt.Sprintf("read %s", path))
		}

		target := env.cfg.Source
		if table := getString(cmd, "table"); table != "" {
			target.Table = table
		}
		if target.Table == "" {
			return domain.NewErrInvalidConfig("source.table", "a target table is required (--table)")
		}
		if _, err := env.openSource(ctx, target); err != nil {
			return err
		}

		n, err := importRows(ctx, env, columns, rows)
		if err != nil {
			return api.WrapError(err, api.ErrCodeImportFailed, fmt.Sprintf("import into %s", target.Table))
		}
		env.logger.Info("导入 %d 行到 %s", n, target.Table)
		return nil
	},
}

// readImport picks the reader from the file extension.
func readImport(path, sheet, delimiter string, header bool) ([]domain.Column, []domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		comma, size := utf8.DecodeRuneInString(delimiter)
		if size == 0 || size != len(delimiter) {
			return nil, nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
		}
		return csv.Read(f, comma, header)
	case ".xlsx":
		return excel.Read(f, sheet)
	default:
		return nil, nil, infraerrors.NewErrUnsupportedFormat(path, filepath.Ext(path), ".csv", ".xlsx")
	}
}

// importRows inserts into the opened source and drops its cached pages.
func importRows(ctx context.Context, env *environment, columns []domain.Column, rows []domain.Row) (int64, error) {
	raw, err := env.manager.Raw(env.source)
	if err != nil {
		return 0, err
	}
	importer, ok := raw.(rowImporter)
	if !ok {
		return 0, domain.NewErrUnsupportedOperation(env.source, "ImportRows")
	}

	n, err := importer.ImportRows(ctx, columns, rows)
	if err != nil {
		return n, err
	}
	return n, env.manager.Invalidate(env.source)
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("table", "", "target table (default: source.table from the configuration)")
	importCmd.Flags().String("sheet", "", "worksheet to read from an xlsx file (default: first sheet)")
	importCmd.Flags().String("delimiter", ",", "field delimiter for csv files")
	importCmd.Flags().Bool("no-header", false, "the csv file has no header row")
}
