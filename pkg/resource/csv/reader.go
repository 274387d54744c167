package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
)

// Read 读取 CSV 内容并推断列定义。
// hasHeader 为 false 时列名为 column_1、column_2……；缺少 id 列时按行号生成。
func Read(r io.Reader, delimiter rune, hasHeader bool) ([]domain.Column, []domain.Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV file is empty")
	}

	var headers []string
	var dataRows [][]string
	if hasHeader {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		dataRows = records
	}

	columns := util.InferColumns(headers, dataRows)
	rows := util.BuildRows(columns, dataRows)
	return util.EnsureIDColumn(columns), rows, nil
}

// Write 将行写为 CSV，表头使用列标题
func Write(w io.Writer, columns []domain.Column, rows []domain.Row, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label()
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = formatCell(row[col.Field])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
	}
	return domain.FormatValue(v)
}
