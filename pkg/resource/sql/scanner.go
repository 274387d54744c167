package sql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// ScanRows reads all rows from *sql.Rows into grid rows.
// Values of boolean columns stored as integers are converted to bool.
func ScanRows(rows *sql.Rows, columns []domain.Column) ([]domain.Row, error) {
	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	types := make(map[string]domain.ColumnType, len(columns))
	for _, col := range columns {
		types[col.Field] = col.Type
	}

	result := []domain.Row{}
	for rows.Next() {
		row, err := scanRow(rows, colNames, types)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

func scanRow(rows *sql.Rows, colNames []string, types map[string]domain.ColumnType) (domain.Row, error) {
	values := make([]interface{}, len(colNames))
	scanTargets := make([]interface{}, len(colNames))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	if err := rows.Scan(scanTargets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(domain.Row, len(colNames))
	for i, name := range colNames {
		row[name] = normalizeValue(values[i], types[name])
	}

	return row, nil
}

// ColumnsFromTypes maps result set column metadata to grid columns.
func ColumnsFromTypes(colTypes []*sql.ColumnType, d Dialect) []domain.Column {
	columns := make([]domain.Column, len(colTypes))
	for i, ct := range colTypes {
		columns[i] = domain.Column{
			Field: ct.Name(),
			Type:  d.MapColumnType(ct.DatabaseTypeName()),
		}
	}
	return columns
}

// normalizeValue converts database/sql scanned values to standard Go types.
func normalizeValue(v interface{}, t domain.ColumnType) interface{} {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val
	case int64:
		if t == domain.ColumnTypeBoolean {
			return val != 0
		}
		return val
	case float64:
		return val
	case bool:
		return val
	case string:
		if t == domain.ColumnTypeDate {
			if parsed, ok := domain.ParseDate(val); ok {
				return parsed
			}
		}
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
