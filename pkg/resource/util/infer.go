package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// inferSampleSize 推断类型时采样的行数
const inferSampleSize = 100

// InferColumns 根据表头和文本数据推断列定义（CSV / Excel 导入共用）。
// 每列取采样中出现次数最多的类型，空单元格不参与统计。
func InferColumns(headers []string, rows [][]string) []domain.Column {
	sampleSize := inferSampleSize
	if len(rows) < sampleSize {
		sampleSize = len(rows)
	}

	typeCounts := make([]map[domain.ColumnType]int, len(headers))
	for i := range typeCounts {
		typeCounts[i] = make(map[domain.ColumnType]int)
	}

	for i := 0; i < sampleSize; i++ {
		for j, value := range rows[i] {
			if j >= len(typeCounts) {
				break
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			typeCounts[j][DetectType(value)]++
		}
	}

	columns := make([]domain.Column, len(headers))
	for j, header := range headers {
		field := strings.TrimSpace(header)
		if field == "" {
			field = fmt.Sprintf("column_%d", j+1)
		}
		columns[j] = domain.Column{
			Field: field,
			Type:  mostCommonType(typeCounts[j]),
		}
	}
	return columns
}

// 多个类型出现次数相同时的优先级
var typePriority = []domain.ColumnType{
	domain.ColumnTypeString,
	domain.ColumnTypeDate,
	domain.ColumnTypeNumber,
	domain.ColumnTypeBoolean,
}

func mostCommonType(counts map[domain.ColumnType]int) domain.ColumnType {
	best := domain.ColumnTypeString
	maxCount := 0
	for _, t := range typePriority {
		if counts[t] > maxCount {
			maxCount = counts[t]
			best = t
		}
	}
	return best
}

// DetectType 检测单个文本值的类型
func DetectType(value string) domain.ColumnType {
	if strings.EqualFold(value, "true") || strings.EqualFold(value, "false") {
		return domain.ColumnTypeBoolean
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return domain.ColumnTypeNumber
	}
	if _, ok := domain.ParseDate(value); ok {
		return domain.ColumnTypeDate
	}
	return domain.ColumnTypeString
}

// ParseCell 按列类型解析文本值，无法解析时保留原文本，空文本返回 nil
func ParseCell(value string, colType domain.ColumnType) interface{} {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	switch colType {
	case domain.ColumnTypeNumber:
		if intVal, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return intVal
		}
		if floatVal, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return floatVal
		}
	case domain.ColumnTypeBoolean:
		if boolVal, err := strconv.ParseBool(trimmed); err == nil {
			return boolVal
		}
	case domain.ColumnTypeDate:
		if t, ok := domain.ParseDate(trimmed); ok {
			return t
		}
	}

	return trimmed
}

// BuildRows 将文本数据转换为行，缺少 id 列时按行号（从 1 开始）生成 id
func BuildRows(columns []domain.Column, rows [][]string) []domain.Row {
	hasID := false
	for _, c := range columns {
		if c.Field == domain.RowIDField {
			hasID = true
			break
		}
	}

	result := make([]domain.Row, len(rows))
	for i, record := range rows {
		row := make(domain.Row, len(columns)+1)
		for j, col := range columns {
			if j < len(record) {
				row[col.Field] = ParseCell(record[j], col.Type)
			} else {
				row[col.Field] = nil
			}
		}
		if !hasID {
			row[domain.RowIDField] = int64(i + 1)
		}
		result[i] = row
	}
	return result
}

// EnsureIDColumn 缺少 id 列时在最前面补一个数字 id 列（与 BuildRows 生成的 id 对应）
func EnsureIDColumn(columns []domain.Column) []domain.Column {
	for _, c := range columns {
		if c.Field == domain.RowIDField {
			return columns
		}
	}
	out := make([]domain.Column, 0, len(columns)+1)
	out = append(out, domain.Column{Field: domain.RowIDField, HeaderName: "ID", Type: domain.ColumnTypeNumber})
	return append(out, columns...)
}
