package util

import (
	"strings"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// matchFunc 单个操作符的判定函数，value 已按列类型规范化
type matchFunc func(cell, value interface{}) bool

var operatorMatchers = map[domain.FilterOperator]matchFunc{
	domain.OpContains: func(cell, value interface{}) bool {
		return strings.Contains(domain.FormatValue(cell), domain.FormatValue(value))
	},
	domain.OpStartsWith: func(cell, value interface{}) bool {
		return strings.HasPrefix(domain.FormatValue(cell), domain.FormatValue(value))
	},
	domain.OpEquals: CompareEqual,
	domain.OpGreater: func(cell, value interface{}) bool {
		cmp, ok := CompareNumeric(cell, value)
		return ok && cmp > 0
	},
	domain.OpLess: func(cell, value interface{}) bool {
		cmp, ok := CompareNumeric(cell, value)
		return ok && cmp < 0
	},
	domain.OpBefore: func(cell, value interface{}) bool {
		c, ok := domain.ParseDate(cell)
		v, ok2 := domain.ParseDate(value)
		return ok && ok2 && c.Before(v)
	},
	domain.OpAfter: func(cell, value interface{}) bool {
		c, ok := domain.ParseDate(cell)
		v, ok2 := domain.ParseDate(value)
		return ok && ok2 && c.After(v)
	},
}

// dateEquals 日期列的 equals 按时刻比较，单元格可以是字符串或时间戳
func dateEquals(cell, value interface{}) bool {
	c, ok := domain.ParseDate(cell)
	v, ok2 := domain.ParseDate(value)
	return ok && ok2 && c.Equal(v)
}

// compiledFilter 预处理后的过滤条件
type compiledFilter struct {
	field  string
	colTyp domain.ColumnType
	value  interface{}
	match  matchFunc
}

// CompileFilters 将过滤模型转换为可执行的判定列表。
// 以下条目会被跳过（不影响任何行）：字段不在列定义中、值属于“空”类、
// 操作符对列类型不合法或未知。
func CompileFilters(columns []domain.Column, filters []domain.FilterModel) []compiledFilter {
	byField := ColumnIndex(columns)
	compiled := make([]compiledFilter, 0, len(filters))
	for _, f := range filters {
		col, ok := byField[f.Field]
		if !ok {
			continue
		}
		if !col.Type.Allows(f.Operator) {
			continue
		}
		value, ok := col.Type.NormalizeFilterValue(f.Value)
		if !ok {
			continue
		}
		match := operatorMatchers[f.Operator]
		if col.Type == domain.ColumnTypeDate && f.Operator == domain.OpEquals {
			match = dateEquals
		}
		compiled = append(compiled, compiledFilter{
			field:  f.Field,
			colTyp: col.Type,
			value:  value,
			match:  match,
		})
	}
	return compiled
}

// ApplyFilters 应用过滤器，多个条件之间为 AND 关系。不修改输入切片。
func ApplyFilters(rows []domain.Row, columns []domain.Column, filters []domain.FilterModel) []domain.Row {
	compiled := CompileFilters(columns, filters)
	if len(compiled) == 0 {
		return rows
	}

	result := make([]domain.Row, 0, len(rows)/2+1)
	for _, row := range rows {
		if matchesAll(row, compiled) {
			result = append(result, row)
		}
	}
	return result
}

// MatchFilter 判断单行是否满足单个过滤条件（条件无效时视为满足）
func MatchFilter(row domain.Row, columns []domain.Column, filter domain.FilterModel) bool {
	return matchesAll(row, CompileFilters(columns, []domain.FilterModel{filter}))
}

func matchesAll(row domain.Row, filters []compiledFilter) bool {
	for _, f := range filters {
		if !f.match(row[f.field], f.value) {
			return false
		}
	}
	return true
}

// ColumnIndex 按字段名索引列定义
func ColumnIndex(columns []domain.Column) map[string]domain.Column {
	idx := make(map[string]domain.Column, len(columns))
	for _, c := range columns {
		idx[c.Field] = c
	}
	return idx
}
