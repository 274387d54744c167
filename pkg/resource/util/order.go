package util

import (
	"slices"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// ApplyOrder 应用排序。只使用排序模型的第一条；字段不在列定义中时不排序。
// 排序稳定，任一侧为 nil 的两行保持原有相对顺序。返回新切片，不修改输入。
func ApplyOrder(rows []domain.Row, columns []domain.Column, sortModel []domain.SortModel, collation *Collation) []domain.Row {
	result := make([]domain.Row, len(rows))
	copy(result, rows)

	if len(sortModel) == 0 {
		return result
	}

	entry := sortModel[0]
	col, ok := ColumnIndex(columns)[entry.Field]
	if !ok {
		return result
	}

	cmp := valueComparer(col.Type, collation)
	desc := entry.Sort == domain.SortDesc

	slices.SortStableFunc(result, func(a, b domain.Row) int {
		c := cmp(a[entry.Field], b[entry.Field])
		if desc {
			return -c
		}
		return c
	})

	return result
}

// valueComparer 按列类型选择比较函数
func valueComparer(t domain.ColumnType, collation *Collation) func(a, b interface{}) int {
	if t == domain.ColumnTypeDate {
		return func(a, b interface{}) int {
			if a == nil || b == nil {
				return 0
			}
			ta, okA := domain.ParseDate(a)
			tb, okB := domain.ParseDate(b)
			if okA && okB {
				return ta.Compare(tb)
			}
			return CompareValues(a, b)
		}
	}

	if collation == nil {
		return CompareValues
	}

	compareStrings := collation.Comparer()
	return func(a, b interface{}) int {
		sa, okA := a.(string)
		sb, okB := b.(string)
		if okA && okB {
			return compareStrings(sa, sb)
		}
		return CompareValues(a, b)
	}
}
