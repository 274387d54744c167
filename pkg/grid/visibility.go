package grid

import (
	"sort"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// Visibility 隐藏列集合。只影响展示，不属于查询状态，也不会发送给数据源。
// 值不可变，Toggle 和 ShowAll 返回新集合。
type Visibility struct {
	hidden map[string]struct{}
}

// Toggle 切换字段的隐藏状态
func (v Visibility) Toggle(field string) Visibility {
	out := make(map[string]struct{}, len(v.hidden)+1)
	for f := range v.hidden {
		out[f] = struct{}{}
	}
	if _, ok := out[field]; ok {
		delete(out, field)
	} else {
		out[field] = struct{}{}
	}
	return Visibility{hidden: out}
}

// ShowAll 显示全部列
func (v Visibility) ShowAll() Visibility {
	return Visibility{}
}

// IsHidden 判断字段是否隐藏
func (v Visibility) IsHidden(field string) bool {
	_, ok := v.hidden[field]
	return ok
}

// Hidden 返回排序后的隐藏字段列表
func (v Visibility) Hidden() []string {
	out := make([]string, 0, len(v.hidden))
	for f := range v.hidden {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len 返回隐藏字段数量
func (v Visibility) Len() int {
	return len(v.hidden)
}

// VisibleColumns 返回未隐藏的列，保持声明顺序
func (v Visibility) VisibleColumns(columns []domain.Column) []domain.Column {
	out := make([]domain.Column, 0, len(columns))
	for _, c := range columns {
		if !v.IsHidden(c.Field) {
			out = append(out, c)
		}
	}
	return out
}
