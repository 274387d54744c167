package grid

import (
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// Snapshot 表格在某一时刻的只读视图
type Snapshot struct {
	Version           uint64 // 状态版本，随每次变化递增
	Mode              Mode
	Items             []domain.Row    // 当前页的行
	ItemCount         int             // 分页前的匹配行数
	Loading           bool            // 远程查询进行中；此时 Items 仍是上一次的结果
	Query             QueryState      // 当前查询状态
	Columns           []domain.Column // 可见列，声明顺序
	Hidden            []string        // 隐藏字段
	PaginationOptions []int
	Err               error // 最近一次远程查询的错误，成功后清除
}

// ActiveFilterCount 返回过滤条件数量（工具栏徽标）
func (s Snapshot) ActiveFilterCount() int {
	return len(s.Query.Filter)
}

// IsFiltered 判断列是否有过滤条件
func (s Snapshot) IsFiltered(field string) bool {
	_, ok := s.Query.FilterFor(field)
	return ok
}

// SortDirection 返回列的排序方向
func (s Snapshot) SortDirection(field string) (domain.SortDirection, bool) {
	return s.Query.SortFor(field)
}

// PageCount 返回总页数，没有行时为 0
func (s Snapshot) PageCount() int {
	size := s.Query.Pagination.PageSize
	if size <= 0 || s.ItemCount == 0 {
		return 0
	}
	return (s.ItemCount + size - 1) / size
}

// IsEmpty 是否为空结果（无数据或全部被过滤）
func (s Snapshot) IsEmpty() bool {
	return !s.Loading && s.ItemCount == 0
}
