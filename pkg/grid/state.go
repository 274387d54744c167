package grid

import (
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// QueryState 查询状态：分页、排序和过滤三元组，完全决定一页结果。
// 每次状态转换都整体替换，不会在外部看到部分修改。
type QueryState struct {
	Pagination domain.PaginationModel `json:"paginationModel"`
	Sort       []domain.SortModel     `json:"sortModel"`
	Filter     []domain.FilterModel   `json:"filterModel"`
}

// Clone 返回深拷贝（过滤值本身共享）
func (q QueryState) Clone() QueryState {
	out := QueryState{
		Pagination: q.Pagination,
		Sort:       make([]domain.SortModel, len(q.Sort)),
		Filter:     make([]domain.FilterModel, len(q.Filter)),
	}
	copy(out.Sort, q.Sort)
	copy(out.Filter, q.Filter)
	return out
}

// Params 转换为数据源查询参数
func (q QueryState) Params() *domain.GetManyParams {
	c := q.Clone()
	return &domain.GetManyParams{
		PaginationModel: c.Pagination,
		SortModel:       c.Sort,
		FilterModel:     c.Filter,
	}
}

// FilterFor 返回字段上的过滤条件
func (q QueryState) FilterFor(field string) (domain.FilterModel, bool) {
	for _, f := range q.Filter {
		if f.Field == field {
			return f, true
		}
	}
	return domain.FilterModel{}, false
}

// SortFor 返回字段当前的排序方向
func (q QueryState) SortFor(field string) (domain.SortDirection, bool) {
	if len(q.Sort) > 0 && q.Sort[0].Field == field {
		return q.Sort[0].Sort, true
	}
	return "", false
}

// withoutFilter 删除字段上的过滤条件
func (q QueryState) withoutFilter(field string) QueryState {
	out := q.Clone()
	out.Filter = out.Filter[:0]
	for _, f := range q.Filter {
		if f.Field != field {
			out.Filter = append(out.Filter, f)
		}
	}
	return out
}

// withFilter 以替换方式设置过滤条件：先删除同字段的旧条目，再追加到末尾
func (q QueryState) withFilter(f domain.FilterModel) QueryState {
	out := q.withoutFilter(f.Field)
	out.Filter = append(out.Filter, f)
	return out
}

// normalizeInitialState 根据初始配置生成第一个查询状态。
// 排序只保留第一条，同字段的过滤条件后者覆盖前者，“空”值过滤条件被丢弃。
func normalizeInitialState(initial InitialState, columns map[string]domain.Column, paginationOptions []int) (QueryState, error) {
	q := QueryState{
		Pagination: domain.PaginationModel{PageSize: paginationOptions[0]},
		Sort:       []domain.SortModel{},
		Filter:     []domain.FilterModel{},
	}

	if p := initial.PaginationModel; p != nil {
		if p.Page < 0 || p.PageSize < 0 {
			return QueryState{}, domain.NewErrInvalidPagination(p.Page, p.PageSize)
		}
		q.Pagination.Page = p.Page
		if p.PageSize > 0 {
			q.Pagination.PageSize = p.PageSize
		}
	}

	if len(initial.SortModel) > 0 {
		s := initial.SortModel[0]
		if s.Sort != domain.SortAsc && s.Sort != domain.SortDesc {
			return QueryState{}, newInvalidSortError(s)
		}
		q.Sort = []domain.SortModel{s}
	}

	for _, f := range initial.FilterModel {
		if isAbsentFilter(columns, f) {
			q = q.withoutFilter(f.Field)
			continue
		}
		q = q.withFilter(f)
	}

	return q, nil
}

// isAbsentFilter 判断过滤值是否属于“空”类。
// 已声明的列按列类型规范化（类型不符、无效日期同样视为空），未知字段只检查通用的空值。
func isAbsentFilter(columns map[string]domain.Column, f domain.FilterModel) bool {
	col, ok := columns[f.Field]
	if !ok {
		return domain.IsAbsentValue(f.Value)
	}
	_, ok = col.Type.NormalizeFilterValue(f.Value)
	return !ok
}
