package grid

import (
	"fmt"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// Command 状态转换命令。命令作用于状态副本，返回错误时表格状态不变。
type Command interface {
	apply(t *transition) error
}

// transition 一次状态转换的工作区
type transition struct {
	columns      map[string]domain.Column
	query        QueryState
	hidden       Visibility
	queryChanged bool
}

func (t *transition) column(field string) (domain.Column, error) {
	col, ok := t.columns[field]
	if !ok {
		return domain.Column{}, domain.NewErrColumnNotFound(field)
	}
	return col, nil
}

func (t *transition) setQuery(q QueryState) {
	t.query = q
	t.queryChanged = true
}

// ApplyFilter 设置字段的过滤条件。
// Operator 为空时使用列类型的默认操作符；值属于“空”类时删除该字段的条件，否则替换。
type ApplyFilter struct {
	Field    string
	Operator domain.FilterOperator
	Value    interface{}
}

func (c ApplyFilter) apply(t *transition) error {
	col, err := t.column(c.Field)
	if err != nil {
		return err
	}

	op := c.Operator
	if op == "" {
		op = col.Type.DefaultOperator()
	}
	if !col.Type.Allows(op) {
		return domain.NewErrIllegalOperator(c.Field, col.Type, op)
	}

	f := domain.FilterModel{Field: c.Field, Operator: op, Value: c.Value}
	if isAbsentFilter(t.columns, f) {
		t.setQuery(t.query.withoutFilter(c.Field))
		return nil
	}
	t.setQuery(t.query.withFilter(f))
	return nil
}

// RemoveFilter 删除字段的过滤条件
type RemoveFilter struct {
	Field string
}

func (c RemoveFilter) apply(t *transition) error {
	t.setQuery(t.query.withoutFilter(c.Field))
	return nil
}

// ClearFilters 清空全部过滤条件
type ClearFilters struct{}

func (ClearFilters) apply(t *transition) error {
	q := t.query.Clone()
	q.Filter = []domain.FilterModel{}
	t.setQuery(q)
	return nil
}

// ToggleSort 列头排序三态循环：无 → asc → desc → 无。
// 对另一列排序会替换当前排序。
type ToggleSort struct {
	Field string
}

func (c ToggleSort) apply(t *transition) error {
	if _, err := t.column(c.Field); err != nil {
		return err
	}

	q := t.query.Clone()
	switch dir, _ := q.SortFor(c.Field); dir {
	case "":
		q.Sort = []domain.SortModel{{Field: c.Field, Sort: domain.SortAsc}}
	case domain.SortAsc:
		q.Sort = []domain.SortModel{{Field: c.Field, Sort: domain.SortDesc}}
	default:
		q.Sort = []domain.SortModel{}
	}
	t.setQuery(q)
	return nil
}

// SetSort 列菜单的升序/降序
type SetSort struct {
	Field string
	Sort  domain.SortDirection
}

func (c SetSort) apply(t *transition) error {
	if _, err := t.column(c.Field); err != nil {
		return err
	}
	entry := domain.SortModel{Field: c.Field, Sort: c.Sort}
	if c.Sort != domain.SortAsc && c.Sort != domain.SortDesc {
		return newInvalidSortError(entry)
	}

	q := t.query.Clone()
	q.Sort = []domain.SortModel{entry}
	t.setQuery(q)
	return nil
}

// ClearSort 清除排序。Field 非空时只在该列是当前排序列时清除。
type ClearSort struct {
	Field string
}

func (c ClearSort) apply(t *transition) error {
	if c.Field != "" {
		if _, ok := t.query.SortFor(c.Field); !ok {
			return nil
		}
	}
	q := t.query.Clone()
	q.Sort = []domain.SortModel{}
	t.setQuery(q)
	return nil
}

// ChangePage 切换页码（从 0 开始），超出范围的页返回空结果
type ChangePage struct {
	Page int
}

func (c ChangePage) apply(t *transition) error {
	if c.Page < 0 {
		return domain.NewErrInvalidPagination(c.Page, t.query.Pagination.PageSize)
	}
	q := t.query.Clone()
	q.Pagination.Page = c.Page
	t.setQuery(q)
	return nil
}

// ChangePageSize 修改每页行数并回到第一页
type ChangePageSize struct {
	PageSize int
}

func (c ChangePageSize) apply(t *transition) error {
	if c.PageSize <= 0 {
		return domain.NewErrInvalidPagination(0, c.PageSize)
	}
	q := t.query.Clone()
	q.Pagination = domain.PaginationModel{Page: 0, PageSize: c.PageSize}
	t.setQuery(q)
	return nil
}

// ToggleColumn 切换列的隐藏状态
type ToggleColumn struct {
	Field string
}

func (c ToggleColumn) apply(t *transition) error {
	if _, err := t.column(c.Field); err != nil {
		return err
	}
	t.hidden = t.hidden.Toggle(c.Field)
	return nil
}

// ShowAllColumns 显示全部列
type ShowAllColumns struct{}

func (ShowAllColumns) apply(t *transition) error {
	t.hidden = t.hidden.ShowAll()
	return nil
}

func newInvalidSortError(s domain.SortModel) error {
	return api.NewError(api.ErrCodeInvalidParam, fmt.Sprintf("invalid sort direction %q for %s", s.Sort, s.Field), nil)
}
