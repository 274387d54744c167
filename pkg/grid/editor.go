package grid

import (
	"context"
	"sync"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// EditorMode 过滤编辑器状态
type EditorMode int

const (
	// EditorIdle 编辑器关闭
	EditorIdle EditorMode = iota
	// EditorColumnFilter 正在编辑某一列的过滤条件（列菜单）
	EditorColumnFilter
	// EditorToolbarFilterSet 正在通过工具栏添加过滤条件
	EditorToolbarFilterSet
)

func (m EditorMode) String() string {
	switch m {
	case EditorIdle:
		return "idle"
	case EditorColumnFilter:
		return "editing-column-filter"
	case EditorToolbarFilterSet:
		return "editing-toolbar-filter-set"
	default:
		return "unknown"
	}
}

// Draft 编辑器中尚未提交的过滤条件
type Draft struct {
	Mode      EditorMode
	Field     string
	Operator  domain.FilterOperator
	Value     interface{}
	Operators []domain.FilterOperator // 当前列合法的操作符
}

// Editor 过滤/排序编辑器状态机。提交时通过命令修改表格的查询状态。
type Editor struct {
	mu   sync.Mutex
	grid *Grid

	mode     EditorMode
	field    string
	operator domain.FilterOperator
	value    interface{}

	toolbarField string // 工具栏上次选择的列，默认第一列
}

func newEditor(g *Grid) *Editor {
	return &Editor{
		grid:         g,
		toolbarField: g.columns[0].Field,
	}
}

// Mode 返回当前状态
func (e *Editor) Mode() EditorMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Draft 返回当前编辑内容
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := Draft{Mode: e.mode, Field: e.field, Operator: e.operator, Value: e.value}
	if e.mode != EditorIdle {
		d.Operators = e.columnType().Operators()
	}
	return d
}

// OpenColumnFilter 打开列过滤编辑器：已有条件时带出操作符和值，否则使用列类型默认操作符和空值
func (e *Editor) OpenColumnFilter(field string) error {
	col, ok := e.grid.Column(field)
	if !ok {
		return domain.NewErrColumnNotFound(field)
	}
	existing, filtered := e.grid.Query().FilterFor(field)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = EditorColumnFilter
	e.field = field
	if filtered && col.Type.Allows(existing.Operator) {
		e.operator = existing.Operator
		e.value = existing.Value
	} else {
		e.operator = col.Type.DefaultOperator()
		e.value = ""
	}
	return nil
}

// OpenToolbar 打开工具栏过滤编辑器，选中上次使用的列
func (e *Editor) OpenToolbar() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = EditorToolbarFilterSet
	e.field = e.toolbarField
	e.operator = e.columnType().DefaultOperator()
	e.value = ""
}

// SelectColumn 工具栏切换列；当前操作符对新列不合法时重置为新列的第一个合法操作符
func (e *Editor) SelectColumn(field string) error {
	col, ok := e.grid.Column(field)
	if !ok {
		return domain.NewErrColumnNotFound(field)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != EditorToolbarFilterSet {
		return errEditorState("select a column", e.mode)
	}
	e.field = field
	e.toolbarField = field
	if !col.Type.Allows(e.operator) {
		e.operator = col.Type.DefaultOperator()
	}
	return nil
}

// SetOperator 选择操作符，必须对当前列合法
func (e *Editor) SetOperator(op domain.FilterOperator) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == EditorIdle {
		return errEditorState("set an operator", e.mode)
	}
	t := e.columnType()
	if !t.Allows(op) {
		return domain.NewErrIllegalOperator(e.field, t, op)
	}
	e.operator = op
	return nil
}

// SetValue 修改过滤值
func (e *Editor) SetValue(v interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == EditorIdle {
		return errEditorState("set a value", e.mode)
	}
	e.value = v
	return nil
}

// Commit 提交并关闭编辑器。
// 列编辑器：值为空时删除该列的条件，否则替换。
// 工具栏：值非空时添加条件，空值时只关闭。
func (e *Editor) Commit(ctx context.Context) error {
	e.mu.Lock()
	mode := e.mode
	cmd := ApplyFilter{Field: e.field, Operator: e.operator, Value: e.value}
	e.mu.Unlock()

	switch mode {
	case EditorColumnFilter:
	case EditorToolbarFilterSet:
		if e.isAbsent(cmd) {
			e.Cancel()
			return nil
		}
	default:
		return errEditorState("commit", mode)
	}

	if err := e.grid.Dispatch(ctx, cmd); err != nil {
		return err
	}
	e.Cancel()
	return nil
}

// AddFilter 工具栏“添加”：值非空时添加条件，编辑器保持打开并清空值
func (e *Editor) AddFilter(ctx context.Context) error {
	e.mu.Lock()
	mode := e.mode
	cmd := ApplyFilter{Field: e.field, Operator: e.operator, Value: e.value}
	e.mu.Unlock()

	if mode != EditorToolbarFilterSet {
		return errEditorState("add a filter", mode)
	}
	if e.isAbsent(cmd) {
		return nil
	}
	if err := e.grid.Dispatch(ctx, cmd); err != nil {
		return err
	}

	e.mu.Lock()
	e.value = ""
	e.mu.Unlock()
	return nil
}

// Cancel 放弃编辑，回到 idle
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = EditorIdle
	e.field = ""
	e.operator = ""
	e.value = nil
}

// RemoveFilter 删除列的过滤条件（过滤标签上的删除按钮）
func (e *Editor) RemoveFilter(ctx context.Context, field string) error {
	return e.grid.Dispatch(ctx, RemoveFilter{Field: field})
}

// ClearFilters 清空全部过滤条件
func (e *Editor) ClearFilters(ctx context.Context) error {
	return e.grid.Dispatch(ctx, ClearFilters{})
}

// ToggleSort 列头排序三态循环
func (e *Editor) ToggleSort(ctx context.Context, field string) error {
	return e.grid.Dispatch(ctx, ToggleSort{Field: field})
}

func (e *Editor) columnType() domain.ColumnType {
	col, _ := e.grid.Column(e.field)
	return col.Type
}

func (e *Editor) isAbsent(cmd ApplyFilter) bool {
	return isAbsentFilter(e.grid.columnIndex, domain.FilterModel{Field: cmd.Field, Operator: cmd.Operator, Value: cmd.Value})
}

func errEditorState(action string, mode EditorMode) error {
	return api.NewError(api.ErrCodeInvalidParam, "cannot "+action+" while the filter editor is "+mode.String(), nil)
}
