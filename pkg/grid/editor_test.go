package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

var editorColumns = []domain.Column{
	{Field: "id", HeaderName: "ID"},
	{Field: "companyName", HeaderName: "Empresa", Type: domain.ColumnTypeString},
	{Field: "issues", HeaderName: "Issues", Type: domain.ColumnTypeNumber},
	{Field: "active", HeaderName: "Active", Type: domain.ColumnTypeBoolean},
	{Field: "createdAt", HeaderName: "Created", Type: domain.ColumnTypeDate},
	{Field: "employees", HeaderName: "Funcionários", Type: domain.ColumnTypeFile},
}

func editorRows() []domain.Row {
	return []domain.Row{
		{"id": 1, "companyName": "ACME Corp", "issues": 2, "active": true, "createdAt": "2025-07-17T10:30:00Z", "employees": "acme.pdf"},
		{"id": 2, "companyName": "Beta Ltda", "issues": 2, "active": false, "createdAt": "2025-07-16T14:20:00Z"},
		{"id": 3, "companyName": "Zeta Inc", "issues": 1, "active": true, "createdAt": "2025-07-15T09:10:00Z"},
	}
}

func newEditorGrid(t *testing.T) (*Grid, *Editor) {
	t.Helper()
	g, err := New(editorColumns, WithRows(editorRows()))
	require.NoError(t, err)
	return g, g.Editor()
}

func TestEditor_OpenColumnFilterSeedsDefaults(t *testing.T) {
	_, e := newEditorGrid(t)

	tests := []struct {
		field string
		op    domain.FilterOperator
		ops   []domain.FilterOperator
	}{
		{"id", domain.OpContains, []domain.FilterOperator{domain.OpContains, domain.OpEquals, domain.OpStartsWith}},
		{"companyName", domain.OpContains, []domain.FilterOperator{domain.OpContains, domain.OpEquals, domain.OpStartsWith}},
		{"employees", domain.OpContains, []domain.FilterOperator{domain.OpContains, domain.OpEquals, domain.OpStartsWith}},
		{"issues", domain.OpEquals, []domain.FilterOperator{domain.OpEquals, domain.OpGreater, domain.OpLess}},
		{"active", domain.OpEquals, []domain.FilterOperator{domain.OpEquals}},
		{"createdAt", domain.OpEquals, []domain.FilterOperator{domain.OpEquals, domain.OpBefore, domain.OpAfter}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			require.NoError(t, e.OpenColumnFilter(tt.field))
			d := e.Draft()
			assert.Equal(t, EditorColumnFilter, d.Mode)
			assert.Equal(t, tt.field, d.Field)
			assert.Equal(t, tt.op, d.Operator)
			assert.Equal(t, "", d.Value)
			assert.Equal(t, tt.ops, d.Operators)
			e.Cancel()
			assert.Equal(t, EditorIdle, e.Mode())
		})
	}

	var notFound *domain.ErrColumnNotFound
	assert.ErrorAs(t, e.OpenColumnFilter("missing"), &notFound)
}

func TestEditor_ColumnFilterCommit(t *testing.T) {
	g, e := newEditorGrid(t)
	ctx := context.Background()

	require.NoError(t, e.OpenColumnFilter("issues"))
	require.NoError(t, e.SetOperator(domain.OpGreater))
	require.NoError(t, e.SetValue(1))
	require.NoError(t, e.Commit(ctx))

	assert.Equal(t, EditorIdle, e.Mode())
	snap := g.Snapshot()
	assert.True(t, snap.IsFiltered("issues"))
	assert.Equal(t, []interface{}{1, 2}, ids(snap.Items))

	// 重新打开时带出已有条件
	require.NoError(t, e.OpenColumnFilter("issues"))
	d := e.Draft()
	assert.Equal(t, domain.OpGreater, d.Operator)
	assert.Equal(t, 1, d.Value)

	// 编辑为另一个条件：替换而不是追加
	require.NoError(t, e.SetOperator(domain.OpLess))
	require.NoError(t, e.SetValue(2))
	require.NoError(t, e.Commit(ctx))
	q := g.Query()
	require.Len(t, q.Filter, 1)
	assert.Equal(t, domain.FilterModel{Field: "issues", Operator: domain.OpLess, Value: 2}, q.Filter[0])

	// 清空值后提交：删除条件
	require.NoError(t, e.OpenColumnFilter("issues"))
	require.NoError(t, e.SetValue(""))
	require.NoError(t, e.Commit(ctx))
	assert.Empty(t, g.Query().Filter)
	assert.Equal(t, 3, g.Snapshot().ItemCount)
}

func TestEditor_BooleanFalseIsAbsent(t *testing.T) {
	g, e := newEditorGrid(t)
	ctx := context.Background()

	require.NoError(t, e.OpenColumnFilter("active"))
	require.NoError(t, e.SetValue(true))
	require.NoError(t, e.Commit(ctx))
	assert.Equal(t, 2, g.Snapshot().ItemCount)

	require.NoError(t, e.OpenColumnFilter("active"))
	require.NoError(t, e.SetValue(false))
	require.NoError(t, e.Commit(ctx))
	assert.False(t, g.Snapshot().IsFiltered("active"))
}

func TestEditor_IllegalOperator(t *testing.T) {
	g, e := newEditorGrid(t)

	require.NoError(t, e.OpenColumnFilter("active"))
	var illegal *domain.ErrIllegalOperator
	require.ErrorAs(t, e.SetOperator(domain.OpGreater), &illegal)
	assert.Equal(t, domain.ColumnTypeBoolean, illegal.Type)
	assert.Equal(t, domain.OpEquals, e.Draft().Operator)
	assert.Empty(t, g.Query().Filter)
}

func TestEditor_IdleRejectsEdits(t *testing.T) {
	_, e := newEditorGrid(t)
	ctx := context.Background()

	assert.True(t, api.IsErrorCode(e.SetOperator(domain.OpEquals), api.ErrCodeInvalidParam))
	assert.True(t, api.IsErrorCode(e.SetValue("x"), api.ErrCodeInvalidParam))
	assert.True(t, api.IsErrorCode(e.Commit(ctx), api.ErrCodeInvalidParam))
	assert.True(t, api.IsErrorCode(e.AddFilter(ctx), api.ErrCodeInvalidParam))
	assert.True(t, api.IsErrorCode(e.SelectColumn("issues"), api.ErrCodeInvalidParam))

	require.NoError(t, e.OpenColumnFilter("issues"))
	assert.True(t, api.IsErrorCode(e.SelectColumn("companyName"), api.ErrCodeInvalidParam))
	assert.True(t, api.IsErrorCode(e.AddFilter(ctx), api.ErrCodeInvalidParam))
}

func TestEditor_ToolbarFilterSet(t *testing.T) {
	g, e := newEditorGrid(t)
	ctx := context.Background()

	e.OpenToolbar()
	d := e.Draft()
	assert.Equal(t, EditorToolbarFilterSet, d.Mode)
	assert.Equal(t, "id", d.Field)
	assert.Equal(t, domain.OpContains, d.Operator)

	// startsWith 对数字列不合法，切换后重置为第一个合法操作符
	require.NoError(t, e.SetOperator(domain.OpStartsWith))
	require.NoError(t, e.SelectColumn("issues"))
	assert.Equal(t, domain.OpEquals, e.Draft().Operator)

	// equals 对日期列合法，保持不变
	require.NoError(t, e.SetOperator(domain.OpEquals))
	require.NoError(t, e.SelectColumn("createdAt"))
	assert.Equal(t, domain.OpEquals, e.Draft().Operator)
	require.NoError(t, e.SetOperator(domain.OpAfter))
	require.NoError(t, e.SetValue("2025-07-15T12:00:00Z"))

	// 添加后保持打开，值被清空
	require.NoError(t, e.AddFilter(ctx))
	d = e.Draft()
	assert.Equal(t, EditorToolbarFilterSet, d.Mode)
	assert.Equal(t, "createdAt", d.Field)
	assert.Equal(t, "", d.Value)
	assert.Equal(t, 2, g.Snapshot().ItemCount)

	// 空值添加不产生条件
	require.NoError(t, e.SelectColumn("companyName"))
	assert.Equal(t, domain.OpContains, e.Draft().Operator)
	require.NoError(t, e.AddFilter(ctx))
	assert.Equal(t, 1, g.Snapshot().ActiveFilterCount())

	require.NoError(t, e.SetValue("ACME"))
	require.NoError(t, e.Commit(ctx))
	assert.Equal(t, EditorIdle, e.Mode())
	snap := g.Snapshot()
	assert.Equal(t, 2, snap.ActiveFilterCount())
	assert.Equal(t, []interface{}{1}, ids(snap.Items))

	// 再次打开时保留上次选择的列
	e.OpenToolbar()
	assert.Equal(t, "companyName", e.Draft().Field)

	// 工具栏提交空值只关闭，不删除已有条件
	require.NoError(t, e.Commit(ctx))
	assert.Equal(t, EditorIdle, e.Mode())
	assert.True(t, g.Snapshot().IsFiltered("companyName"))
}

func TestEditor_ChipsAndSort(t *testing.T) {
	g, e := newEditorGrid(t)
	ctx := context.Background()

	require.NoError(t, g.Dispatch(ctx, ApplyFilter{Field: "companyName", Value: "a"}))
	require.NoError(t, g.Dispatch(ctx, ApplyFilter{Field: "issues", Value: 2}))

	require.NoError(t, e.RemoveFilter(ctx, "issues"))
	assert.Equal(t, 1, g.Snapshot().ActiveFilterCount())
	require.NoError(t, e.ClearFilters(ctx))
	assert.Equal(t, 0, g.Snapshot().ActiveFilterCount())

	require.NoError(t, e.ToggleSort(ctx, "createdAt"))
	assert.Equal(t, []interface{}{3, 2, 1}, ids(g.Snapshot().Items))
	require.NoError(t, e.ToggleSort(ctx, "createdAt"))
	assert.Equal(t, []interface{}{1, 2, 3}, ids(g.Snapshot().Items))
	require.NoError(t, e.ToggleSort(ctx, "createdAt"))
	assert.Empty(t, g.Query().Sort)
}

func TestEditorMode_String(t *testing.T) {
	assert.Equal(t, "idle", EditorIdle.String())
	assert.Equal(t, "editing-column-filter", EditorColumnFilter.String())
	assert.Equal(t, "editing-toolbar-filter-set", EditorToolbarFilterSet.String())
	assert.Equal(t, "unknown", EditorMode(7).String())
}
