package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

func TestVisibility(t *testing.T) {
	var v Visibility
	assert.Equal(t, 0, v.Len())

	hidden := v.Toggle("name").Toggle("id")
	assert.True(t, hidden.IsHidden("name"))
	assert.False(t, v.IsHidden("name"))
	assert.Equal(t, []string{"id", "name"}, hidden.Hidden())

	visible := hidden.VisibleColumns(peopleColumns)
	require.Len(t, visible, 1)
	assert.Equal(t, "age", visible[0].Field)

	back := hidden.Toggle("name")
	assert.False(t, back.IsHidden("name"))
	assert.True(t, back.IsHidden("id"))

	assert.Equal(t, 0, hidden.ShowAll().Len())
}

func TestToggleColumn_KeepsDeclarationOrder(t *testing.T) {
	g := newLocalGrid(t, peopleRows())
	ctx := context.Background()

	require.NoError(t, g.Dispatch(ctx, ToggleColumn{Field: "name"}))
	require.NoError(t, g.Dispatch(ctx, ToggleColumn{Field: "id"}))
	require.NoError(t, g.Dispatch(ctx, ToggleColumn{Field: "id"}))

	snap := g.Snapshot()
	assert.Equal(t, []domain.Column{peopleColumns[0], peopleColumns[2]}, snap.Columns)
	assert.Equal(t, []string{"name"}, snap.Hidden)

	// 可见性不影响行
	assert.Len(t, snap.Items, 3)
	assert.Contains(t, snap.Items[0], "name")

	require.NoError(t, g.Dispatch(ctx, ShowAllColumns{}))
	snap = g.Snapshot()
	assert.Equal(t, peopleColumns, snap.Columns)
	assert.Empty(t, snap.Hidden)
}
