package main

import (
	"context"
	"testing"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/config"
	"github.com/kasuganosora/datagrid/pkg/reports"
	"github.com/kasuganosora/datagrid/pkg/resource/application"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(cfg *config.Config) *environment {
	m := application.NewDataSourceManager(nil)
	m.SetCache(cache.NewQueryCache())
	return &environment{
		cfg:     cfg,
		logger:  api.NewLogrusLogger(nil),
		manager: m,
	}
}

func TestIsReportsSeed(t *testing.T) {
	assert.True(t, isReportsSeed(domain.DataSourceConfig{Type: domain.DataSourceTypeSlice, Name: reports.SourceName}))
	assert.False(t, isReportsSeed(domain.DataSourceConfig{Type: domain.DataSourceTypeSlice, Name: "other"}))
	assert.False(t, isReportsSeed(domain.DataSourceConfig{Type: domain.DataSourceTypeSQLite, Name: reports.SourceName}))
	assert.False(t, isReportsSeed(domain.DataSourceConfig{
		Type:    domain.DataSourceTypeSlice,
		Name:    reports.SourceName,
		Options: map[string]interface{}{"data": []map[string]interface{}{}},
	}))
}

func TestEnvironment_ReportsQuery(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(config.DefaultConfig())

	ds, err := env.openSource(ctx, env.cfg.Source)
	require.NoError(t, err)
	assert.Equal(t, reports.SourceName, env.source)

	columns, err := env.columns(ctx)
	require.NoError(t, err)

	g, err := newGrid(ctx, env, ds, columns, queryRequest{
		filters: []string{"severity:equals:LOW"},
		page:    1,
		hidden:  []string{"employees"},
	})
	require.NoError(t, err)
	defer g.Close()

	snap := g.Snapshot()
	require.NoError(t, snap.Err)
	assert.Equal(t, 1, snap.ItemCount)
	assert.Equal(t, "Zeta Inc", snap.Items[0]["companyName"])
	assert.Equal(t, []string{"employees"}, snap.Hidden)
	assert.Equal(t, env.cfg.PageSize(), snap.Query.Pagination.PageSize)
}

func TestEnvironment_SliceSourceFromConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(config.DefaultConfig())

	_, err := env.openSource(ctx, domain.DataSourceConfig{
		Type:    domain.DataSourceTypeSlice,
		Options: map[string]interface{}{"data": []map[string]interface{}{{"id": 1, "name": "Alice"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "slice", env.source, "name falls back to the type")

	columns, err := env.columns(ctx)
	require.NoError(t, err)
	assert.Len(t, columns, 2)
}

func TestEnvironment_ImportIntoSQLite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(config.DefaultConfig())

	_, err := env.openSource(ctx, domain.DataSourceConfig{
		Type:     domain.DataSourceTypeSQLite,
		Name:     "db",
		Database: ":memory:",
		Table:    "people",
	})
	require.NoError(t, err)
	defer env.close(ctx)

	columns := []domain.Column{{Field: "id", Type: domain.ColumnTypeNumber}, {Field: "name", Type: domain.ColumnTypeString}}
	rows := []domain.Row{{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bob"}}

	n, err := importRows(ctx, env, columns, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ds, err := env.manager.Get("db")
	require.NoError(t, err)
	result, err := ds.GetMany(ctx, &domain.GetManyParams{PaginationModel: domain.PaginationModel{PageSize: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemCount)
}

func TestImportRows_Unsupported(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(config.DefaultConfig())
	_, err := env.openSource(ctx, env.cfg.Source)
	require.NoError(t, err)

	_, err = importRows(ctx, env, []domain.Column{{Field: "id"}}, nil)
	var unsupported *domain.ErrUnsupportedOperation
	assert.ErrorAs(t, err, &unsupported)
}

func TestEnvironment_ColumnsWithoutSource(t *testing.T) {
	env := newTestEnv(config.DefaultConfig())
	_, err := env.columns(context.Background())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger := newLogger(config.LogConfig{Level: "warn", Format: "json"}, false)
	assert.Equal(t, api.LogWarn, logger.GetLevel())

	logger = newLogger(config.LogConfig{Level: "info", Format: "text"}, true)
	assert.Equal(t, api.LogDebug, logger.GetLevel())
}
