package main

import (
	"testing"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = []domain.Column{
	{Field: "id", Type: domain.ColumnTypeNumber},
	{Field: "name", Type: domain.ColumnTypeString},
	{Field: "age", Type: domain.ColumnTypeNumber},
	{Field: "createdAt", Type: domain.ColumnTypeDate},
}

func testIndex() map[string]domain.Column {
	index := make(map[string]domain.Column)
	for _, c := range testColumns {
		index[c.Field] = c
	}
	return index
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want domain.FilterModel
	}{
		{"default string operator", "name:Ali", domain.FilterModel{Field: "name", Operator: domain.OpContains, Value: "Ali"}},
		{"explicit operator", "name:startsWith:Al", domain.FilterModel{Field: "name", Operator: domain.OpStartsWith, Value: "Al"}},
		{"default number operator", "age:30", domain.FilterModel{Field: "age", Operator: domain.OpEquals, Value: "30"}},
		{"number operator", "age:gt:26", domain.FilterModel{Field: "age", Operator: domain.OpGreater, Value: "26"}},
		{"value with colon", "name:a:b", domain.FilterModel{Field: "name", Operator: domain.OpContains, Value: "a:b"}},
		{"illegal operator is part of the value", "age:contains:3", domain.FilterModel{Field: "age", Operator: domain.OpEquals, Value: "contains:3"}},
		{"date value with time", "createdAt:after:2025-07-16T00:00:00Z", domain.FilterModel{Field: "createdAt", Operator: domain.OpAfter, Value: "2025-07-16T00:00:00Z"}},
		{"empty value", "name:", domain.FilterModel{Field: "name", Operator: domain.OpContains, Value: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFilter(tt.expr, testIndex())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter_Errors(t *testing.T) {
	_, err := parseFilter("name", testIndex())
	assert.Error(t, err)

	_, err = parseFilter(":x", testIndex())
	assert.Error(t, err)

	_, err = parseFilter("missing:x", testIndex())
	var notFound *domain.ErrColumnNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestParseSort(t *testing.T) {
	s, err := parseSort("age")
	require.NoError(t, err)
	assert.Equal(t, domain.SortModel{Field: "age", Sort: domain.SortAsc}, s)

	s, err = parseSort("age:DESC")
	require.NoError(t, err)
	assert.Equal(t, domain.SortModel{Field: "age", Sort: domain.SortDesc}, s)

	_, err = parseSort("age:up")
	assert.Error(t, err)

	_, err = parseSort(":asc")
	assert.Error(t, err)
}

func TestQueryRequest_InitialState(t *testing.T) {
	req := queryRequest{
		filters:  []string{"name:Ali", "age:gt:20"},
		sort:     "age:desc",
		page:     2,
		pageSize: 0,
	}

	state, err := req.initialState(testColumns, 10)
	require.NoError(t, err)

	assert.Equal(t, &domain.PaginationModel{Page: 1, PageSize: 10}, state.PaginationModel)
	assert.Equal(t, []domain.SortModel{{Field: "age", Sort: domain.SortDesc}}, state.SortModel)
	assert.Len(t, state.FilterModel, 2)

	req.pageSize = 25
	state, err = req.initialState(testColumns, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, state.PaginationModel.PageSize)
}

func TestQueryRequest_InitialStateErrors(t *testing.T) {
	_, err := queryRequest{page: 0}.initialState(testColumns, 10)
	assert.Error(t, err)

	_, err = queryRequest{page: 1, sort: "missing"}.initialState(testColumns, 10)
	assert.Error(t, err)

	_, err = queryRequest{page: 1, filters: []string{"bad"}}.initialState(testColumns, 10)
	assert.Error(t, err)
}
