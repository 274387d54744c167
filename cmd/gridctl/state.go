package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/kasuganosora/datagrid/pkg/grid"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/spf13/cobra"
)

// addQueryFlags registers the flags describing the initial query state.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("filter", "f", nil, "filter as field:value or field:operator:value (repeatable)")
	cmd.Flags().StringP("sort", "s", "", "sort as field or field:asc|desc")
	cmd.Flags().IntP("page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntP("page-size", "n", 0, "rows per page (default: configured page size)")
	cmd.Flags().StringArray("hide", nil, "hide a column (repeatable)")
}

// queryRequest is the parsed form of the query flags.
type queryRequest struct {
	filters  []string
	sort     string
	page     int
	pageSize int
	hidden   []string
}

func readQueryFlags(cmd *cobra.Command) queryRequest {
	return queryRequest{
		filters:  getStringArray(cmd, "filter"),
		sort:     getString(cmd, "sort"),
		page:     getInt(cmd, "page"),
		pageSize: getInt(cmd, "page-size"),
		hidden:   getStringArray(cmd, "hide"),
	}
}

// initialState converts the request into the grid's initial state,
// resolving default operators against the column types.
func (r queryRequest) initialState(columns []domain.Column, defaultPageSize int) (grid.InitialState, error) {
	index := make(map[string]domain.Column, len(columns))
	for _, c := range columns {
		index[c.Field] = c
	}

	if r.page < 1 {
		return grid.InitialState{}, fmt.Errorf("page must be at least 1, got %d", r.page)
	}
	size := r.pageSize
	if size == 0 {
		size = defaultPageSize
	}
	state := grid.InitialState{
		PaginationModel: &domain.PaginationModel{Page: r.page - 1, PageSize: size},
	}

	if r.sort != "" {
		s, err := parseSort(r.sort)
		if err != nil {
			return grid.InitialState{}, err
		}
		if _, ok := index[s.Field]; !ok {
			return grid.InitialState{}, domain.NewErrColumnNotFound(s.Field)
		}
		state.SortModel = []domain.SortModel{s}
	}

	for _, expr := range r.filters {
		f, err := parseFilter(expr, index)
		if err != nil {
			return grid.InitialState{}, err
		}
		state.FilterModel = append(state.FilterModel, f)
	}
	return state, nil
}

// parseSort parses "field" (ascending) or "field:asc|desc".
func parseSort(expr string) (domain.SortModel, error) {
	field, dir, hasDir := strings.Cut(expr, ":")
	if field == "" {
		return domain.SortModel{}, fmt.Errorf("invalid sort %q", expr)
	}
	s := domain.SortModel{Field: field, Sort: domain.SortAsc}
	if hasDir {
		switch domain.SortDirection(strings.ToLower(dir)) {
		case domain.SortAsc:
		case domain.SortDesc:
			s.Sort = domain.SortDesc
		default:
			return domain.SortModel{}, fmt.Errorf("invalid sort direction %q", dir)
		}
	}
	return s, nil
}

// parseFilter parses "field:value" or "field:operator:value". The operator
// part is only recognised when it is legal for the column, so values may
// contain colons.
func parseFilter(expr string, columns map[string]domain.Column) (domain.FilterModel, error) {
	field, rest, ok := strings.Cut(expr, ":")
	if !ok || field == "" {
		return domain.FilterModel{}, fmt.Errorf("invalid filter %q, expected field:value", expr)
	}
	col, known := columns[field]
	if !known {
		return domain.FilterModel{}, domain.NewErrColumnNotFound(field)
	}

	f := domain.FilterModel{Field: field, Operator: col.Type.DefaultOperator(), Value: rest}
	if op, value, ok := strings.Cut(rest, ":"); ok && col.Type.Allows(domain.FilterOperator(op)) {
		f.Operator = domain.FilterOperator(op)
		f.Value = value
	}
	return f, nil
}

// newGrid opens a remote grid over ds and waits for the first page.
func newGrid(ctx context.Context, env *environment, ds domain.DataSource, columns []domain.Column, req queryRequest) (*grid.Grid, error) {
	state, err := req.initialState(columns, env.cfg.PageSize())
	if err != nil {
		return nil, err
	}

	g, err := grid.New(columns,
		grid.WithDataSource(ds),
		grid.WithInitialState(state),
		grid.WithPaginationOptions(env.cfg.Grid.PaginationOptions...),
		grid.WithCollation(env.cfg.Grid.Collation),
		grid.WithLogger(env.logger.WithField("source", env.source)),
		grid.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}

	for _, field := range req.hidden {
		if err := g.Dispatch(ctx, grid.ToggleColumn{Field: field}); err != nil {
			g.Close()
			return nil, err
		}
	}
	g.Wait()
	return g, nil
}
