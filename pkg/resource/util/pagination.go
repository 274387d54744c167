package util

import (
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// ApplyPagination 应用分页，返回 [page*pageSize, page*pageSize+pageSize) 区间。
// 越界时返回空切片而不是错误；pageSize <= 0 时返回全部行。
func ApplyPagination(rows []domain.Row, pagination domain.PaginationModel) []domain.Row {
	if pagination.PageSize <= 0 {
		return rows
	}

	start := pagination.Offset()
	if start >= len(rows) {
		return []domain.Row{}
	}

	end := len(rows)
	if pagination.PageSize < end-start {
		end = start + pagination.PageSize
	}

	return rows[start:end:end]
}

// ApplyQueryOperations 本地查询流水线：过滤 → 排序 → 分页。
// 返回当前页的行和分页前的总行数。
func ApplyQueryOperations(rows []domain.Row, columns []domain.Column, params *domain.GetManyParams, collation *Collation) *domain.GetManyResult {
	if params == nil {
		return &domain.GetManyResult{Items: rows, ItemCount: len(rows)}
	}

	filtered := ApplyFilters(rows, columns, params.FilterModel)
	sorted := ApplyOrder(filtered, columns, params.SortModel, collation)
	paged := ApplyPagination(sorted, params.PaginationModel)

	return &domain.GetManyResult{Items: paged, ItemCount: len(sorted)}
}
