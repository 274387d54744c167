package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrNotConnected_Error 测试ErrNotConnected的Error方法
func TestErrNotConnected_Error(t *testing.T) {
	err := NewErrNotConnected("mysql")
	assert.Equal(t, "data source mysql is not connected", err.Error())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"column not found", NewErrColumnNotFound("age"), "column age not found"},
		{"unsupported", NewErrUnsupportedOperation("http", "DELETE"), "operation DELETE is not supported by http data source"},
		{"invalid config", NewErrInvalidConfig("grid.pagination_options", "must not be empty"), "invalid config for grid.pagination_options: must not be empty"},
		{"connection failed", &ErrConnectionFailed{DataSourceType: "postgres", Reason: "timeout"}, "failed to connect to postgres data source: timeout"},
		{"query failed", &ErrQueryFailed{Query: "SELECT 1", Reason: "boom"}, "query failed: SELECT 1 - boom"},
		{"illegal operator", NewErrIllegalOperator("age", ColumnTypeNumber, OpContains), "operator contains is not allowed on number column age"},
		{"invalid rows", NewErrInvalidRows(2, "duplicate id 1"), "invalid row at index 2: duplicate id 1"},
		{"invalid pagination", NewErrInvalidPagination(-1, 10), "invalid pagination: page=-1 pageSize=10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

// TestErrors_As 包装后的错误仍可通过 errors.As 取出
func TestErrors_As(t *testing.T) {
	wrapped := fmt.Errorf("apply filter: %w", NewErrIllegalOperator("active", ColumnTypeBoolean, OpGreater))

	var illegal *ErrIllegalOperator
	assert.True(t, errors.As(wrapped, &illegal))
	assert.Equal(t, "active", illegal.Field)
	assert.True(t, strings.Contains(wrapped.Error(), "apply filter"))
}
