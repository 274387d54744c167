package domain

import "fmt"

// 数据源领域错误

// ErrNotConnected 未连接错误
type ErrNotConnected struct {
	DataSourceType string
}

func (e *ErrNotConnected) Error() string {
	return fmt.Sprintf("data source %s is not connected", e.DataSourceType)
}

// ErrColumnNotFound 列不存在错误
type ErrColumnNotFound struct {
	ColumnName string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column %s not found", e.ColumnName)
}

// ErrUnsupportedOperation 不支持的操作错误
type ErrUnsupportedOperation struct {
	DataSourceType string
	Operation      string
}

func (e *ErrUnsupportedOperation) Error() string {
	return fmt.Sprintf("operation %s is not supported by %s data source", e.Operation, e.DataSourceType)
}

// ErrInvalidConfig 配置无效错误
type ErrInvalidConfig struct {
	ConfigKey string
	Message   string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config for %s: %s", e.ConfigKey, e.Message)
}

// ErrConnectionFailed 连接失败错误
type ErrConnectionFailed struct {
	DataSourceType string
	Reason         string
}

func (e *ErrConnectionFailed) Error() string {
	return fmt.Sprintf("failed to connect to %s data source: %s", e.DataSourceType, e.Reason)
}

// ErrQueryFailed 查询失败错误
type ErrQueryFailed struct {
	Query  string
	Reason string
}

func (e *ErrQueryFailed) Error() string {
	return fmt.Sprintf("query failed: %s - %s", e.Query, e.Reason)
}

// ErrIllegalOperator 操作符与列类型不匹配
type ErrIllegalOperator struct {
	Field    string
	Type     ColumnType
	Operator FilterOperator
}

func (e *ErrIllegalOperator) Error() string {
	return fmt.Sprintf("operator %s is not allowed on %s column %s", e.Operator, e.Type, e.Field)
}

// ErrInvalidRows 本地行数据不满足主键约束
type ErrInvalidRows struct {
	Index  int
	Reason string
}

func (e *ErrInvalidRows) Error() string {
	return fmt.Sprintf("invalid row at index %d: %s", e.Index, e.Reason)
}

// ErrInvalidPagination 分页参数无效
type ErrInvalidPagination struct {
	Page     int
	PageSize int
}

func (e *ErrInvalidPagination) Error() string {
	return fmt.Sprintf("invalid pagination: page=%d pageSize=%d", e.Page, e.PageSize)
}

// 辅助函数

// NewErrNotConnected 创建未连接错误
func NewErrNotConnected(dataSourceType string) *ErrNotConnected {
	return &ErrNotConnected{DataSourceType: dataSourceType}
}

// NewErrColumnNotFound 创建列不存在错误
func NewErrColumnNotFound(columnName string) *ErrColumnNotFound {
	return &ErrColumnNotFound{ColumnName: columnName}
}

// NewErrUnsupportedOperation 创建不支持操作错误
func NewErrUnsupportedOperation(dataSourceType, operation string) *ErrUnsupportedOperation {
	return &ErrUnsupportedOperation{DataSourceType: dataSourceType, Operation: operation}
}

// NewErrInvalidConfig 创建配置无效错误
func NewErrInvalidConfig(key, message string) *ErrInvalidConfig {
	return &ErrInvalidConfig{ConfigKey: key, Message: message}
}

// NewErrIllegalOperator 创建操作符不合法错误
func NewErrIllegalOperator(field string, t ColumnType, op FilterOperator) *ErrIllegalOperator {
	return &ErrIllegalOperator{Field: field, Type: t, Operator: op}
}

// NewErrInvalidRows 创建行数据无效错误
func NewErrInvalidRows(index int, reason string) *ErrInvalidRows {
	return &ErrInvalidRows{Index: index, Reason: reason}
}

// NewErrInvalidPagination 创建分页参数无效错误
func NewErrInvalidPagination(page, pageSize int) *ErrInvalidPagination {
	return &ErrInvalidPagination{Page: page, PageSize: pageSize}
}
