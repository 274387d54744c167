package domain

import (
	"fmt"
	"math"
)

// DataSourceType 数据源类型
type DataSourceType string

// String 返回数据源类型的字符串表示
func (t DataSourceType) String() string {
	return string(t)
}

const (
	// DataSourceTypeSlice 内存切片数据源
	DataSourceTypeSlice DataSourceType = "slice"
	// DataSourceTypeHTTP HTTP 远程数据源
	DataSourceTypeHTTP DataSourceType = "http"
	// DataSourceTypeMySQL MySQL数据源
	DataSourceTypeMySQL DataSourceType = "mysql"
	// DataSourceTypePostgreSQL PostgreSQL数据源
	DataSourceTypePostgreSQL DataSourceType = "postgresql"
	// DataSourceTypeSQLite SQLite数据源
	DataSourceTypeSQLite DataSourceType = "sqlite"
	// DataSourceTypeCSV CSV文件数据源
	DataSourceTypeCSV DataSourceType = "csv"
	// DataSourceTypeExcel Excel文件数据源
	DataSourceTypeExcel DataSourceType = "excel"
)

// DataSourceConfig 数据源配置
type DataSourceConfig struct {
	Type     DataSourceType         `json:"type"`
	Name     string                 `json:"name"`
	Host     string                 `json:"host,omitempty"`
	Port     int                    `json:"port,omitempty"`
	Username string                 `json:"username,omitempty"`
	Password string                 `json:"password,omitempty"`
	Database string                 `json:"database,omitempty"`
	Table    string                 `json:"table,omitempty"` // 数据源绑定的资源（表名/接口资源名）
	Options  map[string]interface{} `json:"options,omitempty"`
}

// RowIDField 行主键字段名
const RowIDField = "id"

// Row 行数据，必须包含唯一的 id 字段
type Row map[string]interface{}

// ID 返回行的主键值，不存在时返回 nil
func (r Row) ID() interface{} {
	return r[RowIDField]
}

// Clone 返回行的浅拷贝
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RowKey 将主键转换为可比较的字符串键（数字与字符串主键统一处理）
func RowKey(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return "s:" + v
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "n:" + FormatValue(v)
	default:
		return fmt.Sprintf("?:%v", v)
	}
}

// PaginationModel 分页模型，Page 从 0 开始
type PaginationModel struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Offset 返回当前页第一行的下标。
// 乘积溢出时返回 math.MaxInt，即越过任何数据集的末尾。
func (p PaginationModel) Offset() int {
	if p.Page <= 0 || p.PageSize <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return p.Page * p.PageSize
}

// SortDirection 排序方向
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortModel 排序模型
type SortModel struct {
	Field string        `json:"field"`
	Sort  SortDirection `json:"sort"`
}

// FilterOperator 过滤操作符，合法集合由列类型决定
type FilterOperator string

const (
	OpContains   FilterOperator = "contains"
	OpStartsWith FilterOperator = "startsWith"
	OpEquals     FilterOperator = "equals"
	OpGreater    FilterOperator = "gt"
	OpLess       FilterOperator = "lt"
	OpBefore     FilterOperator = "before"
	OpAfter      FilterOperator = "after"
)

// FilterModel 过滤条件，每个字段最多一条
type FilterModel struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    interface{}    `json:"value"`
}

// GetManyParams 远程数据源的查询参数（完整的查询状态）
type GetManyParams struct {
	PaginationModel PaginationModel `json:"paginationModel"`
	SortModel       []SortModel     `json:"sortModel"`
	FilterModel     []FilterModel   `json:"filterModel"`
}

// GetManyResult 查询结果：当前页的行和过滤后的总行数
type GetManyResult struct {
	Items     []Row `json:"items"`
	ItemCount int   `json:"itemCount"`
}
