package domain

import "context"

// DataSource 异步分页数据源接口。
// 数据源负责过滤、排序和分页，返回当前页的行以及分页前的总行数。
type DataSource interface {
	// GetMany 按完整的查询状态获取一页数据
	GetMany(ctx context.Context, params *GetManyParams) (*GetManyResult, error)
}

// DataSourceFunc 将普通函数适配为 DataSource
type DataSourceFunc func(ctx context.Context, params *GetManyParams) (*GetManyResult, error)

// GetMany 调用函数本身
func (f DataSourceFunc) GetMany(ctx context.Context, params *GetManyParams) (*GetManyResult, error) {
	return f(ctx, params)
}

// ConnectableDataSource 需要建立连接的数据源（SQL、HTTP 等）
type ConnectableDataSource interface {
	DataSource

	// Connect 连接数据源
	Connect(ctx context.Context) error

	// Close 关闭连接
	Close(ctx context.Context) error

	// IsConnected 检查是否已连接
	IsConnected() bool
}

// SchemaProvider 能够描述自身列信息的数据源
type SchemaProvider interface {
	// Columns 返回数据源的列描述
	Columns(ctx context.Context) ([]Column, error)
}
