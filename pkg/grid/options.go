package grid

import (
	"context"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// DefaultPaginationOptions 默认的每页行数选项
var DefaultPaginationOptions = []int{5, 10, 25}

// InitialState 表格创建时的初始查询状态，未设置的部分使用默认值
type InitialState struct {
	PaginationModel *domain.PaginationModel `json:"paginationModel,omitempty"`
	SortModel       []domain.SortModel      `json:"sortModel,omitempty"`
	FilterModel     []domain.FilterModel    `json:"filterModel,omitempty"`
}

// Option 表格配置选项
type Option func(*gridConfig)

type gridConfig struct {
	rows              []domain.Row
	hasRows           bool
	source            domain.DataSource
	initial           InitialState
	paginationOptions []int
	collation         string
	logger            api.Logger
	onError           func(error)
	onChange          func(Snapshot)
	ctx               context.Context
}

func defaultConfig() gridConfig {
	return gridConfig{
		paginationOptions: DefaultPaginationOptions,
		logger:            api.NewNoOpLogger(),
		ctx:               context.Background(),
	}
}

// WithRows 本地模式：表格在内存中完成过滤、排序和分页。
// 行必须带唯一的 id；nil 表示空表。
func WithRows(rows []domain.Row) Option {
	return func(c *gridConfig) {
		c.rows = rows
		c.hasRows = true
	}
}

// WithDataSource 远程模式：查询委托给数据源
func WithDataSource(ds domain.DataSource) Option {
	return func(c *gridConfig) {
		c.source = ds
	}
}

// WithInitialState 设置初始分页、排序和过滤
func WithInitialState(s InitialState) Option {
	return func(c *gridConfig) {
		c.initial = s
	}
}

// WithPaginationOptions 设置每页行数选项，第一项是默认的每页行数
func WithPaginationOptions(sizes ...int) Option {
	return func(c *gridConfig) {
		c.paginationOptions = sizes
	}
}

// WithCollation 设置本地模式的字符串排序规则，例如 "pt-BR"
func WithCollation(name string) Option {
	return func(c *gridConfig) {
		c.collation = name
	}
}

// WithLogger 设置日志记录器
func WithLogger(l api.Logger) Option {
	return func(c *gridConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler 设置远程查询失败时的回调
func WithErrorHandler(fn func(error)) Option {
	return func(c *gridConfig) {
		c.onError = fn
	}
}

// WithChangeHandler 设置状态变化回调。
// 回调在锁外调用，远程模式下可能来自查询 goroutine。
// 快照按 Version 顺序投递，比已投递快照旧的不再投递。
func WithChangeHandler(fn func(Snapshot)) Option {
	return func(c *gridConfig) {
		c.onChange = fn
	}
}

// WithContext 设置远程模式首次查询使用的 context
func WithContext(ctx context.Context) Option {
	return func(c *gridConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}
