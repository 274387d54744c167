package application

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kasuganosora/datagrid/pkg/resource/csv"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/excel"
	"github.com/kasuganosora/datagrid/pkg/resource/http"
	"github.com/kasuganosora/datagrid/pkg/resource/mysql"
	"github.com/kasuganosora/datagrid/pkg/resource/postgresql"
	"github.com/kasuganosora/datagrid/pkg/resource/slice"
	"github.com/kasuganosora/datagrid/pkg/resource/sqlite"
)

// ==================== 工厂注册表 ====================

// Registry 数据源工厂注册表
type Registry struct {
	factories map[domain.DataSourceType]domain.DataSourceFactory
	mu        sync.RWMutex
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[domain.DataSourceType]domain.DataSourceFactory),
	}
}

// NewDefaultRegistry 创建注册了全部内置数据源的注册表
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, f := range []domain.DataSourceFactory{
		slice.NewFactory(),
		http.NewHTTPFactory(),
		mysql.NewMySQLFactory(),
		postgresql.NewPostgreSQLFactory(),
		sqlite.NewSQLiteFactory(),
		csv.NewCSVFactory(),
		excel.NewExcelFactory(),
	} {
		// 类型互不相同，不会失败
		_ = r.Register(f)
	}
	return r
}

// Register 注册数据源工厂
func (r *Registry) Register(factory domain.DataSourceFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	factoryType := factory.GetType()
	if _, exists := r.factories[factoryType]; exists {
		return fmt.Errorf("factory %s already registered", factoryType)
	}

	r.factories[factoryType] = factory
	return nil
}

// Get 获取数据源工厂
func (r *Registry) Get(factoryType domain.DataSourceType) (domain.DataSourceFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[factoryType]
	if !ok {
		return nil, fmt.Errorf("factory %s not found", factoryType)
	}
	return factory, nil
}

// Create 使用工厂创建数据源
func (r *Registry) Create(config *domain.DataSourceConfig) (domain.DataSource, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	factory, err := r.Get(config.Type)
	if err != nil {
		return nil, err
	}
	return factory.Create(config)
}

// List 列出所有已注册的类型（按名称排序）
func (r *Registry) List() []domain.DataSourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.DataSourceType, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Exists 检查工厂是否存在
func (r *Registry) Exists(factoryType domain.DataSourceType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[factoryType]
	return exists
}
