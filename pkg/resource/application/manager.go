package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/infrastructure/cache"
)

// ==================== 数据源管理器 ====================

// managedSource 已注册的数据源；设置了缓存时 serving 是带缓存的包装
type managedSource struct {
	raw     domain.DataSource
	serving domain.DataSource
	cached  *cache.CachedDataSource
}

// DataSourceManager 按名称管理数据源的生命周期，可选地为查询加一层共享响应缓存
type DataSourceManager struct {
	sources   map[string]*managedSource
	registry  *Registry
	cache     *cache.QueryCache
	defaultDS string
	mu        sync.RWMutex
}

// NewDataSourceManager 创建数据源管理器，registry 为 nil 时使用内置注册表
func NewDataSourceManager(registry *Registry) *DataSourceManager {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	return &DataSourceManager{
		sources:  make(map[string]*managedSource),
		registry: registry,
	}
}

// SetCache 设置响应缓存，之后注册的数据源都经过该缓存
func (m *DataSourceManager) SetCache(c *cache.QueryCache) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = c
}

// Register 注册数据源，第一个注册的数据源成为默认数据源
func (m *DataSourceManager) Register(name string, ds domain.DataSource) error {
	if name == "" {
		return fmt.Errorf("data source name cannot be empty")
	}
	if strings.Contains(name, cache.KeySeparator) {
		return domain.NewErrInvalidConfig("name", fmt.Sprintf("data source name %q must not contain %q", name, cache.KeySeparator))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sources[name]; exists {
		return fmt.Errorf("data source %s already registered", name)
	}

	entry := &managedSource{raw: ds, serving: ds}
	if m.cache != nil {
		entry.cached = cache.NewCachedDataSource(name, ds, m.cache)
		entry.serving = entry.cached
	}
	m.sources[name] = entry

	if m.defaultDS == "" {
		m.defaultDS = name
	}
	return nil
}

// Unregister 关闭并注销数据源
func (m *DataSourceManager) Unregister(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.sources[name]
	if !exists {
		return fmt.Errorf("data source %s not found", name)
	}

	if conn, ok := entry.raw.(domain.ConnectableDataSource); ok {
		if err := conn.Close(ctx); err != nil {
			return fmt.Errorf("failed to close data source: %w", err)
		}
	}
	if entry.cached != nil {
		entry.cached.Invalidate()
	}

	delete(m.sources, name)

	// 如果删除的是默认数据源，按名称顺序选下一个
	if m.defaultDS == name {
		m.defaultDS = ""
		if names := m.sortedNamesLocked(); len(names) > 0 {
			m.defaultDS = names[0]
		}
	}
	return nil
}

// Get 获取数据源（设置了缓存时返回带缓存的包装）
func (m *DataSourceManager) Get(name string) (domain.DataSource, error) {
	entry, err := m.entry(name)
	if err != nil {
		return nil, err
	}
	return entry.serving, nil
}

// Raw 获取未经缓存包装的数据源（导入、类型断言时使用）
func (m *DataSourceManager) Raw(name string) (domain.DataSource, error) {
	entry, err := m.entry(name)
	if err != nil {
		return nil, err
	}
	return entry.raw, nil
}

func (m *DataSourceManager) entry(name string) (*managedSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.sources[name]
	if !ok {
		return nil, fmt.Errorf("data source %s not found", name)
	}
	return entry, nil
}

// GetDefault 获取默认数据源
func (m *DataSourceManager) GetDefault() (domain.DataSource, error) {
	m.mu.RLock()
	name := m.defaultDS
	m.mu.RUnlock()
	if name == "" {
		return nil, fmt.Errorf("no default data source set")
	}
	return m.Get(name)
}

// SetDefault 设置默认数据源
func (m *DataSourceManager) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sources[name]; !ok {
		return fmt.Errorf("data source %s not found", name)
	}
	m.defaultDS = name
	return nil
}

// GetDefaultName 获取默认数据源名称
func (m *DataSourceManager) GetDefaultName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultDS
}

// List 列出所有数据源名称（已排序）
func (m *DataSourceManager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedNamesLocked()
}

func (m *DataSourceManager) sortedNamesLocked() []string {
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateAndRegister 通过注册表创建数据源，需要连接的先连接再注册
func (m *DataSourceManager) CreateAndRegister(ctx context.Context, name string, config *domain.DataSourceConfig) (domain.DataSource, error) {
	ds, err := m.registry.Create(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}

	conn, connectable := ds.(domain.ConnectableDataSource)
	if connectable {
		if err := conn.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect data source: %w", err)
		}
	}

	if err := m.Register(name, ds); err != nil {
		if connectable {
			conn.Close(ctx)
		}
		return nil, err
	}
	return m.Get(name)
}

// Columns 返回数据源的列描述，数据源不支持时返回 ErrUnsupportedOperation
func (m *DataSourceManager) Columns(ctx context.Context, name string) ([]domain.Column, error) {
	ds, err := m.Raw(name)
	if err != nil {
		return nil, err
	}
	provider, ok := ds.(domain.SchemaProvider)
	if !ok {
		return nil, domain.NewErrUnsupportedOperation(name, "Columns")
	}
	return provider.Columns(ctx)
}

// Invalidate 清除数据源的缓存响应（数据变更后调用）
func (m *DataSourceManager) Invalidate(name string) error {
	entry, err := m.entry(name)
	if err != nil {
		return err
	}
	if entry.cached != nil {
		entry.cached.Invalidate()
	}
	return nil
}

// CloseAll 关闭所有需要连接的数据源，返回最后一个错误
func (m *DataSourceManager) CloseAll(ctx context.Context) error {
	m.mu.RLock()
	type namedDS struct {
		name string
		ds   domain.ConnectableDataSource
	}
	sources := make([]namedDS, 0, len(m.sources))
	for name, entry := range m.sources {
		if conn, ok := entry.raw.(domain.ConnectableDataSource); ok {
			sources = append(sources, namedDS{name, conn})
		}
	}
	m.mu.RUnlock()

	var lastErr error
	for _, s := range sources {
		if !s.ds.IsConnected() {
			continue
		}
		if err := s.ds.Close(ctx); err != nil {
			lastErr = fmt.Errorf("failed to close data source %s: %w", s.name, err)
		}
	}
	return lastErr
}

// GetStatus 返回各数据源的连接状态，不需要连接的数据源始终为 true
func (m *DataSourceManager) GetStatus() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]bool, len(m.sources))
	for name, entry := range m.sources {
		if conn, ok := entry.raw.(domain.ConnectableDataSource); ok {
			status[name] = conn.IsConnected()
		} else {
			status[name] = true
		}
	}
	return status
}
