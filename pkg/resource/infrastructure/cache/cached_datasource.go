package cache

import (
	"context"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// CachedDataSource 在数据源前加一层响应缓存。
// 只缓存成功的响应；数据变更后调用 Invalidate。
type CachedDataSource struct {
	name   string
	source domain.DataSource
	cache  *QueryCache
}

// NewCachedDataSource 创建带缓存的数据源，name 用于区分共享同一缓存的多个数据源
func NewCachedDataSource(name string, source domain.DataSource, cache *QueryCache) *CachedDataSource {
	if cache == nil {
		cache = NewQueryCache()
	}
	return &CachedDataSource{name: name, source: source, cache: cache}
}

// GetMany 优先返回缓存结果
func (c *CachedDataSource) GetMany(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
	key, err := Key(c.name, params)
	if err != nil {
		return c.source.GetMany(ctx, params)
	}
	if result, ok := c.cache.Get(key); ok {
		return result, nil
	}

	result, err := c.source.GetMany(ctx, params)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, result)
	return result, nil
}

// Invalidate 清除该数据源的缓存
func (c *CachedDataSource) Invalidate() {
	c.cache.Invalidate(c.name)
}

// Cache 返回底层缓存
func (c *CachedDataSource) Cache() *QueryCache {
	return c.cache
}

// Unwrap 返回被包装的数据源
func (c *CachedDataSource) Unwrap() domain.DataSource {
	return c.source
}
