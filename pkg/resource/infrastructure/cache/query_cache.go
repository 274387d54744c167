package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// ==================== 响应缓存 ====================

// CacheEntry 缓存条目
type CacheEntry struct {
	result      *domain.GetManyResult
	createdAt   time.Time
	expiresAt   time.Time
	accessCount int64
	lastAccess  time.Time
	key         string
}

// QueryCache 以查询状态为键的有界响应缓存
type QueryCache struct {
	cache   map[string]*CacheEntry
	maxSize int
	ttl     time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

// NewQueryCache 创建查询缓存
func NewQueryCache() *QueryCache {
	return NewQueryCacheWithConfig(100, 5*time.Minute)
}

// NewQueryCacheWithConfig 使用配置创建查询缓存
func NewQueryCacheWithConfig(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &QueryCache{
		cache:   make(map[string]*CacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// KeySeparator 缓存键中数据源名称与查询状态的分隔符，数据源名称不能包含它
const KeySeparator = "|"

// Key 生成缓存键：数据源名称 + 查询状态的 JSON 形式。
// 过滤值无法序列化时返回错误，调用方应跳过缓存。
func Key(source string, params *domain.GetManyParams) (string, error) {
	if params == nil {
		return source + KeySeparator, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return source + KeySeparator + string(data), nil
}

// Get 获取缓存
func (c *QueryCache) Get(key string) (*domain.GetManyResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, false
	}

	// 检查是否过期
	now := c.now()
	if now.After(entry.expiresAt) {
		delete(c.cache, key)
		return nil, false
	}

	// 更新访问信息
	entry.lastAccess = now
	entry.accessCount++

	return entry.result, true
}

// Set 设置缓存
func (c *QueryCache) Set(key string, result *domain.GetManyResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; !exists && len(c.cache) >= c.maxSize {
		c.evict()
	}

	now := c.now()
	c.cache[key] = &CacheEntry{
		result:      result,
		createdAt:   now,
		expiresAt:   now.Add(c.ttl),
		accessCount: 1,
		lastAccess:  now,
		key:         key,
	}
}

// Invalidate 使某个数据源的全部缓存失效
func (c *QueryCache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := source + KeySeparator
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
		}
	}
}

// Clear 清空缓存
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*CacheEntry)
}

// Len 返回当前条目数
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats 获取统计信息
func (c *QueryCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	totalAccess := int64(0)
	hitCount := int64(0)

	for _, entry := range c.cache {
		totalAccess += entry.accessCount
		hitCount += entry.accessCount - 1
	}

	hitRate := float64(0)
	if totalAccess > 0 {
		hitRate = float64(hitCount) / float64(totalAccess)
	}

	return map[string]interface{}{
		"size":         len(c.cache),
		"max_size":     c.maxSize,
		"ttl":          c.ttl,
		"total_access": totalAccess,
		"hit_count":    hitCount,
		"hit_rate":     hitRate,
	}
}

// evict 淘汰访问次数最少的条目，次数相同时淘汰最久未访问的
func (c *QueryCache) evict() {
	var victim *CacheEntry
	for _, entry := range c.cache {
		if victim == nil ||
			entry.accessCount < victim.accessCount ||
			(entry.accessCount == victim.accessCount && entry.lastAccess.Before(victim.lastAccess)) {
			victim = entry
		}
	}

	if victim != nil {
		delete(c.cache, victim.key)
	}
}

// SetMaxSize 设置最大缓存大小
func (c *QueryCache) SetMaxSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if size <= 0 {
		size = 1
	}
	c.maxSize = size
	for len(c.cache) > c.maxSize {
		c.evict()
	}
}

// SetTTL 设置缓存过期时间
func (c *QueryCache) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}
