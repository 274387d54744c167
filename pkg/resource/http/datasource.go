package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

const dsType = "http"

// HTTPDataSource 远程分页数据源：将完整的查询状态 POST 给服务端，
// 服务端返回 {items, itemCount}
type HTTPDataSource struct {
	mu        sync.RWMutex
	config    *domain.DataSourceConfig
	httpCfg   *HTTPConfig
	client    *HTTPClient
	resource  string
	connected bool
}

// NewHTTPDataSource 创建 HTTP 数据源实例
func NewHTTPDataSource(dsCfg *domain.DataSourceConfig, httpCfg *HTTPConfig) (*HTTPDataSource, error) {
	if dsCfg.Table == "" {
		return nil, domain.NewErrInvalidConfig("source.table", "resource name is required")
	}
	client, err := NewHTTPClient(dsCfg, httpCfg)
	if err != nil {
		return nil, err
	}

	return &HTTPDataSource{
		config:   dsCfg,
		httpCfg:  httpCfg,
		client:   client,
		resource: httpCfg.ResolveResource(dsCfg.Table),
	}, nil
}

// Connect 连接数据源（执行健康检查）
func (ds *HTTPDataSource) Connect(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.client.HealthCheck(ctx); err != nil {
		return &domain.ErrConnectionFailed{
			DataSourceType: dsType,
			Reason:         err.Error(),
		}
	}
	ds.connected = true
	return nil
}

// Close 关闭连接
func (ds *HTTPDataSource) Close(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.connected = false
	return nil
}

// IsConnected 检查是否已连接
func (ds *HTTPDataSource) IsConnected() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.connected
}

// GetConfig 获取数据源配置
func (ds *HTTPDataSource) GetConfig() *domain.DataSourceConfig {
	return ds.config
}

// GetMany 获取一页数据
func (ds *HTTPDataSource) GetMany(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
	if !ds.IsConnected() {
		return nil, domain.NewErrNotConnected(dsType)
	}
	if params == nil {
		params = &domain.GetManyParams{}
	}

	var resp domain.GetManyResult
	if err := ds.client.DoPost(ctx, ds.httpCfg.Paths.Query, ds.resource, params, &resp); err != nil {
		return nil, fmt.Errorf("get many %s failed: %w", ds.resource, err)
	}
	if resp.Items == nil {
		resp.Items = []domain.Row{}
	}
	return &resp, nil
}

// Columns 获取远端资源的列定义
func (ds *HTTPDataSource) Columns(ctx context.Context) ([]domain.Column, error) {
	if !ds.IsConnected() {
		return nil, domain.NewErrNotConnected(dsType)
	}

	var resp SchemaResponse
	if err := ds.client.DoGet(ctx, ds.httpCfg.Paths.Schema, ds.resource, &resp); err != nil {
		return nil, fmt.Errorf("get schema %s failed: %w", ds.resource, err)
	}
	return resp.Columns, nil
}
