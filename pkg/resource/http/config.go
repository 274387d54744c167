package http

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// 默认路径模板
const (
	DefaultPathSchema        = "/_schema/{resource}"
	DefaultPathQuery         = "/_query/{resource}"
	DefaultPathHealth        = "/_health"
	DefaultPathUpload        = "/document/upload"
	DefaultPathUploadProcess = "/document/upload/process"

	DefaultTimeoutMs    = 30000
	DefaultRetryCount   = 0
	DefaultRetryDelayMs = 1000
)

// PathsConfig 路径配置，{resource} 会被替换为资源名
type PathsConfig struct {
	Schema        string `json:"schema,omitempty"`
	Query         string `json:"query,omitempty"`
	Health        string `json:"health,omitempty"`
	Upload        string `json:"upload,omitempty"`
	UploadProcess string `json:"upload_process,omitempty"`
}

// HTTPConfig HTTP 数据源完整配置（从 DataSourceConfig.Options 解析）
type HTTPConfig struct {
	// 路径
	BasePath string       `json:"base_path,omitempty"`
	Paths    *PathsConfig `json:"paths,omitempty"`

	// 认证
	AuthType     string `json:"auth_type,omitempty"`      // bearer, basic, api_key, ""
	AuthToken    string `json:"auth_token,omitempty"`     // Bearer token 或签名密钥
	APIKeyHeader string `json:"api_key_header,omitempty"` // API Key header 名
	APIKeyValue  string `json:"api_key_value,omitempty"`  // API Key 值

	// 超时与重试
	TimeoutMs    int `json:"timeout_ms,omitempty"`
	RetryCount   int `json:"retry_count,omitempty"`
	RetryDelayMs int `json:"retry_delay_ms,omitempty"`

	// TLS
	TLSSkipVerify bool   `json:"tls_skip_verify,omitempty"`
	TLSCACert     string `json:"tls_ca_cert,omitempty"`

	// 自定义头（支持模板）
	Headers map[string]string `json:"headers,omitempty"`

	// 资源名映射：本地名 → 远端名
	ResourceAlias map[string]string `json:"resource_alias,omitempty"`
}

// ParseHTTPConfig 从 DataSourceConfig 解析 HTTPConfig
func ParseHTTPConfig(dsCfg *domain.DataSourceConfig) (*HTTPConfig, error) {
	if dsCfg == nil {
		return nil, domain.NewErrInvalidConfig("source", "config cannot be nil")
	}
	if dsCfg.Host == "" {
		return nil, domain.NewErrInvalidConfig("source.host", "base URL is required")
	}

	cfg := &HTTPConfig{}
	if dsCfg.Options != nil {
		data, err := json.Marshal(dsCfg.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal options: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse HTTP options: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults 设置默认值
func (c *HTTPConfig) applyDefaults() {
	if c.Paths == nil {
		c.Paths = &PathsConfig{}
	}
	if c.Paths.Schema == "" {
		c.Paths.Schema = DefaultPathSchema
	}
	if c.Paths.Query == "" {
		c.Paths.Query = DefaultPathQuery
	}
	if c.Paths.Health == "" {
		c.Paths.Health = DefaultPathHealth
	}
	if c.Paths.Upload == "" {
		c.Paths.Upload = DefaultPathUpload
	}
	if c.Paths.UploadProcess == "" {
		c.Paths.UploadProcess = DefaultPathUploadProcess
	}
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
	if c.RetryCount < 0 {
		c.RetryCount = DefaultRetryCount
	}
	if c.RetryDelayMs <= 0 {
		c.RetryDelayMs = DefaultRetryDelayMs
	}
	if c.APIKeyHeader == "" {
		c.APIKeyHeader = "X-API-Key"
	}
}

// GetTimeout 获取超时时间
func (c *HTTPConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// GetRetryDelay 获取重试延迟
func (c *HTTPConfig) GetRetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// ResolveResource 将本地资源名解析为远端资源名
func (c *HTTPConfig) ResolveResource(name string) string {
	if remote, ok := c.ResourceAlias[name]; ok {
		return remote
	}
	return name
}
