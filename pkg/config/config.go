package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
)

// EnvConfigPath 指定配置文件路径的环境变量
const EnvConfigPath = "DATAGRID_CONFIG"

// Config 应用程序配置
type Config struct {
	Grid   GridConfig              `json:"grid"`
	Log    LogConfig               `json:"log"`
	Cache  CacheConfig             `json:"cache"`
	Source domain.DataSourceConfig `json:"source"`
	Upload domain.DataSourceConfig `json:"upload"`
}

// GridConfig 表格配置
type GridConfig struct {
	PaginationOptions []int  `json:"pagination_options"`
	DefaultPageSize   int    `json:"default_page_size"` // 0 表示使用 PaginationOptions 的第一项
	Collation         string `json:"collation"`         // 字符串排序规则，例如 pt-BR、en_ci；空为二进制比较
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or text
}

// CacheConfig 远程查询结果缓存配置
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	MaxSize int           `json:"max_size"`
	TTL     time.Duration `json:"ttl"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			PaginationOptions: []int{5, 10, 25},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Enabled: true,
			MaxSize: 100,
			TTL:     5 * time.Minute,
		},
		Source: domain.DataSourceConfig{
			Type: domain.DataSourceTypeSlice,
			Name: "reports",
		},
		Upload: domain.DataSourceConfig{
			Type: domain.DataSourceTypeHTTP,
			Name: "documents",
		},
	}
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果没有指定配置文件，使用默认配置
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// 检查配置文件是否存在
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	// 读取配置文件
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 验证配置
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault 尝试从常见位置加载配置文件
func LoadConfigOrDefault() *Config {
	// 尝试的配置文件路径
	possiblePaths := []string{
		"datagrid.json",
		"./config/datagrid.json",
		"/etc/datagrid/config.json",
	}

	// 尝试从环境变量获取配置文件路径
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if config, err := LoadConfig(envPath); err == nil {
			return config
		}
	}

	// 尝试从常见位置加载
	for _, path := range possiblePaths {
		if absPath, err := filepath.Abs(path); err == nil {
			if config, err := LoadConfig(absPath); err == nil {
				return config
			}
		}
	}

	// 使用默认配置
	return DefaultConfig()
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	if len(config.Grid.PaginationOptions) == 0 {
		return domain.NewErrInvalidConfig("grid.pagination_options", "must not be empty")
	}
	for _, size := range config.Grid.PaginationOptions {
		if size < 1 {
			return domain.NewErrInvalidConfig("grid.pagination_options", fmt.Sprintf("每页行数必须大于0: %d", size))
		}
	}
	if config.Grid.DefaultPageSize != 0 && !slices.Contains(config.Grid.PaginationOptions, config.Grid.DefaultPageSize) {
		return domain.NewErrInvalidConfig("grid.default_page_size", fmt.Sprintf("%d 不在 pagination_options 中", config.Grid.DefaultPageSize))
	}
	if _, err := util.ParseCollation(config.Grid.Collation); err != nil {
		return domain.NewErrInvalidConfig("grid.collation", err.Error())
	}

	if _, ok := api.ParseLogLevel(config.Log.Level); !ok {
		return domain.NewErrInvalidConfig("log.level", fmt.Sprintf("无效的日志级别: %s", config.Log.Level))
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return domain.NewErrInvalidConfig("log.format", fmt.Sprintf("无效的日志格式: %s", config.Log.Format))
	}

	if config.Cache.Enabled && config.Cache.MaxSize < 1 {
		return domain.NewErrInvalidConfig("cache.max_size", "缓存最大条目数必须大于0")
	}
	if config.Cache.TTL < 0 {
		return domain.NewErrInvalidConfig("cache.ttl", "缓存过期时间不能为负数")
	}

	if config.Source.Type == "" {
		return domain.NewErrInvalidConfig("source.type", "数据源类型不能为空")
	}

	return nil
}

// PageSize 返回初始每页行数
func (c *Config) PageSize() int {
	if c.Grid.DefaultPageSize > 0 {
		return c.Grid.DefaultPageSize
	}
	return c.Grid.PaginationOptions[0]
}
