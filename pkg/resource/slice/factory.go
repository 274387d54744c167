package slice

import (
	"fmt"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
)

// Factory 数据源工厂
type Factory struct{}

// NewFactory 创建新的工厂
func NewFactory() *Factory {
	return &Factory{}
}

// Create 创建数据源
// Options: data（必需）、collation（可选）、latency_ms（可选）
func (f *Factory) Create(config *domain.DataSourceConfig) (domain.DataSource, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	data, ok := config.Options["data"]
	if !ok {
		return nil, fmt.Errorf("missing 'data' option in config")
	}

	name := config.Name
	if name == "" {
		name = "slice"
	}

	var opts []Option
	if name, ok := config.Options["collation"].(string); ok {
		coll, err := util.ParseCollation(name)
		if err != nil {
			return nil, domain.NewErrInvalidConfig("collation", err.Error())
		}
		opts = append(opts, WithCollation(coll))
	}
	switch ms := config.Options["latency_ms"].(type) {
	case int:
		opts = append(opts, WithLatency(time.Duration(ms)*time.Millisecond))
	case float64:
		opts = append(opts, WithLatency(time.Duration(ms)*time.Millisecond))
	}

	return New(data, name, opts...)
}

// GetType 获取数据源类型
func (f *Factory) GetType() domain.DataSourceType {
	return domain.DataSourceTypeSlice
}
