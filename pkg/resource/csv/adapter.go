package csv

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	infraerrors "github.com/kasuganosora/datagrid/pkg/resource/infrastructure/errors"
	"github.com/kasuganosora/datagrid/pkg/resource/slice"
)

const dsType = "csv"

// CSVAdapter CSV 文件数据源适配器
// 连接时把文件读入内存，查询交给 slice 数据源完成
type CSVAdapter struct {
	mu        sync.RWMutex
	config    *domain.DataSourceConfig
	filePath  string
	delimiter rune
	hasHeader bool
	source    *slice.SliceSource
}

// NewCSVAdapter 创建 CSV 数据源适配器
func NewCSVAdapter(config *domain.DataSourceConfig, filePath string) *CSVAdapter {
	delimiter := ','
	hasHeader := true

	// 从配置中读取选项
	if config.Options != nil {
		if d, ok := config.Options["delimiter"]; ok {
			if str, ok := d.(string); ok && len(str) > 0 {
				delimiter = rune(str[0])
			}
		}
		if h, ok := config.Options["header"]; ok {
			if b, ok := h.(bool); ok {
				hasHeader = b
			}
		}
	}

	return &CSVAdapter{
		config:    config,
		filePath:  filePath,
		delimiter: delimiter,
		hasHeader: hasHeader,
	}
}

// Connect 连接数据源 - 加载 CSV 文件到内存
func (a *CSVAdapter) Connect(ctx context.Context) error {
	file, err := os.Open(a.filePath)
	if err != nil {
		return infraerrors.WrapOpenError(err, a.filePath, dsType)
	}
	defer file.Close()

	columns, rows, err := Read(file, a.delimiter, a.hasHeader)
	if err != nil {
		return err
	}

	source, err := slice.FromRows(rows, columns)
	if err != nil {
		return fmt.Errorf("failed to load CSV data: %w", err)
	}

	a.mu.Lock()
	a.source = source
	a.mu.Unlock()
	return nil
}

// Close 关闭连接，释放内存中的数据
func (a *CSVAdapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source = nil
	return nil
}

// IsConnected 检查是否已连接
func (a *CSVAdapter) IsConnected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.source != nil
}

// GetConfig 获取数据源配置
func (a *CSVAdapter) GetConfig() *domain.DataSourceConfig {
	return a.config
}

func (a *CSVAdapter) loaded() (*slice.SliceSource, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.source == nil {
		return nil, domain.NewErrNotConnected(dsType)
	}
	return a.source, nil
}

// GetMany 在内存中过滤、排序和分页
func (a *CSVAdapter) GetMany(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
	source, err := a.loaded()
	if err != nil {
		return nil, err
	}
	return source.GetMany(ctx, params)
}

// Columns 返回推断出的列定义
func (a *CSVAdapter) Columns(ctx context.Context) ([]domain.Column, error) {
	source, err := a.loaded()
	if err != nil {
		return nil, err
	}
	return source.Columns(ctx)
}

// Rows 返回全部行
func (a *CSVAdapter) Rows() ([]domain.Row, error) {
	source, err := a.loaded()
	if err != nil {
		return nil, err
	}
	return source.Rows(), nil
}
