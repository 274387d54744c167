package excel

import (
	"context"
	"sync"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	infraerrors "github.com/kasuganosora/datagrid/pkg/resource/infrastructure/errors"
	"github.com/kasuganosora/datagrid/pkg/resource/slice"
	"github.com/xuri/excelize/v2"
)

const dsType = "excel"

// ExcelAdapter Excel 文件数据源适配器（只读）
// 连接时把工作表读入内存，查询交给 slice 数据源完成
type ExcelAdapter struct {
	mu        sync.RWMutex
	config    *domain.DataSourceConfig
	filePath  string
	sheetName string
	source    *slice.SliceSource
}

// NewExcelAdapter 创建 Excel 数据源适配器
func NewExcelAdapter(config *domain.DataSourceConfig, filePath string) *ExcelAdapter {
	sheetName := ""

	// 从配置中读取选项
	if config.Options != nil {
		if s, ok := config.Options["sheet_name"]; ok {
			if str, ok := s.(string); ok {
				sheetName = str
			}
		}
	}

	return &ExcelAdapter{
		config:    config,
		filePath:  filePath,
		sheetName: sheetName,
	}
}

// Connect 连接数据源 - 加载 Excel 工作表到内存
func (a *ExcelAdapter) Connect(ctx context.Context) error {
	file, err := excelize.OpenFile(a.filePath)
	if err != nil {
		return infraerrors.WrapOpenError(err, a.filePath, dsType)
	}
	defer file.Close()

	columns, rows, err := readSheet(file, a.sheetName)
	if err != nil {
		return err
	}

	source, err := slice.FromRows(rows, columns)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.source = source
	a.mu.Unlock()
	return nil
}

// Close 关闭连接
func (a *ExcelAdapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source = nil
	return nil
}

// IsConnected 检查是否已连接
func (a *ExcelAdapter) IsConnected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.source != nil
}

// GetConfig 获取数据源配置
func (a *ExcelAdapter) GetConfig() *domain.DataSourceConfig {
	return a.config
}

func (a *ExcelAdapter) loaded() (*slice.SliceSource, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.source == nil {
		return nil, domain.NewErrNotConnected(dsType)
	}
	return a.source, nil
}

// GetMany 在内存中过滤、排序和分页
func (a *ExcelAdapter) GetMany(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
	source, err := a.loaded()
	if err != nil {
		return nil, err
	}
	return source.GetMany(ctx, params)
}

// Columns 返回推断出的列定义
func (a *ExcelAdapter) Columns(ctx context.Context) ([]domain.Column, error) {
	source, err := a.loaded()
	if err != nil {
		return nil, err
	}
	return source.Columns(ctx)
}

// Rows 返回全部行
func (a *ExcelAdapter) Rows() ([]domain.Row, error) {
	source, err := a.loaded()
	if err != nil {
		return nil, err
	}
	return source.Rows(), nil
}
