package slice

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
)

// SliceSource 将 []map[string]any、[]domain.Row 或 []struct 包装为分页数据源。
// 过滤、排序和分页在内存中完成，语义与表格的本地模式一致。
type SliceSource struct {
	mu            sync.RWMutex
	originalData  interface{}    // 原始数据，传指针时可通过 Reload 重新读取
	name          string         // 数据源名称
	isMapSlice    bool           // 是否为 map slice
	fieldMappings []fieldMapping // struct 字段到列的映射（含 tag 解析结果）
	fixedColumns  bool           // 列定义是否由调用方给出
	columns       []domain.Column
	rows          []domain.Row
	collation     *util.Collation
	latency       time.Duration
}

// New 创建 SliceSource
// data: 原始数据，可以是 []map[string]any、[]domain.Row 或 []struct（或它们的指针）
// name: 数据源名称，不能为空
// opts: 可选配置（WithColumns, WithCollation, WithLatency）
func New(data interface{}, name string, opts ...Option) (*SliceSource, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("data pointer is nil")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Slice {
		return nil, fmt.Errorf("data must be a slice, got %T", data)
	}

	s := &SliceSource{
		originalData: data,
		name:         name,
		collation:    cfg.collation,
		latency:      cfg.latency,
	}

	elemType := val.Type().Elem()
	s.isMapSlice = isMapStringAnyType(elemType)
	if !s.isMapSlice {
		if elemType.Kind() == reflect.Ptr {
			elemType = elemType.Elem()
		}
		if elemType.Kind() != reflect.Struct {
			return nil, fmt.Errorf("unsupported element type %s", elemType)
		}
		s.fieldMappings = resolveFieldMappings(elemType)
	}

	if cfg.columns != nil {
		s.columns = cfg.columns
		s.fixedColumns = true
	}

	if err := s.loadData(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return s, nil
}

// FromRows 直接以行和列定义创建 SliceSource
func FromRows(rows []domain.Row, columns []domain.Column, opts ...Option) (*SliceSource, error) {
	opts = append([]Option{WithColumns(columns)}, opts...)
	return New(rows, "rows", opts...)
}

// loadData 从原始数据读取行
func (s *SliceSource) loadData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	val := reflect.ValueOf(s.originalData)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	var columns []domain.Column
	var rows []domain.Row
	if s.isMapSlice {
		columns, rows = s.convertMapSlice(val)
	} else {
		columns, rows = s.convertStructSlice(val)
	}

	if !s.fixedColumns {
		s.columns = columns
	}
	s.rows = rows
	return nil
}

// convertMapSlice 将 []map[string]any 转换为列和行
// 单次遍历收集列和行数据，id 列在前，其余按字母排序保证确定性
func (s *SliceSource) convertMapSlice(sliceValue reflect.Value) ([]domain.Column, []domain.Row) {
	columnSet := make(map[string]int)
	columns := make([]domain.Column, 0)
	rows := make([]domain.Row, 0, sliceValue.Len())

	for i := 0; i < sliceValue.Len(); i++ {
		elem := sliceValue.Index(i)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Map {
			continue
		}
		row := make(domain.Row, elem.Len())
		for _, key := range elem.MapKeys() {
			keyStr := key.String()
			val := elem.MapIndex(key).Interface()
			row[keyStr] = val

			idx, exists := columnSet[keyStr]
			if !exists {
				columnSet[keyStr] = len(columns)
				columns = append(columns, domain.Column{Field: keyStr})
				idx = len(columns) - 1
			}
			// 取第一个非 nil 值推断类型
			if columns[idx].Type == "" && val != nil {
				columns[idx].Type = inferColumnType(val)
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(columns, func(i, j int) bool {
		if columns[i].Field == domain.RowIDField || columns[j].Field == domain.RowIDField {
			return columns[i].Field == domain.RowIDField
		}
		return columns[i].Field < columns[j].Field
	})
	for i := range columns {
		if columns[i].Type == "" {
			columns[i].Type = domain.ColumnTypeString
		}
	}

	return columns, rows
}

// convertStructSlice 将 []struct 转换为列和行
// 使用 fieldMappings 支持 struct tag 解析和字段索引访问
func (s *SliceSource) convertStructSlice(sliceValue reflect.Value) ([]domain.Column, []domain.Row) {
	columns := make([]domain.Column, 0, len(s.fieldMappings))
	active := make([]fieldMapping, 0, len(s.fieldMappings))
	for _, fm := range s.fieldMappings {
		if fm.Skip {
			continue
		}
		columns = append(columns, domain.Column{
			Field:      fm.ColumnName,
			HeaderName: fm.HeaderName,
			Width:      fm.Width,
			Type:       fm.Type,
		})
		active = append(active, fm)
	}

	rows := make([]domain.Row, 0, sliceValue.Len())
	for i := 0; i < sliceValue.Len(); i++ {
		elem := sliceValue.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		row := make(domain.Row, len(active))
		for _, fm := range active {
			row[fm.ColumnName] = fieldValue(elem.Field(fm.FieldIndex))
		}
		rows = append(rows, row)
	}

	return columns, rows
}

// fieldValue 读取字段值，空指针返回 nil，非空指针解引用
func fieldValue(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	// 具名基础类型（如 type Severity string）转换为内置类型，保证 equals 比较一致
	if v.Type().PkgPath() != "" {
		switch v.Kind() {
		case reflect.String:
			return v.String()
		case reflect.Bool:
			return v.Bool()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return v.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return v.Uint()
		case reflect.Float32, reflect.Float64:
			return v.Float()
		}
	}
	return v.Interface()
}

// GetMany 在内存中执行过滤、排序和分页
func (s *SliceSource) GetMany(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return util.ApplyQueryOperations(s.rows, s.columns, params, s.collation), nil
}

// Columns 返回列定义
func (s *SliceSource) Columns(ctx context.Context) ([]domain.Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Column, len(s.columns))
	copy(out, s.columns)
	return out, nil
}

// Rows 返回全部行（浅拷贝切片，行本身共享）
func (s *SliceSource) Rows() []domain.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Name 返回数据源名称
func (s *SliceSource) Name() string {
	return s.name
}

// Reload 从原始数据重新加载
// 适用于外部修改了原始 Go 变量后刷新内部状态
func (s *SliceSource) Reload(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.loadData()
}
