package slice

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
)

// Option 配置 SliceSource 的选项函数
type Option func(*sliceConfig)

type sliceConfig struct {
	columns   []domain.Column
	collation *util.Collation
	latency   time.Duration
}

func defaultConfig() sliceConfig {
	return sliceConfig{}
}

// WithColumns 使用显式的列定义，不再从数据推断
func WithColumns(columns []domain.Column) Option {
	return func(c *sliceConfig) { c.columns = columns }
}

// WithCollation 设置字符串排序规则
func WithCollation(coll *util.Collation) Option {
	return func(c *sliceConfig) { c.collation = coll }
}

// WithLatency 每次 GetMany 前等待指定时长（模拟远程数据源）
func WithLatency(d time.Duration) Option {
	return func(c *sliceConfig) { c.latency = d }
}

// ============ Struct Tag 解析 ============

// fieldMapping 描述一个 struct 字段到列的映射关系
type fieldMapping struct {
	ColumnName string // 列名（从 tag 或字段名解析）
	FieldIndex int    // 字段在 struct 中的索引（用于 reflect.Value.Field()）
	Skip       bool   // 是否跳过此字段（tag 为 "-"）

	// 来自 grid tag 的展示属性
	HeaderName string
	Width      int
	Type       domain.ColumnType
}

// resolveFieldMappings 解析 struct 类型的字段映射
// 优先级：db tag > json tag > 字段名
// 支持 db:"-" 或 json:"-" 跳过字段
// grid tag 描述列展示属性，例如 `grid:"header=Empresa,width=200,type=file"`
// 仅处理可导出字段
func resolveFieldMappings(t reflect.Type) []fieldMapping {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	mappings := make([]fieldMapping, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		// 跳过非导出字段
		if field.PkgPath != "" {
			continue
		}

		fm := fieldMapping{
			FieldIndex: i,
			ColumnName: field.Name, // 默认使用字段名
		}

		// 优先检查 db tag
		if dbTag, ok := field.Tag.Lookup("db"); ok {
			name := parseTagName(dbTag)
			if name == "-" {
				fm.Skip = true
				mappings = append(mappings, fm)
				continue
			}
			if name != "" {
				fm.ColumnName = name
			}
		} else if jsonTag, ok := field.Tag.Lookup("json"); ok {
			// 其次检查 json tag
			name := parseTagName(jsonTag)
			if name == "-" {
				fm.Skip = true
				mappings = append(mappings, fm)
				continue
			}
			if name != "" {
				fm.ColumnName = name
			}
		}

		if gridTag, ok := field.Tag.Lookup("grid"); ok {
			applyGridTag(&fm, gridTag)
		}
		if fm.Type == "" {
			fm.Type = getFieldType(field.Type)
		}

		mappings = append(mappings, fm)
	}
	return mappings
}

// applyGridTag 解析 grid tag 的 key=value 列表
func applyGridTag(fm *fieldMapping, tag string) {
	for _, part := range strings.Split(tag, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "header":
			fm.HeaderName = value
		case "width":
			if w, err := strconv.Atoi(value); err == nil {
				fm.Width = w
			}
		case "type":
			fm.Type = domain.ColumnType(value)
		}
	}
}

// parseTagName 从 tag 值中提取名称部分（逗号前的部分）
// 例如 "name,omitempty" → "name"，"-" → "-"，"" → ""
func parseTagName(tag string) string {
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx]
	}
	return tag
}

// ============ 类型映射 ============

var timeType = reflect.TypeOf(time.Time{})

// getFieldType 获取 struct 字段的列类型
func getFieldType(t reflect.Type) domain.ColumnType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == timeType {
		return domain.ColumnTypeDate
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return domain.ColumnTypeNumber
	case reflect.Bool:
		return domain.ColumnTypeBoolean
	default:
		return domain.ColumnTypeString
	}
}

// inferColumnType 从值推断列类型
func inferColumnType(value interface{}) domain.ColumnType {
	switch value.(type) {
	case time.Time, *time.Time:
		return domain.ColumnTypeDate
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return domain.ColumnTypeNumber
	case bool:
		return domain.ColumnTypeBoolean
	default:
		return domain.ColumnTypeString
	}
}

// isMapStringAnyType 检查类型是否为 map[string]any
func isMapStringAnyType(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}
