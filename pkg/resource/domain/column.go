package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType 列类型，决定渲染方式和合法的过滤操作符
type ColumnType string

const (
	ColumnTypeString  ColumnType = "string"
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeFile    ColumnType = "file"
)

// Column 列描述
type Column struct {
	Field      string     `json:"field"`
	HeaderName string     `json:"headerName,omitempty"`
	Width      int        `json:"width,omitempty"`
	Type       ColumnType `json:"type,omitempty"`
}

// Label 返回表头文字，未设置 HeaderName 时使用字段名
func (c Column) Label() string {
	if c.HeaderName != "" {
		return c.HeaderName
	}
	return c.Field
}

// typeTraits 列类型的行为表
type typeTraits struct {
	operators []FilterOperator
	normalize func(v interface{}) (interface{}, bool)
}

var columnTypeTraits = map[ColumnType]typeTraits{
	ColumnTypeString:  {operators: []FilterOperator{OpContains, OpEquals, OpStartsWith}, normalize: normalizeText},
	ColumnTypeFile:    {operators: []FilterOperator{OpContains, OpEquals, OpStartsWith}, normalize: normalizeText},
	ColumnTypeNumber:  {operators: []FilterOperator{OpEquals, OpGreater, OpLess}, normalize: normalizeNumber},
	ColumnTypeBoolean: {operators: []FilterOperator{OpEquals}, normalize: normalizeBoolean},
	ColumnTypeDate:    {operators: []FilterOperator{OpEquals, OpBefore, OpAfter}, normalize: normalizeDate},
}

func traitsOf(t ColumnType) typeTraits {
	if tr, ok := columnTypeTraits[t]; ok {
		return tr
	}
	// 未声明类型的列按字符串处理
	return columnTypeTraits[ColumnTypeString]
}

// Operators 返回该列类型合法的过滤操作符（第一个是默认操作符）
func (t ColumnType) Operators() []FilterOperator {
	ops := traitsOf(t).operators
	out := make([]FilterOperator, len(ops))
	copy(out, ops)
	return out
}

// DefaultOperator 返回该列类型的默认过滤操作符
func (t ColumnType) DefaultOperator() FilterOperator {
	return traitsOf(t).operators[0]
}

// Allows 判断操作符对该列类型是否合法
func (t ColumnType) Allows(op FilterOperator) bool {
	for _, o := range traitsOf(t).operators {
		if o == op {
			return true
		}
	}
	return false
}

// NormalizeFilterValue 将编辑器输入的值转换为该列类型的语义值。
// 第二个返回值为 false 表示值属于“空”类（空字符串、false、无效日期、类型不符），
// 对应的过滤条件应视为不存在。
func (t ColumnType) NormalizeFilterValue(v interface{}) (interface{}, bool) {
	if IsAbsentValue(v) {
		return nil, false
	}
	return traitsOf(t).normalize(v)
}

// IsAbsentValue 判断过滤值是否属于“空”类
func IsAbsentValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case time.Time:
		return val.IsZero()
	case *time.Time:
		return val == nil || val.IsZero()
	case float64:
		return math.IsNaN(val)
	}
	return false
}

func normalizeText(v interface{}) (interface{}, bool) {
	return v, true
}

func normalizeNumber(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func normalizeBoolean(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case bool:
		return val, val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil || !b {
			return nil, false
		}
		return true, true
	}
	return nil, false
}

func normalizeDate(v interface{}) (interface{}, bool) {
	t, ok := ParseDate(v)
	if !ok {
		return nil, false
	}
	return t, true
}

// 日期字符串支持的格式
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate 将值转换为时间。数字按 Unix 毫秒解释。
func ParseDate(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, !val.IsZero()
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int64:
		return time.UnixMilli(val).UTC(), true
	case int:
		return time.UnixMilli(int64(val)).UTC(), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(val)).UTC(), true
	}
	return time.Time{}, false
}

// FormatValue 返回值的字符串形式（contains/startsWith 比较时使用）
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	case interface{ String() string }:
		return val.String()
	}
	return fmt.Sprintf("%v", v)
}
