package util

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// CompareNumeric 数值比较，返回 -1 (a<b), 0 (a==b), 1 (a>b) 和成功标志
func CompareNumeric(a, b interface{}) (int, bool) {
	aFloat, okA := ConvertToFloat64(a)
	bFloat, okB := ConvertToFloat64(b)
	if !okA || !okB {
		return 0, false
	}
	return compareFloat(aFloat, bFloat), true
}

func compareFloat(a, b float64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// CompareEqual 严格相等：数值按数值比较（不同整数/浮点类型之间可比），
// 时间按时刻比较，其余要求类型和值都相同。字符串 "1" 与数字 1 不相等。
func CompareEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if isNumber(a) && isNumber(b) {
		cmp, _ := CompareNumeric(a, b)
		return cmp == 0
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
		return false
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() || !ra.Type().Comparable() {
		return false
	}
	return a == b
}

// CompareValues 按值的原生顺序比较（排序用）。
// 任一侧为 nil 时视为相等；类型不一致时退化为字符串比较。
func CompareValues(a, b interface{}) int {
	if a == nil || b == nil {
		return 0
	}

	if isNumber(a) && isNumber(b) {
		cmp, _ := CompareNumeric(a, b)
		return cmp
	}

	switch va := a.(type) {
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			return compareBool(va, vb)
		}
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb)
		}
	}

	return strings.Compare(domain.FormatValue(a), domain.FormatValue(b))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// isNumber 判断是否为 Go 数值类型（不包括数字字符串）
func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// ConvertToFloat64 将值转换为 float64 进行数值比较
func ConvertToFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	case nil:
		return 0, false
	default:
		// 尝试通过反射获取数值
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), true
		case reflect.Float32, reflect.Float64:
			return rv.Float(), true
		}
		return 0, false
	}
}
