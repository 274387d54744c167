package slice

import (
	"reflect"
	"testing"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
)

// ============ resolveFieldMappings 测试 ============

func TestResolveFieldMappings_DbTag(t *testing.T) {
	type User struct {
		ID   int    `db:"user_id"`
		Name string `db:"user_name"`
		Age  int    `db:"age"`
	}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 3)
	assert.Equal(t, "user_id", mappings[0].ColumnName)
	assert.Equal(t, "user_name", mappings[1].ColumnName)
	assert.Equal(t, "age", mappings[2].ColumnName)
	assert.Equal(t, 0, mappings[0].FieldIndex)
	assert.Equal(t, 1, mappings[1].FieldIndex)
	assert.Equal(t, 2, mappings[2].FieldIndex)
}

func TestResolveFieldMappings_JsonFallback(t *testing.T) {
	type User struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 2)
	assert.Equal(t, "id", mappings[0].ColumnName)
	assert.Equal(t, "name", mappings[1].ColumnName)
}

func TestResolveFieldMappings_DbPriority(t *testing.T) {
	// db tag 优先于 json tag
	type User struct {
		ID int `db:"user_id" json:"id"`
	}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 1)
	assert.Equal(t, "user_id", mappings[0].ColumnName)
}

func TestResolveFieldMappings_NoTag(t *testing.T) {
	type User struct {
		ID   int
		Name string
	}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 2)
	assert.Equal(t, "ID", mappings[0].ColumnName)
	assert.Equal(t, "Name", mappings[1].ColumnName)
}

func TestResolveFieldMappings_DbSkip(t *testing.T) {
	type User struct {
		ID       int    `db:"id"`
		Name     string `db:"name"`
		Internal string `db:"-"`
	}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 3)
	assert.False(t, mappings[0].Skip)
	assert.False(t, mappings[1].Skip)
	assert.True(t, mappings[2].Skip)
}

func TestResolveFieldMappings_JsonSkip(t *testing.T) {
	type User struct {
		ID       int    `json:"id"`
		Internal string `json:"-"`
	}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 2)
	assert.False(t, mappings[0].Skip)
	assert.True(t, mappings[1].Skip)
}

func TestResolveFieldMappings_TagWithOptions(t *testing.T) {
	type User struct {
		Name string `db:"name,omitempty"`
		Age  int    `json:"age,string"`
	}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 2)
	assert.Equal(t, "name", mappings[0].ColumnName)
	assert.Equal(t, "age", mappings[1].ColumnName)
}

func TestResolveFieldMappings_UnexportedFieldsSkipped(t *testing.T) {
	type User struct {
		ID       int `db:"id"`
		internal string
	}
	_ = User{internal: "hidden"}
	mappings := resolveFieldMappings(reflect.TypeOf(User{}))
	assert.Len(t, mappings, 1)
	assert.Equal(t, "id", mappings[0].ColumnName)
}

func TestResolveFieldMappings_Pointer(t *testing.T) {
	type User struct {
		ID int `db:"id"`
	}
	// 传入指针类型也应能正确解析
	mappings := resolveFieldMappings(reflect.TypeOf(&User{}))
	assert.Len(t, mappings, 1)
	assert.Equal(t, "id", mappings[0].ColumnName)
}

func TestResolveFieldMappings_NonStruct(t *testing.T) {
	mappings := resolveFieldMappings(reflect.TypeOf(42))
	assert.Nil(t, mappings)
}

// ============ parseTagName 测试 ============

func TestParseTagName(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{"name", "name"},
		{"name,omitempty", "name"},
		{"-", "-"},
		{"-,", "-"},
		{"", ""},
		{",omitempty", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseTagName(tt.tag), "tag=%q", tt.tag)
	}
}

// ============ grid tag 测试 ============

func TestResolveFieldMappings_GridTag(t *testing.T) {
	type Report struct {
		CompanyName string    `json:"companyName" grid:"header=Empresa,width=200"`
		Employees   string    `json:"employees" grid:"type=file"`
		CreatedAt   time.Time `json:"createdAt" grid:"width=abc"`
	}
	mappings := resolveFieldMappings(reflect.TypeOf(Report{}))
	assert.Len(t, mappings, 3)
	assert.Equal(t, "Empresa", mappings[0].HeaderName)
	assert.Equal(t, 200, mappings[0].Width)
	assert.Equal(t, domain.ColumnTypeString, mappings[0].Type)
	assert.Equal(t, domain.ColumnTypeFile, mappings[1].Type)
	assert.Equal(t, 0, mappings[2].Width)
	assert.Equal(t, domain.ColumnTypeDate, mappings[2].Type)
}

// ============ 类型映射测试 ============

func TestGetFieldType(t *testing.T) {
	var tp *time.Time
	assert.Equal(t, domain.ColumnTypeDate, getFieldType(reflect.TypeOf(time.Time{})))
	assert.Equal(t, domain.ColumnTypeDate, getFieldType(reflect.TypeOf(tp)))
	assert.Equal(t, domain.ColumnTypeNumber, getFieldType(reflect.TypeOf(0)))
	assert.Equal(t, domain.ColumnTypeNumber, getFieldType(reflect.TypeOf(uint(0))))
	assert.Equal(t, domain.ColumnTypeNumber, getFieldType(reflect.TypeOf(float32(0))))
	assert.Equal(t, domain.ColumnTypeBoolean, getFieldType(reflect.TypeOf(false)))
	assert.Equal(t, domain.ColumnTypeString, getFieldType(reflect.TypeOf("")))
	assert.Equal(t, domain.ColumnTypeString, getFieldType(reflect.TypeOf([]int{})))
}

func TestInferColumnType(t *testing.T) {
	now := time.Now()
	assert.Equal(t, domain.ColumnTypeDate, inferColumnType(now))
	assert.Equal(t, domain.ColumnTypeDate, inferColumnType(&now))
	assert.Equal(t, domain.ColumnTypeNumber, inferColumnType(int64(1)))
	assert.Equal(t, domain.ColumnTypeNumber, inferColumnType(1.5))
	assert.Equal(t, domain.ColumnTypeBoolean, inferColumnType(true))
	assert.Equal(t, domain.ColumnTypeString, inferColumnType("x"))
	assert.Equal(t, domain.ColumnTypeString, inferColumnType(nil))
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Nil(t, cfg.columns)
	assert.Nil(t, cfg.collation)
	assert.Zero(t, cfg.latency)

	WithLatency(5 * time.Millisecond)(&cfg)
	assert.Equal(t, 5*time.Millisecond, cfg.latency)
}

func TestIsMapStringAnyType(t *testing.T) {
	assert.True(t, isMapStringAnyType(reflect.TypeOf(map[string]any{})))
	assert.True(t, isMapStringAnyType(reflect.TypeOf(domain.Row{})))
	assert.True(t, isMapStringAnyType(reflect.TypeOf(&map[string]any{})))
	assert.False(t, isMapStringAnyType(reflect.TypeOf(map[int]any{})))
	assert.False(t, isMapStringAnyType(reflect.TypeOf(struct{}{})))
}
