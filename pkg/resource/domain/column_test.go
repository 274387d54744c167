package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestColumnType_Operators(t *testing.T) {
	tests := []struct {
		typ      ColumnType
		want     []FilterOperator
		fallback FilterOperator
	}{
		{ColumnTypeString, []FilterOperator{OpContains, OpEquals, OpStartsWith}, OpContains},
		{ColumnTypeFile, []FilterOperator{OpContains, OpEquals, OpStartsWith}, OpContains},
		{ColumnType(""), []FilterOperator{OpContains, OpEquals, OpStartsWith}, OpContains},
		{ColumnTypeNumber, []FilterOperator{OpEquals, OpGreater, OpLess}, OpEquals},
		{ColumnTypeBoolean, []FilterOperator{OpEquals}, OpEquals},
		{ColumnTypeDate, []FilterOperator{OpEquals, OpBefore, OpAfter}, OpEquals},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Operators())
			assert.Equal(t, tt.fallback, tt.typ.DefaultOperator())
		})
	}
}

func TestColumnType_OperatorsIsCopy(t *testing.T) {
	ops := ColumnTypeNumber.Operators()
	ops[0] = OpContains
	assert.Equal(t, OpEquals, ColumnTypeNumber.DefaultOperator())
}

func TestColumnType_Allows(t *testing.T) {
	assert.True(t, ColumnTypeNumber.Allows(OpGreater))
	assert.False(t, ColumnTypeNumber.Allows(OpContains))
	assert.False(t, ColumnTypeBoolean.Allows(OpLess))
	assert.True(t, ColumnTypeDate.Allows(OpBefore))
	assert.True(t, ColumnType("").Allows(OpStartsWith))
}

func TestColumn_Label(t *testing.T) {
	assert.Equal(t, "Empresa", Column{Field: "companyName", HeaderName: "Empresa"}.Label())
	assert.Equal(t, "companyName", Column{Field: "companyName"}.Label())
}

func TestIsAbsentValue(t *testing.T) {
	assert.True(t, IsAbsentValue(nil))
	assert.True(t, IsAbsentValue(""))
	assert.True(t, IsAbsentValue(false))
	assert.True(t, IsAbsentValue(time.Time{}))
	assert.False(t, IsAbsentValue(0))
	assert.False(t, IsAbsentValue("a"))
	assert.False(t, IsAbsentValue(true))
	assert.False(t, IsAbsentValue(time.Now()))
}

func TestNormalizeFilterValue(t *testing.T) {
	date := time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		typ     ColumnType
		in      interface{}
		want    interface{}
		present bool
	}{
		{"string kept", ColumnTypeString, "abc", "abc", true},
		{"string empty", ColumnTypeString, "", nil, false},
		{"number parsed", ColumnTypeNumber, " 28 ", float64(28), true},
		{"number kept", ColumnTypeNumber, 28, 28, true},
		{"number garbage", ColumnTypeNumber, "abc", nil, false},
		{"number from bool", ColumnTypeNumber, true, nil, false},
		{"boolean true", ColumnTypeBoolean, true, true, true},
		{"boolean false", ColumnTypeBoolean, false, nil, false},
		{"boolean string", ColumnTypeBoolean, "true", true, true},
		{"boolean string false", ColumnTypeBoolean, "false", nil, false},
		{"date string", ColumnTypeDate, "2025-07-17", date, true},
		{"date invalid", ColumnTypeDate, "not a date", nil, false},
		{"date zero", ColumnTypeDate, time.Time{}, nil, false},
		{"date value", ColumnTypeDate, date, date, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.typ.NormalizeFilterValue(tt.in)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2025-07-17T10:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, 10, got.Hour())

	got, ok = ParseDate(int64(0))
	assert.True(t, ok)
	assert.Equal(t, 1970, got.Year())

	_, ok = ParseDate(true)
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "30", FormatValue(30))
	assert.Equal(t, "30", FormatValue(float64(30)))
	assert.Equal(t, "2.5", FormatValue(2.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "2025-07-17T10:30:00Z", FormatValue(time.Date(2025, 7, 17, 10, 30, 0, 0, time.UTC)))
}
