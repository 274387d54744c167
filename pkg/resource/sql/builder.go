package sql

import (
	"strconv"
	"strings"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
)

// likeEscape is the LIKE escape character; it must be a plain literal in every dialect.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// comparisonOps maps filter operators that translate to a plain comparison.
var comparisonOps = map[domain.FilterOperator]string{
	domain.OpEquals:  "=",
	domain.OpGreater: ">",
	domain.OpLess:    "<",
	domain.OpBefore:  "<",
	domain.OpAfter:   ">",
}

// BuildWhereClause converts the filter model into a WHERE clause (without the keyword).
// Filters on unknown fields, with operators illegal for the column type or with
// absent values are skipped, matching the in-memory evaluation.
// paramOffset is the number of placeholders already used (for PG $N placeholders).
func BuildWhereClause(d Dialect, columns []domain.Column, filters []domain.FilterModel, paramOffset int) (string, []interface{}) {
	byField := util.ColumnIndex(columns)

	var parts []string
	var params []interface{}

	for _, f := range filters {
		col, ok := byField[f.Field]
		if !ok || !col.Type.Allows(f.Operator) {
			continue
		}
		value, ok := col.Type.NormalizeFilterValue(f.Value)
		if !ok {
			continue
		}

		quotedField := d.QuoteIdentifier(f.Field)
		ph := d.Placeholder(paramOffset + len(params) + 1)

		switch f.Operator {
		case domain.OpContains:
			parts = append(parts, quotedField+" LIKE "+ph+" ESCAPE '"+likeEscape+"'")
			params = append(params, "%"+likeEscaper.Replace(domain.FormatValue(value))+"%")
		case domain.OpStartsWith:
			parts = append(parts, quotedField+" LIKE "+ph+" ESCAPE '"+likeEscape+"'")
			params = append(params, likeEscaper.Replace(domain.FormatValue(value))+"%")
		default:
			op, ok := comparisonOps[f.Operator]
			if !ok {
				continue
			}
			parts = append(parts, quotedField+" "+op+" "+ph)
			params = append(params, d.BindValue(value))
		}
	}

	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, " AND "), params
}

// BuildOrderClause builds the ORDER BY clause (without the keyword).
// Only the first sort entry is honored; the id column is appended as a tiebreaker
// so that pages are stable.
func BuildOrderClause(d Dialect, columns []domain.Column, sortModel []domain.SortModel) string {
	byField := util.ColumnIndex(columns)
	var keys []string

	if len(sortModel) > 0 {
		s := sortModel[0]
		if _, ok := byField[s.Field]; ok {
			dir := " ASC"
			if s.Sort == domain.SortDesc {
				dir = " DESC"
			}
			keys = append(keys, d.QuoteIdentifier(s.Field)+dir)
		}
	}

	if _, ok := byField[domain.RowIDField]; ok && (len(keys) == 0 || sortModel[0].Field != domain.RowIDField) {
		keys = append(keys, d.QuoteIdentifier(domain.RowIDField)+" ASC")
	}

	return strings.Join(keys, ", ")
}

// BuildCountSQL builds the COUNT(*) query for the filtered set.
func BuildCountSQL(d Dialect, tableName string, columns []domain.Column, params *domain.GetManyParams) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(d.QuoteIdentifier(tableName))

	var args []interface{}
	if params != nil {
		where, whereParams := BuildWhereClause(d, columns, params.FilterModel, 0)
		if where != "" {
			sb.WriteString(" WHERE ")
			sb.WriteString(where)
			args = whereParams
		}
	}
	return sb.String(), args
}

// BuildSelectSQL builds the page query for the given query state.
func BuildSelectSQL(d Dialect, tableName string, columns []domain.Column, params *domain.GetManyParams) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT ")
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = d.QuoteIdentifier(col.Field)
		}
		sb.WriteString(strings.Join(quoted, ", "))
	} else {
		sb.WriteString("*")
	}

	sb.WriteString(" FROM ")
	sb.WriteString(d.QuoteIdentifier(tableName))

	if params == nil {
		return sb.String(), nil
	}

	// WHERE
	if where, whereParams := BuildWhereClause(d, columns, params.FilterModel, 0); where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		args = append(args, whereParams...)
	}

	// ORDER BY
	if order := BuildOrderClause(d, columns, params.SortModel); order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}

	// LIMIT / OFFSET
	if p := params.PaginationModel; p.PageSize > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(p.PageSize))
		if offset := p.Offset(); offset > 0 {
			sb.WriteString(" OFFSET ")
			sb.WriteString(strconv.Itoa(offset))
		}
	}

	return sb.String(), args
}

// BuildCreateTableSQL builds a CREATE TABLE IF NOT EXISTS statement for imported columns.
func BuildCreateTableSQL(d Dialect, tableName string, columns []domain.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		def := d.QuoteIdentifier(col.Field) + " " + d.StorageType(col.Type)
		if col.Field == domain.RowIDField {
			def += " PRIMARY KEY"
		}
		defs[i] = def
	}
	return "CREATE TABLE IF NOT EXISTS " + d.QuoteIdentifier(tableName) + " (" + strings.Join(defs, ", ") + ")"
}

// BuildInsertSQL builds a single-row INSERT statement for the given columns.
func BuildInsertSQL(d Dialect, tableName string, columns []domain.Column) string {
	quotedCols := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quotedCols[i] = d.QuoteIdentifier(col.Field)
		placeholders[i] = d.Placeholder(i + 1)
	}

	return "INSERT INTO " + d.QuoteIdentifier(tableName) +
		" (" + strings.Join(quotedCols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
}
