package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/datagrid/pkg/resource/sql"
)

// MemoryDatabase opens a private in-memory database
const MemoryDatabase = ":memory:"

// SQLiteDialect implements sql.Dialect for SQLite (modernc.org/sqlite, no cgo).
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

// BuildDSN uses DataSourceConfig.Database as the database file path.
func (d *SQLiteDialect) BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (string, error) {
	if dsCfg.Database == "" {
		return "", fmt.Errorf("database path is required")
	}
	if dsCfg.Database == MemoryDatabase {
		return MemoryDatabase, nil
	}

	timeout := time.Duration(sqlCfg.ConnectTimeout) * time.Second
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", dsCfg.Database, timeout.Milliseconds()), nil
}

// ConfigurePool pins an in-memory database to one connection that never expires.
func (d *SQLiteDialect) ConfigurePool(db *sql.DB, dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) bool {
	if dsCfg.Database != MemoryDatabase {
		return false
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	return true
}

func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *SQLiteDialect) Placeholder(n int) string {
	return "?"
}

// MapColumnType follows SQLite's type affinity rules on the declared type.
func (d *SQLiteDialect) MapColumnType(dbTypeName string) domain.ColumnType {
	t := strings.ToUpper(strings.TrimSpace(dbTypeName))

	switch {
	case t == "BOOLEAN" || t == "BOOL":
		return domain.ColumnTypeBoolean
	case t == "DATE" || t == "DATETIME" || t == "TIMESTAMP":
		return domain.ColumnTypeDate
	case strings.Contains(t, "INT"):
		return domain.ColumnTypeNumber
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return domain.ColumnTypeString
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"),
		strings.HasPrefix(t, "NUMERIC"), strings.HasPrefix(t, "DECIMAL"):
		return domain.ColumnTypeNumber
	default:
		return domain.ColumnTypeString
	}
}

func (d *SQLiteDialect) StorageType(t domain.ColumnType) string {
	switch t {
	case domain.ColumnTypeNumber:
		return "NUMERIC"
	case domain.ColumnTypeBoolean:
		return "BOOLEAN"
	case domain.ColumnTypeDate:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// BindValue stores times as second-precision RFC 3339 text in UTC.
func (d *SQLiteDialect) BindValue(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.UTC().Format(time.RFC3339)
	}
	return v
}
