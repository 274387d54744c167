package mysql

import (
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/datagrid/pkg/resource/sql"
)

// MySQLDialect implements sql.Dialect for MySQL.
type MySQLDialect struct{}

func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (string, error) {
	if dsCfg.Host == "" {
		return "", fmt.Errorf("host is required")
	}
	port := dsCfg.Port
	if port <= 0 {
		port = 3306
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = dsCfg.Username
	cfg.Passwd = dsCfg.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", dsCfg.Host, port)
	cfg.DBName = dsCfg.Database
	cfg.AllowNativePasswords = true
	cfg.Collation = sqlCfg.Collation
	cfg.Params = map[string]string{
		"charset": sqlCfg.Charset,
	}

	if sqlCfg.ParseTime != nil && *sqlCfg.ParseTime {
		cfg.ParseTime = true
		cfg.Loc = time.UTC
	}

	if sqlCfg.ConnectTimeout > 0 {
		cfg.Timeout = time.Duration(sqlCfg.ConnectTimeout) * time.Second
	}

	// TLS
	switch strings.ToLower(sqlCfg.SSLMode) {
	case "true", "required", "require":
		cfg.TLSConfig = "true"
	case "skip-verify", "preferred":
		cfg.TLSConfig = "skip-verify"
	case "false", "disable", "":
		cfg.TLSConfig = "false"
	default:
		cfg.TLSConfig = sqlCfg.SSLMode
	}

	return cfg.FormatDSN(), nil
}

func (d *MySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MySQLDialect) Placeholder(n int) string {
	return "?"
}

func (d *MySQLDialect) MapColumnType(dbTypeName string) domain.ColumnType {
	t := strings.ToLower(strings.TrimSpace(dbTypeName))

	// tinyint(1) is the conventional boolean
	if t == "tinyint(1)" {
		return domain.ColumnTypeBoolean
	}

	// Strip parenthesized parameters: varchar(255) -> varchar
	if idx := strings.Index(t, "("); idx >= 0 {
		t = t[:idx]
	}
	t = strings.TrimSpace(strings.TrimPrefix(t, "unsigned "))
	t = strings.TrimSuffix(t, " unsigned")

	switch t {
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint", "year",
		"float", "double", "decimal", "numeric", "real":
		return domain.ColumnTypeNumber
	case "bit", "bool", "boolean":
		return domain.ColumnTypeBoolean
	case "date", "datetime", "timestamp":
		return domain.ColumnTypeDate
	default:
		return domain.ColumnTypeString
	}
}

func (d *MySQLDialect) StorageType(t domain.ColumnType) string {
	switch t {
	case domain.ColumnTypeNumber:
		return "DOUBLE"
	case domain.ColumnTypeBoolean:
		return "TINYINT(1)"
	case domain.ColumnTypeDate:
		return "DATETIME"
	default:
		return "VARCHAR(255)"
	}
}

func (d *MySQLDialect) BindValue(v interface{}) interface{} {
	return v
}
