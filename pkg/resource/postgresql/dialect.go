package postgresql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/datagrid/pkg/resource/sql"
)

// PostgreSQLDialect implements sql.Dialect for PostgreSQL.
type PostgreSQLDialect struct{}

func (d *PostgreSQLDialect) DriverName() string { return "postgres" }

func (d *PostgreSQLDialect) BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (string, error) {
	if dsCfg.Host == "" {
		return "", fmt.Errorf("host is required")
	}
	port := dsCfg.Port
	if port <= 0 {
		port = 5432
	}

	parts := []string{
		"host=" + quoteDSNValue(dsCfg.Host),
		fmt.Sprintf("port=%d", port),
		"user=" + quoteDSNValue(dsCfg.Username),
		"password=" + quoteDSNValue(dsCfg.Password),
		"dbname=" + quoteDSNValue(dsCfg.Database),
		"sslmode=" + quoteDSNValue(sqlCfg.SSLMode),
	}

	if sqlCfg.Schema != "" {
		parts = append(parts, "search_path="+quoteDSNValue(sqlCfg.Schema))
	}
	if sqlCfg.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", sqlCfg.ConnectTimeout))
	}
	if sqlCfg.SSLCert != "" {
		parts = append(parts, "sslcert="+quoteDSNValue(sqlCfg.SSLCert))
	}
	if sqlCfg.SSLKey != "" {
		parts = append(parts, "sslkey="+quoteDSNValue(sqlCfg.SSLKey))
	}
	if sqlCfg.SSLRootCert != "" {
		parts = append(parts, "sslrootcert="+quoteDSNValue(sqlCfg.SSLRootCert))
	}

	return strings.Join(parts, " "), nil
}

// quoteDSNValue quotes a key=value connection string value when needed.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (d *PostgreSQLDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *PostgreSQLDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (d *PostgreSQLDialect) MapColumnType(dbTypeName string) domain.ColumnType {
	t := strings.ToLower(strings.TrimSpace(dbTypeName))

	// Strip ARRAY suffix
	t = strings.TrimSuffix(t, "[]")

	switch t {
	case "smallint", "integer", "bigint", "serial", "bigserial", "smallserial", "int2", "int4", "int8",
		"real", "float4", "double precision", "float8", "numeric", "decimal":
		return domain.ColumnTypeNumber
	case "boolean", "bool":
		return domain.ColumnTypeBoolean
	case "date", "timestamp", "timestamp without time zone", "timestamp with time zone", "timestamptz":
		return domain.ColumnTypeDate
	default:
		return domain.ColumnTypeString
	}
}

func (d *PostgreSQLDialect) StorageType(t domain.ColumnType) string {
	switch t {
	case domain.ColumnTypeNumber:
		return "DOUBLE PRECISION"
	case domain.ColumnTypeBoolean:
		return "BOOLEAN"
	case domain.ColumnTypeDate:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func (d *PostgreSQLDialect) BindValue(v interface{}) interface{} {
	return v
}
