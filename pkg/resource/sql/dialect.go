package sql

import (
	"database/sql"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// Dialect encapsulates database-engine-specific behavior.
type Dialect interface {
	// DriverName returns the database/sql driver name
	DriverName() string

	// BuildDSN constructs the driver-specific connection string
	BuildDSN(dsCfg *domain.DataSourceConfig, sqlCfg *SQLConfig) (string, error)

	// QuoteIdentifier wraps a table/column name in dialect-specific quoting
	QuoteIdentifier(name string) string

	// Placeholder returns the parameter placeholder for the n-th parameter (1-based)
	Placeholder(n int) string

	// MapColumnType converts a database column type to a grid column type
	MapColumnType(dbTypeName string) domain.ColumnType

	// StorageType returns the column type used when creating tables for imported rows
	StorageType(t domain.ColumnType) string

	// BindValue converts a filter value into a driver argument
	BindValue(v interface{}) interface{}
}

// PoolConfigurer is implemented by dialects that need a non-default connection pool.
type PoolConfigurer interface {
	ConfigurePool(db *sql.DB, dsCfg *domain.DataSourceConfig, sqlCfg *SQLConfig) bool
}
