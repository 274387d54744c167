package sqlite

import (
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/datagrid/pkg/resource/sql"
)

// SQLiteDataSource wraps SQLCommonDataSource with SQLite-specific dialect.
type SQLiteDataSource struct {
	*sqlcommon.SQLCommonDataSource
}

// NewSQLiteDataSource creates a new SQLite datasource.
func NewSQLiteDataSource(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (*SQLiteDataSource, error) {
	common := sqlcommon.NewSQLCommonDataSource(dsCfg, sqlCfg, &SQLiteDialect{})
	return &SQLiteDataSource{SQLCommonDataSource: common}, nil
}
