package mysql

import (
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/datagrid/pkg/resource/sql"
)

// MySQLDataSource wraps SQLCommonDataSource with MySQL-specific dialect.
type MySQLDataSource struct {
	*sqlcommon.SQLCommonDataSource
}

// NewMySQLDataSource creates a new MySQL datasource.
func NewMySQLDataSource(dsCfg *domain.DataSourceConfig, sqlCfg *sqlcommon.SQLConfig) (*MySQLDataSource, error) {
	common := sqlcommon.NewSQLCommonDataSource(dsCfg, sqlCfg, &MySQLDialect{})
	return &MySQLDataSource{SQLCommonDataSource: common}, nil
}
