package mysql

import (
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/datagrid/pkg/resource/sql"
)

// MySQLFactory creates MySQL datasource instances.
type MySQLFactory struct{}

// NewMySQLFactory creates a new MySQLFactory.
func NewMySQLFactory() *MySQLFactory {
	return &MySQLFactory{}
}

// GetType returns the datasource type.
func (f *MySQLFactory) GetType() domain.DataSourceType {
	return domain.DataSourceTypeMySQL
}

// Create creates a new MySQL datasource from config.
func (f *MySQLFactory) Create(config *domain.DataSourceConfig) (domain.DataSource, error) {
	sqlCfg, err := sqlcommon.ParseSQLConfig(config)
	if err != nil {
		return nil, err
	}
	return NewMySQLDataSource(config, sqlCfg)
}
