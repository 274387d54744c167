package sqlite

import (
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	sqlcommon "github.com/kasuganosora/datagrid/pkg/resource/sql"
)

// SQLiteFactory creates SQLite datasource instances.
type SQLiteFactory struct{}

// NewSQLiteFactory creates a new SQLiteFactory.
func NewSQLiteFactory() *SQLiteFactory {
	return &SQLiteFactory{}
}

// GetType returns the datasource type.
func (f *SQLiteFactory) GetType() domain.DataSourceType {
	return domain.DataSourceTypeSQLite
}

// Create creates a new SQLite datasource from config.
func (f *SQLiteFactory) Create(config *domain.DataSourceConfig) (domain.DataSource, error) {
	sqlCfg, err := sqlcommon.ParseSQLConfig(config)
	if err != nil {
		return nil, err
	}
	return NewSQLiteDataSource(config, sqlCfg)
}
