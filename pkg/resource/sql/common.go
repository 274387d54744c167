package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// SQLCommonDataSource implements domain.DataSource over one table using database/sql.
// MySQL, PostgreSQL and SQLite embed this struct.
type SQLCommonDataSource struct {
	mu        sync.RWMutex
	config    *domain.DataSourceConfig
	sqlCfg    *SQLConfig
	dialect   Dialect
	db        *sql.DB
	columns   []domain.Column
	connected bool
}

// NewSQLCommonDataSource creates a new shared SQL datasource.
func NewSQLCommonDataSource(dsCfg *domain.DataSourceConfig, sqlCfg *SQLConfig, dialect Dialect) *SQLCommonDataSource {
	return &SQLCommonDataSource{
		config:  dsCfg,
		sqlCfg:  sqlCfg,
		dialect: dialect,
		columns: sqlCfg.Columns,
	}
}

// Connect opens the database connection and configures the pool.
func (ds *SQLCommonDataSource) Connect(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	dsn, err := ds.dialect.BuildDSN(ds.config, ds.sqlCfg)
	if err != nil {
		return &domain.ErrConnectionFailed{
			DataSourceType: ds.dialect.DriverName(),
			Reason:         fmt.Sprintf("build DSN: %v", err),
		}
	}

	db, err := sql.Open(ds.dialect.DriverName(), dsn)
	if err != nil {
		return &domain.ErrConnectionFailed{
			DataSourceType: ds.dialect.DriverName(),
			Reason:         err.Error(),
		}
	}

	// Configure pool
	pc, ok := ds.dialect.(PoolConfigurer)
	if !ok || !pc.ConfigurePool(db, ds.config, ds.sqlCfg) {
		db.SetMaxOpenConns(ds.sqlCfg.MaxOpenConns)
		db.SetMaxIdleConns(ds.sqlCfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(ds.sqlCfg.ConnMaxLifetime) * time.Second)
		db.SetConnMaxIdleTime(time.Duration(ds.sqlCfg.ConnMaxIdleTime) * time.Second)
	}

	// Verify connectivity
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(ds.sqlCfg.ConnectTimeout)*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return &domain.ErrConnectionFailed{
			DataSourceType: ds.dialect.DriverName(),
			Reason:         err.Error(),
		}
	}

	ds.db = db
	ds.connected = true
	return nil
}

// Close closes the database connection.
func (ds *SQLCommonDataSource) Close(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.connected = false
	if ds.db != nil {
		err := ds.db.Close()
		ds.db = nil
		return err
	}
	return nil
}

// IsConnected returns whether the datasource is connected.
func (ds *SQLCommonDataSource) IsConnected() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.connected
}

// GetConfig returns the datasource configuration.
func (ds *SQLCommonDataSource) GetConfig() *domain.DataSourceConfig {
	return ds.config
}

// Dialect returns the dialect used to build queries.
func (ds *SQLCommonDataSource) Dialect() Dialect {
	return ds.dialect
}

func (ds *SQLCommonDataSource) handle() (*sql.DB, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if !ds.connected {
		return nil, domain.NewErrNotConnected(ds.dialect.DriverName())
	}
	return ds.db, nil
}

// Columns returns the table's columns. Without configured columns the table is
// probed with an empty SELECT and its result set metadata is mapped.
func (ds *SQLCommonDataSource) Columns(ctx context.Context) ([]domain.Column, error) {
	db, err := ds.handle()
	if err != nil {
		return nil, err
	}

	ds.mu.RLock()
	cached := ds.columns
	ds.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	probe := "SELECT * FROM " + ds.dialect.QuoteIdentifier(ds.config.Table) + " WHERE 1=0"
	rows, err := db.QueryContext(ctx, probe)
	if err != nil {
		return nil, &domain.ErrQueryFailed{Query: probe, Reason: err.Error()}
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("get column types: %w", err)
	}
	columns := ColumnsFromTypes(colTypes, ds.dialect)

	ds.mu.Lock()
	ds.columns = columns
	ds.mu.Unlock()
	return columns, nil
}

// GetMany runs the count and page queries for the query state.
func (ds *SQLCommonDataSource) GetMany(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
	db, err := ds.handle()
	if err != nil {
		return nil, err
	}
	if params != nil && (params.PaginationModel.Page < 0 || params.PaginationModel.PageSize < 0) {
		return nil, domain.NewErrInvalidPagination(params.PaginationModel.Page, params.PaginationModel.PageSize)
	}

	columns, err := ds.Columns(ctx)
	if err != nil {
		return nil, err
	}

	countSQL, countArgs := BuildCountSQL(ds.dialect, ds.config.Table, columns, params)
	var total int
	if err := db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, &domain.ErrQueryFailed{Query: countSQL, Reason: err.Error()}
	}

	querySQL, args := BuildSelectSQL(ds.dialect, ds.config.Table, columns, params)
	rows, err := db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, &domain.ErrQueryFailed{Query: querySQL, Reason: err.Error()}
	}
	defer rows.Close()

	items, err := ScanRows(rows, columns)
	if err != nil {
		return nil, err
	}

	return &domain.GetManyResult{Items: items, ItemCount: total}, nil
}

// ImportRows creates the table when missing and inserts rows in one transaction.
func (ds *SQLCommonDataSource) ImportRows(ctx context.Context, columns []domain.Column, rows []domain.Row) (int64, error) {
	db, err := ds.handle()
	if err != nil {
		return 0, err
	}
	if len(columns) == 0 {
		return 0, domain.NewErrInvalidConfig("columns", "at least one column is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	createSQL := BuildCreateTableSQL(ds.dialect, ds.config.Table, columns)
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return 0, &domain.ErrQueryFailed{Query: createSQL, Reason: err.Error()}
	}

	insertSQL := BuildInsertSQL(ds.dialect, ds.config.Table, columns)
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, &domain.ErrQueryFailed{Query: insertSQL, Reason: err.Error()}
	}
	defer stmt.Close()

	var affected int64
	args := make([]interface{}, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			args[i] = ds.dialect.BindValue(row[col.Field])
		}
		result, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return affected, &domain.ErrQueryFailed{Query: insertSQL, Reason: err.Error()}
		}
		n, _ := result.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	// the table may have just been created; re-probe on the next query
	ds.mu.Lock()
	ds.columns = ds.sqlCfg.Columns
	ds.mu.Unlock()
	return affected, nil
}
