package main

import (
	"context"
	"fmt"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/config"
	"github.com/kasuganosora/datagrid/pkg/reports"
	"github.com/kasuganosora/datagrid/pkg/resource/application"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/infrastructure/cache"
	"github.com/kasuganosora/datagrid/pkg/resource/slice"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// environment is the state shared by every subcommand: configuration,
// logger and the data source manager holding the configured source.
type environment struct {
	cfg     *config.Config
	logger  *api.LogrusLogger
	manager *application.DataSourceManager
	source  string
}

// setup loads the configuration and configures logging. The data source
// is opened separately by openSource.
func setup(cmd *cobra.Command) (*environment, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := getString(cmd, "config"); path != "" {
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	} else {
		cfg = config.LoadConfigOrDefault()
	}

	logger := newLogger(cfg.Log, getFlag(cmd, "verbose"))

	manager := application.NewDataSourceManager(nil)
	if cfg.Cache.Enabled {
		manager.SetCache(cache.NewQueryCacheWithConfig(cfg.Cache.MaxSize, cfg.Cache.TTL))
	}

	return &environment{cfg: cfg, logger: logger, manager: manager}, nil
}

// newLogger configures the standard logrus logger from the log section.
func newLogger(lc config.LogConfig, verbose bool) *api.LogrusLogger {
	if lc.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}

	logger := api.NewLogrusLogger(nil)
	if level, ok := api.ParseLogLevel(lc.Level); ok {
		logger.SetLevel(level)
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	return logger
}

// openSource registers the data source described by dsCfg. A slice source
// named "reports" without data is served from the built-in reports seed.
func (e *environment) openSource(ctx context.Context, dsCfg domain.DataSourceConfig) (domain.DataSource, error) {
	name := dsCfg.Name
	if name == "" {
		name = string(dsCfg.Type)
	}

	if isReportsSeed(dsCfg) {
		var opts []slice.Option
		if e.cfg.Grid.Collation != "" {
			coll, err := util.ParseCollation(e.cfg.Grid.Collation)
			if err != nil {
				return nil, domain.NewErrInvalidConfig("grid.collation", err.Error())
			}
			opts = append(opts, slice.WithCollation(coll))
		}
		data := reports.Seed()
		src, err := reports.NewSource(&data, opts...)
		if err != nil {
			return nil, err
		}
		if err := e.manager.Register(name, src); err != nil {
			return nil, err
		}
	} else if _, err := e.manager.CreateAndRegister(ctx, name, &dsCfg); err != nil {
		return nil, err
	}

	e.source = name
	e.logger.Debug("打开数据源: %s (%s)", name, dsCfg.Type)
	return e.manager.Get(name)
}

func isReportsSeed(dsCfg domain.DataSourceConfig) bool {
	if dsCfg.Type != domain.DataSourceTypeSlice || dsCfg.Name != reports.SourceName {
		return false
	}
	_, hasData := dsCfg.Options["data"]
	return !hasData
}

// columns returns the column descriptors of the opened source.
func (e *environment) columns(ctx context.Context) ([]domain.Column, error) {
	if e.source == "" {
		return nil, fmt.Errorf("no data source opened")
	}
	return e.manager.Columns(ctx, e.source)
}

func (e *environment) close(ctx context.Context) {
	if err := e.manager.CloseAll(ctx); err != nil {
		e.logger.Warn("关闭数据源失败: %v", err)
	}
}
