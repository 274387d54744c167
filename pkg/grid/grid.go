package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/util"
)

// Mode 数据引擎模式，创建时确定
type Mode int

const (
	// ModeLocal 本地模式：在内存中过滤、排序、分页
	ModeLocal Mode = iota
	// ModeRemote 远程模式：委托给数据源
	ModeRemote
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Grid 表格引擎：持有查询状态和列可见性，命令驱动状态转换，
// 每次查询状态变化后本地重新计算或远程重新查询。
type Grid struct {
	mu sync.Mutex

	mode              Mode
	columns           []domain.Column
	columnIndex       map[string]domain.Column
	paginationOptions []int
	collation         *util.Collation
	logger            api.Logger
	onError           func(error)
	notifier          *notifier

	rows   []domain.Row      // 本地模式的全部行
	source domain.DataSource // 远程模式的数据源

	query     QueryState
	hidden    Visibility
	items     []domain.Row
	itemCount int
	loading   bool
	lastErr   error
	version   uint64 // 每次可观察的状态变化加一

	seq      uint64             // 最近一次发出的远程请求序号
	cancel   context.CancelFunc // 取消正在进行的远程请求
	inflight sync.WaitGroup

	editor *Editor
}

// New 创建表格。必须且只能提供 WithRows 或 WithDataSource 之一。
// 远程模式下会立即发出首次查询。
func New(columns []domain.Column, opts ...Option) (*Grid, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(columns) == 0 {
		return nil, domain.NewErrInvalidConfig("columns", "at least one column is required")
	}
	index := make(map[string]domain.Column, len(columns))
	for _, c := range columns {
		if c.Field == "" {
			return nil, domain.NewErrInvalidConfig("columns", "column field cannot be empty")
		}
		if _, dup := index[c.Field]; dup {
			return nil, domain.NewErrInvalidConfig("columns", fmt.Sprintf("duplicate column field %s", c.Field))
		}
		index[c.Field] = c
	}

	if cfg.hasRows == (cfg.source != nil) {
		return nil, domain.NewErrInvalidConfig("rows", "exactly one of rows or data source must be provided")
	}

	if len(cfg.paginationOptions) == 0 {
		return nil, domain.NewErrInvalidConfig("pagination_options", "must not be empty")
	}
	for _, size := range cfg.paginationOptions {
		if size <= 0 {
			return nil, domain.NewErrInvalidConfig("pagination_options", fmt.Sprintf("page size must be positive: %d", size))
		}
	}

	collation, err := util.ParseCollation(cfg.collation)
	if err != nil {
		return nil, domain.NewErrInvalidConfig("collation", err.Error())
	}

	query, err := normalizeInitialState(cfg.initial, index, cfg.paginationOptions)
	if err != nil {
		return nil, err
	}

	g := &Grid{
		columns:           append([]domain.Column(nil), columns...),
		columnIndex:       index,
		paginationOptions: append([]int(nil), cfg.paginationOptions...),
		collation:         collation,
		logger:            cfg.logger,
		onError:           cfg.onError,
		notifier:          &notifier{fn: cfg.onChange},
		source:            cfg.source,
		query:             query,
		items:             []domain.Row{},
	}
	g.editor = newEditor(g)

	if cfg.hasRows {
		g.mode = ModeLocal
		if err := validateRows(cfg.rows); err != nil {
			return nil, err
		}
		g.rows = append([]domain.Row(nil), cfg.rows...)
		g.recomputeLocked()
		return g, nil
	}

	g.mode = ModeRemote
	g.mu.Lock()
	g.fetchLocked(cfg.ctx)
	g.mu.Unlock()
	return g, nil
}

// validateRows 检查每行都有 id 且 id 唯一
func validateRows(rows []domain.Row) error {
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		if row == nil || row.ID() == nil {
			return domain.NewErrInvalidRows(i, "missing id")
		}
		key := domain.RowKey(row.ID())
		if first, dup := seen[key]; dup {
			return domain.NewErrInvalidRows(i, fmt.Sprintf("duplicate id %v (first seen at index %d)", row.ID(), first))
		}
		seen[key] = i
	}
	return nil
}

// Mode 返回数据引擎模式
func (g *Grid) Mode() Mode {
	return g.mode
}

// Columns 返回声明的全部列
func (g *Grid) Columns() []domain.Column {
	return append([]domain.Column(nil), g.columns...)
}

// Column 按字段查找列定义
func (g *Grid) Column(field string) (domain.Column, bool) {
	c, ok := g.columnIndex[field]
	return c, ok
}

// Editor 返回绑定到表格的过滤/排序编辑器
func (g *Grid) Editor() *Editor {
	return g.editor
}

// Dispatch 执行命令。命令失败时状态不变。
// 查询状态变化后，本地模式同步重新计算，远程模式在新的 goroutine 中查询（ctx 控制该次查询）。
func (g *Grid) Dispatch(ctx context.Context, cmd Command) error {
	g.mu.Lock()
	t := &transition{
		columns: g.columnIndex,
		query:   g.query.Clone(),
		hidden:  g.hidden,
	}
	if err := cmd.apply(t); err != nil {
		g.mu.Unlock()
		g.logger.Debug("[GRID] command %T rejected: %v", cmd, err)
		return err
	}

	g.query = t.query
	g.hidden = t.hidden
	g.logger.Debug("[GRID] %T applied: page=%d pageSize=%d sort=%v filters=%d hidden=%d",
		cmd, g.query.Pagination.Page, g.query.Pagination.PageSize, g.query.Sort, len(g.query.Filter), g.hidden.Len())

	if t.queryChanged {
		g.refreshLocked(ctx)
	}
	snap := g.publishLocked()
	g.mu.Unlock()

	g.notify(snap)
	return nil
}

// Refresh 以当前查询状态重新计算或重新查询（例如数据源缓存失效后）
func (g *Grid) Refresh(ctx context.Context) {
	g.mu.Lock()
	g.refreshLocked(ctx)
	snap := g.publishLocked()
	g.mu.Unlock()
	g.notify(snap)
}

// SetRows 替换本地模式的行，并按当前查询状态重新计算
func (g *Grid) SetRows(rows []domain.Row) error {
	if g.mode != ModeLocal {
		return domain.NewErrUnsupportedOperation(g.mode.String(), "SetRows")
	}
	if err := validateRows(rows); err != nil {
		return err
	}

	g.mu.Lock()
	g.rows = append([]domain.Row(nil), rows...)
	g.recomputeLocked()
	snap := g.publishLocked()
	g.mu.Unlock()

	g.notify(snap)
	return nil
}

// Wait 等待所有进行中的远程查询结束
func (g *Grid) Wait() {
	g.inflight.Wait()
}

// Close 取消进行中的远程查询并丢弃其结果
func (g *Grid) Close() {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
		g.seq++
		g.loading = false
		g.version++
	}
	g.mu.Unlock()
	g.inflight.Wait()
}

// Snapshot 返回当前状态
func (g *Grid) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Query 返回当前查询状态
func (g *Grid) Query() QueryState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.query.Clone()
}

func (g *Grid) refreshLocked(ctx context.Context) {
	if g.mode == ModeLocal {
		g.recomputeLocked()
		return
	}
	g.fetchLocked(ctx)
}

// recomputeLocked 本地流水线：过滤 → 排序 → 分页
func (g *Grid) recomputeLocked() {
	result := util.ApplyQueryOperations(g.rows, g.columns, g.query.Params(), g.collation)
	g.items = result.Items
	g.itemCount = result.ItemCount
}

// publishLocked 记录一次状态变化并返回待通知的快照
func (g *Grid) publishLocked() Snapshot {
	g.version++
	return g.snapshotLocked()
}

func (g *Grid) snapshotLocked() Snapshot {
	return Snapshot{
		Version:           g.version,
		Mode:              g.mode,
		Items:             append([]domain.Row{}, g.items...),
		ItemCount:         g.itemCount,
		Loading:           g.loading,
		Query:             g.query.Clone(),
		Columns:           g.hidden.VisibleColumns(g.columns),
		Hidden:            g.hidden.Hidden(),
		PaginationOptions: append([]int(nil), g.paginationOptions...),
		Err:               g.lastErr,
	}
}

// notify 在锁外投递快照；比已投递快照旧的会被丢弃
func (g *Grid) notify(s Snapshot) {
	g.notifier.publish(s)
}
