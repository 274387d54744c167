package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/kasuganosora/datagrid/pkg/resource/slice"
)

// fetchCall 一次被挂起的 GetMany 调用，由测试决定何时、以何种结果返回
type fetchCall struct {
	ctx    context.Context
	params *domain.GetManyParams
	reply  chan fetchReply
}

type fetchReply struct {
	result *domain.GetManyResult
	err    error
}

func (c *fetchCall) respond(result *domain.GetManyResult, err error) {
	c.reply <- fetchReply{result: result, err: err}
}

// controlledSource 每次 GetMany 都把调用交给测试，忽略 ctx 取消以模拟不支持取消的数据源
type controlledSource struct {
	calls chan *fetchCall
}

func newControlledSource() *controlledSource {
	return &controlledSource{calls: make(chan *fetchCall, 16)}
}

func (s *controlledSource) GetMany(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
	call := &fetchCall{ctx: ctx, params: params, reply: make(chan fetchReply, 1)}
	s.calls <- call
	r := <-call.reply
	return r.result, r.err
}

func (s *controlledSource) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for GetMany")
		return nil
	}
}

// captureLogger 记录日志文本，可在查询 goroutine 写入时并发读取
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) record(level api.LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, "["+level.String()+"] "+fmt.Sprintf(format, args...))
}

func (l *captureLogger) Debug(format string, args ...interface{}) { l.record(api.LogDebug, format, args...) }
func (l *captureLogger) Info(format string, args ...interface{})  { l.record(api.LogInfo, format, args...) }
func (l *captureLogger) Warn(format string, args ...interface{})  { l.record(api.LogWarn, format, args...) }
func (l *captureLogger) Error(format string, args ...interface{}) { l.record(api.LogError, format, args...) }
func (l *captureLogger) SetLevel(api.LogLevel)                    {}
func (l *captureLogger) GetLevel() api.LogLevel                   { return api.LogDebug }

func (l *captureLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func page(items ...domain.Row) *domain.GetManyResult {
	return &domain.GetManyResult{Items: items, ItemCount: len(items)}
}

func TestRemote_InitialFetch(t *testing.T) {
	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src), WithInitialState(InitialState{
		SortModel:   []domain.SortModel{{Field: "age", Sort: domain.SortDesc}},
		FilterModel: []domain.FilterModel{{Field: "age", Operator: domain.OpGreater, Value: 28}},
	}))
	require.NoError(t, err)
	assert.Equal(t, ModeRemote, g.Mode())

	call := src.next(t)
	assert.True(t, g.Snapshot().Loading)
	assert.Equal(t, domain.PaginationModel{Page: 0, PageSize: 5}, call.params.PaginationModel)
	assert.Equal(t, []domain.SortModel{{Field: "age", Sort: domain.SortDesc}}, call.params.SortModel)
	assert.Len(t, call.params.FilterModel, 1)
	assert.NotEmpty(t, api.RequestIDFromContext(call.ctx))

	// 远程模式不会再次过滤数据源返回的页
	call.respond(&domain.GetManyResult{Items: peopleRows(), ItemCount: 42}, nil)
	g.Wait()

	snap := g.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []interface{}{1, 2, 3}, ids(snap.Items))
	assert.Equal(t, 42, snap.ItemCount)
	assert.NoError(t, snap.Err)
}

func TestRemote_LatestRequestWins(t *testing.T) {
	logger := &captureLogger{}
	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src), WithLogger(logger))
	require.NoError(t, err)
	ctx := context.Background()

	first := src.next(t)
	require.NoError(t, g.Dispatch(ctx, ChangePage{Page: 1}))
	second := src.next(t)
	assert.Equal(t, 1, second.params.PaginationModel.Page)

	// 旧请求在新请求发出后被取消
	select {
	case <-first.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("superseded request was not canceled")
	}

	// 旧请求的响应先到，被丢弃，仍在加载
	first.respond(page(domain.Row{"id": 1, "name": "stale"}), nil)
	require.Eventually(t, func() bool {
		return logger.contains("discarding stale response")
	}, 2*time.Second, 5*time.Millisecond)
	snap := g.Snapshot()
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Items)

	second.respond(page(domain.Row{"id": 6, "name": "fresh"}), nil)
	g.Wait()

	snap = g.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []interface{}{6}, ids(snap.Items))
}

func TestRemote_StaleResponseArrivingLastIsIgnored(t *testing.T) {
	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src))
	require.NoError(t, err)
	ctx := context.Background()

	first := src.next(t)
	require.NoError(t, g.Dispatch(ctx, ToggleSort{Field: "name"}))
	second := src.next(t)
	require.NoError(t, g.Dispatch(ctx, ToggleSort{Field: "name"}))
	third := src.next(t)
	assert.Equal(t, []domain.SortModel{{Field: "name", Sort: domain.SortDesc}}, third.params.SortModel)

	third.respond(page(domain.Row{"id": 3}), nil)
	require.Eventually(t, func() bool { return !g.Snapshot().Loading }, 2*time.Second, 5*time.Millisecond)

	second.respond(page(domain.Row{"id": 2}), nil)
	first.respond(nil, errors.New("late failure"))
	g.Wait()

	snap := g.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []interface{}{3}, ids(snap.Items))
	assert.NoError(t, snap.Err)
}

func TestRemote_ChangeHandlerSeesLatestState(t *testing.T) {
	var mu sync.Mutex
	var seen []Snapshot
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		first := len(seen) == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
	}
	delivered := func() []Snapshot {
		mu.Lock()
		defer mu.Unlock()
		return append([]Snapshot(nil), seen...)
	}

	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src), WithChangeHandler(handler))
	require.NoError(t, err)
	ctx := context.Background()

	// 首次查询完成，回调在查询 goroutine 中阻塞
	src.next(t).respond(page(peopleRows()...), nil)
	<-entered

	// 回调阻塞期间切换页码；Dispatch 不等待回调
	require.NoError(t, g.Dispatch(ctx, ChangePage{Page: 1}))
	next := src.next(t)
	close(release)

	require.Eventually(t, func() bool { return len(delivered()) == 2 }, 2*time.Second, 5*time.Millisecond)
	snaps := delivered()
	assert.False(t, snaps[0].Loading)
	assert.Equal(t, 0, snaps[0].Query.Pagination.Page)
	assert.True(t, snaps[1].Loading)
	assert.Equal(t, 1, snaps[1].Query.Pagination.Page)
	assert.Less(t, snaps[0].Version, snaps[1].Version)

	next.respond(page(domain.Row{"id": 4}), nil)
	g.Wait()

	snaps = delivered()
	require.Len(t, snaps, 3)
	last := snaps[2]
	assert.False(t, last.Loading)
	assert.Equal(t, 1, last.Query.Pagination.Page)
	assert.Equal(t, []interface{}{4}, ids(last.Items))
	assert.Equal(t, g.Snapshot().Version, last.Version)
}

func TestRemote_FailureKeepsPriorRows(t *testing.T) {
	var mu sync.Mutex
	var reported []error
	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src), WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))
	require.NoError(t, err)

	src.next(t).respond(&domain.GetManyResult{Items: peopleRows(), ItemCount: 3}, nil)
	g.Wait()

	require.NoError(t, g.Dispatch(context.Background(), ChangePage{Page: 3}))
	boom := errors.New("connection reset")
	src.next(t).respond(nil, boom)
	g.Wait()

	snap := g.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []interface{}{1, 2, 3}, ids(snap.Items))
	assert.Equal(t, 3, snap.ItemCount)
	assert.Equal(t, 3, snap.Query.Pagination.Page)
	require.Error(t, snap.Err)
	assert.True(t, api.IsErrorCode(snap.Err, api.ErrCodeFetchFailed))
	assert.ErrorIs(t, snap.Err, boom)

	mu.Lock()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], boom)
	mu.Unlock()

	// 下一次成功后清除错误
	require.NoError(t, g.Dispatch(context.Background(), ChangePage{Page: 0}))
	src.next(t).respond(page(domain.Row{"id": 9}), nil)
	g.Wait()
	assert.NoError(t, g.Snapshot().Err)
}

func TestRemote_DeadlineIsReportedAsTimeout(t *testing.T) {
	src := domain.DataSourceFunc(func(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	g, err := New(peopleColumns, WithDataSource(src), WithContext(ctx))
	require.NoError(t, err)
	g.Wait()

	snap := g.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, api.IsErrorCode(snap.Err, api.ErrCodeTimeout))
}

func TestRemote_NilResultIsEmpty(t *testing.T) {
	src := domain.DataSourceFunc(func(ctx context.Context, params *domain.GetManyParams) (*domain.GetManyResult, error) {
		return nil, nil
	})
	g, err := New(peopleColumns, WithDataSource(src))
	require.NoError(t, err)
	g.Wait()

	snap := g.Snapshot()
	assert.NotNil(t, snap.Items)
	assert.Equal(t, 0, snap.ItemCount)
	assert.True(t, snap.IsEmpty())
}

func TestRemote_VisibilityDoesNotRefetch(t *testing.T) {
	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src))
	require.NoError(t, err)
	src.next(t).respond(page(), nil)
	g.Wait()

	require.NoError(t, g.Dispatch(context.Background(), ToggleColumn{Field: "name"}))
	require.NoError(t, g.Dispatch(context.Background(), ShowAllColumns{}))
	g.Wait()

	select {
	case <-src.calls:
		t.Fatal("visibility change triggered a fetch")
	default:
	}
	assert.Len(t, g.Snapshot().Columns, 3)
}

func TestRemote_Refresh(t *testing.T) {
	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src))
	require.NoError(t, err)
	src.next(t).respond(page(domain.Row{"id": 1}), nil)
	g.Wait()

	g.Refresh(context.Background())
	call := src.next(t)
	assert.True(t, g.Snapshot().Loading)
	call.respond(page(domain.Row{"id": 1}, domain.Row{"id": 2}), nil)
	g.Wait()
	assert.Equal(t, 2, g.Snapshot().ItemCount)
}

func TestRemote_CloseDiscardsInflight(t *testing.T) {
	src := newControlledSource()
	called := false
	g, err := New(peopleColumns, WithDataSource(src), WithErrorHandler(func(error) { called = true }))
	require.NoError(t, err)

	call := src.next(t)
	done := make(chan struct{})
	go func() {
		g.Close()
		close(done)
	}()

	<-call.ctx.Done()
	call.respond(nil, call.ctx.Err())
	<-done

	snap := g.Snapshot()
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
	assert.False(t, called)
}

func TestRemote_SliceSourceWithLatency(t *testing.T) {
	src, err := slice.FromRows(peopleRows(), peopleColumns, slice.WithLatency(30*time.Millisecond))
	require.NoError(t, err)

	var errs []error
	g, err := New(peopleColumns, WithDataSource(src), WithPaginationOptions(10), WithErrorHandler(func(err error) {
		errs = append(errs, err)
	}))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, g.Dispatch(ctx, ApplyFilter{Field: "age", Operator: domain.OpGreater, Value: 28}))
	require.NoError(t, g.Dispatch(ctx, ToggleSort{Field: "name"}))
	require.NoError(t, g.Dispatch(ctx, ToggleSort{Field: "name"}))
	g.Wait()

	snap := g.Snapshot()
	assert.Empty(t, errs)
	assert.False(t, snap.Loading)
	assert.Equal(t, []interface{}{3, 1}, ids(snap.Items))
	assert.Equal(t, 2, snap.ItemCount)
}

func TestRemote_SetRowsUnsupported(t *testing.T) {
	src := newControlledSource()
	g, err := New(peopleColumns, WithDataSource(src))
	require.NoError(t, err)
	defer func() {
		src.next(t).respond(page(), nil)
		g.Wait()
	}()

	var unsupported *domain.ErrUnsupportedOperation
	assert.ErrorAs(t, g.SetRows(peopleRows()), &unsupported)
}
