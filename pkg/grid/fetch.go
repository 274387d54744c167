package grid

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// fetchLocked 发出一次远程查询。
// 新请求会取消上一个仍在进行的请求；响应按序号校验，只有最近发出的请求结果会被应用。
// 查询期间保留上一次的行，Loading 为 true。
func (g *Grid) fetchLocked(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if g.cancel != nil {
		g.cancel()
	}

	g.seq++
	seq := g.seq
	requestID := uuid.NewString()

	fetchCtx, cancel := context.WithCancel(api.WithRequestID(ctx, requestID))
	g.cancel = cancel
	g.loading = true

	params := g.query.Params()
	g.inflight.Add(1)
	go g.fetch(fetchCtx, cancel, seq, requestID, params)
}

func (g *Grid) fetch(ctx context.Context, cancel context.CancelFunc, seq uint64, requestID string, params *domain.GetManyParams) {
	defer g.inflight.Done()
	defer cancel()

	start := time.Now()
	result, err := g.source.GetMany(ctx, params)
	elapsed := time.Since(start)

	g.mu.Lock()
	if seq != g.seq {
		latest := g.seq
		g.mu.Unlock()
		g.logger.Debug("[GRID] discarding stale response #%d (request %s, latest #%d, err=%v)", seq, requestID, latest, err)
		return
	}

	g.loading = false
	g.cancel = nil

	if err != nil {
		fetchErr := api.WrapError(err, api.ErrCodeFetchFailed, "failed to fetch rows")
		if errors.Is(err, context.DeadlineExceeded) {
			fetchErr = api.WrapError(err, api.ErrCodeTimeout, "fetch timed out")
		}
		g.lastErr = fetchErr
		snap := g.publishLocked()
		g.mu.Unlock()

		g.logger.Error("[GRID] fetch #%d (request %s) failed after %v: %v", seq, requestID, elapsed, err)
		if g.onError != nil {
			g.onError(fetchErr)
		}
		g.notify(snap)
		return
	}

	items := []domain.Row{}
	count := 0
	if result != nil {
		if result.Items != nil {
			items = result.Items
		}
		count = result.ItemCount
	}
	g.items = items
	g.itemCount = count
	g.lastErr = nil
	snap := g.publishLocked()
	g.mu.Unlock()

	g.logger.Debug("[GRID] fetch #%d (request %s) returned %d of %d rows in %v", seq, requestID, len(items), count, elapsed)
	g.notify(snap)
}
