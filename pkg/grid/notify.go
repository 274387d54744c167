package grid

import "sync"

// notifier 按版本顺序投递快照：版本不高于已投递（或待投递）的快照被丢弃。
// 同一时刻只有一个 goroutine 调用回调；投递期间到达的新快照由该 goroutine 继续投递，
// 因此回调中可以再次调用 Dispatch。
type notifier struct {
	mu        sync.Mutex
	fn        func(Snapshot)
	pending   *Snapshot
	delivered uint64
	running   bool
}

func (n *notifier) publish(s Snapshot) {
	if n == nil || n.fn == nil {
		return
	}

	n.mu.Lock()
	if s.Version <= n.delivered || (n.pending != nil && s.Version <= n.pending.Version) {
		n.mu.Unlock()
		return
	}
	n.pending = &s
	if n.running {
		n.mu.Unlock()
		return
	}

	n.running = true
	for n.pending != nil {
		next := *n.pending
		n.pending = nil
		n.delivered = next.Version
		n.mu.Unlock()
		n.fn(next)
		n.mu.Lock()
	}
	n.running = false
	n.mu.Unlock()
}
