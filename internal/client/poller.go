// File: internal/client/poller.go
package client

import (
	"context"
	"sync"
	"time"

	"github.com/Nattapat2550/chat/internal/services"
)

// DefaultPollInterval is how often an open thread view re-reads its
// message list. Worst-case visibility latency for a resolved reply
// equals one interval.
const DefaultPollInterval = 2 * time.Second

// MessageLister is the read side the poller depends on. It is
// implemented by APIClient over HTTP and, for embedded use, by
// *services.ConversationService directly.
type MessageLister interface {
	ListMessages(ctx context.Context, threadID uint) ([]services.MessageView, error)
}

// RenderFunc receives the full ordered message list on every poll
// cycle. Rendering is a full replace, so it must be idempotent.
type RenderFunc func(threadID uint, messages []services.MessageView)

// ErrorFunc receives read errors; the polling loop keeps running.
type ErrorFunc func(threadID uint, err error)

// Poller drives the polling protocol for one client: at most one armed
// timer at any time, re-reading the open thread's full state on a fixed
// interval. Open always cancels the previous timer before arming the
// next one.
type Poller struct {
	lister   MessageLister
	interval time.Duration
	render   RenderFunc
	onError  ErrorFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(lister MessageLister, interval time.Duration, render RenderFunc, onError ErrorFunc) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		lister:   lister,
		interval: interval,
		render:   render,
		onError:  onError,
	}
}

// Open switches the poller to the given thread: it performs an
// immediate read-and-render, then polls on the fixed interval until
// Close or the next Open.
func (p *Poller) Open(threadID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.loop(ctx, threadID, done)
}

// Close stops polling. Safe to call when nothing is open.
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked cancels the active loop, if any, and waits for it to exit
// so two loops never overlap.
func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Poller) loop(ctx context.Context, threadID uint, done chan struct{}) {
	defer close(done)

	p.poll(ctx, threadID)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, threadID)
		}
	}
}

// poll performs one full read-and-render cycle. A message whose pending
// flag flipped since the last cycle is picked up with no special-casing
// because every cycle replaces the whole list.
func (p *Poller) poll(ctx context.Context, threadID uint) {
	messages, err := p.lister.ListMessages(ctx, threadID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if p.onError != nil {
			p.onError(threadID, err)
		}
		return
	}
	if p.render != nil {
		p.render(threadID, messages)
	}
}
