package backend

import (
	"context"
	"sync"
	"time"

	"github.com/lethe-anon/lethe-ui/internal/host"
	"github.com/lethe-anon/lethe-ui/internal/logging/events"
)

// minPollGap bounds how often the daemon is queried even when the interval
// is shorter.
const minPollGap = 250 * time.Millisecond

// Event conveys a fresh container listing or the error from a poll.
type Event struct {
	Containers []host.ContainerSummary
	Err        error
}

// Watcher lists containers at a fixed interval and publishes events.
type Watcher struct {
	lister   host.ContainerLister
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts polling lister every interval. The first poll runs
// immediately. Callers own the watcher and must Stop it.
func NewWatcher(lister host.ContainerLister, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		lister:   lister,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}

	events.Watcher.Start(interval)
	throttle := newThrottle(minPollGap)
	w.wg.Add(1)
	go w.poll(func(ctx context.Context) ([]host.ContainerSummary, error) {
		if !throttle.wait(ctx) {
			return nil, ctx.Err()
		}
		return w.lister.ListContainers(ctx)
	})

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns the channel of poll results. It is closed once the watcher
// has stopped.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current fetch
// completes; use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	w.cancel()
	events.Watcher.Stop()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	if w == nil {
		return
	}
	w.wg.Wait()
}

func (w *Watcher) poll(fetch func(context.Context) ([]host.ContainerSummary, error)) {
	defer w.wg.Done()

	emit := func() bool {
		containers, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		events.Watcher.Poll(len(containers), err)
		evt := Event{Containers: containers, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
