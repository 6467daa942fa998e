package sysmetrics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qtraffics/qtmon/enhancements/contextlib"
	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/threads"
	"github.com/qtraffics/qtmon/values"
)

const (
	DefaultWatchInterval = 3 * time.Second
	defaultTopic         = 0
)

var errWatcherClosed = ex.New("watcher closed")

// Watcher collects on its own goroutine at a fixed interval and publishes
// every snapshot to its subscribers, so readers never wait on the sampler.
type Watcher struct {
	source   Source
	interval time.Duration
	logger   log.Logger

	hub    threads.SubHub[*Snapshot, int]
	latest atomic.Pointer[Snapshot]

	access  sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWatcher(source Source, interval time.Duration, logger log.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		source:   source,
		interval: interval,
		logger:   log.With(values.UseDefaultNil(logger, log.Default()), log.NewMetadata("component", "watcher")),
	}
}

func (w *Watcher) Type() string {
	return "watcher"
}

func (w *Watcher) Start(ctx context.Context) error {
	w.access.Lock()
	defer w.access.Unlock()
	if w.closed {
		return errWatcherClosed
	}
	if w.started {
		return nil
	}
	w.started = true

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.collect(ctx)
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher quited")
			return
		case <-ticker.C:
		}
	}
}

func (w *Watcher) collect(ctx context.Context) {
	snap := w.source.Collect(ctx)
	if contextlib.Done(ctx) {
		return
	}
	w.latest.Store(snap)
	n := w.hub.Publish(defaultTopic, snap)
	w.logger.Debug("snapshot published", log.AttrDuration(snap.Took), log.AttrSubscribers(n))
}

// Latest returns the most recent snapshot, or nil before the first one.
func (w *Watcher) Latest() *Snapshot {
	return w.latest.Load()
}

// Subscribe returns a subscriber receiving each new snapshot. Its channel is
// closed when the watcher closes.
func (w *Watcher) Subscribe(queue int) threads.Subscriber[*Snapshot] {
	return w.hub.Subscribe(defaultTopic, queue)
}

func (w *Watcher) Close() error {
	w.access.Lock()
	if w.closed {
		w.access.Unlock()
		return nil
	}
	w.closed = true
	cancel, done := w.cancel, w.done
	w.access.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	w.hub.Close()
	return nil
}
