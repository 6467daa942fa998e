package sysmetrics

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qtraffics/qtmon/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls atomic.Int32
}

func (s *countingSource) Collect(ctx context.Context) *Snapshot {
	n := s.calls.Add(1)
	return &Snapshot{Time: time.Duration(n).String(), Sys: Section{}, CPU: Section{}}
}

func TestWatcherPublishes(t *testing.T) {
	source := &countingSource{}
	w := NewWatcher(source, 5*time.Millisecond, log.NOP)
	sub := w.Subscribe(4)

	assert.Nil(t, w.Latest())
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))

	for range 2 {
		select {
		case snap, ok := <-sub.Channel():
			require.True(t, ok)
			assert.NotNil(t, snap)
		case <-time.After(5 * time.Second):
			t.Fatal("no snapshot published")
		}
	}
	assert.NotNil(t, w.Latest())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	// drain whatever was queued, then the channel must be closed
	for range sub.Channel() {
	}
	assert.ErrorIs(t, w.Start(context.Background()), errWatcherClosed)
}

func TestWatcherStopsWithContext(t *testing.T) {
	source := &countingSource{}
	w := NewWatcher(source, time.Hour, log.NOP)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	require.NoError(t, w.Close())
	assert.LessOrEqual(t, source.calls.Load(), int32(1))
}

func TestWatcherCloseBeforeStart(t *testing.T) {
	w := NewWatcher(&countingSource{}, 0, nil)
	assert.Equal(t, DefaultWatchInterval, w.interval)
	assert.NoError(t, w.Close())
}

func TestWatcherDropsCancelledCollection(t *testing.T) {
	w := NewWatcher(&countingSource{}, time.Second, log.NOP)
	sub := w.Subscribe(1)
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.collect(ctx)

	assert.Nil(t, w.Latest())
	assert.Empty(t, sub.Channel())
}
