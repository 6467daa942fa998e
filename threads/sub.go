package threads

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/sys/sysvars"
)

// Safe is implemented by values that may be shared between goroutines.
type Safe interface {
	ThreadSafe() bool
}

type Subscriber[V any] interface {
	// Channel is closed once the subscriber is removed from its hub.
	Channel() <-chan V
	Unsubscribe()

	subscriberID() uint64
	publish(v V)
	close()
}

// SubHub fans values published on a topic out to every subscriber of that
// topic. A subscriber whose queue is full misses the value.
type SubHub[V any, T comparable] struct {
	subscribers map[T]map[uint64]Subscriber[V]
	closed      bool

	access sync.Mutex
}

var _ Safe = (*SubHub[int, int])(nil)

func (sh *SubHub[V, T]) ThreadSafe() bool {
	return true
}

// Subscribe registers a subscriber with a queue of maxWait values. Subscribing
// to a closed hub returns a subscriber whose channel is already closed.
func (sh *SubHub[V, T]) Subscribe(topic T, maxWait int) Subscriber[V] {
	sh.access.Lock()
	defer sh.access.Unlock()

	subscriber := newChannelSubscriber[V](maxWait)
	subscriber.leave = func() { sh.Unsubscribe(topic, subscriber) }
	if sh.closed {
		subscriber.close()
		return subscriber
	}

	if sh.subscribers == nil {
		sh.subscribers = make(map[T]map[uint64]Subscriber[V])
	}

	subscriberSet := sh.subscribers[topic]
	if subscriberSet == nil {
		subscriberSet = make(map[uint64]Subscriber[V])
		sh.subscribers[topic] = subscriberSet
	}
	subscriberSet[subscriber.subscriberID()] = subscriber

	return subscriber
}

// Unsubscribe removes the given subscribers, or every subscriber of topic when
// none are given, and closes their channels.
func (sh *SubHub[V, T]) Unsubscribe(topic T, subscriber ...Subscriber[V]) {
	sh.access.Lock()
	defer sh.access.Unlock()
	existSubscriber := sh.subscribers[topic]
	if len(existSubscriber) == 0 {
		return
	}

	if len(subscriber) == 0 {
		for _, s := range existSubscriber {
			s.close()
		}
		delete(sh.subscribers, topic)
		return
	}

	for _, s := range subscriber {
		if _, ok := existSubscriber[s.subscriberID()]; ok {
			delete(existSubscriber, s.subscriberID())
			s.close()
		}
	}
}

func (sh *SubHub[V, T]) Publish(topic T, value V) int {
	return sh.PublishN(topic, value, -1)
}

func (sh *SubHub[V, T]) PublishN(topic T, value V, n int) int {
	if n < 0 {
		n = math.MaxInt
	}
	if n == 0 {
		return 0
	}

	sh.access.Lock()
	defer sh.access.Unlock()
	if len(sh.subscribers) == 0 {
		return 0
	}
	subscribers := sh.subscribers[topic]
	n = min(n, len(subscribers))
	nn := n
	for _, v := range subscribers {
		if nn <= 0 {
			break
		}
		nn--
		v.publish(value)
	}

	return n - nn
}

// Count returns the number of subscribers on topic.
func (sh *SubHub[V, T]) Count(topic T) int {
	sh.access.Lock()
	defer sh.access.Unlock()
	return len(sh.subscribers[topic])
}

// Close removes every subscriber on every topic. Later subscriptions are
// closed immediately.
func (sh *SubHub[V, T]) Close() {
	sh.access.Lock()
	defer sh.access.Unlock()
	for _, set := range sh.subscribers {
		for _, s := range set {
			s.close()
		}
	}
	sh.subscribers = nil
	sh.closed = true
}

var internalSubscriberID atomic.Uint64

func newChannelSubscriber[V any](queue int) *channelSubscriber[V] {
	id := internalSubscriberID.Add(1)
	if queue <= 0 {
		return &channelSubscriber[V]{c: make(chan V), id: id}
	}
	return &channelSubscriber[V]{c: make(chan V, queue), id: id}
}

type channelSubscriber[V any] struct {
	c     chan V
	leave func()
	once  sync.Once

	id uint64
}

func (c *channelSubscriber[V]) Channel() <-chan V {
	return c.c
}

func (c *channelSubscriber[V]) Unsubscribe() {
	c.leave()
}

func (c *channelSubscriber[V]) subscriberID() uint64 {
	return c.id
}

// close is called with the hub lock held, so it never races publish.
func (c *channelSubscriber[V]) close() {
	c.once.Do(func() { close(c.c) })
}

func (c *channelSubscriber[V]) publish(v V) {
	select {
	case c.c <- v:
	default:
		if sysvars.DebugEnabled {
			log.Warn("publish discarded, consider increase the capacity of channel")
		}
		// no-op
	}
}
