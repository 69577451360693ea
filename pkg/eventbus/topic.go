package eventbus

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type subscriber[T any] struct {
	id      int
	handler func(T)
}

// Topic is a named, typed broadcast channel. Handlers run synchronously on
// the publishing goroutine in subscription order.
type Topic[T any] struct {
	name string
	log  *logrus.Logger

	mu          sync.RWMutex
	nextID      int
	subscribers []subscriber[T]
	last        T
	published   bool
}

func NewTopic[T any](name string, log *logrus.Logger) *Topic[T] {
	return &Topic[T]{name: name, log: log}
}

func (t *Topic[T]) Name() string { return t.name }

// Subscribe registers handler and returns a func that removes it. Calling
// the returned func more than once is a no-op.
func (t *Topic[T]) Subscribe(handler func(T)) func() {
	if handler == nil {
		panic("eventbus: handler must not be nil")
	}
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.subscribers = append(t.subscribers, subscriber[T]{id: id, handler: handler})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { t.unsubscribe(id) })
	}
}

func (t *Topic[T]) unsubscribe(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subscribers {
		if s.id == id {
			t.subscribers = append(t.subscribers[:i:i], t.subscribers[i+1:]...)
			return
		}
	}
}

// Publish delivers event to every subscriber and returns how many handlers
// completed without panicking.
func (t *Topic[T]) Publish(event T) int {
	t.mu.Lock()
	t.last = event
	t.published = true
	subs := make([]subscriber[T], len(t.subscribers))
	copy(subs, t.subscribers)
	t.mu.Unlock()

	if len(subs) == 0 {
		if t.log != nil {
			t.log.Debugf("eventbus.Publish: no subscribers on topic %q", t.name)
		}
		return 0
	}

	handled := 0
	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil && t.log != nil {
					t.log.Errorf("eventbus: handler on topic %q panicked with event %v: %v", t.name, event, r)
				}
			}()
			s.handler(event)
			handled++
		}()
	}
	return handled
}

// Last returns the most recent event, if any was published.
func (t *Topic[T]) Last() (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.published
}

func (t *Topic[T]) SubscribersCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subscribers)
}

func (t *Topic[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = nil
}
