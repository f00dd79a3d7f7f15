package broker

import (
	"context"
	"sync"

	"courier-engine/internal/entities"
)

const defaultBufferSize = 16

// Memory раздает события подписчикам внутри процесса. Медленный подписчик
// теряет события, публикация никогда не блокируется.
type Memory struct {
	mu         sync.Mutex
	subs       map[uint64]chan entities.DeliveryEvent
	nextID     uint64
	bufferSize int
	closed     bool
}

func NewMemory(bufferSize int) *Memory {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Memory{
		subs:       make(map[uint64]chan entities.DeliveryEvent),
		bufferSize: bufferSize,
	}
}

// Subscribe возвращает канал событий и функцию отписки. Канал закрывается
// при отписке или Close.
func (b *Memory) Subscribe() (<-chan entities.DeliveryEvent, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrClosed
	}

	id := b.nextID
	b.nextID++
	ch := make(chan entities.DeliveryEvent, b.bufferSize)
	b.subs[id] = ch
	Subscribers.Inc()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
				Subscribers.Dec()
			}
		})
	}
	return ch, unsubscribe, nil
}

func (b *Memory) Publish(_ context.Context, event entities.DeliveryEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	for _, ch := range b.subs {
		select {
		case ch <- event:
			EventsDeliveredTotal.WithLabelValues("delivered").Inc()
		default:
			EventsDeliveredTotal.WithLabelValues("dropped").Inc()
		}
	}
	return nil
}

func (b *Memory) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Memory) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
		Subscribers.Dec()
	}
}
