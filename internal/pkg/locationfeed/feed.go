package locationfeed

import (
	"errors"
	"sync"

	"courier-engine/internal/entities"
	"courier-engine/pkg/geo"
)

const defaultBufferSize = 32

var ErrClosed = errors.New("location feed closed")

type Option func(*Feed)

func WithBufferSize(size int) Option {
	return func(f *Feed) {
		if size > 0 {
			f.bufferSize = size
		}
	}
}

// Feed раздает показания устройства подписчикам. Каждая подписка прореживает
// валидные сэмплы по своему профилю: сэмпл проходит если прошло не меньше
// Interval или курьер сместился не меньше чем на DistanceM. Ошибки и
// невалидные координаты проходят всегда, по ним считаются пропуски.
type Feed struct {
	mu         sync.Mutex
	subs       map[uint64]*subscriber
	nextID     uint64
	bufferSize int
	closed     bool
}

type subscriber struct {
	profile entities.TrackingProfile
	ch      chan entities.LocationUpdate
	last    *entities.LocationSample
}

func New(opts ...Option) *Feed {
	f := &Feed{
		subs:       make(map[uint64]*subscriber),
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Feed) Subscribe(profile entities.TrackingProfile) (<-chan entities.LocationUpdate, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, nil, ErrClosed
	}

	id := f.nextID
	f.nextID++
	sub := &subscriber{
		profile: profile,
		ch:      make(chan entities.LocationUpdate, f.bufferSize),
	}
	f.subs[id] = sub

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()

			if s, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(s.ch)
			}
		})
	}
	return sub.ch, unsubscribe, nil
}

// Publish не блокируется: если буфер подписчика полон, показание для него
// теряется.
func (f *Feed) Publish(update entities.LocationUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	valid := update.Err == nil && geo.ValidCoordinate(update.Sample.Latitude, update.Sample.Longitude)
	if valid {
		FeedUpdatesTotal.WithLabelValues("valid").Inc()
	} else {
		FeedUpdatesTotal.WithLabelValues("invalid").Inc()
	}

	for _, sub := range f.subs {
		if valid && !sub.due(update.Sample) {
			FeedDeliveriesTotal.WithLabelValues(sub.profile.Name, "throttled").Inc()
			continue
		}

		select {
		case sub.ch <- update:
			if valid {
				s := update.Sample
				sub.last = &s
			}
			FeedDeliveriesTotal.WithLabelValues(sub.profile.Name, "delivered").Inc()
		default:
			FeedDeliveriesTotal.WithLabelValues(sub.profile.Name, "dropped").Inc()
		}
	}
	return nil
}

// Subscribers количество активных подписок.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close закрывает все подписки. Повторный вызов ничего не делает.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for id, sub := range f.subs {
		delete(f.subs, id)
		close(sub.ch)
	}
}

func (s *subscriber) due(sample entities.LocationSample) bool {
	if s.last == nil {
		return true
	}
	if sample.CapturedAt.Sub(s.last.CapturedAt) >= s.profile.Interval {
		return true
	}
	moved := geo.DistanceMeters(s.last.Latitude, s.last.Longitude, sample.Latitude, sample.Longitude)
	return moved >= s.profile.DistanceM
}
