package tracker

import (
	"fmt"
	"sync"
	"sync/atomic"

	"courier-engine/internal/entities"
	"courier-engine/pkg/geo"
	"courier-engine/pkg/logger"
)

const (
	// WarnAfterFailures подряд идущих пропусков до предупреждения.
	WarnAfterFailures = 3
	// LostAfterFailures подряд идущих пропусков до сообщения о потере локации.
	LostAfterFailures = 5

	queueSize = 64
)

type Escalation int

const (
	EscalationNone Escalation = iota
	EscalationWarn
	EscalationLost
)

func (e Escalation) String() string {
	switch e {
	case EscalationWarn:
		return "warn"
	case EscalationLost:
		return "lost"
	default:
		return "none"
	}
}

// Reading нормализованное показание. Valid=false означает пропуск, тогда
// FailureCount содержит длину текущей серии пропусков.
type Reading struct {
	Sample       entities.LocationSample
	Valid        bool
	Err          error
	FailureCount int
	Escalation   Escalation
}

type Handler func(Reading)

type queued struct {
	gen    uint64
	update entities.LocationUpdate
}

// Tracker держит одну подписку на Source и доставляет показания обработчику
// строго в порядке поступления из одной горутины.
type Tracker struct {
	source Source
	log    handlerLogger

	mu          sync.Mutex
	started     bool
	closed      bool
	profile     *entities.TrackingProfile
	unsubscribe func()
	gen         uint64
	stopForward chan struct{}
	forwardDone chan struct{}

	queue    chan queued
	done     chan struct{}
	wg       sync.WaitGroup
	failures atomic.Int64
}

func New(source Source, log handlerLogger) *Tracker {
	return &Tracker{
		source: source,
		log:    log.With(logger.NewField("component", "tracker")),
		queue:  make(chan queued, queueSize),
		done:   make(chan struct{}),
	}
}

// Start запускает диспетчер. Подписки до Start не создаются.
func (t *Tracker) Start(handler Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true

	t.wg.Add(1)
	go t.dispatch(handler)
	return nil
}

// Track переподписывается только если профиль изменился.
func (t *Tracker) Track(profile entities.TrackingProfile) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if !t.started {
		return ErrNotStarted
	}
	if t.profile != nil && *t.profile == profile {
		return nil
	}

	t.unsubscribeLocked()

	updates, unsubscribe, err := t.source.Subscribe(profile)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", profile.Name, err)
	}

	stop := make(chan struct{})
	finished := make(chan struct{})
	prev := t.forwardDone

	t.profile = &profile
	t.unsubscribe = unsubscribe
	t.stopForward = stop
	t.forwardDone = finished

	t.wg.Add(1)
	go t.forward(t.gen, updates, stop, prev, finished)

	t.log.Info("tracking profile changed",
		logger.NewField("profile", profile.Name),
		logger.NewField("interval", profile.Interval.String()),
		logger.NewField("distance_m", profile.DistanceM),
	)
	return nil
}

// Stop снимает подписку и отбрасывает показания, еще не отданные обработчику.
// Повторный вызов ничего не делает.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.unsubscribeLocked()
	t.gen++
}

// Close снимает подписку и дожидается остановки диспетчера. Показания,
// оставшиеся в очереди, отбрасываются.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.unsubscribeLocked()
	close(t.done)
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Tracker) Profile() (entities.TrackingProfile, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.profile == nil {
		return entities.TrackingProfile{}, false
	}
	return *t.profile, true
}

func (t *Tracker) FailureCount() int {
	return int(t.failures.Load())
}

// unsubscribeLocked при смене профиля показания старой подписки, уже
// полученные от источника, доходят до обработчика раньше показаний новой.
func (t *Tracker) unsubscribeLocked() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
	if t.stopForward != nil {
		close(t.stopForward)
	}
	t.unsubscribe = nil
	t.stopForward = nil
	t.profile = nil
}

func (t *Tracker) currentGen() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

func (t *Tracker) forward(gen uint64, updates <-chan entities.LocationUpdate, stop, prev, finished chan struct{}) {
	defer t.wg.Done()
	defer close(finished)

	if prev != nil {
		select {
		case <-prev:
		case <-t.done:
			return
		}
	}

	for {
		select {
		case <-t.done:
			return
		case <-stop:
			t.drain(gen, updates)
			return
		case u, ok := <-updates:
			if !ok || !t.enqueue(gen, u) {
				return
			}
		}
	}
}

// drain досылает то, что источник успел отдать до отписки.
func (t *Tracker) drain(gen uint64, updates <-chan entities.LocationUpdate) {
	for {
		select {
		case u, ok := <-updates:
			if !ok || !t.enqueue(gen, u) {
				return
			}
		default:
			return
		}
	}
}

func (t *Tracker) enqueue(gen uint64, u entities.LocationUpdate) bool {
	select {
	case t.queue <- queued{gen: gen, update: u}:
		return true
	case <-t.done:
		return false
	}
}

func (t *Tracker) dispatch(handler Handler) {
	defer t.wg.Done()

	for {
		select {
		case <-t.done:
			return
		case q := <-t.queue:
			if q.gen != t.currentGen() {
				continue
			}
			handler(t.normalize(q.update))
		}
	}
}

func (t *Tracker) normalize(u entities.LocationUpdate) Reading {
	err := u.Err
	if err == nil && !geo.ValidCoordinate(u.Sample.Latitude, u.Sample.Longitude) {
		err = fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidSample, u.Sample.Latitude, u.Sample.Longitude)
	}

	if err == nil {
		if prev := t.failures.Swap(0); prev > 0 {
			t.log.Info("location recovered", logger.NewField("failures", prev))
		}
		return Reading{Sample: u.Sample, Valid: true}
	}

	count := int(t.failures.Add(1))
	escalation := EscalationNone
	switch count {
	case WarnAfterFailures:
		escalation = EscalationWarn
	case LostAfterFailures:
		escalation = EscalationLost
	}

	t.log.Debug("invalid location reading",
		logger.NewField("error", err),
		logger.NewField("failures", count),
	)

	return Reading{
		Sample:       u.Sample,
		Err:          err,
		FailureCount: count,
		Escalation:   escalation,
	}
}
