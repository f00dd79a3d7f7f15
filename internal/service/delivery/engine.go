package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/internal/service/tracker"
	"courier-engine/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultCompletionDelay    = 3 * time.Second
	DefaultCancelResetDelay   = 2 * time.Second
	DefaultNavigationDebounce = 800 * time.Millisecond
	DefaultHistorySize        = 50
	DefaultScanRadiusKm       = 5.0

	eventBufferSize = 256
	asyncTimeout    = 10 * time.Second
)

type Config struct {
	CourierID          string
	CompletionDelay    time.Duration
	CancelResetDelay   time.Duration
	NavigationDebounce time.Duration
	HistorySize        int
	ScanRadiusKm       float64
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine машина состояний доставки одного курьера.
//
// Все мутации идут под одним mutex, действие держит его на время вызова
// бэкенда, поэтому переход всегда происходит после ответа RPC. Фоновые
// вызовы бэкенда и публикация событий выполняются вне блокировки.
type Engine struct {
	backend    Backend
	repository Repository
	txManager  TxManager
	tracker    Tracker
	queue      OfflineQueue
	publisher  Publisher
	gate       Gate
	log        handlerLogger
	cfg        Config
	now        func() time.Time

	mu                  sync.Mutex
	state               entities.DeliveryState
	history             []entities.LocationSample
	offers              []entities.OrderOffer
	lastNavigationStart time.Time
	delayed             *time.Timer
	restored            bool
	started             bool
	closed              bool

	events chan entities.DeliveryEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

func New(
	cfg Config,
	backend Backend,
	repository Repository,
	txManager TxManager,
	tracker Tracker,
	queue OfflineQueue,
	publisher Publisher,
	gate Gate,
	log handlerLogger,
	opts ...Option,
) *Engine {
	if cfg.CompletionDelay <= 0 {
		cfg.CompletionDelay = DefaultCompletionDelay
	}
	if cfg.CancelResetDelay <= 0 {
		cfg.CancelResetDelay = DefaultCancelResetDelay
	}
	if cfg.NavigationDebounce <= 0 {
		cfg.NavigationDebounce = DefaultNavigationDebounce
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if cfg.ScanRadiusKm <= 0 {
		cfg.ScanRadiusKm = DefaultScanRadiusKm
	}

	e := &Engine{
		backend:    backend,
		repository: repository,
		txManager:  txManager,
		tracker:    tracker,
		queue:      queue,
		publisher:  publisher,
		gate:       gate,
		log:        log.With(logger.NewField("component", "delivery-engine"), logger.NewField("courier_id", cfg.CourierID)),
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
		events:     make(chan entities.DeliveryEvent, eventBufferSize),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.state = e.defaultState()
	return e
}

// Restore поднимает сохраненное состояние. Вызывается один раз до Start,
// повторный вызов ничего не делает.
func (e *Engine) Restore(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	if e.restored {
		return nil
	}

	saved, err := e.repository.Load(ctx, e.cfg.CourierID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			e.restored = true
			e.log.Info("no saved delivery state, starting in discovery")
			return nil
		}
		return fmt.Errorf("load delivery state: %w", err)
	}

	if !saved.Stage.Valid() || (saved.Stage.OnDelivery() && saved.Order == nil) {
		e.restored = true
		e.log.Warn("saved delivery state is inconsistent, ignoring it",
			logger.NewField("stage", saved.Stage.String()),
		)
		return nil
	}

	saved.CourierID = e.cfg.CourierID
	if saved.Discovery.ScanRadiusKm <= 0 {
		saved.Discovery.ScanRadiusKm = e.cfg.ScanRadiusKm
	}
	e.state = *saved
	e.restored = true

	fields := []logger.Field{logger.NewField("stage", saved.Stage.String())}
	if saved.Order != nil {
		fields = append(fields, logger.NewField("order_id", saved.Order.ID))
	}
	e.log.Info("delivery state restored", fields...)
	return nil
}

// Start включает слежение за локацией с частотой текущей стадии и
// возобновляет отложенные переходы восстановленного состояния.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.started {
		return ErrAlreadyStarted
	}

	if err := e.tracker.Start(e.HandleLocation); err != nil {
		return fmt.Errorf("start tracker: %w", err)
	}
	e.started = true

	e.wg.Add(1)
	go e.publishLoop()

	e.retrackLocked()

	switch e.state.Stage {
	case entities.StageDelivered:
		e.scheduleLocked(e.cfg.CompletionDelay, e.completeAfterDelay)
	case entities.StageCompleted, entities.StageCancelled:
		e.scheduleLocked(e.cfg.CancelResetDelay, e.finalizeAfterDelay)
	}

	e.log.Info("delivery engine started", logger.NewField("stage", e.state.Stage.String()))
	return nil
}

// Close останавливает таймеры и слежение, дожидается фоновых вызовов.
// Повторный вызов ничего не делает.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.stopDelayedLocked()
	close(e.done)
	e.mu.Unlock()

	// без блокировки: диспетчер трекера может ждать ее в HandleLocation
	e.tracker.Close()
	e.wg.Wait()

	e.log.Info("delivery engine stopped")
}

func (e *Engine) Snapshot() entities.DeliveryState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return cloneState(e.state)
}

func (e *Engine) History() []entities.LocationSample {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]entities.LocationSample, len(e.history))
	copy(history, e.history)
	return history
}

func (e *Engine) Offers() []entities.OrderOffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	offers := make([]entities.OrderOffer, len(e.offers))
	copy(offers, e.offers)
	return offers
}

// Profile текущий профиль слежения, false если подписки нет.
func (e *Engine) Profile() (entities.TrackingProfile, bool) {
	return e.tracker.Profile()
}

func (e *Engine) Transitions(ctx context.Context, limit uint64) ([]entities.StageTransition, error) {
	transitions, err := e.repository.Transitions(ctx, e.cfg.CourierID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	return transitions, nil
}

func (e *Engine) defaultState() entities.DeliveryState {
	return entities.DeliveryState{
		CourierID: e.cfg.CourierID,
		Stage:     entities.StageDiscovering,
		Discovery: entities.DiscoverySettings{ScanRadiusKm: e.cfg.ScanRadiusKm},
		UpdatedAt: e.now(),
	}
}

// commitLocked фиксирует новое состояние: память, БД, частота слежения и
// событие смены стадии.
func (e *Engine) commitLocked(ctx context.Context, next entities.DeliveryState) {
	prev := e.state
	next.UpdatedAt = e.now()
	e.state = next

	var transition *entities.StageTransition
	if prev.Stage != next.Stage {
		transition = &entities.StageTransition{
			CourierID:  e.cfg.CourierID,
			OrderID:    orderIDOf(prev, next),
			From:       prev.Stage,
			To:         next.Stage,
			OccurredAt: next.UpdatedAt,
		}
	}

	e.persistLocked(ctx, transition)

	if transition == nil {
		return
	}

	StageTransitionsTotal.WithLabelValues(prev.Stage.String(), next.Stage.String()).Inc()
	e.log.Info("delivery stage changed",
		logger.NewField("from", prev.Stage.String()),
		logger.NewField("to", next.Stage.String()),
		logger.NewField("order_id", transition.OrderID),
	)

	e.retrackLocked()

	event := e.newEventLocked(entities.EventStageChanged)
	event.OrderID = transition.OrderID
	event.PrevStage = prev.Stage
	e.emitLocked(event)
}

// persistLocked ошибка сохранения не отменяет уже подтвержденный бэкендом
// переход, она логируется, следующая фиксация перезапишет снимок.
func (e *Engine) persistLocked(ctx context.Context, transition *entities.StageTransition) {
	snapshot := cloneState(e.state)

	err := e.txManager.Do(ctx, func(ctx context.Context) error {
		if err := e.repository.Save(ctx, snapshot); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		if transition != nil {
			if err := e.repository.AppendTransition(ctx, *transition); err != nil {
				return fmt.Errorf("append transition: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		StatePersistErrorsTotal.Inc()
		e.log.Error("failed to persist delivery state",
			logger.NewField("error", err),
			logger.NewField("stage", snapshot.Stage.String()),
		)
	}
}

// retrackLocked выбирает профиль слежения; в поиске заказов офлайн
// подписка снимается.
func (e *Engine) retrackLocked() {
	if !e.started || e.closed {
		return
	}

	if e.state.Stage == entities.StageDiscovering && !e.state.Discovery.Online && !e.state.Navigation.Active {
		e.tracker.Stop()
		return
	}

	profile := tracker.SelectProfile(e.state.Navigation.Active, e.state.Stage)
	if err := e.tracker.Track(profile); err != nil {
		e.log.Warn("failed to switch tracking profile",
			logger.NewField("profile", profile.Name),
			logger.NewField("error", err),
		)
	}
}

func (e *Engine) scheduleLocked(delay time.Duration, fn func()) {
	e.stopDelayedLocked()
	e.delayed = time.AfterFunc(delay, fn)
}

func (e *Engine) stopDelayedLocked() {
	if e.delayed != nil {
		e.delayed.Stop()
		e.delayed = nil
	}
}

func (e *Engine) newEventLocked(eventType entities.DeliveryEventType) entities.DeliveryEvent {
	event := entities.DeliveryEvent{
		ID:         uuid.New(),
		Type:       eventType,
		CourierID:  e.cfg.CourierID,
		Stage:      e.state.Stage,
		OccurredAt: e.now(),
	}
	if e.state.Order != nil {
		event.OrderID = e.state.Order.ID
	}
	return event
}

// emitLocked не блокирует: при переполненном буфере событие теряется.
func (e *Engine) emitLocked(event entities.DeliveryEvent) {
	if e.closed {
		return
	}

	select {
	case e.events <- event:
	default:
		DroppedEventsTotal.Inc()
		e.log.Warn("event buffer is full, event dropped",
			logger.NewField("type", string(event.Type)),
		)
	}
}

func (e *Engine) publishLoop() {
	defer e.wg.Done()

	for {
		select {
		case event := <-e.events:
			e.publish(event)
		case <-e.done:
			for {
				select {
				case event := <-e.events:
					e.publish(event)
				default:
					return
				}
			}
		}
	}
}

func (e *Engine) publish(event entities.DeliveryEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	defer cancel()

	if err := e.publisher.Publish(ctx, event); err != nil {
		e.log.Warn("failed to publish delivery event",
			logger.NewField("type", string(event.Type)),
			logger.NewField("error", err),
		)
	}
}

// goAsync фоновый вызов вне блокировки, Close дожидается его завершения.
func (e *Engine) goAsync(fn func(ctx context.Context)) {
	if e.closed {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// enqueueOffline кладет упавший вызов в офлайн очередь для повтора.
func (e *Engine) enqueueOffline(ctx context.Context, kind entities.OfflineActionKind, payload any, cause error) {
	if err := e.queue.Enqueue(ctx, kind, payload); err != nil {
		e.log.Error("failed to enqueue offline action",
			logger.NewField("kind", kind.String()),
			logger.NewField("cause", cause),
			logger.NewField("error", err),
		)
		return
	}
	e.log.Warn("backend call failed, queued for retry",
		logger.NewField("kind", kind.String()),
		logger.NewField("error", cause),
	)
}

func orderIDOf(states ...entities.DeliveryState) string {
	for _, s := range states {
		if s.Order != nil {
			return s.Order.ID
		}
	}
	return ""
}
