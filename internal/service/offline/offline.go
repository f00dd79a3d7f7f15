package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultMaxRetries = 20
	DefaultBatchSize  = 100
)

type Config struct {
	// после MaxRetries неудачных повторов действие удаляется с ошибкой в лог
	MaxRetries int
	BatchSize  int
}

type DrainResult struct {
	Replayed     int
	Retried      int
	DeadLettered int
}

// Queue персистентная очередь fire-and-forget вызовов бэкенда, упавших без
// связи. Повторы идут по экспоненциальному расписанию Scheduler.
type Queue struct {
	repository Repository
	backend    Backend
	scheduler  Scheduler
	log        handlerLogger
	cfg        Config
	now        func() time.Time
}

func New(repository Repository, backend Backend, scheduler Scheduler, log handlerLogger, cfg Config) *Queue {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	return &Queue{
		repository: repository,
		backend:    backend,
		scheduler:  scheduler,
		log:        log.With(logger.NewField("component", "offline-queue")),
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue сохраняет действие с RetryCount=0, доступное для повтора сразу.
func (q *Queue) Enqueue(ctx context.Context, kind entities.OfflineActionKind, payload any) error {
	if !isKnownKind(kind) {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	now := q.now()
	action := entities.OfflineAction{
		ID:            uuid.New(),
		Kind:          kind,
		Payload:       raw,
		EnqueuedAt:    now,
		NextAttemptAt: now,
	}

	if err := q.repository.Create(ctx, action); err != nil {
		return fmt.Errorf("create offline action: %w", err)
	}

	OfflineActionsTotal.WithLabelValues(kind.String(), "enqueued").Inc()
	q.log.Info("offline action enqueued",
		logger.NewField("id", action.ID.String()),
		logger.NewField("kind", kind.String()),
	)
	return nil
}

// Drain один проход по действиям, срок которых наступил. Успех удаляет
// действие, ошибка увеличивает RetryCount и переносит следующую попытку.
func (q *Queue) Drain(ctx context.Context) (DrainResult, error) {
	var result DrainResult

	actions, err := q.repository.ListDue(ctx, q.now(), q.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("list due offline actions: %w", err)
	}

	for _, action := range actions {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		actionLog := q.log.With(
			logger.NewField("id", action.ID.String()),
			logger.NewField("kind", action.Kind.String()),
			logger.NewField("retry_count", action.RetryCount),
		)

		replayErr := q.replay(ctx, action)
		switch {
		case replayErr == nil:
			if err := q.repository.Delete(ctx, action.ID); err != nil {
				return result, fmt.Errorf("delete replayed action %s: %w", action.ID, err)
			}
			result.Replayed++
			OfflineActionsTotal.WithLabelValues(action.Kind.String(), "replayed").Inc()
			actionLog.Debug("offline action replayed")

		case errors.Is(replayErr, ErrUnknownKind),
			errors.Is(replayErr, ErrInvalidPayload),
			action.RetryCount+1 > q.cfg.MaxRetries:
			if err := q.repository.Delete(ctx, action.ID); err != nil {
				return result, fmt.Errorf("delete dead action %s: %w", action.ID, err)
			}
			result.DeadLettered++
			OfflineActionsTotal.WithLabelValues(action.Kind.String(), "dead_lettered").Inc()
			actionLog.Error("offline action dead-lettered",
				logger.NewField("error", replayErr),
				logger.NewField("payload", string(action.Payload)),
			)

		default:
			retryCount := action.RetryCount + 1
			next := q.now().Add(q.scheduler.Delay(action.RetryCount))
			if err := q.repository.UpdateRetry(ctx, action.ID, retryCount, next); err != nil {
				return result, fmt.Errorf("reschedule action %s: %w", action.ID, err)
			}
			result.Retried++
			OfflineActionsTotal.WithLabelValues(action.Kind.String(), "retried").Inc()
			actionLog.Warn("offline action replay failed",
				logger.NewField("error", replayErr),
				logger.NewField("next_attempt_at", next),
			)
		}
	}

	if depth, err := q.repository.Count(ctx); err == nil {
		OfflineQueueDepth.Set(float64(depth))
	}

	return result, nil
}

func (q *Queue) Depth(ctx context.Context) (int, error) {
	return q.repository.Count(ctx)
}

func (q *Queue) replay(ctx context.Context, action entities.OfflineAction) error {
	switch action.Kind {
	case entities.ActionSyncLocation:
		var p entities.SyncLocationPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return q.backend.SyncLocation(ctx, p.OrderID, p.Location, p.Stage)

	case entities.ActionLocationLoss:
		var p entities.LocationLossPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return q.backend.NotifyLocationLoss(ctx, p.OrderID, p.Location, p.FailureCount)

	case entities.ActionReportIssue:
		var p entities.ReportIssuePayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return q.backend.ReportIssue(ctx, p.OrderID, p.Issue, p.Location)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, action.Kind)
	}
}

func isKnownKind(kind entities.OfflineActionKind) bool {
	switch kind {
	case entities.ActionSyncLocation, entities.ActionLocationLoss, entities.ActionReportIssue:
		return true
	default:
		return false
	}
}
