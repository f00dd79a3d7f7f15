package offline

import (
	"context"
	"fmt"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/internal/repository"
	"courier-engine/internal/service/offline"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, action entities.OfflineAction) error {
	actionDB := FromDomain(&action)

	query := `INSERT INTO offline_actions (id, kind, payload, enqueued_at, retry_count, next_attempt_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.querier.Exec(
		ctx,
		query,
		actionDB.ID,
		actionDB.Kind,
		actionDB.Payload,
		actionDB.EnqueuedAt,
		actionDB.RetryCount,
		actionDB.NextAttemptAt,
	)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return offline.ErrDuplicateAction
		}
		return fmt.Errorf("unexpected offline repository create error: %w", err)
	}

	return nil
}

// ListDue действия с наступившим сроком, старые первыми.
func (r *Repository) ListDue(ctx context.Context, now time.Time, limit int) ([]entities.OfflineAction, error) {
	query, args, err := qb.
		Select("id", "kind", "payload", "enqueued_at", "retry_count", "next_attempt_at").
		From("offline_actions").
		Where(sq.LtOrEq{"next_attempt_at": now}).
		OrderBy("next_attempt_at ASC", "enqueued_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected offline repository list due error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected offline repository list due error: %w", err)
	}
	defer rows.Close()

	actionModels := make([]OfflineActionDB, 0, limit)
	for rows.Next() {
		var actionModel OfflineActionDB
		err := rows.Scan(
			&actionModel.ID,
			&actionModel.Kind,
			&actionModel.Payload,
			&actionModel.EnqueuedAt,
			&actionModel.RetryCount,
			&actionModel.NextAttemptAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected offline repository list due error: %w", err)
		}
		actionModels = append(actionModels, actionModel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected offline repository list due error: %w", err)
	}

	return ToDomainList(actionModels), nil
}

func (r *Repository) UpdateRetry(ctx context.Context, id uuid.UUID, retryCount int, nextAttemptAt time.Time) error {
	query, args, err := qb.
		Update("offline_actions").
		Set("retry_count", retryCount).
		Set("next_attempt_at", nextAttemptAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected offline repository update retry error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected offline repository update retry error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return offline.ErrActionNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM offline_actions WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("unexpected offline repository delete error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return offline.ErrActionNotFound
	}

	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM offline_actions`

	var count int
	if err := r.querier.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("unexpected offline repository count error: %w", err)
	}

	return count, nil
}
