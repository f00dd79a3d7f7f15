package state

import (
	"context"
	"errors"
	"fmt"

	"courier-engine/internal/entities"
	"courier-engine/internal/service/delivery"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
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

func (r *Repository) Load(ctx context.Context, courierID string) (*entities.DeliveryState, error) {
	query := `SELECT courier_id, order_id, stage, snapshot, updated_at
		FROM delivery_state
		WHERE courier_id = $1`

	var stateDB DeliveryStateDB
	err := r.querier.QueryRow(ctx, query, courierID).
		Scan(
			&stateDB.CourierID,
			&stateDB.OrderID,
			&stateDB.Stage,
			&stateDB.Snapshot,
			&stateDB.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrStateNotFound
		}
		return nil, fmt.Errorf("unexpected state repository load error: %w", err)
	}

	state, err := ToDomain(&stateDB)
	if err != nil {
		return nil, fmt.Errorf("unexpected state repository load error: %w", err)
	}

	return state, nil
}

// Save upsert снимка, одна строка на курьера.
func (r *Repository) Save(ctx context.Context, state entities.DeliveryState) error {
	stateDB, err := FromDomain(&state)
	if err != nil {
		return fmt.Errorf("unexpected state repository save error: %w", err)
	}

	query, args, err := qb.
		Insert("delivery_state").
		Columns("courier_id", "order_id", "stage", "snapshot", "updated_at").
		Values(stateDB.CourierID, stateDB.OrderID, stateDB.Stage, stateDB.Snapshot, stateDB.UpdatedAt).
		Suffix(`ON CONFLICT (courier_id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			stage = EXCLUDED.stage,
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected state repository save error: %w", err)
	}

	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("unexpected state repository save error: %w", err)
	}

	return nil
}

func (r *Repository) AppendTransition(ctx context.Context, transition entities.StageTransition) error {
	transitionDB := FromDomainTransition(transition)

	query, args, err := qb.
		Insert("delivery_transitions").
		Columns("courier_id", "order_id", "from_stage", "to_stage", "occurred_at").
		Values(
			transitionDB.CourierID,
			transitionDB.OrderID,
			transitionDB.FromStage,
			transitionDB.ToStage,
			transitionDB.OccurredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected state repository append transition error: %w", err)
	}

	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("unexpected state repository append transition error: %w", err)
	}

	return nil
}

func (r *Repository) Transitions(ctx context.Context, courierID string, limit uint64) ([]entities.StageTransition, error) {
	query, args, err := qb.
		Select("courier_id", "order_id", "from_stage", "to_stage", "occurred_at").
		From("delivery_transitions").
		Where(sq.Eq{"courier_id": courierID}).
		OrderBy("occurred_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected state repository transitions error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected state repository transitions error: %w", err)
	}
	defer rows.Close()

	transitions := make([]entities.StageTransition, 0, limit)
	for rows.Next() {
		var t StageTransitionDB
		if err := rows.Scan(&t.CourierID, &t.OrderID, &t.FromStage, &t.ToStage, &t.OccurredAt); err != nil {
			return nil, fmt.Errorf("unexpected state repository transitions error: %w", err)
		}
		transitions = append(transitions, ToDomainTransition(t))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected state repository transitions error: %w", err)
	}

	return transitions, nil
}
