package offline

import "courier-engine/internal/entities"

func ToDomain(a *OfflineActionDB) *entities.OfflineAction {
	if a == nil {
		return nil
	}
	return &entities.OfflineAction{
		ID:            a.ID,
		Kind:          entities.OfflineActionKind(a.Kind),
		Payload:       a.Payload,
		EnqueuedAt:    a.EnqueuedAt,
		RetryCount:    a.RetryCount,
		NextAttemptAt: a.NextAttemptAt,
	}
}

func FromDomain(a *entities.OfflineAction) *OfflineActionDB {
	if a == nil {
		return nil
	}
	return &OfflineActionDB{
		ID:            a.ID,
		Kind:          a.Kind.String(),
		Payload:       a.Payload,
		EnqueuedAt:    a.EnqueuedAt,
		RetryCount:    a.RetryCount,
		NextAttemptAt: a.NextAttemptAt,
	}
}

func ToDomainList(actions []OfflineActionDB) []entities.OfflineAction {
	result := make([]entities.OfflineAction, 0, len(actions))
	for i := range actions {
		result = append(result, *ToDomain(&actions[i]))
	}
	return result
}
