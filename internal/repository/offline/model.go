package offline

import (
	"time"

	"github.com/google/uuid"
)

type OfflineActionDB struct {
	ID            uuid.UUID
	Kind          string
	Payload       []byte
	EnqueuedAt    time.Time
	RetryCount    int
	NextAttemptAt time.Time
}
