package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OfflineActionKind string

const (
	ActionSyncLocation OfflineActionKind = "sync_location"
	ActionLocationLoss OfflineActionKind = "location_loss"
	ActionReportIssue  OfflineActionKind = "report_issue"
)

func (k OfflineActionKind) String() string {
	return string(k)
}

type OfflineAction struct {
	ID            uuid.UUID
	Kind          OfflineActionKind
	Payload       json.RawMessage
	EnqueuedAt    time.Time
	RetryCount    int
	NextAttemptAt time.Time
}

type SyncLocationPayload struct {
	OrderID  string         `json:"order_id"`
	Location LocationSample `json:"location"`
	Stage    DeliveryStage  `json:"stage"`
}

type LocationLossPayload struct {
	OrderID      string          `json:"order_id"`
	Location     *LocationSample `json:"location,omitempty"`
	FailureCount int             `json:"failure_count"`
}

type ReportIssuePayload struct {
	OrderID  string          `json:"order_id"`
	Issue    Issue           `json:"issue"`
	Location *LocationSample `json:"location,omitempty"`
}
