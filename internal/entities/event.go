package entities

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryEventType string

const (
	EventStageChanged     DeliveryEventType = "stage_changed"
	EventGeofence         DeliveryEventType = "geofence"
	EventNavigation       DeliveryEventType = "navigation"
	EventLocationDegraded DeliveryEventType = "location_degraded"
	EventLocationLost     DeliveryEventType = "location_lost"
	EventOffersUpdated    DeliveryEventType = "offers_updated"
	EventSOS              DeliveryEventType = "sos"
)

// DeliveryEvent уведомление для UI и внешних потребителей.
type DeliveryEvent struct {
	ID           uuid.UUID         `json:"id"`
	Type         DeliveryEventType `json:"type"`
	CourierID    string            `json:"courier_id"`
	OrderID      string            `json:"order_id,omitempty"`
	Stage        DeliveryStage     `json:"stage"`
	PrevStage    DeliveryStage     `json:"prev_stage,omitempty"`
	Geofence     *GeofenceEvent    `json:"geofence,omitempty"`
	Navigation   *NavigationState  `json:"navigation,omitempty"`
	FailureCount int               `json:"failure_count,omitempty"`
	SOSActive    *bool             `json:"sos_active,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
}
