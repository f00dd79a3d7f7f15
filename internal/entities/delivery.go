package entities

import "time"

type DeliveryStage string

const (
	StageDiscovering    DeliveryStage = "discovering"
	StageAccepted       DeliveryStage = "accepted"
	StageArrivedPickup  DeliveryStage = "arrived_pickup"
	StagePickedUp       DeliveryStage = "picked_up"
	StageArrivedDropoff DeliveryStage = "arrived_dropoff"
	StageDelivered      DeliveryStage = "delivered"
	StageCompleted      DeliveryStage = "completed"
	StageCancelled      DeliveryStage = "cancelled"
)

func (s DeliveryStage) String() string {
	return string(s)
}

func (s DeliveryStage) Valid() bool {
	switch s {
	case StageDiscovering, StageAccepted, StageArrivedPickup, StagePickedUp,
		StageArrivedDropoff, StageDelivered, StageCompleted, StageCancelled:
		return true
	default:
		return false
	}
}

// OnDelivery true пока у курьера есть активный заказ в работе.
func (s DeliveryStage) OnDelivery() bool {
	switch s {
	case StageAccepted, StageArrivedPickup, StagePickedUp, StageArrivedDropoff:
		return true
	default:
		return false
	}
}

type Target string

const (
	TargetPickup  Target = "pickup"
	TargetDropoff Target = "dropoff"
)

func (t Target) String() string {
	return string(t)
}

func (t Target) Valid() bool {
	return t == TargetPickup || t == TargetDropoff
}

type DiscoverySettings struct {
	Online       bool
	ScanRadiusKm float64
}

// DeliveryState сохраняемое состояние агента курьера, переживает рестарт.
type DeliveryState struct {
	CourierID       string
	Order           *Order
	Stage           DeliveryStage
	Pickup          PickupVerification
	Dropoff         DropoffVerification
	PickupGeofence  GeofenceState
	DropoffGeofence GeofenceState
	LastLocation    *LocationSample
	Navigation      NavigationState
	Discovery       DiscoverySettings
	SOSActive       bool
	UpdatedAt       time.Time
}

// StageTransition запись аудита смены стадии.
type StageTransition struct {
	CourierID  string
	OrderID    string
	From       DeliveryStage
	To         DeliveryStage
	OccurredAt time.Time
}

type CancelReason string

const (
	CancelReasonCustomerUnavailable CancelReason = "customer_unavailable"
	CancelReasonPickupClosed        CancelReason = "pickup_closed"
	CancelReasonVehicleIssue        CancelReason = "vehicle_issue"
	CancelReasonOther               CancelReason = "other"
)

func (r CancelReason) Valid() bool {
	switch r {
	case CancelReasonCustomerUnavailable, CancelReasonPickupClosed, CancelReasonVehicleIssue, CancelReasonOther:
		return true
	default:
		return false
	}
}

type Issue struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}
