// Package dto описывает JSON тела REST API агента курьера.
package dto

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PingResponse struct {
	Message   *string `json:"message,omitempty"`
	CourierID string  `json:"courier_id"`
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Stop struct {
	Address    string     `json:"address"`
	Coordinate Coordinate `json:"coordinate"`
	Contact    Contact    `json:"contact"`
}

type Package struct {
	Category string  `json:"category"`
	WeightKg float64 `json:"weight_kg"`
	Fragile  bool    `json:"fragile"`
}

// Order токен вручения наружу не отдается.
type Order struct {
	ID        string  `json:"id"`
	Reference string  `json:"reference"`
	Pickup    Stop    `json:"pickup"`
	Dropoff   Stop    `json:"dropoff"`
	Package   Package `json:"package"`
}

type Media struct {
	ID         string    `json:"id"`
	URI        string    `json:"uri"`
	CapturedAt time.Time `json:"captured_at"`
}

type PickupVerification struct {
	Photos          []Media    `json:"photos"`
	Condition       string     `json:"condition,omitempty"`
	ContactVerified bool       `json:"contact_verified"`
	Weight          string     `json:"weight,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Complete        *bool      `json:"complete,omitempty"`
	Missing         []string   `json:"missing,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}

type DropoffVerification struct {
	Photos        []Media    `json:"photos"`
	TokenVerified bool       `json:"token_verified"`
	RecipientName string     `json:"recipient_name,omitempty"`
	Video         *Media     `json:"video,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Complete      *bool      `json:"complete,omitempty"`
	Missing       []string   `json:"missing,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
}

type Geofence struct {
	Inside   bool `json:"inside"`
	Warned25 bool `json:"warned_25m"`
	Warned15 bool `json:"warned_15m"`
	Warned10 bool `json:"warned_10m"`
}

type Geofences struct {
	Pickup  Geofence `json:"pickup"`
	Dropoff Geofence `json:"dropoff"`
}

type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

type Navigation struct {
	Active        bool       `json:"active"`
	Target        string     `json:"target,omitempty"`
	DistanceKm    *float64   `json:"distance_km"`
	EtaMinutes    *int       `json:"eta_minutes"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
}

type Discovery struct {
	Online       bool    `json:"online"`
	ScanRadiusKm float64 `json:"scan_radius_km"`
}

type DeliveryState struct {
	CourierID       string              `json:"courier_id"`
	Stage           string              `json:"stage"`
	Order           *Order              `json:"order"`
	Pickup          PickupVerification  `json:"pickup_verification"`
	Dropoff         DropoffVerification `json:"dropoff_verification"`
	Geofences       Geofences           `json:"geofences"`
	LastLocation    *Location           `json:"last_location"`
	Navigation      Navigation          `json:"navigation"`
	Discovery       Discovery           `json:"discovery"`
	SOSActive       bool                `json:"sos_active"`
	TrackingProfile string              `json:"tracking_profile,omitempty"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type OrderOffer struct {
	OrderID    string  `json:"order_id"`
	Reference  string  `json:"reference"`
	Pickup     Stop    `json:"pickup"`
	Dropoff    Stop    `json:"dropoff"`
	DistanceKm float64 `json:"distance_km"`
}

type OffersResponse struct {
	Offers []OrderOffer `json:"offers"`
}

type StageTransition struct {
	OrderID    string    `json:"order_id,omitempty"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TransitionsResponse struct {
	Transitions []StageTransition `json:"transitions"`
}

type LocationHistoryResponse struct {
	Samples []Location `json:"samples"`
}

type IssueResponse struct {
	Queued bool `json:"queued"`
}
