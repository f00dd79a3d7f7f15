package state

import "time"

// DeliveryStateDB строка delivery_state, само состояние лежит в snapshot (JSONB).
type DeliveryStateDB struct {
	CourierID string
	OrderID   *string
	Stage     string
	Snapshot  []byte
	UpdatedAt time.Time
}

type StageTransitionDB struct {
	CourierID  string
	OrderID    string
	FromStage  string
	ToStage    string
	OccurredAt time.Time
}

// документ snapshot, json теги фиксируют формат хранения независимо от entities

type snapshotDoc struct {
	Order           *orderDoc     `json:"order,omitempty"`
	Stage           string        `json:"stage"`
	Pickup          pickupDoc     `json:"pickup"`
	Dropoff         dropoffDoc    `json:"dropoff"`
	PickupGeofence  geofenceDoc   `json:"pickup_geofence"`
	DropoffGeofence geofenceDoc   `json:"dropoff_geofence"`
	LastLocation    *locationDoc  `json:"last_location,omitempty"`
	Navigation      navigationDoc `json:"navigation"`
	Discovery       discoveryDoc  `json:"discovery"`
	SOSActive       bool          `json:"sos_active"`
}

type orderDoc struct {
	ID            string     `json:"id"`
	Reference     string     `json:"reference"`
	Pickup        stopDoc    `json:"pickup"`
	Dropoff       stopDoc    `json:"dropoff"`
	Package       packageDoc `json:"package"`
	DeliveryToken string     `json:"delivery_token"`
}

type stopDoc struct {
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ContactName  string  `json:"contact_name"`
	ContactPhone string  `json:"contact_phone"`
}

type packageDoc struct {
	Category string  `json:"category"`
	WeightKg float64 `json:"weight_kg"`
	Fragile  bool    `json:"fragile"`
}

type mediaDoc struct {
	ID         string    `json:"id"`
	URI        string    `json:"uri"`
	CapturedAt time.Time `json:"captured_at"`
}

type pickupDoc struct {
	Photos          []mediaDoc `json:"photos,omitempty"`
	Condition       string     `json:"condition,omitempty"`
	ContactVerified bool       `json:"contact_verified"`
	Weight          string     `json:"weight,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}

type dropoffDoc struct {
	Photos        []mediaDoc `json:"photos,omitempty"`
	TokenVerified bool       `json:"token_verified"`
	Token         string     `json:"token,omitempty"`
	RecipientName string     `json:"recipient_name,omitempty"`
	Video         *mediaDoc  `json:"video,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
}

type geofenceDoc struct {
	Inside   bool `json:"inside"`
	Warned25 bool `json:"warned_25"`
	Warned15 bool `json:"warned_15"`
	Warned10 bool `json:"warned_10"`
}

type locationDoc struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

type navigationDoc struct {
	Active        bool       `json:"active"`
	Target        string     `json:"target,omitempty"`
	DistanceKm    *float64   `json:"distance_km,omitempty"`
	EtaMinutes    *int       `json:"eta_minutes,omitempty"`
	LastUpdatedAt *time.Time `json:"last_updated_at,omitempty"`
}

type discoveryDoc struct {
	Online       bool    `json:"online"`
	ScanRadiusKm float64 `json:"scan_radius_km"`
}
