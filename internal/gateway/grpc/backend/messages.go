//go:generate go run github.com/yoheimuta/protolint/cmd/protolint lint ../../../../api/proto
package backend

import "time"

// Сообщения повторяют api/proto/courier/delivery/v1/delivery_backend.proto,
// json-теги совпадают с именами полей proto.
const servicePath = "/courier.delivery.v1.DeliveryBackend/"

type location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

type stop struct {
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ContactName  string  `json:"contact_name"`
	ContactPhone string  `json:"contact_phone"`
}

type packageInfo struct {
	Category string  `json:"category"`
	WeightKg float64 `json:"weight_kg"`
	Fragile  bool    `json:"fragile"`
}

type order struct {
	ID            string      `json:"id"`
	Reference     string      `json:"reference"`
	Pickup        stop        `json:"pickup"`
	Dropoff       stop        `json:"dropoff"`
	Package       packageInfo `json:"package"`
	DeliveryToken string      `json:"delivery_token"`
}

type media struct {
	ID         string    `json:"id"`
	URI        string    `json:"uri"`
	CapturedAt time.Time `json:"captured_at"`
}

// baseResponse есть в каждом ответе, success=false значит отказ бэкенда.
type baseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (r *baseResponse) result() *baseResponse {
	return r
}

type response interface {
	result() *baseResponse
}

type acceptOrderRequest struct {
	CourierID string   `json:"courier_id"`
	OrderID   string   `json:"order_id"`
	Location  location `json:"location"`
}

type acceptOrderResponse struct {
	baseResponse
	Order *order `json:"order,omitempty"`
}

type updateStageRequest struct {
	CourierID string    `json:"courier_id"`
	OrderID   string    `json:"order_id"`
	Stage     string    `json:"stage"`
	Location  *location `json:"location,omitempty"`
}

type confirmPickupRequest struct {
	CourierID       string     `json:"courier_id"`
	OrderID         string     `json:"order_id"`
	Photos          []media    `json:"photos"`
	Condition       string     `json:"condition"`
	ContactVerified bool       `json:"contact_verified"`
	Weight          string     `json:"weight,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	Location        *location  `json:"location,omitempty"`
}

type completeDeliveryRequest struct {
	CourierID     string     `json:"courier_id"`
	OrderID       string     `json:"order_id"`
	Photos        []media    `json:"photos"`
	Token         string     `json:"token"`
	RecipientName string     `json:"recipient_name"`
	Video         *media     `json:"video,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	Location      *location  `json:"location,omitempty"`
}

type cancelDeliveryRequest struct {
	CourierID   string    `json:"courier_id"`
	OrderID     string    `json:"order_id"`
	Reason      string    `json:"reason"`
	Description string    `json:"description,omitempty"`
	Stage       string    `json:"stage"`
	Location    *location `json:"location,omitempty"`
}

type verifyTokenRequest struct {
	CourierID string `json:"courier_id"`
	OrderID   string `json:"order_id"`
	Token     string `json:"token"`
}

type syncLocationRequest struct {
	CourierID string   `json:"courier_id"`
	OrderID   string   `json:"order_id"`
	Stage     string   `json:"stage"`
	Location  location `json:"location"`
}

type locationLossRequest struct {
	CourierID    string    `json:"courier_id"`
	OrderID      string    `json:"order_id"`
	FailureCount int       `json:"failure_count"`
	LastLocation *location `json:"last_location,omitempty"`
}

type geofenceEventRequest struct {
	CourierID  string  `json:"courier_id"`
	OrderID    string  `json:"order_id"`
	Target     string  `json:"target"`
	Kind       string  `json:"kind"`
	ThresholdM int     `json:"threshold_m,omitempty"`
	DistanceM  float64 `json:"distance_m"`
}

type reportIssueRequest struct {
	CourierID   string    `json:"courier_id"`
	OrderID     string    `json:"order_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Location    *location `json:"location,omitempty"`
}

type sosRequest struct {
	CourierID string    `json:"courier_id"`
	OrderID   string    `json:"order_id,omitempty"`
	Location  *location `json:"location,omitempty"`
}

type nearbyOrdersRequest struct {
	CourierID string  `json:"courier_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
}

type nearbyOrder struct {
	OrderID    string  `json:"order_id"`
	Reference  string  `json:"reference"`
	Pickup     stop    `json:"pickup"`
	Dropoff    stop    `json:"dropoff"`
	DistanceKm float64 `json:"distance_km"`
}

type nearbyOrdersResponse struct {
	baseResponse
	Orders []nearbyOrder `json:"orders"`
}
