package entities

import "time"

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

type LocationSample struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

func (s LocationSample) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// LocationUpdate одно показание источника. Err != nil означает пропущенное
// показание (нет сигнала, отказ провайдера).
type LocationUpdate struct {
	Sample LocationSample
	Err    error
}

type TrackingAccuracy string

const (
	AccuracyHigh     TrackingAccuracy = "high"
	AccuracyBalanced TrackingAccuracy = "balanced"
)

type TrackingProfile struct {
	Name      string
	Accuracy  TrackingAccuracy
	Interval  time.Duration
	DistanceM float64
}

var (
	ProfileNavigating = TrackingProfile{Name: "navigating", Accuracy: AccuracyHigh, Interval: 5 * time.Second, DistanceM: 10}
	ProfileEnRoute    = TrackingProfile{Name: "en_route", Accuracy: AccuracyBalanced, Interval: 30 * time.Second, DistanceM: 20}
	ProfileAtStop     = TrackingProfile{Name: "at_stop", Accuracy: AccuracyBalanced, Interval: 120 * time.Second, DistanceM: 50}
	ProfileDiscovery  = TrackingProfile{Name: "discovery", Accuracy: AccuracyBalanced, Interval: 60 * time.Second, DistanceM: 50}
)
