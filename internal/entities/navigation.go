package entities

import "time"

// NavigationState при Active=false все указатели nil, Target пустой.
type NavigationState struct {
	Active        bool       `json:"active"`
	Target        Target     `json:"target,omitempty"`
	DistanceKm    *float64   `json:"distance_km"`
	EtaMinutes    *int       `json:"eta_minutes"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
}
