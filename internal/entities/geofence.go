package entities

type GeofenceState struct {
	Inside   bool
	Warned25 bool
	Warned15 bool
	Warned10 bool
}

type GeofenceEventKind string

const (
	GeofenceEntered   GeofenceEventKind = "entered"
	GeofenceExited    GeofenceEventKind = "exited"
	GeofenceProximity GeofenceEventKind = "proximity"
)

type GeofenceEvent struct {
	Target     Target            `json:"target"`
	Kind       GeofenceEventKind `json:"kind"`
	ThresholdM int               `json:"threshold_m,omitempty"`
	DistanceM  float64           `json:"distance_m"`
}

// Edge вход или выход из геозоны, только они уходят в бэкенд.
func (e GeofenceEvent) Edge() bool {
	return e.Kind == GeofenceEntered || e.Kind == GeofenceExited
}
