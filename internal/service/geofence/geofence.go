package geofence

import (
	"courier-engine/internal/entities"
	"courier-engine/pkg/geo"
)

// RadiusMeters радиус геозоны точки забора/вручения.
const RadiusMeters = 500.0

const (
	threshold25 = 25
	threshold15 = 15
	threshold10 = 10
)

// Evaluate применяет новое расстояние до цели к состоянию геозоны.
//
// Вход и выход срабатывают только на фронте: inside меняется на том сэмпле,
// где расстояние впервые пересекло радиус. Любой фронт сбрасывает флаги
// предупреждений. Из порогов 25/15/10 м за сэмпл срабатывает только самый
// узкий из пересеченных и еще не сработавших, более широкие при этом
// считаются отработанными.
func Evaluate(state entities.GeofenceState, target entities.Target, distanceM float64) (entities.GeofenceState, []entities.GeofenceEvent) {
	var events []entities.GeofenceEvent

	inside := distanceM <= RadiusMeters
	switch {
	case inside && !state.Inside:
		state = entities.GeofenceState{Inside: true}
		events = append(events, entities.GeofenceEvent{
			Target:    target,
			Kind:      entities.GeofenceEntered,
			DistanceM: distanceM,
		})
	case !inside && state.Inside:
		state = entities.GeofenceState{}
		events = append(events, entities.GeofenceEvent{
			Target:    target,
			Kind:      entities.GeofenceExited,
			DistanceM: distanceM,
		})
	}

	threshold := 0
	switch {
	case distanceM <= threshold10 && !state.Warned10:
		threshold = threshold10
		state.Warned10, state.Warned15, state.Warned25 = true, true, true
	case distanceM <= threshold15 && !state.Warned15:
		threshold = threshold15
		state.Warned15, state.Warned25 = true, true
	case distanceM <= threshold25 && !state.Warned25:
		threshold = threshold25
		state.Warned25 = true
	}
	if threshold > 0 {
		events = append(events, entities.GeofenceEvent{
			Target:     target,
			Kind:       entities.GeofenceProximity,
			ThresholdM: threshold,
			DistanceM:  distanceM,
		})
	}

	return state, events
}

// EvaluateSample считает расстояние от сэмпла до точки и вызывает Evaluate.
func EvaluateSample(
	state entities.GeofenceState,
	target entities.Target,
	sample entities.LocationSample,
	point entities.Coordinate,
) (entities.GeofenceState, []entities.GeofenceEvent) {
	distance := geo.DistanceMeters(sample.Latitude, sample.Longitude, point.Latitude, point.Longitude)
	return Evaluate(state, target, distance)
}

// ApplicableTarget цель, геозона которой имеет смысл на стадии: pickup только
// в Accepted, dropoff только в PickedUp.
func ApplicableTarget(stage entities.DeliveryStage) (entities.Target, bool) {
	switch stage {
	case entities.StageAccepted:
		return entities.TargetPickup, true
	case entities.StagePickedUp:
		return entities.TargetDropoff, true
	default:
		return "", false
	}
}
