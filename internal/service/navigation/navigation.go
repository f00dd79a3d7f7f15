package navigation

import (
	"math"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/pkg/geo"
)

const (
	// SpeedKmh средняя скорость курьера для оценки ETA по прямой.
	SpeedKmh = 40.0

	minDistanceKm = 0.1
	minEtaMinutes = 1.0
)

// Estimate расстояние и время в пути по прямой, оба значения ограничены
// снизу, чтобы на коротких дистанциях не показывать ноль.
func Estimate(rawDistanceKm float64) (distanceKm float64, etaMinutes int) {
	distanceKm = math.Max(minDistanceKm, rawDistanceKm)
	etaMinutes = int(math.Ceil(math.Max(minEtaMinutes, rawDistanceKm/SpeedKmh*60)))
	return distanceKm, etaMinutes
}

// Start активное состояние навигации, посчитанное сразу по текущему сэмплу.
func Start(target entities.Target, point entities.Coordinate, current entities.LocationSample, now time.Time) entities.NavigationState {
	return Update(entities.NavigationState{Active: true, Target: target}, point, current, now)
}

// Update пересчитывает активную навигацию по новому сэмплу. Неактивное
// состояние возвращается как есть.
func Update(state entities.NavigationState, point entities.Coordinate, current entities.LocationSample, now time.Time) entities.NavigationState {
	if !state.Active {
		return state
	}

	raw := geo.DistanceKm(current.Latitude, current.Longitude, point.Latitude, point.Longitude)
	distanceKm, etaMinutes := Estimate(raw)

	return entities.NavigationState{
		Active:        true,
		Target:        state.Target,
		DistanceKm:    &distanceKm,
		EtaMinutes:    &etaMinutes,
		LastUpdatedAt: &now,
	}
}

func Stop() entities.NavigationState {
	return entities.NavigationState{}
}
