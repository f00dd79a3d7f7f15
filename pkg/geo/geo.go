package geo

import "math"

// EarthRadiusMeters средний радиус Земли для формулы гаверсинуса.
const EarthRadiusMeters = 6371000.0

const degToRad = math.Pi / 180

// DistanceMeters расстояние по большому кругу между двумя точками.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	return DistanceMeters(lat1, lng1, lat2, lng2) / 1000
}

// ValidCoordinate широта и долгота конечны и лежат в допустимых пределах.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// OffsetNorth точка на meters севернее исходной по тому же меридиану.
func OffsetNorth(lat, lng, meters float64) (float64, float64) {
	return lat + meters/EarthRadiusMeters/degToRad, lng
}
