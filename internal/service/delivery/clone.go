package delivery

import (
	"time"

	"courier-engine/internal/entities"
)

// cloneState глубокая копия, наружу состояние отдается только копией.
func cloneState(s entities.DeliveryState) entities.DeliveryState {
	out := s

	if s.Order != nil {
		order := *s.Order
		out.Order = &order
	}
	if s.LastLocation != nil {
		location := *s.LastLocation
		out.LastLocation = &location
	}

	out.Pickup.Photos = cloneMedia(s.Pickup.Photos)
	out.Pickup.VerifiedAt = cloneTime(s.Pickup.VerifiedAt)

	out.Dropoff.Photos = cloneMedia(s.Dropoff.Photos)
	out.Dropoff.VerifiedAt = cloneTime(s.Dropoff.VerifiedAt)
	if s.Dropoff.Video != nil {
		video := *s.Dropoff.Video
		out.Dropoff.Video = &video
	}

	if s.Navigation.DistanceKm != nil {
		distance := *s.Navigation.DistanceKm
		out.Navigation.DistanceKm = &distance
	}
	if s.Navigation.EtaMinutes != nil {
		eta := *s.Navigation.EtaMinutes
		out.Navigation.EtaMinutes = &eta
	}
	out.Navigation.LastUpdatedAt = cloneTime(s.Navigation.LastUpdatedAt)

	return out
}

func cloneMedia(media []entities.MediaRef) []entities.MediaRef {
	if media == nil {
		return nil
	}
	out := make([]entities.MediaRef, len(media))
	copy(out, media)
	return out
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
