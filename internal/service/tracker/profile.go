package tracker

import "courier-engine/internal/entities"

// SelectProfile частота сэмплов по режиму навигации и стадии доставки.
func SelectProfile(isNavigating bool, stage entities.DeliveryStage) entities.TrackingProfile {
	if isNavigating {
		return entities.ProfileNavigating
	}

	switch stage {
	case entities.StageAccepted, entities.StagePickedUp:
		return entities.ProfileEnRoute
	case entities.StageArrivedPickup, entities.StageArrivedDropoff:
		return entities.ProfileAtStop
	default:
		return entities.ProfileDiscovery
	}
}
