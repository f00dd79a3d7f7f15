package backend

import "courier-engine/internal/entities"

func fromLocation(s entities.LocationSample) location {
	return location(s)
}

func fromLocationPtr(s *entities.LocationSample) *location {
	if s == nil {
		return nil
	}
	l := fromLocation(*s)
	return &l
}

func fromMedia(m entities.MediaRef) media {
	return media(m)
}

func fromMediaList(list []entities.MediaRef) []media {
	result := make([]media, 0, len(list))
	for _, m := range list {
		result = append(result, fromMedia(m))
	}
	return result
}

func toStop(s stop) entities.Stop {
	return entities.Stop{
		Address:    s.Address,
		Coordinate: entities.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude},
		Contact:    entities.Contact{Name: s.ContactName, Phone: s.ContactPhone},
	}
}

func toOrder(o *order) *entities.Order {
	if o == nil {
		return nil
	}
	return &entities.Order{
		ID:        o.ID,
		Reference: o.Reference,
		Pickup:    toStop(o.Pickup),
		Dropoff:   toStop(o.Dropoff),
		Package: entities.Package{
			Category: entities.PackageCategory(o.Package.Category),
			WeightKg: o.Package.WeightKg,
			Fragile:  o.Package.Fragile,
		},
		DeliveryToken: o.DeliveryToken,
	}
}

func toOfferList(orders []nearbyOrder) []entities.OrderOffer {
	offers := make([]entities.OrderOffer, 0, len(orders))
	for _, o := range orders {
		offers = append(offers, entities.OrderOffer{
			OrderID:    o.OrderID,
			Reference:  o.Reference,
			Pickup:     toStop(o.Pickup),
			Dropoff:    toStop(o.Dropoff),
			DistanceKm: o.DistanceKm,
		})
	}
	return offers
}
