package state

import (
	"encoding/json"
	"fmt"

	"courier-engine/internal/entities"
)

func FromDomain(s *entities.DeliveryState) (*DeliveryStateDB, error) {
	if s == nil {
		return nil, nil
	}

	snapshot, err := json.Marshal(toSnapshotDoc(s))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	stateDB := &DeliveryStateDB{
		CourierID: s.CourierID,
		Stage:     s.Stage.String(),
		Snapshot:  snapshot,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Order != nil {
		orderID := s.Order.ID
		stateDB.OrderID = &orderID
	}

	return stateDB, nil
}

func ToDomain(s *DeliveryStateDB) (*entities.DeliveryState, error) {
	if s == nil {
		return nil, nil
	}

	var doc snapshotDoc
	if err := json.Unmarshal(s.Snapshot, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	state := fromSnapshotDoc(doc)
	state.CourierID = s.CourierID
	state.Stage = entities.DeliveryStage(s.Stage)
	state.UpdatedAt = s.UpdatedAt
	return &state, nil
}

func FromDomainTransition(t entities.StageTransition) StageTransitionDB {
	return StageTransitionDB{
		CourierID:  t.CourierID,
		OrderID:    t.OrderID,
		FromStage:  t.From.String(),
		ToStage:    t.To.String(),
		OccurredAt: t.OccurredAt,
	}
}

func toSnapshotDoc(s *entities.DeliveryState) snapshotDoc {
	doc := snapshotDoc{
		Stage: s.Stage.String(),
		Pickup: pickupDoc{
			Photos:          toMediaDocs(s.Pickup.Photos),
			Condition:       string(s.Pickup.Condition),
			ContactVerified: s.Pickup.ContactVerified,
			Weight:          s.Pickup.Weight,
			Notes:           s.Pickup.Notes,
			VerifiedAt:      s.Pickup.VerifiedAt,
		},
		Dropoff: dropoffDoc{
			Photos:        toMediaDocs(s.Dropoff.Photos),
			TokenVerified: s.Dropoff.TokenVerified,
			Token:         s.Dropoff.Token,
			RecipientName: s.Dropoff.RecipientName,
			Notes:         s.Dropoff.Notes,
			VerifiedAt:    s.Dropoff.VerifiedAt,
		},
		PickupGeofence:  geofenceDoc(s.PickupGeofence),
		DropoffGeofence: geofenceDoc(s.DropoffGeofence),
		Navigation: navigationDoc{
			Active:        s.Navigation.Active,
			Target:        s.Navigation.Target.String(),
			DistanceKm:    s.Navigation.DistanceKm,
			EtaMinutes:    s.Navigation.EtaMinutes,
			LastUpdatedAt: s.Navigation.LastUpdatedAt,
		},
		Discovery: discoveryDoc(s.Discovery),
		SOSActive: s.SOSActive,
	}

	if s.Dropoff.Video != nil {
		video := mediaDoc(*s.Dropoff.Video)
		doc.Dropoff.Video = &video
	}
	if s.LastLocation != nil {
		location := locationDoc(*s.LastLocation)
		doc.LastLocation = &location
	}
	if s.Order != nil {
		doc.Order = &orderDoc{
			ID:        s.Order.ID,
			Reference: s.Order.Reference,
			Pickup:    toStopDoc(s.Order.Pickup),
			Dropoff:   toStopDoc(s.Order.Dropoff),
			Package: packageDoc{
				Category: s.Order.Package.Category.String(),
				WeightKg: s.Order.Package.WeightKg,
				Fragile:  s.Order.Package.Fragile,
			},
			DeliveryToken: s.Order.DeliveryToken,
		}
	}

	return doc
}

func fromSnapshotDoc(doc snapshotDoc) entities.DeliveryState {
	state := entities.DeliveryState{
		Pickup: entities.PickupVerification{
			Photos:          fromMediaDocs(doc.Pickup.Photos),
			Condition:       entities.PackageCondition(doc.Pickup.Condition),
			ContactVerified: doc.Pickup.ContactVerified,
			Weight:          doc.Pickup.Weight,
			Notes:           doc.Pickup.Notes,
			VerifiedAt:      doc.Pickup.VerifiedAt,
		},
		Dropoff: entities.DropoffVerification{
			Photos:        fromMediaDocs(doc.Dropoff.Photos),
			TokenVerified: doc.Dropoff.TokenVerified,
			Token:         doc.Dropoff.Token,
			RecipientName: doc.Dropoff.RecipientName,
			Notes:         doc.Dropoff.Notes,
			VerifiedAt:    doc.Dropoff.VerifiedAt,
		},
		PickupGeofence:  entities.GeofenceState(doc.PickupGeofence),
		DropoffGeofence: entities.GeofenceState(doc.DropoffGeofence),
		Navigation: entities.NavigationState{
			Active:        doc.Navigation.Active,
			Target:        entities.Target(doc.Navigation.Target),
			DistanceKm:    doc.Navigation.DistanceKm,
			EtaMinutes:    doc.Navigation.EtaMinutes,
			LastUpdatedAt: doc.Navigation.LastUpdatedAt,
		},
		Discovery: entities.DiscoverySettings(doc.Discovery),
		SOSActive: doc.SOSActive,
	}

	if doc.Dropoff.Video != nil {
		video := entities.MediaRef(*doc.Dropoff.Video)
		state.Dropoff.Video = &video
	}
	if doc.LastLocation != nil {
		location := entities.LocationSample(*doc.LastLocation)
		state.LastLocation = &location
	}
	if doc.Order != nil {
		state.Order = &entities.Order{
			ID:        doc.Order.ID,
			Reference: doc.Order.Reference,
			Pickup:    fromStopDoc(doc.Order.Pickup),
			Dropoff:   fromStopDoc(doc.Order.Dropoff),
			Package: entities.Package{
				Category: entities.PackageCategory(doc.Order.Package.Category),
				WeightKg: doc.Order.Package.WeightKg,
				Fragile:  doc.Order.Package.Fragile,
			},
			DeliveryToken: doc.Order.DeliveryToken,
		}
	}

	return state
}

func toStopDoc(s entities.Stop) stopDoc {
	return stopDoc{
		Address:      s.Address,
		Latitude:     s.Coordinate.Latitude,
		Longitude:    s.Coordinate.Longitude,
		ContactName:  s.Contact.Name,
		ContactPhone: s.Contact.Phone,
	}
}

func fromStopDoc(s stopDoc) entities.Stop {
	return entities.Stop{
		Address:    s.Address,
		Coordinate: entities.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude},
		Contact:    entities.Contact{Name: s.ContactName, Phone: s.ContactPhone},
	}
}

func toMediaDocs(media []entities.MediaRef) []mediaDoc {
	if len(media) == 0 {
		return nil
	}
	docs := make([]mediaDoc, 0, len(media))
	for _, m := range media {
		docs = append(docs, mediaDoc(m))
	}
	return docs
}

func fromMediaDocs(docs []mediaDoc) []entities.MediaRef {
	if len(docs) == 0 {
		return nil
	}
	media := make([]entities.MediaRef, 0, len(docs))
	for _, d := range docs {
		media = append(media, entities.MediaRef(d))
	}
	return media
}

func ToDomainTransition(t StageTransitionDB) entities.StageTransition {
	return entities.StageTransition{
		CourierID:  t.CourierID,
		OrderID:    t.OrderID,
		From:       entities.DeliveryStage(t.FromStage),
		To:         entities.DeliveryStage(t.ToStage),
		OccurredAt: t.OccurredAt,
	}
}
