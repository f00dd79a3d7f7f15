package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courier-engine/internal/entities"
)

var (
	ErrFieldNotApplicable = errors.New("field is not applicable to this target")
	ErrFixUnavailable     = errors.New("location fix unavailable")
)

func FromState(state entities.DeliveryState) DeliveryState {
	res := DeliveryState{
		CourierID: state.CourierID,
		Stage:     state.Stage.String(),
		Pickup: PickupVerification{
			Photos:          fromMedia(state.Pickup.Photos),
			Condition:       string(state.Pickup.Condition),
			ContactVerified: state.Pickup.ContactVerified,
			Weight:          state.Pickup.Weight,
			Notes:           state.Pickup.Notes,
			VerifiedAt:      state.Pickup.VerifiedAt,
		},
		Dropoff: DropoffVerification{
			Photos:        fromMedia(state.Dropoff.Photos),
			TokenVerified: state.Dropoff.TokenVerified,
			RecipientName: state.Dropoff.RecipientName,
			Notes:         state.Dropoff.Notes,
			VerifiedAt:    state.Dropoff.VerifiedAt,
		},
		Geofences: Geofences{
			Pickup:  fromGeofence(state.PickupGeofence),
			Dropoff: fromGeofence(state.DropoffGeofence),
		},
		Navigation: FromNavigation(state.Navigation),
		Discovery: Discovery{
			Online:       state.Discovery.Online,
			ScanRadiusKm: state.Discovery.ScanRadiusKm,
		},
		SOSActive: state.SOSActive,
		UpdatedAt: state.UpdatedAt,
	}

	if state.Order != nil {
		order := fromOrder(*state.Order)
		res.Order = &order
	}
	if state.Dropoff.Video != nil {
		video := fromMediaRef(*state.Dropoff.Video)
		res.Dropoff.Video = &video
	}
	if state.LastLocation != nil {
		location := FromLocation(*state.LastLocation)
		res.LastLocation = &location
	}
	return res
}

func FromNavigation(nav entities.NavigationState) Navigation {
	return Navigation{
		Active:        nav.Active,
		Target:        nav.Target.String(),
		DistanceKm:    nav.DistanceKm,
		EtaMinutes:    nav.EtaMinutes,
		LastUpdatedAt: nav.LastUpdatedAt,
	}
}

func FromLocation(s entities.LocationSample) Location {
	return Location{
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		Accuracy:   s.Accuracy,
		CapturedAt: s.CapturedAt,
	}
}

func FromOffers(offers []entities.OrderOffer) OffersResponse {
	res := OffersResponse{Offers: make([]OrderOffer, 0, len(offers))}
	for _, o := range offers {
		res.Offers = append(res.Offers, OrderOffer{
			OrderID:    o.OrderID,
			Reference:  o.Reference,
			Pickup:     fromStop(o.Pickup),
			Dropoff:    fromStop(o.Dropoff),
			DistanceKm: o.DistanceKm,
		})
	}
	return res
}

func FromTransitions(transitions []entities.StageTransition) TransitionsResponse {
	res := TransitionsResponse{Transitions: make([]StageTransition, 0, len(transitions))}
	for _, t := range transitions {
		res.Transitions = append(res.Transitions, StageTransition{
			OrderID:    t.OrderID,
			From:       t.From.String(),
			To:         t.To.String(),
			OccurredAt: t.OccurredAt,
		})
	}
	return res
}

func FromHistory(samples []entities.LocationSample) LocationHistoryResponse {
	res := LocationHistoryResponse{Samples: make([]Location, 0, len(samples))}
	for _, s := range samples {
		res.Samples = append(res.Samples, FromLocation(s))
	}
	return res
}

// PickupUpdates порядок команд фиксирован: удаление фото, добавление, поля.
func (p VerificationPatch) PickupUpdates() ([]entities.PickupUpdate, error) {
	if p.RecipientName != nil || p.Video != nil || p.ClearVideo {
		return nil, ErrFieldNotApplicable
	}

	var updates []entities.PickupUpdate
	for _, id := range p.RemovePhotoIDs {
		updates = append(updates, entities.RemovePickupPhoto{PhotoID: id})
	}
	for _, m := range p.AddPhotos {
		updates = append(updates, entities.AddPickupPhoto{Photo: m.toEntity()})
	}
	if p.Condition != nil {
		updates = append(updates, entities.SetPackageCondition{
			Condition: entities.PackageCondition(strings.ToLower(strings.TrimSpace(*p.Condition))),
		})
	}
	if p.ContactVerified != nil {
		updates = append(updates, entities.SetContactVerified{Verified: *p.ContactVerified})
	}
	if p.Weight != nil {
		updates = append(updates, entities.SetPackageWeight{Weight: *p.Weight})
	}
	if p.Notes != nil {
		updates = append(updates, entities.SetPickupNotes{Notes: *p.Notes})
	}
	return updates, nil
}

func (p VerificationPatch) DropoffUpdates() ([]entities.DropoffUpdate, error) {
	if p.Condition != nil || p.ContactVerified != nil || p.Weight != nil {
		return nil, ErrFieldNotApplicable
	}

	var updates []entities.DropoffUpdate
	for _, id := range p.RemovePhotoIDs {
		updates = append(updates, entities.RemoveDropoffPhoto{PhotoID: id})
	}
	for _, m := range p.AddPhotos {
		updates = append(updates, entities.AddDropoffPhoto{Photo: m.toEntity()})
	}
	if p.RecipientName != nil {
		updates = append(updates, entities.SetRecipientName{Name: *p.RecipientName})
	}
	switch {
	case p.Video != nil:
		video := p.Video.toEntity()
		updates = append(updates, entities.SetDropoffVideo{Video: &video})
	case p.ClearVideo:
		updates = append(updates, entities.SetDropoffVideo{Video: nil})
	}
	if p.Notes != nil {
		updates = append(updates, entities.SetDropoffNotes{Notes: *p.Notes})
	}
	return updates, nil
}

// ToUpdate фикс без captured_at получает время приема.
func (r LocationRequest) ToUpdate(now time.Time) entities.LocationUpdate {
	if r.Error != "" {
		return entities.LocationUpdate{Err: fmt.Errorf("%w: %s", ErrFixUnavailable, r.Error)}
	}
	if r.Latitude == nil || r.Longitude == nil {
		return entities.LocationUpdate{Err: fmt.Errorf("%w: coordinates missing", ErrFixUnavailable)}
	}

	capturedAt := now
	if r.CapturedAt != nil {
		capturedAt = *r.CapturedAt
	}
	return entities.LocationUpdate{
		Sample: entities.LocationSample{
			Latitude:   *r.Latitude,
			Longitude:  *r.Longitude,
			Accuracy:   r.Accuracy,
			CapturedAt: capturedAt.UTC(),
		},
	}
}

func (m Media) toEntity() entities.MediaRef {
	return entities.MediaRef{ID: m.ID, URI: m.URI, CapturedAt: m.CapturedAt}
}

func fromMedia(refs []entities.MediaRef) []Media {
	res := make([]Media, 0, len(refs))
	for _, r := range refs {
		res = append(res, fromMediaRef(r))
	}
	return res
}

func fromMediaRef(r entities.MediaRef) Media {
	return Media{ID: r.ID, URI: r.URI, CapturedAt: r.CapturedAt}
}

func fromGeofence(g entities.GeofenceState) Geofence {
	return Geofence{Inside: g.Inside, Warned25: g.Warned25, Warned15: g.Warned15, Warned10: g.Warned10}
}

func fromStop(s entities.Stop) Stop {
	return Stop{
		Address: s.Address,
		Coordinate: Coordinate{
			Latitude:  s.Coordinate.Latitude,
			Longitude: s.Coordinate.Longitude,
		},
		Contact: Contact{Name: s.Contact.Name, Phone: s.Contact.Phone},
	}
}

func fromOrder(o entities.Order) Order {
	return Order{
		ID:        o.ID,
		Reference: o.Reference,
		Pickup:    fromStop(o.Pickup),
		Dropoff:   fromStop(o.Dropoff),
		Package: Package{
			Category: o.Package.Category.String(),
			WeightKg: o.Package.WeightKg,
			Fragile:  o.Package.Fragile,
		},
	}
}
