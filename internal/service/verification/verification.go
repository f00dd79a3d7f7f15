package verification

import (
	"fmt"
	"slices"
	"strings"

	"courier-engine/internal/entities"
)

const (
	DefaultMinPickupPhotos  = 1
	DefaultMinDropoffPhotos = 1
)

// DefaultPolicy: 1 фото на заборе, на вручении 1 фото без обязательного видео.
func DefaultPolicy() entities.VerificationPolicy {
	return entities.VerificationPolicy{
		MinPickupPhotos:  DefaultMinPickupPhotos,
		MinDropoffPhotos: DefaultMinDropoffPhotos,
	}
}

type Gate struct {
	policy entities.VerificationPolicy
}

func New(policy entities.VerificationPolicy) *Gate {
	return &Gate{policy: policy}
}

func (g *Gate) Policy() entities.VerificationPolicy {
	return g.policy
}

// PickupComplete состояние упаковки указано, контакт подтвержден, фото не
// меньше минимума.
func (g *Gate) PickupComplete(v entities.PickupVerification) bool {
	return len(g.MissingPickup(v)) == 0
}

// MissingPickup список незаполненных требований для ответа клиенту.
func (g *Gate) MissingPickup(v entities.PickupVerification) []string {
	var missing []string
	if v.Condition == "" {
		missing = append(missing, "package_condition")
	}
	if !v.ContactVerified {
		missing = append(missing, "contact_verified")
	}
	if len(v.Photos) < g.policy.MinPickupPhotos {
		missing = append(missing, fmt.Sprintf("photos(min %d)", g.policy.MinPickupPhotos))
	}
	return missing
}

// DropoffComplete токен подтвержден, имя получателя не пустое и выполнено
// требование по медиа: при обязательном видео нужно видео, иначе минимум фото.
func (g *Gate) DropoffComplete(v entities.DropoffVerification) bool {
	return len(g.MissingDropoff(v)) == 0
}

func (g *Gate) MissingDropoff(v entities.DropoffVerification) []string {
	var missing []string
	if !v.TokenVerified {
		missing = append(missing, "token_verified")
	}
	if strings.TrimSpace(v.RecipientName) == "" {
		missing = append(missing, "recipient_name")
	}
	if g.policy.VideoMandatory {
		if v.Video == nil {
			missing = append(missing, "video")
		}
	} else if len(v.Photos) < g.policy.MinDropoffPhotos {
		missing = append(missing, fmt.Sprintf("photos(min %d)", g.policy.MinDropoffPhotos))
	}
	return missing
}

// ValidToken формат кода вручения, сравнение с заказом делает бэкенд.
func (g *Gate) ValidToken(code string) bool {
	return isValidToken(code)
}

// ApplyPickup применяет команды к копии черновика. При ошибке черновик не
// меняется целиком.
func ApplyPickup(draft entities.PickupVerification, updates ...entities.PickupUpdate) (entities.PickupVerification, error) {
	next := draft
	next.Photos = slices.Clone(draft.Photos)

	for _, u := range updates {
		switch u := u.(type) {
		case entities.AddPickupPhoto:
			if !isValidMedia(u.Photo) {
				return draft, ErrInvalidMedia
			}
			if hasPhoto(next.Photos, u.Photo.ID) {
				return draft, fmt.Errorf("%w: %s", ErrDuplicatePhoto, u.Photo.ID)
			}
			next.Photos = append(next.Photos, u.Photo)
		case entities.RemovePickupPhoto:
			if !hasPhoto(next.Photos, u.PhotoID) {
				return draft, fmt.Errorf("%w: %s", ErrPhotoNotFound, u.PhotoID)
			}
			next.Photos = withoutPhoto(next.Photos, u.PhotoID)
		case entities.SetPackageCondition:
			if u.Condition != "" && !u.Condition.Valid() {
				return draft, fmt.Errorf("%w: %q", ErrInvalidCondition, u.Condition)
			}
			next.Condition = u.Condition
		case entities.SetContactVerified:
			next.ContactVerified = u.Verified
		case entities.SetPackageWeight:
			next.Weight = strings.TrimSpace(u.Weight)
		case entities.SetPickupNotes:
			next.Notes = u.Notes
		default:
			return draft, fmt.Errorf("%w: %T", ErrUnknownUpdate, u)
		}
	}

	return next, nil
}

func ApplyDropoff(draft entities.DropoffVerification, updates ...entities.DropoffUpdate) (entities.DropoffVerification, error) {
	next := draft
	next.Photos = slices.Clone(draft.Photos)

	for _, u := range updates {
		switch u := u.(type) {
		case entities.AddDropoffPhoto:
			if !isValidMedia(u.Photo) {
				return draft, ErrInvalidMedia
			}
			if hasPhoto(next.Photos, u.Photo.ID) {
				return draft, fmt.Errorf("%w: %s", ErrDuplicatePhoto, u.Photo.ID)
			}
			next.Photos = append(next.Photos, u.Photo)
		case entities.RemoveDropoffPhoto:
			if !hasPhoto(next.Photos, u.PhotoID) {
				return draft, fmt.Errorf("%w: %s", ErrPhotoNotFound, u.PhotoID)
			}
			next.Photos = withoutPhoto(next.Photos, u.PhotoID)
		case entities.SetRecipientName:
			next.RecipientName = u.Name
		case entities.SetDropoffVideo:
			if u.Video != nil && !isValidMedia(*u.Video) {
				return draft, ErrInvalidMedia
			}
			if u.Video != nil {
				video := *u.Video
				next.Video = &video
			} else {
				next.Video = nil
			}
		case entities.SetDropoffNotes:
			next.Notes = u.Notes
		default:
			return draft, fmt.Errorf("%w: %T", ErrUnknownUpdate, u)
		}
	}

	return next, nil
}
