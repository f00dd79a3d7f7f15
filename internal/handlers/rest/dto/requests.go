package dto

import (
	"encoding/json"
	"errors"
	"io"
	"time"
)

type AcceptRequest struct {
	OrderID string `json:"order_id"`
}

type TokenRequest struct {
	Code string `json:"code"`
}

type CancelRequest struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

type NavigationRequest struct {
	Target string `json:"target"`
}

type IssueRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

type SOSRequest struct {
	Active *bool `json:"active"`
}

type DiscoveryRequest struct {
	Online       *bool    `json:"online"`
	ScanRadiusKm *float64 `json:"scan_radius_km"`
}

// LocationRequest фикс устройства. Непустой Error означает пропущенное
// показание, координаты при этом игнорируются.
type LocationRequest struct {
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	Accuracy   float64    `json:"accuracy"`
	CapturedAt *time.Time `json:"captured_at"`
	Error      string     `json:"error,omitempty"`
}

// VerificationPatch изменения черновика подтверждения. Поля recipient_name,
// video и clear_video допустимы только для вручения, condition,
// contact_verified и weight только для забора.
type VerificationPatch struct {
	AddPhotos       []Media  `json:"add_photos,omitempty"`
	RemovePhotoIDs  []string `json:"remove_photo_ids,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	Condition       *string  `json:"condition,omitempty"`
	ContactVerified *bool    `json:"contact_verified,omitempty"`
	Weight          *string  `json:"weight,omitempty"`
	RecipientName   *string  `json:"recipient_name,omitempty"`
	Video           *Media   `json:"video,omitempty"`
	ClearVideo      bool     `json:"clear_video,omitempty"`
}

// DecodeOptional пустое тело не ошибка, v остается нулевым.
func DecodeOptional(body io.Reader, v any) error {
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
