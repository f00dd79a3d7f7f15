package verification

import (
	"strings"
	"unicode/utf8"

	"courier-engine/internal/entities"
)

// TokenLength длина кода вручения.
const TokenLength = 6

func isValidToken(code string) bool {
	return utf8.RuneCountInString(code) == TokenLength && strings.TrimSpace(code) == code
}

func isValidMedia(ref entities.MediaRef) bool {
	return strings.TrimSpace(ref.ID) != ""
}

func hasPhoto(photos []entities.MediaRef, id string) bool {
	for _, p := range photos {
		if p.ID == id {
			return true
		}
	}
	return false
}

// withoutPhoto возвращает nil вместо пустого среза, как после загрузки снимка.
func withoutPhoto(photos []entities.MediaRef, id string) []entities.MediaRef {
	var out []entities.MediaRef
	for _, p := range photos {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
