package entities

import "time"

// MediaRef ссылка на уже загруженное фото/видео, сам файл движок не хранит.
type MediaRef struct {
	ID         string
	URI        string
	CapturedAt time.Time
}

type PackageCondition string

const (
	ConditionGood     PackageCondition = "good"
	ConditionDamaged  PackageCondition = "damaged"
	ConditionTampered PackageCondition = "tampered"
)

func (c PackageCondition) Valid() bool {
	return c == ConditionGood || c == ConditionDamaged || c == ConditionTampered
}

type PickupVerification struct {
	Photos          []MediaRef
	Condition       PackageCondition // пустая строка - не указано
	ContactVerified bool
	Weight          string
	Notes           string
	VerifiedAt      *time.Time
}

type DropoffVerification struct {
	Photos        []MediaRef
	TokenVerified bool
	Token         string
	RecipientName string
	Video         *MediaRef
	Notes         string
	VerifiedAt    *time.Time
}

type VerificationPolicy struct {
	MinPickupPhotos  int
	MinDropoffPhotos int
	VideoMandatory   bool
}

// PickupUpdate команда изменения черновика подтверждения забора.
type PickupUpdate interface {
	isPickupUpdate()
}

type (
	AddPickupPhoto      struct{ Photo MediaRef }
	RemovePickupPhoto   struct{ PhotoID string }
	SetPackageCondition struct{ Condition PackageCondition }
	SetContactVerified  struct{ Verified bool }
	SetPackageWeight    struct{ Weight string }
	SetPickupNotes      struct{ Notes string }
)

func (AddPickupPhoto) isPickupUpdate()      {}
func (RemovePickupPhoto) isPickupUpdate()   {}
func (SetPackageCondition) isPickupUpdate() {}
func (SetContactVerified) isPickupUpdate()  {}
func (SetPackageWeight) isPickupUpdate()    {}
func (SetPickupNotes) isPickupUpdate()      {}

// DropoffUpdate команда изменения черновика подтверждения вручения.
// Флаг проверки токена через нее не меняется, только через VerifyToken.
type DropoffUpdate interface {
	isDropoffUpdate()
}

type (
	AddDropoffPhoto    struct{ Photo MediaRef }
	RemoveDropoffPhoto struct{ PhotoID string }
	SetRecipientName   struct{ Name string }
	SetDropoffVideo    struct{ Video *MediaRef }
	SetDropoffNotes    struct{ Notes string }
)

func (AddDropoffPhoto) isDropoffUpdate()    {}
func (RemoveDropoffPhoto) isDropoffUpdate() {}
func (SetRecipientName) isDropoffUpdate()   {}
func (SetDropoffVideo) isDropoffUpdate()    {}
func (SetDropoffNotes) isDropoffUpdate()    {}
