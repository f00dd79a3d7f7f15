package entities

type Order struct {
	ID            string
	Reference     string
	Pickup        Stop
	Dropoff       Stop
	Package       Package
	DeliveryToken string
}

type Stop struct {
	Address    string
	Coordinate Coordinate
	Contact    Contact
}

type Contact struct {
	Name  string
	Phone string
}

type PackageCategory string

const (
	PackageDocuments PackageCategory = "documents"
	PackageFood      PackageCategory = "food"
	PackageParcel    PackageCategory = "parcel"
	PackageFragile   PackageCategory = "fragile"
)

func (c PackageCategory) String() string {
	return string(c)
}

type Package struct {
	Category PackageCategory
	WeightKg float64
	Fragile  bool
}

// Stop возвращает точку по цели навигации/геозоны.
func (o *Order) Stop(target Target) (Stop, bool) {
	switch target {
	case TargetPickup:
		return o.Pickup, true
	case TargetDropoff:
		return o.Dropoff, true
	default:
		return Stop{}, false
	}
}

// OrderOffer заказ доступный курьеру в режиме поиска.
type OrderOffer struct {
	OrderID    string
	Reference  string
	Pickup     Stop
	Dropoff    Stop
	DistanceKm float64
}
