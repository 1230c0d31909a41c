package enum

import "strings"

// OrderOrigin is where an order was placed.
type OrderOrigin int

const (
	OrderOriginUnknown    OrderOrigin = 0
	OrderOriginRestaurant OrderOrigin = 1
	OrderOriginTakeaway   OrderOrigin = 2
	OrderOriginDelivery   OrderOrigin = 3
)

func ParseOrderOrigin(s string) OrderOrigin {
	switch strings.TrimSpace(s) {
	case "":
		return OrderOriginUnknown
	case "Restaurante":
		return OrderOriginRestaurant
	case "Llevar":
		return OrderOriginTakeaway
	}
	// any other label names a delivery platform, e.g. "Uber Eats"
	return OrderOriginDelivery
}

// IsDelivery reports whether payments are settled by a delivery platform.
func (o OrderOrigin) IsDelivery() bool {
	return o == OrderOriginDelivery
}
