package enums

import "fmt"

// Availability describes whether a supermarket currently stocks a product.
type Availability string

const (
	AvailabilityAvailable  Availability = "AVAILABLE"
	AvailabilityOutOfStock Availability = "OUT_OF_STOCK"
)

var validAvailabilities = []Availability{
	AvailabilityAvailable,
	AvailabilityOutOfStock,
}

// String implements fmt.Stringer.
func (a Availability) String() string {
	return string(a)
}

// IsAvailable reports whether the product can actually be bought.
func (a Availability) IsAvailable() bool {
	return a == AvailabilityAvailable
}

// IsValid reports whether the value is a known Availability.
func (a Availability) IsValid() bool {
	for _, candidate := range validAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAvailability converts raw input into an Availability. Missing or
// unknown states collapse to out-of-stock, matching how upstream feeds
// report gaps.
func ParseAvailability(value string) (Availability, error) {
	if value == "" {
		return AvailabilityOutOfStock, nil
	}
	for _, candidate := range validAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability %q", value)
}
