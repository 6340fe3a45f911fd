package enums

import "fmt"

// OfferUnit defines the unit of measure an offer is priced in.
type OfferUnit string

const (
	OfferUnitKilogram OfferUnit = "kg"
	OfferUnitGram     OfferUnit = "g"
	OfferUnitLiter    OfferUnit = "l"
	OfferUnitUnit     OfferUnit = "unit"
	OfferUnitBundle   OfferUnit = "bundle"
	OfferUnitBox      OfferUnit = "box"
	OfferUnitDozen    OfferUnit = "dozen"
)

var validOfferUnits = []OfferUnit{
	OfferUnitKilogram,
	OfferUnitGram,
	OfferUnitLiter,
	OfferUnitUnit,
	OfferUnitBundle,
	OfferUnitBox,
	OfferUnitDozen,
}

// String implements fmt.Stringer.
func (u OfferUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known OfferUnit.
func (u OfferUnit) IsValid() bool {
	for _, candidate := range validOfferUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseOfferUnit converts raw input into an OfferUnit.
func ParseOfferUnit(value string) (OfferUnit, error) {
	for _, candidate := range validOfferUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer unit %q", value)
}
