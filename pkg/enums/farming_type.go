package enums

import "fmt"

// FarmingType classifies the supplier's production model.
type FarmingType string

const (
	FarmingTypeFamily    FarmingType = "family"
	FarmingTypeNonFamily FarmingType = "non_family"
)

var validFarmingTypes = []FarmingType{
	FarmingTypeFamily,
	FarmingTypeNonFamily,
}

// String implements fmt.Stringer.
func (f FarmingType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FarmingType.
func (f FarmingType) IsValid() bool {
	for _, candidate := range validFarmingTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFarmingType converts raw input into a FarmingType.
func ParseFarmingType(value string) (FarmingType, error) {
	for _, candidate := range validFarmingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid farming type %q", value)
}
