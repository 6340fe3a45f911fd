package enums

import "fmt"

// CompositionKind identifies which allocation flow produced a composition.
type CompositionKind string

const (
	CompositionKindBasket     CompositionKind = "basket"
	CompositionKindLot        CompositionKind = "lot"
	CompositionKindDirectSale CompositionKind = "direct_sale"
)

var validCompositionKinds = []CompositionKind{
	CompositionKindBasket,
	CompositionKindLot,
	CompositionKindDirectSale,
}

// String implements fmt.Stringer.
func (k CompositionKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CompositionKind.
func (k CompositionKind) IsValid() bool {
	for _, candidate := range validCompositionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCompositionKind converts raw input into a CompositionKind.
func ParseCompositionKind(value string) (CompositionKind, error) {
	for _, candidate := range validCompositionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid composition kind %q", value)
}
