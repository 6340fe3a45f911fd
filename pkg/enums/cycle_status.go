package enums

import "fmt"

// CycleStatus tracks the lifecycle of a sales cycle.
type CycleStatus string

const (
	CycleStatusDraft  CycleStatus = "draft"
	CycleStatusOpen   CycleStatus = "open"
	CycleStatusClosed CycleStatus = "closed"
)

var validCycleStatuses = []CycleStatus{
	CycleStatusDraft,
	CycleStatusOpen,
	CycleStatusClosed,
}

// String implements fmt.Stringer.
func (s CycleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CycleStatus.
func (s CycleStatus) IsValid() bool {
	for _, candidate := range validCycleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCycleStatus converts raw input into a CycleStatus.
func ParseCycleStatus(value string) (CycleStatus, error) {
	for _, candidate := range validCycleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cycle status %q", value)
}
