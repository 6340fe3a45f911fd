package enums

import "fmt"

// Certification represents the quality tag carried by an offer.
type Certification string

const (
	CertificationOrganic      Certification = "organic"
	CertificationTransitional Certification = "transitional"
	CertificationConventional Certification = "conventional"
)

var validCertifications = []Certification{
	CertificationOrganic,
	CertificationTransitional,
	CertificationConventional,
}

// String implements fmt.Stringer.
func (c Certification) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Certification.
func (c Certification) IsValid() bool {
	for _, candidate := range validCertifications {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCertification converts raw input into a Certification.
func ParseCertification(value string) (Certification, error) {
	for _, candidate := range validCertifications {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid certification %q", value)
}
