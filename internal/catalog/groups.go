package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
)

// Group is one base product and its offer variants, in catalog order.
type Group struct {
	BaseProduct string
	Offers      []models.Offer
}

// Facets are the tag filters applied on top of the free-text search. An empty
// set means the facet is inactive and passes everything through.
type Facets struct {
	Certifications []enums.Certification
	FarmingTypes   []enums.FarmingType
}

// GroupAndSort groups the flat catalog by base product and sorts the groups
// by name. Offers keep their relative catalog order inside each group. The
// input slice is not mutated.
//
// Portuguese product names carry accents; a byte-wise sort would misplace
// them, so groups are ordered with a locale collator. The collator keeps
// internal buffers, hence one per call.
func GroupAndSort(offers []models.Offer) []Group {
	collator := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	byProduct := make(map[string]int)
	var groups []Group
	for _, offer := range offers {
		idx, ok := byProduct[offer.BaseProduct]
		if !ok {
			idx = len(groups)
			byProduct[offer.BaseProduct] = idx
			groups = append(groups, Group{BaseProduct: offer.BaseProduct})
		}
		groups[idx].Offers = append(groups[idx].Offers, offer)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return collator.CompareString(groups[i].BaseProduct, groups[j].BaseProduct) < 0
	})
	return groups
}

// Filter narrows groups by a free-text term and facet tag sets. A group
// survives when at least one of its offers matches the term AND every active
// facet. Group order is preserved; surviving groups keep all their offers so
// the caller can still show the full variant list. Never mutates the input.
func Filter(groups []Group, term string, facets Facets) []Group {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" && len(facets.Certifications) == 0 && len(facets.FarmingTypes) == 0 {
		return groups
	}

	out := make([]Group, 0, len(groups))
	for _, group := range groups {
		if groupMatches(group, needle, facets) {
			out = append(out, group)
		}
	}
	return out
}

func groupMatches(group Group, needle string, facets Facets) bool {
	for _, offer := range group.Offers {
		if offerMatches(offer, needle, facets) {
			return true
		}
	}
	return false
}

func offerMatches(offer models.Offer, needle string, facets Facets) bool {
	if needle != "" && !textMatches(offer, needle) {
		return false
	}
	if len(facets.Certifications) > 0 && !containsCertification(facets.Certifications, offer.Certification) {
		return false
	}
	if len(facets.FarmingTypes) > 0 && !containsFarmingType(facets.FarmingTypes, offer.FarmingType) {
		return false
	}
	return true
}

func textMatches(offer models.Offer, needle string) bool {
	haystacks := []string{
		offer.BaseProduct,
		offer.DisplayName,
		offer.SupplierName,
		offer.Unit.String(),
	}
	haystacks = append(haystacks, offer.Keywords...)
	for _, haystack := range haystacks {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

func containsCertification(set []enums.Certification, value enums.Certification) bool {
	for _, candidate := range set {
		if candidate == value {
			return true
		}
	}
	return false
}

func containsFarmingType(set []enums.FarmingType, value enums.FarmingType) bool {
	for _, candidate := range set {
		if candidate == value {
			return true
		}
	}
	return false
}
