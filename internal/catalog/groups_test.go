package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
)

func catalogOffer(base, display, supplier string, cert enums.Certification, farming enums.FarmingType, keywords ...string) models.Offer {
	return models.Offer{
		ID:            uuid.New(),
		SupplierID:    uuid.New(),
		SupplierName:  supplier,
		BaseProduct:   base,
		DisplayName:   display,
		Unit:          enums.OfferUnitKilogram,
		UnitPrice:     decimal.RequireFromString("3.00"),
		AvailableQty:  10,
		Certification: cert,
		FarmingType:   farming,
		Keywords:      pq.StringArray(keywords),
	}
}

func sampleCatalog() []models.Offer {
	return []models.Offer{
		catalogOffer("Tomate", "Tomate, caixa 1kg", "Sitio Boa Vista", enums.CertificationOrganic, enums.FarmingTypeFamily),
		catalogOffer("Abóbora", "Abóbora cabotiá, unidade", "Fazenda Santa Rosa", enums.CertificationConventional, enums.FarmingTypeNonFamily),
		catalogOffer("Tomate", "Tomate cereja, 500g", "Chácara do Vale", enums.CertificationTransitional, enums.FarmingTypeFamily, "salada"),
		catalogOffer("Alface", "Alface crespa, unidade", "Sitio Boa Vista", enums.CertificationOrganic, enums.FarmingTypeFamily),
	}
}

func TestGroupAndSortLocaleOrder(t *testing.T) {
	t.Parallel()

	groups := GroupAndSort(sampleCatalog())

	require.Len(t, groups, 3)
	// "Abóbora" must sort before "Alface" despite the accented rune.
	assert.Equal(t, "Abóbora", groups[0].BaseProduct)
	assert.Equal(t, "Alface", groups[1].BaseProduct)
	assert.Equal(t, "Tomate", groups[2].BaseProduct)

	require.Len(t, groups[2].Offers, 2)
	assert.Equal(t, "Tomate, caixa 1kg", groups[2].Offers[0].DisplayName)
	assert.Equal(t, "Tomate cereja, 500g", groups[2].Offers[1].DisplayName)
}

func TestFilterEmptyInputsPassThrough(t *testing.T) {
	t.Parallel()

	groups := GroupAndSort(sampleCatalog())
	filtered := Filter(groups, "", Facets{})

	assert.Equal(t, groups, filtered)
}

func TestFilterIsNarrowing(t *testing.T) {
	t.Parallel()

	groups := GroupAndSort(sampleCatalog())

	cases := []struct {
		name   string
		term   string
		facets Facets
	}{
		{name: "free text", term: "tomate"},
		{name: "supplier text", term: "boa vista"},
		{name: "keyword text", term: "salada"},
		{name: "certification facet", facets: Facets{Certifications: []enums.Certification{enums.CertificationOrganic}}},
		{name: "farming facet", facets: Facets{FarmingTypes: []enums.FarmingType{enums.FarmingTypeNonFamily}}},
		{name: "no match", term: "banana"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			filtered := Filter(groups, tc.term, tc.facets)
			assert.LessOrEqual(t, len(filtered), len(groups))
		})
	}
}

func TestFilterFreeTextAcrossFields(t *testing.T) {
	t.Parallel()

	groups := GroupAndSort(sampleCatalog())

	bySupplier := Filter(groups, "santa rosa", Facets{})
	require.Len(t, bySupplier, 1)
	assert.Equal(t, "Abóbora", bySupplier[0].BaseProduct)

	byKeyword := Filter(groups, "salada", Facets{})
	require.Len(t, byKeyword, 1)
	assert.Equal(t, "Tomate", byKeyword[0].BaseProduct)
}

func TestFilterFacetsCombineWithText(t *testing.T) {
	t.Parallel()

	groups := GroupAndSort(sampleCatalog())

	// Text and facet must both hold on the same offer.
	filtered := Filter(groups, "tomate", Facets{
		Certifications: []enums.Certification{enums.CertificationOrganic},
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, "Tomate", filtered[0].BaseProduct)

	filtered = Filter(groups, "abóbora", Facets{
		Certifications: []enums.Certification{enums.CertificationOrganic},
	})
	assert.Empty(t, filtered)
}

func TestFilterPreservesGroupOrderAndContent(t *testing.T) {
	t.Parallel()

	groups := GroupAndSort(sampleCatalog())
	filtered := Filter(groups, "", Facets{
		FarmingTypes: []enums.FarmingType{enums.FarmingTypeFamily},
	})

	require.Len(t, filtered, 2)
	assert.Equal(t, "Alface", filtered[0].BaseProduct)
	assert.Equal(t, "Tomate", filtered[1].BaseProduct)
	// Surviving groups keep their full variant list.
	assert.Len(t, filtered[1].Offers, 2)
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	t.Parallel()

	groups := GroupAndSort(sampleCatalog())
	filtered := Filter(groups, "banana", Facets{})
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}
