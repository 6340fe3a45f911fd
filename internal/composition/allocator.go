package composition

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/pkg/db/models"
)

// SelectedItem pairs an offer with its chosen quantity. Derived, never stored.
type SelectedItem struct {
	Offer    models.Offer
	Quantity int
}

// Totals carries the running aggregates for one composition session.
type Totals struct {
	ItemCount     int
	UnitCount     int
	MonetaryTotal decimal.Decimal
}

// Allocator holds the in-memory selection state of a composition session:
// which offers are picked per base product and how many units of each. All
// quantities are clamped against the catalog availability. The allocator is
// intended for single-goroutine use, one instance per (cycle, market) session.
type Allocator struct {
	offers     map[uuid.UUID]models.Offer
	groupOrder []string
	selection  map[string][]uuid.UUID
	quantities map[uuid.UUID]int
}

// NewAllocator builds an allocator over the loaded offer catalog.
func NewAllocator(offers []models.Offer) *Allocator {
	indexed := make(map[uuid.UUID]models.Offer, len(offers))
	for _, offer := range offers {
		indexed[offer.ID] = offer
	}
	return &Allocator{
		offers:     indexed,
		selection:  make(map[string][]uuid.UUID),
		quantities: make(map[uuid.UUID]int),
	}
}

// Toggle adds the offer to the group's selection, or removes it when already
// selected under that group. Removing the last offer of a group drops the
// group entirely. Offers not present in the catalog are ignored, as is a
// toggle that would select an offer already held by another group: each offer
// belongs to at most one group at a time. A second toggle with no intervening
// quantity change restores the prior selection state.
func (a *Allocator) Toggle(groupKey string, offerID uuid.UUID) {
	if _, ok := a.offers[offerID]; !ok {
		return
	}

	ids, grouped := a.selection[groupKey]
	if grouped {
		for i, id := range ids {
			if id == offerID {
				a.removeAt(groupKey, i)
				delete(a.quantities, offerID)
				return
			}
		}
	}

	if _, selected := a.selectedGroup(offerID); selected {
		return
	}

	if !grouped {
		a.groupOrder = append(a.groupOrder, groupKey)
	}
	a.selection[groupKey] = append(ids, offerID)
}

// SetQuantity clamps the requested quantity into [0, available] and stores it.
// A clamped value of zero deletes the quantity entry; the offer stays selected
// so the operator can re-enter a quantity without re-picking it. Returns the
// stored value.
func (a *Allocator) SetQuantity(offerID uuid.UUID, requested int) int {
	offer, ok := a.offers[offerID]
	if !ok {
		delete(a.quantities, offerID)
		return 0
	}

	qty := requested
	if qty < 0 {
		qty = 0
	}
	if qty > offer.AvailableQty {
		qty = offer.AvailableQty
	}

	if qty == 0 {
		delete(a.quantities, offerID)
		return 0
	}
	a.quantities[offerID] = qty
	return qty
}

// ClearGroup removes the whole group and every quantity entry under it.
func (a *Allocator) ClearGroup(groupKey string) {
	ids, ok := a.selection[groupKey]
	if !ok {
		return
	}
	for _, id := range ids {
		delete(a.quantities, id)
	}
	delete(a.selection, groupKey)
	a.dropGroupOrder(groupKey)
}

// IsSelected reports whether the offer is part of the group's selection.
func (a *Allocator) IsSelected(groupKey string, offerID uuid.UUID) bool {
	for _, id := range a.selection[groupKey] {
		if id == offerID {
			return true
		}
	}
	return false
}

// Quantity returns the stored quantity for the offer, zero when absent.
func (a *Allocator) Quantity(offerID uuid.UUID) int {
	return a.quantities[offerID]
}

// SelectedItems walks the selection in insertion order and yields every offer
// with a positive quantity.
func (a *Allocator) SelectedItems() []SelectedItem {
	var items []SelectedItem
	for _, groupKey := range a.groupOrder {
		for _, id := range a.selection[groupKey] {
			qty, ok := a.quantities[id]
			if !ok || qty <= 0 {
				continue
			}
			items = append(items, SelectedItem{Offer: a.offers[id], Quantity: qty})
		}
	}
	return items
}

// Totals recomputes the running aggregates from the selected items.
func (a *Allocator) Totals() Totals {
	totals := Totals{MonetaryTotal: decimal.Zero}
	for _, item := range a.SelectedItems() {
		totals.ItemCount++
		totals.UnitCount += item.Quantity
		line := item.Offer.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totals.MonetaryTotal = totals.MonetaryTotal.Add(line)
	}
	return totals
}

func (a *Allocator) selectedGroup(offerID uuid.UUID) (string, bool) {
	for key, ids := range a.selection {
		for _, id := range ids {
			if id == offerID {
				return key, true
			}
		}
	}
	return "", false
}

func (a *Allocator) removeAt(groupKey string, index int) {
	ids := a.selection[groupKey]
	ids = append(ids[:index], ids[index+1:]...)
	if len(ids) == 0 {
		delete(a.selection, groupKey)
		a.dropGroupOrder(groupKey)
		return
	}
	a.selection[groupKey] = ids
}

func (a *Allocator) dropGroupOrder(groupKey string) {
	for i, key := range a.groupOrder {
		if key == groupKey {
			a.groupOrder = append(a.groupOrder[:i], a.groupOrder[i+1:]...)
			return
		}
	}
}
