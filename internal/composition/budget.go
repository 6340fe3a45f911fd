package composition

import "github.com/shopspring/decimal"

// BudgetStanding classifies a monetary total against a market's ceiling.
type BudgetStanding string

const (
	// BudgetWithin means the total is at or below the ceiling.
	BudgetWithin BudgetStanding = "within"
	// BudgetAbove means the total strictly exceeds the ceiling.
	BudgetAbove BudgetStanding = "above"
)

// BudgetGuard evaluates composition totals against a soft market ceiling.
// The ceiling never blocks allocation work; crossing it only demands an
// explicit confirmation at commit time.
type BudgetGuard struct {
	ceiling decimal.Decimal
}

// NewBudgetGuard builds a guard for the given ceiling.
func NewBudgetGuard(ceiling decimal.Decimal) BudgetGuard {
	return BudgetGuard{ceiling: ceiling}
}

// Ceiling returns the configured ceiling.
func (g BudgetGuard) Ceiling() decimal.Decimal {
	return g.ceiling
}

// Classify reports the standing of a total. Equality counts as within: a
// composition that lands exactly on the ceiling needs no confirmation.
func (g BudgetGuard) Classify(total decimal.Decimal) BudgetStanding {
	if total.GreaterThan(g.ceiling) {
		return BudgetAbove
	}
	return BudgetWithin
}

// Balance returns the room left under the ceiling, negative once exceeded.
func (g BudgetGuard) Balance(total decimal.Decimal) decimal.Decimal {
	return g.ceiling.Sub(total)
}

// Excess returns how far the total sits above the ceiling, zero when within.
func (g BudgetGuard) Excess(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThan(g.ceiling) {
		return total.Sub(g.ceiling)
	}
	return decimal.Zero
}

// RequiresConfirmation reports whether a commit of this total must carry the
// operator's explicit over-budget acknowledgement.
func (g BudgetGuard) RequiresConfirmation(total decimal.Decimal) bool {
	return g.Classify(total) == BudgetAbove
}
