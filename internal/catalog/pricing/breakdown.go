package pricing

import (
	"github.com/shopspring/decimal"

	"backoffice_backend/internal/catalog/repository"
)

// BreakdownTotals sums an offering's line items at their base prices. It is
// shown next to the offering price and never reconciled with it.
type BreakdownTotals struct {
	RequiredCents int64
	OptionalCents int64
}

// SumBreakdown multiplies each base line-item price by its fractional
// quantity and rounds each group to the cent.
func SumBreakdown(items []repository.OfferingLineItem) BreakdownTotals {
	required := decimal.Zero
	optional := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromInt(it.LineItem.PriceCents).Mul(decimal.NewFromFloat(it.Quantity))
		if it.IsOptional {
			optional = optional.Add(line)
		} else {
			required = required.Add(line)
		}
	}
	return BreakdownTotals{
		RequiredCents: required.Round(0).IntPart(),
		OptionalCents: optional.Round(0).IntPart(),
	}
}
