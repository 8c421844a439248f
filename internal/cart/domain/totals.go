package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Totals are the cart's derived amounts in cents.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	DiscountCents int64 `json:"discountCents"`
	TaxableCents  int64 `json:"taxableCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Totals computes subtotal, discount, taxable amount, tax and total. Every
// figure is derived from exact decimals and rounded to the cent only at the
// end, so TotalCents is the rounded exact total rather than a sum of rounded
// parts.
func (c *Cart) Totals() Totals {
	var subtotal int64
	for _, key := range c.order {
		subtotal += c.items[key].SubtotalCents
	}

	sub := decimal.NewFromInt(subtotal)
	discount := sub.Mul(c.discountPercent).Div(hundred)
	taxable := sub.Sub(discount)
	tax := decimal.Zero
	if c.includeTax {
		tax = taxable.Mul(c.taxRate).Div(hundred)
	}
	total := taxable.Add(tax)

	return Totals{
		SubtotalCents: subtotal,
		DiscountCents: roundCents(discount),
		TaxableCents:  roundCents(taxable),
		TaxCents:      roundCents(tax),
		TotalCents:    roundCents(total),
	}
}

func roundCents(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// Line is a materialized estimate line.
type Line struct {
	Description    string
	UnitPriceCents int64
	Quantity       int
	SourceKind     Kind
	SourceID       uuid.UUID
}

// LineTotalCents returns unit price times quantity.
func (l Line) LineTotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Materialize flattens the cart into estimate lines. A package expands into
// its required components only, each at cart quantity times link quantity.
// An offering becomes one line.
func (c *Cart) Materialize() []Line {
	lines := make([]Line, 0, len(c.order))
	for _, key := range c.order {
		it := c.items[key]
		switch it.Kind {
		case KindPackage:
			for _, comp := range it.Components {
				lines = append(lines, Line{
					Description:    fmt.Sprintf("%s (%s)", comp.Name, it.Name),
					UnitPriceCents: comp.UnitPriceCents,
					Quantity:       it.Quantity * comp.Quantity,
					SourceKind:     KindOffering,
					SourceID:       comp.OfferingID,
				})
			}
		default:
			lines = append(lines, Line{
				Description:    it.Name,
				UnitPriceCents: it.UnitPriceCents,
				Quantity:       it.Quantity,
				SourceKind:     it.Kind,
				SourceID:       it.SourceID,
			})
		}
	}
	return lines
}
