package domain

import "github.com/shopspring/decimal"

// State is the serializable form of a cart used by session stores.
type State struct {
	Items           []Item          `json:"items"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	IncludeTax      bool            `json:"includeTax"`
}

// State captures the cart for persistence.
func (c *Cart) State() State {
	return State{
		Items:           c.Items(),
		DiscountPercent: c.discountPercent,
		TaxRate:         c.taxRate,
		IncludeTax:      c.includeTax,
	}
}

// FromState rebuilds a cart. Items keep their stored order and snapshots;
// duplicate keys and non-positive quantities are dropped.
func FromState(s State) *Cart {
	c := New()
	for _, it := range s.Items {
		if it.Quantity <= 0 || !it.Kind.Valid() {
			continue
		}
		key := ItemKey(it.Kind, it.SourceID)
		if _, dup := c.items[key]; dup {
			continue
		}
		item := it
		item.Key = key
		item.SubtotalCents = item.UnitPriceCents * int64(item.Quantity)
		c.items[key] = &item
		c.order = append(c.order, key)
	}
	c.discountPercent = clampPercent(s.DiscountPercent)
	c.taxRate = clampPercent(s.TaxRate)
	c.includeTax = s.IncludeTax
	return c
}
