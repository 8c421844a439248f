// Package domain holds the estimate cart state object and its arithmetic.
package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the source type of a cart item.
type Kind string

const (
	KindPackage  Kind = "package"
	KindOffering Kind = "offering"
)

// Valid reports whether k is a known item kind.
func (k Kind) Valid() bool {
	return k == KindPackage || k == KindOffering
}

var hundred = decimal.NewFromInt(100)

// Component is a required package link captured when the package was added.
type Component struct {
	OfferingID     uuid.UUID `json:"offeringId"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	UnitLabel      string    `json:"unitLabel"`
}

// Source is what gets added to the cart: an offering at its effective price
// or a package at its required total together with its required components.
type Source struct {
	Kind           Kind
	SourceID       uuid.UUID
	Name           string
	UnitPriceCents int64
	UnitLabel      string
	Components     []Component
}

// Item is one cart line. UnitPriceCents is a snapshot taken when the item
// was first added and is never refreshed from the catalog.
type Item struct {
	Key            string      `json:"key"`
	Kind           Kind        `json:"kind"`
	SourceID       uuid.UUID   `json:"sourceId"`
	Name           string      `json:"name"`
	UnitPriceCents int64       `json:"unitPriceCents"`
	Quantity       int         `json:"quantity"`
	UnitLabel      string      `json:"unitLabel"`
	SubtotalCents  int64       `json:"subtotalCents"`
	Components     []Component `json:"components,omitempty"`
}

// MaxQuantity caps an item's quantity so subtotals stay inside int64 for any
// catalog price.
const MaxQuantity = 100_000

// ItemKey returns the stable cart key of a source.
func ItemKey(kind Kind, sourceID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", kind, sourceID)
}

// Cart accumulates selections in insertion order with user adjustments.
// It is not safe for concurrent use; each session owns its cart.
type Cart struct {
	order           []string
	items           map[string]*Item
	discountPercent decimal.Decimal
	taxRate         decimal.Decimal
	includeTax      bool
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: make(map[string]*Item)}
}

// Add inserts src with quantity 1, or bumps the quantity of an existing item.
func (c *Cart) Add(src Source) Item {
	key := ItemKey(src.Kind, src.SourceID)
	if it, ok := c.items[key]; ok {
		if it.Quantity < MaxQuantity {
			it.Quantity++
		}
		it.SubtotalCents = it.UnitPriceCents * int64(it.Quantity)
		return *it
	}

	it := &Item{
		Key:            key,
		Kind:           src.Kind,
		SourceID:       src.SourceID,
		Name:           src.Name,
		UnitPriceCents: src.UnitPriceCents,
		Quantity:       1,
		UnitLabel:      src.UnitLabel,
		SubtotalCents:  src.UnitPriceCents,
		Components:     append([]Component(nil), src.Components...),
	}
	c.items[key] = it
	c.order = append(c.order, key)
	return *it
}

// SetQuantity updates an item's quantity. Zero or less removes it and values
// above MaxQuantity are clamped. It reports whether the key was present.
func (c *Cart) SetQuantity(key string, qty int) bool {
	it, ok := c.items[key]
	if !ok {
		return false
	}
	if qty <= 0 {
		c.Remove(key)
		return true
	}
	if qty > MaxQuantity {
		qty = MaxQuantity
	}
	it.Quantity = qty
	it.SubtotalCents = it.UnitPriceCents * int64(qty)
	return true
}

// Remove drops an item. It reports whether the key was present.
func (c *Cart) Remove(key string) bool {
	if _, ok := c.items[key]; !ok {
		return false
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the cart and resets adjustments.
func (c *Cart) Clear() {
	c.order = nil
	c.items = make(map[string]*Item)
	c.discountPercent = decimal.Zero
	c.taxRate = decimal.Zero
	c.includeTax = false
}

// Item returns the item stored under key.
func (c *Cart) Item(key string) (Item, bool) {
	it, ok := c.items[key]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Items returns the items in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.items[key])
	}
	return out
}

// Len returns the number of distinct items.
func (c *Cart) Len() int {
	return len(c.order)
}

// SetDiscountPercent sets the discount, clamped to [0, 100].
func (c *Cart) SetDiscountPercent(p decimal.Decimal) {
	c.discountPercent = clampPercent(p)
}

// SetTaxRate sets the tax rate percentage, clamped to [0, 100].
func (c *Cart) SetTaxRate(p decimal.Decimal) {
	c.taxRate = clampPercent(p)
}

// SetIncludeTax toggles whether tax is charged.
func (c *Cart) SetIncludeTax(include bool) {
	c.includeTax = include
}

// DiscountPercent returns the current discount percentage.
func (c *Cart) DiscountPercent() decimal.Decimal { return c.discountPercent }

// TaxRate returns the current tax rate percentage.
func (c *Cart) TaxRate() decimal.Decimal { return c.taxRate }

// IncludeTax reports whether tax is charged.
func (c *Cart) IncludeTax() bool { return c.includeTax }

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
