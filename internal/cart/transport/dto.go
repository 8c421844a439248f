package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backoffice_backend/internal/cart/domain"
)

type AddItemRequest struct {
	Kind     string    `json:"kind" validate:"required,oneof=package offering"`
	SourceID uuid.UUID `json:"sourceId" validate:"required"`
}

// SetQuantityRequest sets an item's quantity; zero or less removes it.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=100000"`
}

// AdjustmentsRequest updates only the fields present. Percentages outside
// [0, 100] are clamped rather than rejected.
type AdjustmentsRequest struct {
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	TaxRate         *decimal.Decimal `json:"taxRate"`
	IncludeTax      *bool            `json:"includeTax"`
}

type CartResponse struct {
	Items           []domain.Item   `json:"items"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	IncludeTax      bool            `json:"includeTax"`
	Totals          domain.Totals   `json:"totals"`
}

type CheckoutResponse struct {
	EstimateID     uuid.UUID     `json:"estimateId"`
	EstimateNumber string        `json:"estimateNumber"`
	LineCount      int           `json:"lineCount"`
	Totals         domain.Totals `json:"totals"`
}
