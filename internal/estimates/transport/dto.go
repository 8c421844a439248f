package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EstimateItemResponse struct {
	ID             uuid.UUID `json:"id"`
	SourceKind     string    `json:"sourceKind"`
	SourceID       uuid.UUID `json:"sourceId"`
	Description    string    `json:"description"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	LineTotalCents int64     `json:"lineTotalCents"`
	SortOrder      int       `json:"sortOrder"`
}

type EstimateResponse struct {
	ID                  uuid.UUID              `json:"id"`
	EstimateNumber      string                 `json:"estimateNumber"`
	Status              string                 `json:"status"`
	CreatedByID         uuid.UUID              `json:"createdById"`
	DiscountPercent     decimal.Decimal        `json:"discountPercent"`
	TaxRate             decimal.Decimal        `json:"taxRate"`
	IncludeTax          bool                   `json:"includeTax"`
	SubtotalCents       int64                  `json:"subtotalCents"`
	DiscountAmountCents int64                  `json:"discountAmountCents"`
	TaxAmountCents      int64                  `json:"taxAmountCents"`
	TotalCents          int64                  `json:"totalCents"`
	Notes               *string                `json:"notes,omitempty"`
	Items               []EstimateItemResponse `json:"items"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}
