package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reference data

type IndustryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ServiceResponse struct {
	ID         uuid.UUID `json:"id"`
	IndustryID uuid.UUID `json:"industryId"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
}

type FilterDefinitionResponse struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Unit    string   `json:"unit,omitempty"`
}

// Offerings

type ListOfferingsRequest struct {
	IndustryID string `form:"industryId" validate:"omitempty,uuid"`
	ServiceID  string `form:"serviceId" validate:"omitempty,uuid"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type OfferingResponse struct {
	ID               uuid.UUID      `json:"id"`
	ServiceID        uuid.UUID      `json:"serviceId"`
	OrganizationID   *uuid.UUID     `json:"organizationId,omitempty"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	UnitLabel        string         `json:"unitLabel"`
	PriceCents       int64          `json:"priceCents"`
	SharedPriceCents int64          `json:"sharedPriceCents"`
	IsCustomized     bool           `json:"isCustomized"`
	CustomizationID  *uuid.UUID     `json:"customizationId,omitempty"`
	QualityTier      string         `json:"qualityTier,omitempty"`
	WarrantyMonths   int            `json:"warrantyMonths"`
	EstimatedHours   float64        `json:"estimatedHours"`
	SkillLevel       string         `json:"skillLevel,omitempty"`
	Attributes       map[string]any `json:"attributes"`
}

type OfferingListResponse struct {
	Items      []OfferingResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

type OfferingLineItemResponse struct {
	ID             uuid.UUID `json:"id"`
	LineItemID     uuid.UUID `json:"lineItemId"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	UnitLabel      string    `json:"unitLabel"`
	CostCategory   string    `json:"costCategory"`
	Quantity       float64   `json:"quantity"`
	IsOptional     bool      `json:"isOptional"`
	DisplayOrder   int       `json:"displayOrder"`
}

// OfferingDetailResponse carries the offering price and the line-item sum
// side by side; the two are independent and may differ.
type OfferingDetailResponse struct {
	OfferingResponse
	LineItems                   []OfferingLineItemResponse `json:"lineItems"`
	LineItemsTotalCents         int64                      `json:"lineItemsTotalCents"`
	OptionalLineItemsTotalCents int64                      `json:"optionalLineItemsTotalCents"`
}

// Packages

type ListPackagesRequest struct {
	IndustryID string `form:"industryId" validate:"omitempty,uuid"`
}

type PackageResponse struct {
	ID                           uuid.UUID `json:"id"`
	IndustryID                   uuid.UUID `json:"industryId"`
	Name                         string    `json:"name"`
	Level                        string    `json:"level"`
	IsFeatured                   bool      `json:"isFeatured"`
	Description                  string    `json:"description"`
	RequiredTotalCents           int64     `json:"requiredTotalCents"`
	OptionalTotalCents           int64     `json:"optionalTotalCents"`
	DiscountedOptionalTotalCents int64     `json:"discountedOptionalTotalCents"`
}

type PackageItemResponse struct {
	OfferingID     uuid.UUID `json:"offeringId"`
	Name           string    `json:"name"`
	UnitLabel      string    `json:"unitLabel"`
	Quantity       int       `json:"quantity"`
	IsOptional     bool      `json:"isOptional"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	IsCustomized   bool      `json:"isCustomized"`
	LineTotalCents int64     `json:"lineTotalCents"`
}

type PackageDetailResponse struct {
	PackageResponse
	Items []PackageItemResponse `json:"items"`
}

// Customization

type CustomizePriceRequest struct {
	Price *decimal.Decimal `json:"price" validate:"required"`
}

type CustomizationResponse struct {
	Outcome            string           `json:"outcome"`
	SourceOfferingID   uuid.UUID        `json:"sourceOfferingId"`
	PreviousPriceCents int64            `json:"previousPriceCents"`
	Offering           OfferingResponse `json:"offering"`
}

type BulkCustomizeRequest struct {
	ServiceIDs []uuid.UUID `json:"serviceIds" validate:"required,min=1,max=100"`
}

type BulkCustomizeResponse struct {
	Total              int         `json:"total"`
	Completed          int         `json:"completed"`
	Created            int         `json:"created"`
	Skipped            int         `json:"skipped"`
	CreatedOfferingIDs []uuid.UUID `json:"createdOfferingIds"`
}

type BulkJobResponse struct {
	JobID      uuid.UUID   `json:"jobId"`
	Status     string      `json:"status"`
	ServiceIDs []uuid.UUID `json:"serviceIds"`
	Total      int         `json:"total"`
	Completed  int         `json:"completed"`
	Created    int         `json:"created"`
	Skipped    int         `json:"skipped"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
