package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service categories.
const (
	CategoryConsultation  = "consultation"
	CategoryInspection    = "inspection"
	CategoryPreparation   = "preparation"
	CategoryInstallation  = "installation"
	CategoryRepair        = "repair"
	CategoryMaintenance   = "maintenance"
	CategoryFinishing     = "finishing"
	CategoryUncategorized = "uncategorized"
)

// Package levels.
const (
	LevelEssentials = "essentials"
	LevelComplete   = "complete"
	LevelDeluxe     = "deluxe"
)

// Industry groups services.
type Industry struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

// Service is immutable reference data owned by an industry.
type Service struct {
	ID         uuid.UUID `db:"id"`
	IndustryID uuid.UUID `db:"industry_id"`
	Name       string    `db:"name"`
	Category   string    `db:"category"`
}

// Offering is a priced unit of service work. A nil OrganizationID marks a
// shared offering; otherwise it is that organization's customization.
type Offering struct {
	ID             uuid.UUID      `db:"id"`
	ServiceID      uuid.UUID      `db:"service_id"`
	OrganizationID *uuid.UUID     `db:"organization_id"`
	Name           string         `db:"name"`
	Description    string         `db:"description"`
	PriceCents     int64          `db:"price_cents"`
	UnitLabel      string         `db:"unit_label"`
	IsTemplate     bool           `db:"is_template"`
	QualityTier    string         `db:"quality_tier"`
	WarrantyMonths int            `db:"warranty_months"`
	EstimatedHours float64        `db:"estimated_hours"`
	SkillLevel     string         `db:"skill_level"`
	Attributes     map[string]any `db:"attributes"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// IsShared reports whether the offering has no organization owner.
func (o Offering) IsShared() bool {
	return o.OrganizationID == nil
}

// OwnedBy reports whether the offering is a customization of organizationID.
func (o Offering) OwnedBy(organizationID uuid.UUID) bool {
	return o.OrganizationID != nil && *o.OrganizationID == organizationID
}

// LineItem is a base cost component referenced by offering line items.
type LineItem struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	PriceCents   int64     `db:"price_cents"`
	UnitLabel    string    `db:"unit_label"`
	CostCategory string    `db:"cost_category"`
}

// OfferingLineItem is a display-only breakdown row of an offering.
type OfferingLineItem struct {
	ID           uuid.UUID `db:"id"`
	OfferingID   uuid.UUID `db:"offering_id"`
	LineItem     LineItem
	Quantity     float64 `db:"quantity"`
	IsOptional   bool    `db:"is_optional"`
	DisplayOrder int     `db:"display_order"`
}

// Package bundles offerings of one industry.
type Package struct {
	ID          uuid.UUID `db:"id"`
	IndustryID  uuid.UUID `db:"industry_id"`
	Name        string    `db:"name"`
	Level       string    `db:"level"`
	IsFeatured  bool      `db:"is_featured"`
	Description string    `db:"description"`
}

// PackageTemplate links a package to one of its offerings.
type PackageTemplate struct {
	ID           uuid.UUID `db:"id"`
	PackageID    uuid.UUID `db:"package_id"`
	Offering     Offering
	Quantity     int  `db:"quantity"`
	IsOptional   bool `db:"is_optional"`
	DisplayOrder int  `db:"display_order"`
}

// OfferingFilter selects offerings. A nil OrganizationID selects shared
// offerings, otherwise only that organization's customizations.
type OfferingFilter struct {
	OrganizationID *uuid.UUID
	IndustryID     *uuid.UUID
	ServiceIDs     []uuid.UUID
}

// CreateOfferingParams contains data for inserting an organization copy.
type CreateOfferingParams struct {
	ServiceID      uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    string
	PriceCents     int64
	UnitLabel      string
	IsTemplate     bool
	QualityTier    string
	WarrantyMonths int
	EstimatedHours float64
	SkillLevel     string
	Attributes     map[string]any
}

// CreateOfferingLineItemParams contains data for copying a breakdown row.
type CreateOfferingLineItemParams struct {
	OfferingID   uuid.UUID
	LineItemID   uuid.UUID
	Quantity     float64
	IsOptional   bool
	DisplayOrder int
}

// Repository defines catalog storage operations.
type Repository interface {
	ListIndustries(ctx context.Context) ([]Industry, error)
	GetIndustryByID(ctx context.Context, id uuid.UUID) (Industry, error)
	ListServices(ctx context.Context, industryID uuid.UUID) ([]Service, error)

	ListOfferings(ctx context.Context, filter OfferingFilter) ([]Offering, error)
	GetOfferingByID(ctx context.Context, id uuid.UUID) (Offering, error)
	// FindCustomization returns the organization's copy for (serviceID, name)
	// or a not found error.
	FindCustomization(ctx context.Context, organizationID, serviceID uuid.UUID, name string) (Offering, error)
	ListOfferingLineItems(ctx context.Context, offeringID uuid.UUID) ([]OfferingLineItem, error)

	// CreateOffering returns a conflict error when the organization already
	// owns an offering with the same service and name.
	CreateOffering(ctx context.Context, params CreateOfferingParams) (Offering, error)
	CreateOfferingLineItem(ctx context.Context, params CreateOfferingLineItemParams) error
	UpdateOfferingPrice(ctx context.Context, organizationID, id uuid.UUID, priceCents int64) (Offering, error)
	DeleteOffering(ctx context.Context, organizationID, id uuid.UUID) error

	ListPackages(ctx context.Context, industryID *uuid.UUID) ([]Package, error)
	GetPackageByID(ctx context.Context, id uuid.UUID) (Package, error)
	ListPackageTemplates(ctx context.Context, packageID uuid.UUID) ([]PackageTemplate, error)
}
