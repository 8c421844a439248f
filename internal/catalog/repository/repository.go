package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice_backend/platform/apperr"
)

const (
	industryNotFoundMessage      = "industry not found"
	offeringNotFoundMessage      = "offering not found"
	customizationNotFoundMessage = "customization not found"
	packageNotFoundMessage       = "package not found"
	duplicateCustomizationMsg    = "organization already has a customization for this service offering"

	uniqueViolationCode = "23505"
)

const offeringColumns = `
	o.id, o.service_id, o.organization_id, o.name, o.description, o.price_cents,
	o.unit_label, o.is_template, o.quality_tier, o.warranty_months,
	o.estimated_hours::float8, o.skill_level, o.attributes, o.created_at, o.updated_at`

// Repo implements the catalog repository over Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListIndustries returns all industries ordered by name.
func (r *Repo) ListIndustries(ctx context.Context) ([]Industry, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM catalog_industries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}
	defer rows.Close()

	industries := make([]Industry, 0)
	for rows.Next() {
		var ind Industry
		if err := rows.Scan(&ind.ID, &ind.Name); err != nil {
			return nil, fmt.Errorf("scan industry: %w", err)
		}
		industries = append(industries, ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate industries: %w", err)
	}
	return industries, nil
}

// GetIndustryByID retrieves an industry.
func (r *Repo) GetIndustryByID(ctx context.Context, id uuid.UUID) (Industry, error) {
	var ind Industry
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM catalog_industries WHERE id = $1`, id).Scan(&ind.ID, &ind.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Industry{}, apperr.NotFound(industryNotFoundMessage)
		}
		return Industry{}, fmt.Errorf("get industry by id: %w", err)
	}
	return ind, nil
}

// ListServices returns the services of an industry.
func (r *Repo) ListServices(ctx context.Context, industryID uuid.UUID) ([]Service, error) {
	query := `
		SELECT id, industry_id, name, category
		FROM catalog_services
		WHERE industry_id = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, industryID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]Service, 0)
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.IndustryID, &svc.Name, &svc.Category); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}

// ListOfferings lists shared offerings or one organization's customizations.
func (r *Repo) ListOfferings(ctx context.Context, filter OfferingFilter) ([]Offering, error) {
	whereClauses := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	argIdx := 1

	if filter.OrganizationID == nil {
		whereClauses = append(whereClauses, "o.organization_id IS NULL")
	} else {
		whereClauses = append(whereClauses, fmt.Sprintf("o.organization_id = $%d", argIdx))
		args = append(args, *filter.OrganizationID)
		argIdx++
	}

	if filter.IndustryID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("s.industry_id = $%d", argIdx))
		args = append(args, *filter.IndustryID)
		argIdx++
	}

	if len(filter.ServiceIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("o.service_id = ANY($%d)", argIdx))
		args = append(args, filter.ServiceIDs)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM catalog_offerings o
		JOIN catalog_services s ON s.id = o.service_id
		WHERE %s
		ORDER BY s.name, o.name, o.id`, offeringColumns, strings.Join(whereClauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	defer rows.Close()

	offerings := make([]Offering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offering: %w", err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offerings: %w", err)
	}
	return offerings, nil
}

// GetOfferingByID retrieves an offering regardless of owner.
func (r *Repo) GetOfferingByID(ctx context.Context, id uuid.UUID) (Offering, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_offerings o WHERE o.id = $1`, offeringColumns)

	o, err := scanOffering(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offering{}, apperr.NotFound(offeringNotFoundMessage)
		}
		return Offering{}, fmt.Errorf("get offering by id: %w", err)
	}
	return o, nil
}

// FindCustomization retrieves an organization's copy by service and name.
func (r *Repo) FindCustomization(ctx context.Context, organizationID, serviceID uuid.UUID, name string) (Offering, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM catalog_offerings o
		WHERE o.organization_id = $1 AND o.service_id = $2 AND o.name = $3`, offeringColumns)

	o, err := scanOffering(r.pool.QueryRow(ctx, query, organizationID, serviceID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offering{}, apperr.NotFound(customizationNotFoundMessage)
		}
		return Offering{}, fmt.Errorf("find customization: %w", err)
	}
	return o, nil
}

// ListOfferingLineItems returns an offering's breakdown rows in display order.
func (r *Repo) ListOfferingLineItems(ctx context.Context, offeringID uuid.UUID) ([]OfferingLineItem, error) {
	query := `
		SELECT oli.id, oli.offering_id, oli.quantity::float8, oli.is_optional, oli.display_order,
			li.id, li.name, li.price_cents, li.unit_label, li.cost_category
		FROM catalog_offering_line_items oli
		JOIN catalog_line_items li ON li.id = oli.line_item_id
		WHERE oli.offering_id = $1
		ORDER BY oli.display_order, oli.id`

	rows, err := r.pool.Query(ctx, query, offeringID)
	if err != nil {
		return nil, fmt.Errorf("list offering line items: %w", err)
	}
	defer rows.Close()

	items := make([]OfferingLineItem, 0)
	for rows.Next() {
		var it OfferingLineItem
		if err := rows.Scan(
			&it.ID, &it.OfferingID, &it.Quantity, &it.IsOptional, &it.DisplayOrder,
			&it.LineItem.ID, &it.LineItem.Name, &it.LineItem.PriceCents, &it.LineItem.UnitLabel, &it.LineItem.CostCategory,
		); err != nil {
			return nil, fmt.Errorf("scan offering line item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offering line items: %w", err)
	}
	return items, nil
}

// CreateOffering inserts an organization-scoped offering.
func (r *Repo) CreateOffering(ctx context.Context, params CreateOfferingParams) (Offering, error) {
	attributes := params.Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}

	query := fmt.Sprintf(`
		WITH o AS (
			INSERT INTO catalog_offerings (
				service_id, organization_id, name, description, price_cents, unit_label,
				is_template, quality_tier, warranty_months, estimated_hours, skill_level, attributes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING *
		)
		SELECT %s FROM o`, offeringColumns)

	o, err := scanOffering(r.pool.QueryRow(ctx, query,
		params.ServiceID, params.OrganizationID, params.Name, params.Description, params.PriceCents,
		params.UnitLabel, params.IsTemplate, params.QualityTier, params.WarrantyMonths,
		params.EstimatedHours, params.SkillLevel, attributes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Offering{}, apperr.Conflict(duplicateCustomizationMsg).WithOp("create offering")
		}
		return Offering{}, fmt.Errorf("create offering: %w", err)
	}
	return o, nil
}

// CreateOfferingLineItem inserts a breakdown row.
func (r *Repo) CreateOfferingLineItem(ctx context.Context, params CreateOfferingLineItemParams) error {
	query := `
		INSERT INTO catalog_offering_line_items (offering_id, line_item_id, quantity, is_optional, display_order)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.pool.Exec(ctx, query,
		params.OfferingID, params.LineItemID, params.Quantity, params.IsOptional, params.DisplayOrder,
	); err != nil {
		return fmt.Errorf("create offering line item: %w", err)
	}
	return nil
}

// UpdateOfferingPrice sets the price of an organization's own offering.
func (r *Repo) UpdateOfferingPrice(ctx context.Context, organizationID, id uuid.UUID, priceCents int64) (Offering, error) {
	query := fmt.Sprintf(`
		WITH o AS (
			UPDATE catalog_offerings
			SET price_cents = $3, updated_at = now()
			WHERE id = $1 AND organization_id = $2
			RETURNING *
		)
		SELECT %s FROM o`, offeringColumns)

	o, err := scanOffering(r.pool.QueryRow(ctx, query, id, organizationID, priceCents))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offering{}, apperr.NotFound(offeringNotFoundMessage)
		}
		return Offering{}, fmt.Errorf("update offering price: %w", err)
	}
	return o, nil
}

// DeleteOffering removes an organization's own offering. Line items cascade.
func (r *Repo) DeleteOffering(ctx context.Context, organizationID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM catalog_offerings WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete offering: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(offeringNotFoundMessage)
	}
	return nil
}

// ListPackages lists packages, optionally for one industry.
func (r *Repo) ListPackages(ctx context.Context, industryID *uuid.UUID) ([]Package, error) {
	query := `
		SELECT id, industry_id, name, level, is_featured, description
		FROM catalog_packages
		WHERE ($1::uuid IS NULL OR industry_id = $1)
		ORDER BY CASE level WHEN 'essentials' THEN 1 WHEN 'complete' THEN 2 ELSE 3 END, name`

	rows, err := r.pool.Query(ctx, query, industryID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	packages := make([]Package, 0)
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.ID, &p.IndustryID, &p.Name, &p.Level, &p.IsFeatured, &p.Description); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate packages: %w", err)
	}
	return packages, nil
}

// GetPackageByID retrieves a package.
func (r *Repo) GetPackageByID(ctx context.Context, id uuid.UUID) (Package, error) {
	query := `
		SELECT id, industry_id, name, level, is_featured, description
		FROM catalog_packages WHERE id = $1`

	var p Package
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.IndustryID, &p.Name, &p.Level, &p.IsFeatured, &p.Description,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Package{}, apperr.NotFound(packageNotFoundMessage)
		}
		return Package{}, fmt.Errorf("get package by id: %w", err)
	}
	return p, nil
}

// ListPackageTemplates returns a package's links with their offerings.
func (r *Repo) ListPackageTemplates(ctx context.Context, packageID uuid.UUID) ([]PackageTemplate, error) {
	query := fmt.Sprintf(`
		SELECT pt.id, pt.package_id, pt.quantity, pt.is_optional, pt.display_order, %s
		FROM catalog_package_templates pt
		JOIN catalog_offerings o ON o.id = pt.offering_id
		WHERE pt.package_id = $1
		ORDER BY pt.display_order, pt.id`, offeringColumns)

	rows, err := r.pool.Query(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package templates: %w", err)
	}
	defer rows.Close()

	links := make([]PackageTemplate, 0)
	for rows.Next() {
		var pt PackageTemplate
		o := &pt.Offering
		if err := rows.Scan(
			&pt.ID, &pt.PackageID, &pt.Quantity, &pt.IsOptional, &pt.DisplayOrder,
			&o.ID, &o.ServiceID, &o.OrganizationID, &o.Name, &o.Description, &o.PriceCents,
			&o.UnitLabel, &o.IsTemplate, &o.QualityTier, &o.WarrantyMonths,
			&o.EstimatedHours, &o.SkillLevel, &o.Attributes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan package template: %w", err)
		}
		links = append(links, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate package templates: %w", err)
	}
	return links, nil
}

func scanOffering(row pgx.Row) (Offering, error) {
	var o Offering
	err := row.Scan(
		&o.ID, &o.ServiceID, &o.OrganizationID, &o.Name, &o.Description, &o.PriceCents,
		&o.UnitLabel, &o.IsTemplate, &o.QualityTier, &o.WarrantyMonths,
		&o.EstimatedHours, &o.SkillLevel, &o.Attributes, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
