// Package repository persists estimate drafts created from carts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"backoffice_backend/platform/apperr"
)

const (
	StatusDraft = "draft"

	estimateNotFoundMsg = "estimate not found"
)

// Estimate is a stored estimate header with its totals in cents.
type Estimate struct {
	ID                  uuid.UUID
	OrganizationID      uuid.UUID
	CreatedByID         uuid.UUID
	EstimateNumber      string
	Status              string
	DiscountPercent     decimal.Decimal
	TaxRate             decimal.Decimal
	IncludeTax          bool
	SubtotalCents       int64
	DiscountAmountCents int64
	TaxAmountCents      int64
	TotalCents          int64
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EstimateItem is one materialized line of an estimate.
type EstimateItem struct {
	ID             uuid.UUID
	EstimateID     uuid.UUID
	OrganizationID uuid.UUID
	SourceKind     string
	SourceID       uuid.UUID
	Description    string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents int64
	SortOrder      int
	CreatedAt      time.Time
}

// Repository defines estimate storage operations.
type Repository interface {
	// NextEstimateNumber atomically allocates the organization's next number.
	NextEstimateNumber(ctx context.Context, organizationID uuid.UUID) (string, error)
	CreateWithItems(ctx context.Context, estimate Estimate, items []EstimateItem) error
	GetByID(ctx context.Context, id, organizationID uuid.UUID) (Estimate, error)
	GetItems(ctx context.Context, estimateID, organizationID uuid.UUID) ([]EstimateItem, error)
}

// Repo is the Postgres implementation.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new estimates repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) NextEstimateNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	var nextNum int
	query := `
		INSERT INTO estimate_counters (organization_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (organization_id) DO UPDATE SET last_number = estimate_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, organizationID).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("generate estimate number: %w", err)
	}

	return FormatNumber(time.Now().Year(), nextNum), nil
}

// FormatNumber renders an estimate number such as EST-2026-0042.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("EST-%d-%04d", year, seq)
}

// CreateWithItems inserts an estimate and its lines in a single transaction.
func (r *Repo) CreateWithItems(ctx context.Context, e Estimate, items []EstimateItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO estimates (
			id, organization_id, created_by_id, estimate_number, status,
			discount_percent, tax_rate, include_tax,
			subtotal_cents, discount_amount_cents, tax_amount_cents, total_cents,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	if _, err := tx.Exec(ctx, query,
		e.ID, e.OrganizationID, e.CreatedByID, e.EstimateNumber, e.Status,
		e.DiscountPercent, e.TaxRate, e.IncludeTax,
		e.SubtotalCents, e.DiscountAmountCents, e.TaxAmountCents, e.TotalCents,
		e.Notes, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert estimate: %w", err)
	}

	if err := insertItems(ctx, tx, items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit estimate: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, items []EstimateItem) error {
	query := `
		INSERT INTO estimate_items (
			id, estimate_id, organization_id, source_kind, source_id, description,
			quantity, unit_price_cents, line_total_cents, sort_order, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, it := range items {
		if _, err := tx.Exec(ctx, query,
			it.ID, it.EstimateID, it.OrganizationID, it.SourceKind, it.SourceID, it.Description,
			it.Quantity, it.UnitPriceCents, it.LineTotalCents, it.SortOrder, it.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert estimate item: %w", err)
		}
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id, organizationID uuid.UUID) (Estimate, error) {
	var e Estimate
	query := `
		SELECT id, organization_id, created_by_id, estimate_number, status,
			discount_percent, tax_rate, include_tax,
			subtotal_cents, discount_amount_cents, tax_amount_cents, total_cents,
			notes, created_at, updated_at
		FROM estimates WHERE id = $1 AND organization_id = $2`

	err := r.pool.QueryRow(ctx, query, id, organizationID).Scan(
		&e.ID, &e.OrganizationID, &e.CreatedByID, &e.EstimateNumber, &e.Status,
		&e.DiscountPercent, &e.TaxRate, &e.IncludeTax,
		&e.SubtotalCents, &e.DiscountAmountCents, &e.TaxAmountCents, &e.TotalCents,
		&e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Estimate{}, apperr.NotFound(estimateNotFoundMsg)
		}
		return Estimate{}, fmt.Errorf("get estimate: %w", err)
	}
	return e, nil
}

func (r *Repo) GetItems(ctx context.Context, estimateID, organizationID uuid.UUID) ([]EstimateItem, error) {
	query := `
		SELECT id, estimate_id, organization_id, source_kind, source_id, description,
			quantity, unit_price_cents, line_total_cents, sort_order, created_at
		FROM estimate_items WHERE estimate_id = $1 AND organization_id = $2
		ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, estimateID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query estimate items: %w", err)
	}
	defer rows.Close()

	items := make([]EstimateItem, 0)
	for rows.Next() {
		var it EstimateItem
		if err := rows.Scan(
			&it.ID, &it.EstimateID, &it.OrganizationID, &it.SourceKind, &it.SourceID, &it.Description,
			&it.Quantity, &it.UnitPriceCents, &it.LineTotalCents, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan estimate item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimate items: %w", err)
	}
	return items, nil
}
