// Package service creates and reads estimate drafts.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backoffice_backend/internal/estimates/repository"
	"backoffice_backend/internal/estimates/transport"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"
)

// DraftLine is one flat priced line of a new estimate.
type DraftLine struct {
	Description    string
	UnitPriceCents int64
	Quantity       int
	SourceKind     string
	SourceID       uuid.UUID
}

// CreateDraftParams carries the materialized lines and the totals computed
// by the cart. Totals are stored as given.
type CreateDraftParams struct {
	OrganizationID      uuid.UUID
	CreatedByID         uuid.UUID
	Lines               []DraftLine
	DiscountPercent     decimal.Decimal
	TaxRate             decimal.Decimal
	IncludeTax          bool
	SubtotalCents       int64
	DiscountAmountCents int64
	TaxAmountCents      int64
	TotalCents          int64
}

// Service provides estimate operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new estimates service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// CreateDraft stores a draft estimate with a freshly allocated number.
func (s *Service) CreateDraft(ctx context.Context, params CreateDraftParams) (repository.Estimate, error) {
	if len(params.Lines) == 0 {
		return repository.Estimate{}, apperr.Validation("estimate needs at least one line")
	}

	number, err := s.repo.NextEstimateNumber(ctx, params.OrganizationID)
	if err != nil {
		return repository.Estimate{}, apperr.AsStore("next estimate number", err)
	}

	now := s.now().UTC()
	estimate := repository.Estimate{
		ID:                  uuid.New(),
		OrganizationID:      params.OrganizationID,
		CreatedByID:         params.CreatedByID,
		EstimateNumber:      number,
		Status:              repository.StatusDraft,
		DiscountPercent:     params.DiscountPercent,
		TaxRate:             params.TaxRate,
		IncludeTax:          params.IncludeTax,
		SubtotalCents:       params.SubtotalCents,
		DiscountAmountCents: params.DiscountAmountCents,
		TaxAmountCents:      params.TaxAmountCents,
		TotalCents:          params.TotalCents,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	items := make([]repository.EstimateItem, 0, len(params.Lines))
	for i, line := range params.Lines {
		items = append(items, repository.EstimateItem{
			ID:             uuid.New(),
			EstimateID:     estimate.ID,
			OrganizationID: params.OrganizationID,
			SourceKind:     line.SourceKind,
			SourceID:       line.SourceID,
			Description:    line.Description,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.UnitPriceCents * int64(line.Quantity),
			SortOrder:      i,
			CreatedAt:      now,
		})
	}

	if err := s.repo.CreateWithItems(ctx, estimate, items); err != nil {
		return repository.Estimate{}, apperr.AsStore("create estimate", err)
	}

	s.log.WithContext(ctx).Info("estimate draft created", "id", estimate.ID, "number", number, "total_cents", estimate.TotalCents)
	return estimate, nil
}

// GetByID returns an estimate with its lines.
func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.EstimateResponse, error) {
	estimate, err := s.repo.GetByID(ctx, id, organizationID)
	if err != nil {
		return transport.EstimateResponse{}, apperr.AsStore("get estimate", err)
	}
	items, err := s.repo.GetItems(ctx, id, organizationID)
	if err != nil {
		return transport.EstimateResponse{}, apperr.AsStore("get estimate items", err)
	}

	resp := transport.EstimateResponse{
		ID:                  estimate.ID,
		EstimateNumber:      estimate.EstimateNumber,
		Status:              estimate.Status,
		CreatedByID:         estimate.CreatedByID,
		DiscountPercent:     estimate.DiscountPercent,
		TaxRate:             estimate.TaxRate,
		IncludeTax:          estimate.IncludeTax,
		SubtotalCents:       estimate.SubtotalCents,
		DiscountAmountCents: estimate.DiscountAmountCents,
		TaxAmountCents:      estimate.TaxAmountCents,
		TotalCents:          estimate.TotalCents,
		Notes:               estimate.Notes,
		Items:               make([]transport.EstimateItemResponse, 0, len(items)),
		CreatedAt:           estimate.CreatedAt,
		UpdatedAt:           estimate.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, transport.EstimateItemResponse{
			ID:             it.ID,
			SourceKind:     it.SourceKind,
			SourceID:       it.SourceID,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			LineTotalCents: it.LineTotalCents,
			SortOrder:      it.SortOrder,
		})
	}
	return resp, nil
}
