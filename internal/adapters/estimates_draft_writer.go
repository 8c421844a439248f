package adapters

import (
	"context"
	"fmt"

	cartsvc "backoffice_backend/internal/cart/service"
	estimatesvc "backoffice_backend/internal/estimates/service"
)

// EstimatesDraftWriter adapts the estimates service for the cart domain.
// It implements cartsvc.EstimateWriter by delegating to CreateDraft.
type EstimatesDraftWriter struct {
	svc *estimatesvc.Service
}

// NewEstimatesDraftWriter creates a new estimate writer adapter.
func NewEstimatesDraftWriter(svc *estimatesvc.Service) *EstimatesDraftWriter {
	return &EstimatesDraftWriter{svc: svc}
}

// CreateDraft translates the materialized cart into estimate lines and
// stores it with the totals the cart computed.
func (a *EstimatesDraftWriter) CreateDraft(ctx context.Context, draft cartsvc.EstimateDraft) (cartsvc.EstimateRef, error) {
	lines := make([]estimatesvc.DraftLine, len(draft.Lines))
	for i, l := range draft.Lines {
		lines[i] = estimatesvc.DraftLine{
			Description:    l.Description,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
			SourceKind:     string(l.SourceKind),
			SourceID:       l.SourceID,
		}
	}

	estimate, err := a.svc.CreateDraft(ctx, estimatesvc.CreateDraftParams{
		OrganizationID:      draft.OrganizationID,
		CreatedByID:         draft.CreatedByID,
		Lines:               lines,
		DiscountPercent:     draft.DiscountPercent,
		TaxRate:             draft.TaxRate,
		IncludeTax:          draft.IncludeTax,
		SubtotalCents:       draft.Totals.SubtotalCents,
		DiscountAmountCents: draft.Totals.DiscountCents,
		TaxAmountCents:      draft.Totals.TaxCents,
		TotalCents:          draft.Totals.TotalCents,
	})
	if err != nil {
		return cartsvc.EstimateRef{}, fmt.Errorf("estimates draft adapter: %w", err)
	}

	return cartsvc.EstimateRef{ID: estimate.ID, Number: estimate.EstimateNumber}, nil
}
