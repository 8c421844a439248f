package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"backoffice_backend/internal/cart/domain"
	catalogsvc "backoffice_backend/internal/catalog/service"
	"backoffice_backend/platform/apperr"
)

const packageUnitLabel = "package"

// CatalogCartReader adapts the catalog service for the cart domain.
// It snapshots effective prices at the moment an item is added.
type CatalogCartReader struct {
	svc *catalogsvc.Service
}

// NewCatalogCartReader creates a new catalog reader adapter.
func NewCatalogCartReader(svc *catalogsvc.Service) *CatalogCartReader {
	return &CatalogCartReader{svc: svc}
}

// ResolveSource prices an offering or package for the organization. A
// package is priced at its required total and carries its required links as
// components for later expansion.
func (a *CatalogCartReader) ResolveSource(ctx context.Context, organizationID uuid.UUID, kind domain.Kind, sourceID uuid.UUID) (domain.Source, error) {
	switch kind {
	case domain.KindOffering:
		offering, res, err := a.svc.ResolveOffering(ctx, organizationID, sourceID)
		if err != nil {
			return domain.Source{}, fmt.Errorf("catalog cart adapter: resolve offering: %w", err)
		}
		return domain.Source{
			Kind:           domain.KindOffering,
			SourceID:       offering.ID,
			Name:           offering.Name,
			UnitPriceCents: res.PriceCents,
			UnitLabel:      offering.UnitLabel,
		}, nil

	case domain.KindPackage:
		pkg, totals, err := a.svc.ResolvePackage(ctx, organizationID, sourceID)
		if err != nil {
			return domain.Source{}, fmt.Errorf("catalog cart adapter: resolve package: %w", err)
		}
		required := totals.RequiredLinks()
		components := make([]domain.Component, 0, len(required))
		for _, l := range required {
			components = append(components, domain.Component{
				OfferingID:     l.Link.Offering.ID,
				Name:           l.Link.Offering.Name,
				UnitPriceCents: l.Resolution.PriceCents,
				Quantity:       l.Link.Quantity,
				UnitLabel:      l.Link.Offering.UnitLabel,
			})
		}
		return domain.Source{
			Kind:           domain.KindPackage,
			SourceID:       pkg.ID,
			Name:           pkg.Name,
			UnitPriceCents: totals.RequiredCents,
			UnitLabel:      packageUnitLabel,
			Components:     components,
		}, nil

	default:
		return domain.Source{}, apperr.Validation("kind must be package or offering")
	}
}
