// Package customization creates and reprices organization-scoped copies of
// shared catalog offerings.
package customization

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"
)

// maxPriceCents keeps prices well inside int64 after quantity multiplication.
const maxPriceCents = int64(1_000_000_000_00)

// Outcome tells whether a customization inserted a copy or repriced one.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Result describes a single customization.
type Result struct {
	Outcome            Outcome
	Offering           repository.Offering
	SourceOfferingID   uuid.UUID
	PreviousPriceCents int64
}

// Engine applies customizations against the catalog store.
type Engine struct {
	repo repository.Repository
	log  *logger.Logger
}

// NewEngine creates a customization engine.
func NewEngine(repo repository.Repository, log *logger.Logger) *Engine {
	return &Engine{repo: repo, log: log}
}

// PriceToCents validates a user-entered price and converts it to cents,
// rounding half away from zero.
func PriceToCents(price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, apperr.Validation("price must be zero or greater")
	}
	cents := price.Shift(2).Round(0)
	if cents.GreaterThan(decimal.NewFromInt(maxPriceCents)) {
		return 0, apperr.Validation("price is too large")
	}
	return cents.IntPart(), nil
}

// Customize sets organizationID's price for the offering. The organization's
// own offering, or its existing copy of a shared one, is repriced in place.
// Otherwise a copy of the shared offering and its line items is created.
func (e *Engine) Customize(ctx context.Context, offeringID, organizationID uuid.UUID, newPrice decimal.Decimal) (Result, error) {
	priceCents, err := PriceToCents(newPrice)
	if err != nil {
		return Result{}, err
	}

	source, err := e.repo.GetOfferingByID(ctx, offeringID)
	if err != nil {
		return Result{}, apperr.AsStore("load offering", err)
	}

	if source.OwnedBy(organizationID) {
		return e.reprice(ctx, source, source.ID, organizationID, priceCents)
	}
	if !source.IsShared() {
		// Another organization's copy is not visible here.
		return Result{}, apperr.NotFound("offering not found")
	}

	existing, err := e.repo.FindCustomization(ctx, organizationID, source.ServiceID, source.Name)
	switch {
	case err == nil:
		return e.reprice(ctx, existing, source.ID, organizationID, priceCents)
	case !apperr.Is(err, apperr.KindNotFound):
		return Result{}, apperr.AsStore("find customization", err)
	}

	created, err := e.createCopy(ctx, source, organizationID, priceCents)
	if apperr.Is(err, apperr.KindConflict) {
		// Lost the insert race; the winner's copy is repriced instead.
		existing, findErr := e.repo.FindCustomization(ctx, organizationID, source.ServiceID, source.Name)
		if findErr != nil {
			return Result{}, apperr.AsStore("find customization after conflict", findErr)
		}
		return e.reprice(ctx, existing, source.ID, organizationID, priceCents)
	}
	if err != nil {
		return Result{}, err
	}

	e.log.WithContext(ctx).Customization(string(OutcomeCreated), organizationID.String(), created.ID.String(), priceCents)
	return Result{
		Outcome:            OutcomeCreated,
		Offering:           created,
		SourceOfferingID:   source.ID,
		PreviousPriceCents: source.PriceCents,
	}, nil
}

func (e *Engine) reprice(ctx context.Context, target repository.Offering, sourceID, organizationID uuid.UUID, priceCents int64) (Result, error) {
	updated, err := e.repo.UpdateOfferingPrice(ctx, organizationID, target.ID, priceCents)
	if err != nil {
		return Result{}, apperr.AsStore("update offering price", err)
	}

	e.log.WithContext(ctx).Customization(string(OutcomeUpdated), organizationID.String(), updated.ID.String(), priceCents)
	return Result{
		Outcome:            OutcomeUpdated,
		Offering:           updated,
		SourceOfferingID:   sourceID,
		PreviousPriceCents: target.PriceCents,
	}, nil
}

// createCopy inserts the organization copy and then its line items. A failed
// line-item insert deletes the new parent so no partial copy survives.
func (e *Engine) createCopy(ctx context.Context, source repository.Offering, organizationID uuid.UUID, priceCents int64) (repository.Offering, error) {
	items, err := e.repo.ListOfferingLineItems(ctx, source.ID)
	if err != nil {
		return repository.Offering{}, apperr.AsStore("list offering line items", err)
	}

	created, err := e.repo.CreateOffering(ctx, repository.CreateOfferingParams{
		ServiceID:      source.ServiceID,
		OrganizationID: organizationID,
		Name:           source.Name,
		Description:    source.Description,
		PriceCents:     priceCents,
		UnitLabel:      source.UnitLabel,
		IsTemplate:     true,
		QualityTier:    source.QualityTier,
		WarrantyMonths: source.WarrantyMonths,
		EstimatedHours: source.EstimatedHours,
		SkillLevel:     source.SkillLevel,
		Attributes:     source.Attributes,
	})
	if err != nil {
		return repository.Offering{}, apperr.AsStore("create offering copy", err)
	}

	for _, it := range items {
		insertErr := e.repo.CreateOfferingLineItem(ctx, repository.CreateOfferingLineItemParams{
			OfferingID:   created.ID,
			LineItemID:   it.LineItem.ID,
			Quantity:     it.Quantity,
			IsOptional:   it.IsOptional,
			DisplayOrder: it.DisplayOrder,
		})
		if insertErr == nil {
			continue
		}

		log := e.log.WithContext(ctx)
		if delErr := e.repo.DeleteOffering(context.WithoutCancel(ctx), organizationID, created.ID); delErr != nil {
			log.DatabaseError("compensate offering copy", delErr)
			return repository.Offering{}, apperr.Store("copy offering line items", errors.Join(insertErr, delErr)).WithOp("create offering copy")
		}
		log.Warn("offering copy rolled back", "offering_id", created.ID, "source_offering_id", source.ID, "error", insertErr)
		return repository.Offering{}, apperr.Store("copy offering line items", insertErr).WithOp("create offering copy")
	}

	return created, nil
}
