// Package service implements the estimate cart session use cases.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backoffice_backend/internal/cart/domain"
	"backoffice_backend/internal/cart/repository"
	"backoffice_backend/internal/cart/transport"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"
)

const msgItemNotFound = "cart item not found"

// CatalogReader resolves a selection into a priced cart source for the
// organization. Packages carry their required components.
type CatalogReader interface {
	ResolveSource(ctx context.Context, organizationID uuid.UUID, kind domain.Kind, sourceID uuid.UUID) (domain.Source, error)
}

// EstimateDraft is the materialized cart handed to estimate creation.
type EstimateDraft struct {
	OrganizationID  uuid.UUID
	CreatedByID     uuid.UUID
	Lines           []domain.Line
	Totals          domain.Totals
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal
	IncludeTax      bool
}

// EstimateRef identifies a created estimate.
type EstimateRef struct {
	ID     uuid.UUID
	Number string
}

// EstimateWriter creates estimate drafts.
type EstimateWriter interface {
	CreateDraft(ctx context.Context, draft EstimateDraft) (EstimateRef, error)
}

// Service provides cart operations over persisted sessions.
type Service struct {
	store          repository.Store
	catalog        CatalogReader
	estimates      EstimateWriter
	defaultTaxRate decimal.Decimal
	log            *logger.Logger
}

// New creates a new cart service.
func New(store repository.Store, catalog CatalogReader, estimates EstimateWriter, cfg config.CartConfig, log *logger.Logger) *Service {
	taxRate, err := decimal.NewFromString(cfg.GetDefaultTaxRate())
	if err != nil {
		taxRate = decimal.Zero
	}
	return &Service{
		store:          store,
		catalog:        catalog,
		estimates:      estimates,
		defaultTaxRate: taxRate,
		log:            log,
	}
}

// Get returns the session's cart, empty when none exists yet.
func (s *Service) Get(ctx context.Context, key repository.SessionKey) (transport.CartResponse, error) {
	cart, err := s.load(ctx, key)
	if err != nil {
		return transport.CartResponse{}, err
	}
	return toCartResponse(cart), nil
}

// AddItem prices the selection for the organization and adds it to the cart.
// Adding an item already present bumps its quantity by one.
func (s *Service) AddItem(ctx context.Context, key repository.SessionKey, req transport.AddItemRequest) (transport.CartResponse, error) {
	kind := domain.Kind(req.Kind)
	if !kind.Valid() {
		return transport.CartResponse{}, apperr.Validation("kind must be package or offering")
	}

	cart, err := s.load(ctx, key)
	if err != nil {
		return transport.CartResponse{}, err
	}

	// Repeat adds keep the original price snapshot.
	if existing, ok := cart.Item(domain.ItemKey(kind, req.SourceID)); ok {
		cart.SetQuantity(existing.Key, existing.Quantity+1)
	} else {
		src, err := s.catalog.ResolveSource(ctx, key.OrganizationID, kind, req.SourceID)
		if err != nil {
			return transport.CartResponse{}, err
		}
		cart.Add(src)
	}

	if err := s.store.Save(ctx, key, cart); err != nil {
		return transport.CartResponse{}, err
	}
	return toCartResponse(cart), nil
}

// SetQuantity changes an item's quantity. Zero or less removes the item.
func (s *Service) SetQuantity(ctx context.Context, key repository.SessionKey, itemKey string, qty int) (transport.CartResponse, error) {
	cart, err := s.load(ctx, key)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if !cart.SetQuantity(itemKey, qty) {
		return transport.CartResponse{}, apperr.NotFound(msgItemNotFound)
	}
	if err := s.store.Save(ctx, key, cart); err != nil {
		return transport.CartResponse{}, err
	}
	return toCartResponse(cart), nil
}

// RemoveItem drops an item from the cart.
func (s *Service) RemoveItem(ctx context.Context, key repository.SessionKey, itemKey string) (transport.CartResponse, error) {
	cart, err := s.load(ctx, key)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if !cart.Remove(itemKey) {
		return transport.CartResponse{}, apperr.NotFound(msgItemNotFound)
	}
	if err := s.store.Save(ctx, key, cart); err != nil {
		return transport.CartResponse{}, err
	}
	return toCartResponse(cart), nil
}

// Clear discards the session's cart.
func (s *Service) Clear(ctx context.Context, key repository.SessionKey) error {
	return s.store.Delete(ctx, key)
}

// SetAdjustments updates discount, tax rate and tax inclusion.
func (s *Service) SetAdjustments(ctx context.Context, key repository.SessionKey, req transport.AdjustmentsRequest) (transport.CartResponse, error) {
	cart, err := s.load(ctx, key)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if req.DiscountPercent != nil {
		cart.SetDiscountPercent(*req.DiscountPercent)
	}
	if req.TaxRate != nil {
		cart.SetTaxRate(*req.TaxRate)
	}
	if req.IncludeTax != nil {
		cart.SetIncludeTax(*req.IncludeTax)
	}
	if err := s.store.Save(ctx, key, cart); err != nil {
		return transport.CartResponse{}, err
	}
	return toCartResponse(cart), nil
}

// Checkout materializes the cart into an estimate draft and clears the
// session once the draft is stored.
func (s *Service) Checkout(ctx context.Context, key repository.SessionKey) (transport.CheckoutResponse, error) {
	cart, found, err := s.store.Load(ctx, key)
	if err != nil {
		return transport.CheckoutResponse{}, err
	}
	if !found || cart.Len() == 0 {
		return transport.CheckoutResponse{}, apperr.Validation("cart is empty")
	}

	lines := cart.Materialize()
	if len(lines) == 0 {
		return transport.CheckoutResponse{}, apperr.Validation("cart has no billable lines")
	}
	totals := cart.Totals()

	ref, err := s.estimates.CreateDraft(ctx, EstimateDraft{
		OrganizationID:  key.OrganizationID,
		CreatedByID:     key.UserID,
		Lines:           lines,
		Totals:          totals,
		DiscountPercent: cart.DiscountPercent(),
		TaxRate:         cart.TaxRate(),
		IncludeTax:      cart.IncludeTax(),
	})
	if err != nil {
		return transport.CheckoutResponse{}, err
	}

	log := s.log.WithContext(ctx)
	if err := s.store.Delete(ctx, key); err != nil {
		// The estimate exists; a stale cart is recoverable by the user.
		log.Warn("failed to clear cart after checkout", "estimate_id", ref.ID, "error", err)
	}
	log.Info("estimate created from cart", "estimate_id", ref.ID, "number", ref.Number, "lines", len(lines))

	return transport.CheckoutResponse{
		EstimateID:     ref.ID,
		EstimateNumber: ref.Number,
		LineCount:      len(lines),
		Totals:         totals,
	}, nil
}

func (s *Service) load(ctx context.Context, key repository.SessionKey) (*domain.Cart, error) {
	cart, found, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		cart = domain.New()
		cart.SetTaxRate(s.defaultTaxRate)
	}
	return cart, nil
}

func toCartResponse(c *domain.Cart) transport.CartResponse {
	return transport.CartResponse{
		Items:           c.Items(),
		DiscountPercent: c.DiscountPercent(),
		TaxRate:         c.TaxRate(),
		IncludeTax:      c.IncludeTax(),
		Totals:          c.Totals(),
	}
}
