package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backoffice_backend/internal/cart/domain"
	"backoffice_backend/internal/cart/repository"
	"backoffice_backend/internal/cart/transport"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"
)

type cartConfig struct{ taxRate string }

func (c cartConfig) GetCartTTL() time.Duration { return time.Hour }
func (c cartConfig) GetDefaultTaxRate() string { return c.taxRate }

type fakeCatalog struct {
	sources map[uuid.UUID]domain.Source
	calls   int
}

func (f *fakeCatalog) ResolveSource(_ context.Context, _ uuid.UUID, kind domain.Kind, id uuid.UUID) (domain.Source, error) {
	f.calls++
	src, ok := f.sources[id]
	if !ok || src.Kind != kind {
		return domain.Source{}, apperr.NotFound("offering not found")
	}
	return src, nil
}

type fakeEstimates struct {
	drafts []EstimateDraft
	err    error
}

func (f *fakeEstimates) CreateDraft(_ context.Context, d EstimateDraft) (EstimateRef, error) {
	if f.err != nil {
		return EstimateRef{}, f.err
	}
	f.drafts = append(f.drafts, d)
	return EstimateRef{ID: uuid.New(), Number: "EST-2026-0001"}, nil
}

type cartFixture struct {
	svc       *Service
	store     *repository.MemoryStore
	catalog   *fakeCatalog
	estimates *fakeEstimates
	key       repository.SessionKey
	drain     domain.Source
	pkg       domain.Source
}

func newCartFixture(taxRate string) cartFixture {
	drain := domain.Source{Kind: domain.KindOffering, SourceID: uuid.New(), Name: "Drain Cleaning", UnitPriceCents: 17500, UnitLabel: "ea"}
	pkg := domain.Source{
		Kind:           domain.KindPackage,
		SourceID:       uuid.New(),
		Name:           "Drain Care",
		UnitPriceCents: 40000,
		Components: []domain.Component{
			{OfferingID: uuid.New(), Name: "Inspection", UnitPriceCents: 10000, Quantity: 1},
			{OfferingID: uuid.New(), Name: "Snaking", UnitPriceCents: 15000, Quantity: 2},
		},
	}
	catalog := &fakeCatalog{sources: map[uuid.UUID]domain.Source{drain.SourceID: drain, pkg.SourceID: pkg}}
	estimates := &fakeEstimates{}
	store := repository.NewMemoryStore()

	return cartFixture{
		svc:       New(store, catalog, estimates, cartConfig{taxRate: taxRate}, logger.Discard()),
		store:     store,
		catalog:   catalog,
		estimates: estimates,
		key:       repository.SessionKey{OrganizationID: uuid.New(), UserID: uuid.New()},
		drain:     drain,
		pkg:       pkg,
	}
}

func (f cartFixture) add(t *testing.T, src domain.Source) transport.CartResponse {
	t.Helper()
	resp, err := f.svc.AddItem(context.Background(), f.key, transport.AddItemRequest{Kind: string(src.Kind), SourceID: src.SourceID})
	require.NoError(t, err)
	return resp
}

func TestDrainCleaningCheckout(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture("8.25")

	f.add(t, f.drain)
	f.add(t, f.drain)
	resp := f.add(t, f.pkg)
	require.Len(t, resp.Items, 2)
	require.Equal(t, 2, resp.Items[0].Quantity)

	includeTax := true
	resp, err := f.svc.SetAdjustments(ctx, f.key, transport.AdjustmentsRequest{
		DiscountPercent: ptr(decimal.NewFromInt(10)),
		IncludeTax:      &includeTax,
	})
	require.NoError(t, err)
	require.Equal(t, domain.Totals{
		SubtotalCents: 75000,
		DiscountCents: 7500,
		TaxableCents:  67500,
		TaxCents:      5569,
		TotalCents:    73069,
	}, resp.Totals)

	out, err := f.svc.Checkout(ctx, f.key)
	require.NoError(t, err)
	require.Equal(t, "EST-2026-0001", out.EstimateNumber)
	require.Equal(t, 3, out.LineCount)

	require.Len(t, f.estimates.drafts, 1)
	draft := f.estimates.drafts[0]
	require.Equal(t, f.key.OrganizationID, draft.OrganizationID)
	require.Equal(t, f.key.UserID, draft.CreatedByID)
	require.Equal(t, "Snaking (Drain Care)", draft.Lines[2].Description)
	require.Equal(t, 2, draft.Lines[2].Quantity)

	cart, err := f.svc.Get(ctx, f.key)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
}

func TestRepeatAddKeepsPriceSnapshot(t *testing.T) {
	f := newCartFixture("0")
	f.add(t, f.drain)

	repriced := f.drain
	repriced.UnitPriceCents = 99900
	f.catalog.sources[f.drain.SourceID] = repriced

	resp := f.add(t, f.drain)
	require.Equal(t, int64(17500), resp.Items[0].UnitPriceCents)
	require.Equal(t, int64(35000), resp.Items[0].SubtotalCents)
	require.Equal(t, 1, f.catalog.calls)
}

func TestNewCartUsesDefaultTaxRate(t *testing.T) {
	f := newCartFixture("8.25")
	resp, err := f.svc.Get(context.Background(), f.key)
	require.NoError(t, err)
	require.True(t, resp.TaxRate.Equal(decimal.RequireFromString("8.25")))
	require.False(t, resp.IncludeTax)
}

func TestSetQuantityAndRemove(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture("0")
	f.add(t, f.drain)
	key := domain.ItemKey(domain.KindOffering, f.drain.SourceID)

	resp, err := f.svc.SetQuantity(ctx, f.key, key, 5)
	require.NoError(t, err)
	require.Equal(t, int64(87500), resp.Totals.SubtotalCents)

	resp, err = f.svc.SetQuantity(ctx, f.key, key, 0)
	require.NoError(t, err)
	require.Empty(t, resp.Items)

	_, err = f.svc.RemoveItem(ctx, f.key, key)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.svc.SetQuantity(ctx, f.key, "offering:"+uuid.NewString(), 2)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAddItemErrors(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture("0")

	_, err := f.svc.AddItem(ctx, f.key, transport.AddItemRequest{Kind: "bundle", SourceID: uuid.New()})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.AddItem(ctx, f.key, transport.AddItemRequest{Kind: "offering", SourceID: uuid.New()})
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCartFixture("0")
	_, err := f.svc.Checkout(context.Background(), f.key)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture("0")
	f.add(t, f.drain)
	f.estimates.err = apperr.Store("record store failure", errors.New("connection reset"))

	_, err := f.svc.Checkout(ctx, f.key)
	require.True(t, apperr.Is(err, apperr.KindStore))

	cart, err := f.svc.Get(ctx, f.key)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
}

func ptr[T any](v T) *T {
	return &v
}
