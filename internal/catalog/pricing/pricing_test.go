package pricing

import (
	"testing"

	"github.com/google/uuid"

	"backoffice_backend/internal/catalog/repository"
)

func sharedOffering(serviceID uuid.UUID, name string, cents int64) repository.Offering {
	return repository.Offering{ID: uuid.New(), ServiceID: serviceID, Name: name, PriceCents: cents}
}

func orgOffering(orgID, serviceID uuid.UUID, name string, cents int64) repository.Offering {
	o := sharedOffering(serviceID, name, cents)
	o.OrganizationID = &orgID
	return o
}

func TestEffectivePriceDrainCleaning(t *testing.T) {
	serviceID := uuid.New()
	orgA := uuid.New()
	orgB := uuid.New()

	shared := sharedOffering(serviceID, "Drain Cleaning", 15000)
	custom := orgOffering(orgA, serviceID, "Drain Cleaning", 17500)

	resA := NewResolver(orgA, []repository.Offering{custom}).EffectivePrice(shared, orgA)
	if resA.PriceCents != 17500 || !resA.IsCustomized {
		t.Fatalf("org A: expected 17500 customized, got %+v", resA)
	}
	if resA.CustomizationID == nil || *resA.CustomizationID != custom.ID {
		t.Fatalf("org A: expected customization id %s", custom.ID)
	}

	resB := NewResolver(orgB, nil).EffectivePrice(shared, orgB)
	if resB.PriceCents != 15000 || resB.IsCustomized {
		t.Fatalf("org B: expected 15000 shared, got %+v", resB)
	}
}

func TestEffectivePriceOwnOffering(t *testing.T) {
	orgA := uuid.New()
	custom := orgOffering(orgA, uuid.New(), "Drain Cleaning", 17500)

	res := NewResolver(orgA, nil).EffectivePrice(custom, orgA)
	if res.PriceCents != 17500 || !res.IsCustomized {
		t.Fatalf("expected own offering to be customized, got %+v", res)
	}
}

func TestResolverIgnoresOtherOrganizations(t *testing.T) {
	serviceID := uuid.New()
	orgA := uuid.New()
	orgB := uuid.New()
	shared := sharedOffering(serviceID, "Drain Cleaning", 15000)
	foreign := orgOffering(orgB, serviceID, "Drain Cleaning", 99900)

	res := NewResolver(orgA, []repository.Offering{foreign}).EffectivePrice(shared, orgA)
	if res.IsCustomized || res.PriceCents != 15000 {
		t.Fatalf("expected foreign customization to be ignored, got %+v", res)
	}

	// A resolver built for org A must not leak its copies to org B lookups.
	custom := orgOffering(orgA, serviceID, "Drain Cleaning", 17500)
	res = NewResolver(orgA, []repository.Offering{custom}).EffectivePrice(shared, orgB)
	if res.IsCustomized {
		t.Fatalf("expected org B lookup to see shared price, got %+v", res)
	}
}

func TestPackageTotals(t *testing.T) {
	serviceID := uuid.New()
	orgID := uuid.New()

	inspect := sharedOffering(serviceID, "Inspection", 10000)
	snake := sharedOffering(serviceID, "Snaking", 15000)
	camera := sharedOffering(serviceID, "Camera", 3333)
	custom := orgOffering(orgID, serviceID, "Snaking", 15000+5000)

	links := []repository.PackageTemplate{
		{Offering: inspect, Quantity: 1},
		{Offering: snake, Quantity: 2},
		{Offering: camera, Quantity: 1, IsOptional: true},
	}

	totals := ComputePackageTotals(links, NewResolver(orgID, []repository.Offering{custom}))

	if totals.RequiredCents != 10000+2*20000 {
		t.Fatalf("expected required 50000, got %d", totals.RequiredCents)
	}
	if totals.OptionalCents != 3333 {
		t.Fatalf("expected optional 3333, got %d", totals.OptionalCents)
	}
	// 3333 * 0.9 = 2999.7
	if totals.DiscountedOptionalCents != 3000 {
		t.Fatalf("expected discounted optional 3000, got %d", totals.DiscountedOptionalCents)
	}
	if len(totals.RequiredLinks()) != 2 {
		t.Fatalf("expected 2 required links, got %d", len(totals.RequiredLinks()))
	}
}

func TestPackageTotalsWithoutOptional(t *testing.T) {
	links := []repository.PackageTemplate{
		{Offering: sharedOffering(uuid.New(), "Only", 40000), Quantity: 1},
	}
	totals := ComputePackageTotals(links, NewResolver(uuid.New(), nil))

	if totals.RequiredCents != 40000 || totals.OptionalCents != 0 || totals.DiscountedOptionalCents != 0 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestSumBreakdownIsIndependentOfOfferingPrice(t *testing.T) {
	items := []repository.OfferingLineItem{
		{LineItem: repository.LineItem{PriceCents: 9000}, Quantity: 1.5},
		{LineItem: repository.LineItem{PriceCents: 1250}, Quantity: 2},
		{LineItem: repository.LineItem{PriceCents: 500}, Quantity: 1, IsOptional: true},
	}

	got := SumBreakdown(items)
	if got.RequiredCents != 13500+2500 {
		t.Fatalf("expected required 16000, got %d", got.RequiredCents)
	}
	if got.OptionalCents != 500 {
		t.Fatalf("expected optional 500, got %d", got.OptionalCents)
	}
}
