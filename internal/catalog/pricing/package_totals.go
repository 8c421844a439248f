package pricing

import (
	"github.com/shopspring/decimal"

	"backoffice_backend/internal/catalog/repository"
)

// optionalBundleFactor is the 10% preview discount shown on optional add-ons.
var optionalBundleFactor = decimal.RequireFromString("0.9")

// PricedLink is one package template link at the organization's price.
type PricedLink struct {
	Link       repository.PackageTemplate
	Resolution Resolution
	LineCents  int64
}

// PackageTotals is the priced view of a package for one organization.
// RequiredCents is the package's base cart price. DiscountedOptionalCents is a
// display preview only and is never committed to a cart.
type PackageTotals struct {
	RequiredCents           int64
	OptionalCents           int64
	DiscountedOptionalCents int64
	Links                   []PricedLink
}

// ComputePackageTotals prices every link at its effective price times link
// quantity and splits the sum into required and optional totals.
func ComputePackageTotals(links []repository.PackageTemplate, resolver *Resolver) PackageTotals {
	totals := PackageTotals{Links: make([]PricedLink, 0, len(links))}
	orgID := resolver.OrganizationID()

	for _, link := range links {
		res := resolver.EffectivePrice(link.Offering, orgID)
		lineCents := res.PriceCents * int64(link.Quantity)

		if link.IsOptional {
			totals.OptionalCents += lineCents
		} else {
			totals.RequiredCents += lineCents
		}
		totals.Links = append(totals.Links, PricedLink{Link: link, Resolution: res, LineCents: lineCents})
	}

	totals.DiscountedOptionalCents = DiscountedOptional(totals.OptionalCents)
	return totals
}

// DiscountedOptional returns optionalCents less the bundle preview discount,
// rounded half away from zero to the cent. Zero stays zero.
func DiscountedOptional(optionalCents int64) int64 {
	if optionalCents <= 0 {
		return 0
	}
	return decimal.NewFromInt(optionalCents).Mul(optionalBundleFactor).Round(0).IntPart()
}

// RequiredLinks returns the priced links included in the base price.
func (t PackageTotals) RequiredLinks() []PricedLink {
	out := make([]PricedLink, 0, len(t.Links))
	for _, l := range t.Links {
		if !l.Link.IsOptional {
			out = append(out, l)
		}
	}
	return out
}
