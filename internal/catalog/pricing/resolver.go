// Package pricing resolves effective offering prices for an organization and
// aggregates package totals from them.
package pricing

import (
	"github.com/google/uuid"

	"backoffice_backend/internal/catalog/repository"
)

type customizationKey struct {
	serviceID uuid.UUID
	name      string
}

// Resolution is the effective price of an offering for one organization.
type Resolution struct {
	PriceCents   int64
	IsCustomized bool
	// CustomizationID is the organization-scoped offering the price came
	// from, nil when the shared price applies.
	CustomizationID *uuid.UUID
}

// Resolver answers effective price lookups for a single organization. It is
// built from that organization's customizations so list screens resolve every
// row without further store reads.
type Resolver struct {
	organizationID uuid.UUID
	customizations map[customizationKey]repository.Offering
}

// NewResolver indexes the given organization-scoped offerings by
// (service, name). Offerings owned by other organizations are ignored.
func NewResolver(organizationID uuid.UUID, customizations []repository.Offering) *Resolver {
	idx := make(map[customizationKey]repository.Offering, len(customizations))
	for _, o := range customizations {
		if !o.OwnedBy(organizationID) {
			continue
		}
		idx[customizationKey{serviceID: o.ServiceID, name: o.Name}] = o
	}
	return &Resolver{organizationID: organizationID, customizations: idx}
}

// OrganizationID returns the organization this resolver answers for.
func (r *Resolver) OrganizationID() uuid.UUID {
	return r.organizationID
}

// Customization returns the organization's copy for (serviceID, name).
func (r *Resolver) Customization(serviceID uuid.UUID, name string) (repository.Offering, bool) {
	o, ok := r.customizations[customizationKey{serviceID: serviceID, name: name}]
	return o, ok
}

// EffectivePrice returns the price organizationID pays for offering.
// An offering owned by the organization is its own customization. Otherwise a
// copy sharing (service, name) wins over the shared price. Lookups for an
// organization other than the resolver's only see the offering itself.
func (r *Resolver) EffectivePrice(offering repository.Offering, organizationID uuid.UUID) Resolution {
	if offering.OwnedBy(organizationID) {
		id := offering.ID
		return Resolution{PriceCents: offering.PriceCents, IsCustomized: true, CustomizationID: &id}
	}

	if organizationID == r.organizationID {
		if custom, ok := r.Customization(offering.ServiceID, offering.Name); ok {
			id := custom.ID
			return Resolution{PriceCents: custom.PriceCents, IsCustomized: true, CustomizationID: &id}
		}
	}

	return Resolution{PriceCents: offering.PriceCents}
}
