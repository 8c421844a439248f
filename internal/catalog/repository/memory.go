package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"backoffice_backend/platform/apperr"
)

type offeringLineItemRow struct {
	ID           uuid.UUID
	OfferingID   uuid.UUID
	LineItemID   uuid.UUID
	Quantity     float64
	IsOptional   bool
	DisplayOrder int
}

type packageTemplateRow struct {
	ID           uuid.UUID
	PackageID    uuid.UUID
	OfferingID   uuid.UUID
	Quantity     int
	IsOptional   bool
	DisplayOrder int
}

// Memory is an in-process catalog store used for development seeds and tests.
// It enforces the same per-organization uniqueness as the Postgres index.
type Memory struct {
	mu         sync.RWMutex
	industries map[uuid.UUID]Industry
	services   map[uuid.UUID]Service
	offerings  map[uuid.UUID]Offering
	lineItems  map[uuid.UUID]LineItem
	breakdown  []offeringLineItemRow
	packages   map[uuid.UUID]Package
	templates  []packageTemplateRow
	now        func() time.Time
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		industries: make(map[uuid.UUID]Industry),
		services:   make(map[uuid.UUID]Service),
		offerings:  make(map[uuid.UUID]Offering),
		lineItems:  make(map[uuid.UUID]LineItem),
		packages:   make(map[uuid.UUID]Package),
		now:        time.Now,
	}
}

var _ Repository = (*Memory)(nil)

// AddIndustry seeds an industry.
func (m *Memory) AddIndustry(name string) Industry {
	m.mu.Lock()
	defer m.mu.Unlock()
	ind := Industry{ID: uuid.New(), Name: name}
	m.industries[ind.ID] = ind
	return ind
}

// AddService seeds a service.
func (m *Memory) AddService(industryID uuid.UUID, name, category string) Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category == "" {
		category = CategoryUncategorized
	}
	svc := Service{ID: uuid.New(), IndustryID: industryID, Name: name, Category: category}
	m.services[svc.ID] = svc
	return svc
}

// AddOffering seeds an offering as given. A zero ID is replaced.
func (m *Memory) AddOffering(o Offering) Offering {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.UnitLabel == "" {
		o.UnitLabel = "ea"
	}
	if o.Attributes == nil {
		o.Attributes = map[string]any{}
	}
	now := m.now()
	o.CreatedAt, o.UpdatedAt = now, now
	m.offerings[o.ID] = o
	return o
}

// AddLineItem seeds a base line item.
func (m *Memory) AddLineItem(li LineItem) LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	m.lineItems[li.ID] = li
	return li
}

// AddPackage seeds a package.
func (m *Memory) AddPackage(p Package) Package {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.packages[p.ID] = p
	return p
}

// LinkPackageOffering seeds a package template link.
func (m *Memory) LinkPackageOffering(packageID, offeringID uuid.UUID, quantity int, optional bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = append(m.templates, packageTemplateRow{
		ID:           uuid.New(),
		PackageID:    packageID,
		OfferingID:   offeringID,
		Quantity:     quantity,
		IsOptional:   optional,
		DisplayOrder: len(m.templates),
	})
}

func (m *Memory) ListIndustries(_ context.Context) ([]Industry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Industry, 0, len(m.industries))
	for _, ind := range m.industries {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) GetIndustryByID(_ context.Context, id uuid.UUID) (Industry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ind, ok := m.industries[id]
	if !ok {
		return Industry{}, apperr.NotFound(industryNotFoundMessage)
	}
	return ind, nil
}

func (m *Memory) ListServices(_ context.Context, industryID uuid.UUID) ([]Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Service, 0)
	for _, svc := range m.services {
		if svc.IndustryID == industryID {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) ListOfferings(_ context.Context, filter OfferingFilter) ([]Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	services := make(map[uuid.UUID]bool, len(filter.ServiceIDs))
	for _, id := range filter.ServiceIDs {
		services[id] = true
	}

	out := make([]Offering, 0)
	for _, o := range m.offerings {
		if filter.OrganizationID == nil && !o.IsShared() {
			continue
		}
		if filter.OrganizationID != nil && !o.OwnedBy(*filter.OrganizationID) {
			continue
		}
		if len(services) > 0 && !services[o.ServiceID] {
			continue
		}
		if filter.IndustryID != nil && m.services[o.ServiceID].IndustryID != *filter.IndustryID {
			continue
		}
		out = append(out, cloneOffering(o))
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := m.services[out[i].ServiceID].Name, m.services[out[j].ServiceID].Name
		if si != sj {
			return si < sj
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *Memory) GetOfferingByID(_ context.Context, id uuid.UUID) (Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.offerings[id]
	if !ok {
		return Offering{}, apperr.NotFound(offeringNotFoundMessage)
	}
	return cloneOffering(o), nil
}

func (m *Memory) FindCustomization(_ context.Context, organizationID, serviceID uuid.UUID, name string) (Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.findCustomizationLocked(organizationID, serviceID, name); ok {
		return cloneOffering(o), nil
	}
	return Offering{}, apperr.NotFound(customizationNotFoundMessage)
}

func (m *Memory) ListOfferingLineItems(_ context.Context, offeringID uuid.UUID) ([]OfferingLineItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]OfferingLineItem, 0)
	for _, row := range m.breakdown {
		if row.OfferingID != offeringID {
			continue
		}
		out = append(out, OfferingLineItem{
			ID:           row.ID,
			OfferingID:   row.OfferingID,
			LineItem:     m.lineItems[row.LineItemID],
			Quantity:     row.Quantity,
			IsOptional:   row.IsOptional,
			DisplayOrder: row.DisplayOrder,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *Memory) CreateOffering(_ context.Context, params CreateOfferingParams) (Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.findCustomizationLocked(params.OrganizationID, params.ServiceID, params.Name); exists {
		return Offering{}, apperr.Conflict(duplicateCustomizationMsg).WithOp("create offering")
	}

	orgID := params.OrganizationID
	now := m.now()
	o := Offering{
		ID:             uuid.New(),
		ServiceID:      params.ServiceID,
		OrganizationID: &orgID,
		Name:           params.Name,
		Description:    params.Description,
		PriceCents:     params.PriceCents,
		UnitLabel:      params.UnitLabel,
		IsTemplate:     params.IsTemplate,
		QualityTier:    params.QualityTier,
		WarrantyMonths: params.WarrantyMonths,
		EstimatedHours: params.EstimatedHours,
		SkillLevel:     params.SkillLevel,
		Attributes:     copyAttributes(params.Attributes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.offerings[o.ID] = o
	return cloneOffering(o), nil
}

func (m *Memory) CreateOfferingLineItem(_ context.Context, params CreateOfferingLineItemParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakdown = append(m.breakdown, offeringLineItemRow{
		ID:           uuid.New(),
		OfferingID:   params.OfferingID,
		LineItemID:   params.LineItemID,
		Quantity:     params.Quantity,
		IsOptional:   params.IsOptional,
		DisplayOrder: params.DisplayOrder,
	})
	return nil
}

// AddOfferingLineItem seeds a breakdown row for an offering.
func (m *Memory) AddOfferingLineItem(offeringID, lineItemID uuid.UUID, quantity float64, optional bool, order int) {
	_ = m.CreateOfferingLineItem(context.Background(), CreateOfferingLineItemParams{
		OfferingID:   offeringID,
		LineItemID:   lineItemID,
		Quantity:     quantity,
		IsOptional:   optional,
		DisplayOrder: order,
	})
}

func (m *Memory) UpdateOfferingPrice(_ context.Context, organizationID, id uuid.UUID, priceCents int64) (Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offerings[id]
	if !ok || !o.OwnedBy(organizationID) {
		return Offering{}, apperr.NotFound(offeringNotFoundMessage)
	}
	o.PriceCents = priceCents
	o.UpdatedAt = m.now()
	m.offerings[id] = o
	return cloneOffering(o), nil
}

func (m *Memory) DeleteOffering(_ context.Context, organizationID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offerings[id]
	if !ok || !o.OwnedBy(organizationID) {
		return apperr.NotFound(offeringNotFoundMessage)
	}
	delete(m.offerings, id)
	kept := m.breakdown[:0]
	for _, row := range m.breakdown {
		if row.OfferingID != id {
			kept = append(kept, row)
		}
	}
	m.breakdown = kept
	return nil
}

func (m *Memory) ListPackages(_ context.Context, industryID *uuid.UUID) ([]Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Package, 0)
	for _, p := range m.packages {
		if industryID != nil && p.IndustryID != *industryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if levelRank(out[i].Level) != levelRank(out[j].Level) {
			return levelRank(out[i].Level) < levelRank(out[j].Level)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) GetPackageByID(_ context.Context, id uuid.UUID) (Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.packages[id]
	if !ok {
		return Package{}, apperr.NotFound(packageNotFoundMessage)
	}
	return p, nil
}

func (m *Memory) ListPackageTemplates(_ context.Context, packageID uuid.UUID) ([]PackageTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PackageTemplate, 0)
	for _, row := range m.templates {
		if row.PackageID != packageID {
			continue
		}
		o, ok := m.offerings[row.OfferingID]
		if !ok {
			continue
		}
		out = append(out, PackageTemplate{
			ID:           row.ID,
			PackageID:    row.PackageID,
			Offering:     cloneOffering(o),
			Quantity:     row.Quantity,
			IsOptional:   row.IsOptional,
			DisplayOrder: row.DisplayOrder,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

// CountCustomizations returns how many copies an organization owns for
// (serviceID, name). Used by tests to assert the uniqueness invariant.
func (m *Memory) CountCustomizations(organizationID, serviceID uuid.UUID, name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, o := range m.offerings {
		if o.OwnedBy(organizationID) && o.ServiceID == serviceID && o.Name == name {
			count++
		}
	}
	return count
}

func (m *Memory) findCustomizationLocked(organizationID, serviceID uuid.UUID, name string) (Offering, bool) {
	for _, o := range m.offerings {
		if o.OwnedBy(organizationID) && o.ServiceID == serviceID && o.Name == name {
			return o, true
		}
	}
	return Offering{}, false
}

func levelRank(level string) int {
	switch level {
	case LevelEssentials:
		return 1
	case LevelComplete:
		return 2
	default:
		return 3
	}
}

func cloneOffering(o Offering) Offering {
	o.Attributes = copyAttributes(o.Attributes)
	if o.OrganizationID != nil {
		orgID := *o.OrganizationID
		o.OrganizationID = &orgID
	}
	return o
}

func copyAttributes(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
