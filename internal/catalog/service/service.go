package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"backoffice_backend/internal/catalog/customization"
	"backoffice_backend/internal/catalog/filters"
	"backoffice_backend/internal/catalog/jobs"
	"backoffice_backend/internal/catalog/pricing"
	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/internal/catalog/transport"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 100
	packageLoadParallel = 4
)

// BulkJobQueue hands bulk customizations to the background worker.
type BulkJobQueue interface {
	EnqueueBulkCustomization(ctx context.Context, jobID, organizationID uuid.UUID, serviceIDs []uuid.UUID) error
}

// Service provides business logic for the catalog.
type Service struct {
	repo    repository.Repository
	engine  *customization.Engine
	filters *filters.Definitions
	jobs    jobs.Store
	queue   BulkJobQueue
	log     *logger.Logger
	now     func() time.Time
}

// New creates a new catalog service.
func New(repo repository.Repository, engine *customization.Engine, defs *filters.Definitions, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		engine:  engine,
		filters: defs,
		log:     log,
		now:     time.Now,
	}
}

// SetBulkJobs wires background bulk customization. Without it only the
// synchronous bulk endpoint is available.
func (s *Service) SetBulkJobs(store jobs.Store, queue BulkJobQueue) {
	s.jobs = store
	s.queue = queue
}

// ListIndustries returns all industries.
func (s *Service) ListIndustries(ctx context.Context) ([]transport.IndustryResponse, error) {
	industries, err := s.repo.ListIndustries(ctx)
	if err != nil {
		return nil, apperr.AsStore("list industries", err)
	}
	out := make([]transport.IndustryResponse, 0, len(industries))
	for _, ind := range industries {
		out = append(out, transport.IndustryResponse{ID: ind.ID, Name: ind.Name})
	}
	return out, nil
}

// ListServices returns the services of an industry.
func (s *Service) ListServices(ctx context.Context, industryID uuid.UUID) ([]transport.ServiceResponse, error) {
	if _, err := s.repo.GetIndustryByID(ctx, industryID); err != nil {
		return nil, apperr.AsStore("get industry", err)
	}
	services, err := s.repo.ListServices(ctx, industryID)
	if err != nil {
		return nil, apperr.AsStore("list services", err)
	}
	out := make([]transport.ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, transport.ServiceResponse{
			ID:         svc.ID,
			IndustryID: svc.IndustryID,
			Name:       svc.Name,
			Category:   svc.Category,
		})
	}
	return out, nil
}

// ListFilterDefinitions returns the attribute filters offered for an industry.
func (s *Service) ListFilterDefinitions(ctx context.Context, industryID uuid.UUID) ([]transport.FilterDefinitionResponse, error) {
	industry, err := s.repo.GetIndustryByID(ctx, industryID)
	if err != nil {
		return nil, apperr.AsStore("get industry", err)
	}
	defs := s.filters.ForIndustry(industry.Name)
	out := make([]transport.FilterDefinitionResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, transport.FilterDefinitionResponse{
			Key:     d.Key,
			Label:   d.Label,
			Type:    string(d.Type),
			Options: d.Options,
			Min:     d.Min,
			Max:     d.Max,
			Unit:    d.Unit,
		})
	}
	return out, nil
}

// ListOfferings returns shared offerings at the organization's effective
// price, narrowed by the active attribute filters of the chosen industry.
func (s *Service) ListOfferings(ctx context.Context, tenantID uuid.UUID, req transport.ListOfferingsRequest, rawFilters map[string]string) (transport.OfferingListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	filter := repository.OfferingFilter{}
	selection := filters.NewSelection()
	if req.IndustryID != "" {
		industryID, err := uuid.Parse(req.IndustryID)
		if err != nil {
			return transport.OfferingListResponse{}, apperr.Validation("invalid industryId")
		}
		filter.IndustryID = &industryID
		selection.SetIndustry(industryID)
	}
	if req.ServiceID != "" {
		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			return transport.OfferingListResponse{}, apperr.Validation("invalid serviceId")
		}
		filter.ServiceIDs = []uuid.UUID{serviceID}
	}
	if hasValues(rawFilters) && filter.IndustryID == nil {
		return transport.OfferingListResponse{}, apperr.Validation("industryId is required when filtering")
	}

	var (
		industry repository.Industry
		shared   []repository.Offering
		owned    []repository.Offering
	)
	g, gctx := errgroup.WithContext(ctx)
	if filter.IndustryID != nil {
		g.Go(func() error {
			var err error
			industry, err = s.repo.GetIndustryByID(gctx, *filter.IndustryID)
			return err
		})
	}
	g.Go(func() error {
		var err error
		shared, err = s.repo.ListOfferings(gctx, filter)
		return err
	})
	g.Go(func() error {
		ownFilter := filter
		ownFilter.OrganizationID = &tenantID
		var err error
		owned, err = s.repo.ListOfferings(gctx, ownFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.OfferingListResponse{}, apperr.AsStore("list offerings", err)
	}

	if hasValues(rawFilters) {
		active, err := filters.ParseActive(s.filters.ForIndustry(industry.Name), rawFilters)
		if err != nil {
			return transport.OfferingListResponse{}, err
		}
		selection.SetAll(active)
	}

	matched := filters.Apply(shared, selection.Active())
	resolver := pricing.NewResolver(tenantID, owned)

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]transport.OfferingResponse, 0, end-start)
	for _, o := range matched[start:end] {
		items = append(items, toOfferingResponse(o, resolver.EffectivePrice(o, tenantID)))
	}

	return transport.OfferingListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// GetOffering returns one offering with its line-item breakdown.
func (s *Service) GetOffering(ctx context.Context, tenantID, id uuid.UUID) (transport.OfferingDetailResponse, error) {
	offering, res, err := s.ResolveOffering(ctx, tenantID, id)
	if err != nil {
		return transport.OfferingDetailResponse{}, err
	}

	items, err := s.repo.ListOfferingLineItems(ctx, offering.ID)
	if err != nil {
		return transport.OfferingDetailResponse{}, apperr.AsStore("list offering line items", err)
	}

	breakdown := pricing.SumBreakdown(items)
	lineItems := make([]transport.OfferingLineItemResponse, 0, len(items))
	for _, it := range items {
		lineItems = append(lineItems, transport.OfferingLineItemResponse{
			ID:             it.ID,
			LineItemID:     it.LineItem.ID,
			Name:           it.LineItem.Name,
			UnitPriceCents: it.LineItem.PriceCents,
			UnitLabel:      it.LineItem.UnitLabel,
			CostCategory:   it.LineItem.CostCategory,
			Quantity:       it.Quantity,
			IsOptional:     it.IsOptional,
			DisplayOrder:   it.DisplayOrder,
		})
	}

	return transport.OfferingDetailResponse{
		OfferingResponse:            toOfferingResponse(offering, res),
		LineItems:                   lineItems,
		LineItemsTotalCents:         breakdown.RequiredCents,
		OptionalLineItemsTotalCents: breakdown.OptionalCents,
	}, nil
}

// ResolveOffering loads an offering visible to the organization together with
// its effective price.
func (s *Service) ResolveOffering(ctx context.Context, tenantID, id uuid.UUID) (repository.Offering, pricing.Resolution, error) {
	offering, err := s.repo.GetOfferingByID(ctx, id)
	if err != nil {
		return repository.Offering{}, pricing.Resolution{}, apperr.AsStore("get offering", err)
	}
	if !offering.IsShared() && !offering.OwnedBy(tenantID) {
		return repository.Offering{}, pricing.Resolution{}, apperr.NotFound("offering not found")
	}

	var owned []repository.Offering
	if offering.IsShared() {
		custom, err := s.repo.FindCustomization(ctx, tenantID, offering.ServiceID, offering.Name)
		switch {
		case err == nil:
			owned = append(owned, custom)
		case !apperr.Is(err, apperr.KindNotFound):
			return repository.Offering{}, pricing.Resolution{}, apperr.AsStore("find customization", err)
		}
	}

	resolver := pricing.NewResolver(tenantID, owned)
	return offering, resolver.EffectivePrice(offering, tenantID), nil
}

// ListPackages returns packages with their totals at the organization's prices.
func (s *Service) ListPackages(ctx context.Context, tenantID uuid.UUID, req transport.ListPackagesRequest) ([]transport.PackageResponse, error) {
	var industryID *uuid.UUID
	if req.IndustryID != "" {
		id, err := uuid.Parse(req.IndustryID)
		if err != nil {
			return nil, apperr.Validation("invalid industryId")
		}
		industryID = &id
	}

	packages, err := s.repo.ListPackages(ctx, industryID)
	if err != nil {
		return nil, apperr.AsStore("list packages", err)
	}
	// Links may point at offerings from any industry, so the organization's
	// copies are loaded unfiltered.
	owned, err := s.repo.ListOfferings(ctx, repository.OfferingFilter{OrganizationID: &tenantID})
	if err != nil {
		return nil, apperr.AsStore("list organization offerings", err)
	}
	resolver := pricing.NewResolver(tenantID, owned)

	out := make([]transport.PackageResponse, len(packages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(packageLoadParallel)
	for i, pkg := range packages {
		i, pkg := i, pkg
		g.Go(func() error {
			links, err := s.repo.ListPackageTemplates(gctx, pkg.ID)
			if err != nil {
				return err
			}
			out[i] = toPackageResponse(pkg, pricing.ComputePackageTotals(links, resolver))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.AsStore("list package templates", err)
	}
	return out, nil
}

// GetPackage returns a package with its priced links.
func (s *Service) GetPackage(ctx context.Context, tenantID, id uuid.UUID) (transport.PackageDetailResponse, error) {
	pkg, totals, err := s.ResolvePackage(ctx, tenantID, id)
	if err != nil {
		return transport.PackageDetailResponse{}, err
	}

	items := make([]transport.PackageItemResponse, 0, len(totals.Links))
	for _, l := range totals.Links {
		items = append(items, transport.PackageItemResponse{
			OfferingID:     l.Link.Offering.ID,
			Name:           l.Link.Offering.Name,
			UnitLabel:      l.Link.Offering.UnitLabel,
			Quantity:       l.Link.Quantity,
			IsOptional:     l.Link.IsOptional,
			UnitPriceCents: l.Resolution.PriceCents,
			IsCustomized:   l.Resolution.IsCustomized,
			LineTotalCents: l.LineCents,
		})
	}

	return transport.PackageDetailResponse{
		PackageResponse: toPackageResponse(pkg, totals),
		Items:           items,
	}, nil
}

// ResolvePackage loads a package and prices it for the organization.
func (s *Service) ResolvePackage(ctx context.Context, tenantID, id uuid.UUID) (repository.Package, pricing.PackageTotals, error) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return repository.Package{}, pricing.PackageTotals{}, apperr.AsStore("get package", err)
	}

	var (
		links []repository.PackageTemplate
		owned []repository.Offering
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		links, err = s.repo.ListPackageTemplates(gctx, pkg.ID)
		return err
	})
	g.Go(func() error {
		var err error
		owned, err = s.repo.ListOfferings(gctx, repository.OfferingFilter{OrganizationID: &tenantID})
		return err
	})
	if err := g.Wait(); err != nil {
		return repository.Package{}, pricing.PackageTotals{}, apperr.AsStore("load package", err)
	}

	return pkg, pricing.ComputePackageTotals(links, pricing.NewResolver(tenantID, owned)), nil
}

// CustomizePrice sets the organization's price for an offering.
func (s *Service) CustomizePrice(ctx context.Context, tenantID, offeringID uuid.UUID, req transport.CustomizePriceRequest) (transport.CustomizationResponse, error) {
	if req.Price == nil {
		return transport.CustomizationResponse{}, apperr.Validation("price is required")
	}

	result, err := s.engine.Customize(ctx, offeringID, tenantID, *req.Price)
	if err != nil {
		return transport.CustomizationResponse{}, err
	}

	id := result.Offering.ID
	return transport.CustomizationResponse{
		Outcome:            string(result.Outcome),
		SourceOfferingID:   result.SourceOfferingID,
		PreviousPriceCents: result.PreviousPriceCents,
		Offering: toOfferingResponse(result.Offering, pricing.Resolution{
			PriceCents:      result.Offering.PriceCents,
			IsCustomized:    true,
			CustomizationID: &id,
		}),
	}, nil
}

// BulkCustomize copies every shared offering of the services into the
// organization. On failure the partial progress is attached to the error.
func (s *Service) BulkCustomize(ctx context.Context, tenantID uuid.UUID, req transport.BulkCustomizeRequest) (transport.BulkCustomizeResponse, error) {
	result, err := s.engine.BulkCustomize(ctx, req.ServiceIDs, tenantID, nil)
	resp := toBulkResponse(result)
	if err != nil {
		return resp, withPartialResult(err, resp)
	}
	return resp, nil
}

// StartBulkJob records a queued job and hands it to the background worker.
func (s *Service) StartBulkJob(ctx context.Context, tenantID uuid.UUID, req transport.BulkCustomizeRequest) (transport.BulkJobResponse, error) {
	if s.jobs == nil || s.queue == nil {
		return transport.BulkJobResponse{}, apperr.Store("background jobs are not configured", errors.New("bulk job queue disabled"))
	}
	if len(req.ServiceIDs) == 0 {
		return transport.BulkJobResponse{}, apperr.Validation("at least one service is required")
	}

	now := s.now().UTC()
	progress := jobs.Progress{
		JobID:          uuid.New(),
		OrganizationID: tenantID,
		ServiceIDs:     req.ServiceIDs,
		Status:         jobs.StatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.jobs.Save(ctx, progress); err != nil {
		return transport.BulkJobResponse{}, apperr.AsStore("save bulk job", err)
	}
	if err := s.queue.EnqueueBulkCustomization(ctx, progress.JobID, tenantID, req.ServiceIDs); err != nil {
		return transport.BulkJobResponse{}, apperr.AsStore("enqueue bulk job", err)
	}

	s.log.WithContext(ctx).Info("bulk customization job queued", "job_id", progress.JobID, "services", len(req.ServiceIDs))
	return toBulkJobResponse(progress), nil
}

// GetBulkJob returns the progress of one of the organization's bulk jobs.
func (s *Service) GetBulkJob(ctx context.Context, tenantID, jobID uuid.UUID) (transport.BulkJobResponse, error) {
	if s.jobs == nil {
		return transport.BulkJobResponse{}, apperr.NotFound("bulk customization job not found")
	}
	progress, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return transport.BulkJobResponse{}, apperr.AsStore("get bulk job", err)
	}
	if progress.OrganizationID != tenantID {
		return transport.BulkJobResponse{}, apperr.NotFound("bulk customization job not found")
	}
	return toBulkJobResponse(progress), nil
}

func withPartialResult(err error, partial transport.BulkCustomizeResponse) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return apperr.Wrap(domainErr.Kind, domainErr.Message, err).WithDetails(partial)
	}
	return apperr.Store("bulk customization interrupted", err).WithDetails(partial)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func hasValues(m map[string]string) bool {
	for _, v := range m {
		if v != "" {
			return true
		}
	}
	return false
}
