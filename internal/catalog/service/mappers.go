package service

import (
	"backoffice_backend/internal/catalog/customization"
	"backoffice_backend/internal/catalog/jobs"
	"backoffice_backend/internal/catalog/pricing"
	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/internal/catalog/transport"
)

func toOfferingResponse(o repository.Offering, res pricing.Resolution) transport.OfferingResponse {
	attrs := o.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return transport.OfferingResponse{
		ID:               o.ID,
		ServiceID:        o.ServiceID,
		OrganizationID:   o.OrganizationID,
		Name:             o.Name,
		Description:      o.Description,
		UnitLabel:        o.UnitLabel,
		PriceCents:       res.PriceCents,
		SharedPriceCents: o.PriceCents,
		IsCustomized:     res.IsCustomized,
		CustomizationID:  res.CustomizationID,
		QualityTier:      o.QualityTier,
		WarrantyMonths:   o.WarrantyMonths,
		EstimatedHours:   o.EstimatedHours,
		SkillLevel:       o.SkillLevel,
		Attributes:       attrs,
	}
}

func toPackageResponse(p repository.Package, totals pricing.PackageTotals) transport.PackageResponse {
	return transport.PackageResponse{
		ID:                           p.ID,
		IndustryID:                   p.IndustryID,
		Name:                         p.Name,
		Level:                        p.Level,
		IsFeatured:                   p.IsFeatured,
		Description:                  p.Description,
		RequiredTotalCents:           totals.RequiredCents,
		OptionalTotalCents:           totals.OptionalCents,
		DiscountedOptionalTotalCents: totals.DiscountedOptionalCents,
	}
}

func toBulkResponse(r customization.BulkResult) transport.BulkCustomizeResponse {
	return transport.BulkCustomizeResponse{
		Total:              r.Total,
		Completed:          r.Completed,
		Created:            r.Created,
		Skipped:            r.Skipped,
		CreatedOfferingIDs: r.CreatedOfferingIDs,
	}
}

func toBulkJobResponse(p jobs.Progress) transport.BulkJobResponse {
	return transport.BulkJobResponse{
		JobID:      p.JobID,
		Status:     string(p.Status),
		ServiceIDs: p.ServiceIDs,
		Total:      p.Total,
		Completed:  p.Completed,
		Created:    p.Created,
		Skipped:    p.Skipped,
		Error:      p.Error,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
