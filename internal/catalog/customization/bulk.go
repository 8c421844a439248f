package customization

import (
	"context"

	"github.com/google/uuid"

	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/platform/apperr"
)

// ProgressFunc receives (completed, total) after every processed offering.
type ProgressFunc func(completed, total int)

// BulkResult reports how far a bulk customization got.
type BulkResult struct {
	Total              int         `json:"total"`
	Completed          int         `json:"completed"`
	Created            int         `json:"created"`
	Skipped            int         `json:"skipped"`
	CreatedOfferingIDs []uuid.UUID `json:"createdOfferingIds"`
}

// BulkCustomize copies every shared offering of the given services into the
// organization at its current shared price. Offerings the organization has
// already customized are skipped and never repriced. Items run one at a time;
// on failure the partial result is returned with the error and earlier copies
// stay in place, so re-running is the retry path.
func (e *Engine) BulkCustomize(ctx context.Context, serviceIDs []uuid.UUID, organizationID uuid.UUID, progress ProgressFunc) (BulkResult, error) {
	result := BulkResult{CreatedOfferingIDs: make([]uuid.UUID, 0)}
	if len(serviceIDs) == 0 {
		return result, apperr.Validation("at least one service is required")
	}

	eligible, err := e.repo.ListOfferings(ctx, repository.OfferingFilter{ServiceIDs: serviceIDs})
	if err != nil {
		return result, apperr.AsStore("list shared offerings", err)
	}
	owned, err := e.repo.ListOfferings(ctx, repository.OfferingFilter{OrganizationID: &organizationID, ServiceIDs: serviceIDs})
	if err != nil {
		return result, apperr.AsStore("list organization offerings", err)
	}

	done := make(map[customizationKey]bool, len(owned))
	for _, o := range owned {
		done[keyOf(o)] = true
	}

	result.Total = len(eligible)
	log := e.log.WithContext(ctx)
	log.Info("bulk customization started", "organization_id", organizationID, "total", result.Total)

	for _, source := range eligible {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := keyOf(source)
		if done[key] {
			result.Skipped++
		} else {
			created, err := e.createCopy(ctx, source, organizationID, source.PriceCents)
			switch {
			case apperr.Is(err, apperr.KindConflict):
				result.Skipped++
			case err != nil:
				log.Error("bulk customization aborted", "organization_id", organizationID,
					"offering_id", source.ID, "completed", result.Completed, "total", result.Total, "error", err)
				return result, err
			default:
				result.Created++
				result.CreatedOfferingIDs = append(result.CreatedOfferingIDs, created.ID)
				log.Customization(string(OutcomeCreated), organizationID.String(), created.ID.String(), created.PriceCents)
			}
			done[key] = true
		}

		result.Completed++
		if progress != nil {
			progress(result.Completed, result.Total)
		}
	}

	log.Info("bulk customization finished", "organization_id", organizationID,
		"created", result.Created, "skipped", result.Skipped, "total", result.Total)
	return result, nil
}

type customizationKey struct {
	serviceID uuid.UUID
	name      string
}

func keyOf(o repository.Offering) customizationKey {
	return customizationKey{serviceID: o.ServiceID, name: o.Name}
}
