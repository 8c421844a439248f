// Package jobs tracks the progress of background bulk customizations.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a bulk job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Progress is the stored snapshot of a bulk customization job.
type Progress struct {
	JobID          uuid.UUID   `json:"jobId"`
	OrganizationID uuid.UUID   `json:"organizationId"`
	ServiceIDs     []uuid.UUID `json:"serviceIds"`
	Status         Status      `json:"status"`
	Total          int         `json:"total"`
	Completed      int         `json:"completed"`
	Created        int         `json:"created"`
	Skipped        int         `json:"skipped"`
	Error          string      `json:"error,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Store persists job progress snapshots. Get returns a not found error for
// unknown or expired jobs.
type Store interface {
	Save(ctx context.Context, p Progress) error
	Get(ctx context.Context, jobID uuid.UUID) (Progress, error)
}
