package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"backoffice_backend/internal/catalog/customization"
	"backoffice_backend/internal/catalog/jobs"
	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/logger"
)

type failingEngine struct {
	result customization.BulkResult
	err    error
}

func (f failingEngine) BulkCustomize(_ context.Context, _ []uuid.UUID, _ uuid.UUID, progress customization.ProgressFunc) (customization.BulkResult, error) {
	for i := 1; i <= f.result.Completed; i++ {
		progress(i, f.result.Total)
	}
	return f.result, f.err
}

func bulkTask(t *testing.T, jobID, orgID uuid.UUID, serviceIDs ...uuid.UUID) *asynq.Task {
	t.Helper()
	ids := make([]string, len(serviceIDs))
	for i, id := range serviceIDs {
		ids[i] = id.String()
	}
	task, err := NewBulkCustomizeTask(BulkCustomizePayload{JobID: jobID.String(), OrganizationID: orgID.String(), ServiceIDs: ids})
	require.NoError(t, err)
	return task
}

func TestHandleBulkCustomizeRecordsCompletion(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	ind := store.AddIndustry("Plumbing")
	svc := store.AddService(ind.ID, "Drains", repository.CategoryRepair)
	for _, name := range []string{"A", "B", "C"} {
		store.AddOffering(repository.Offering{ServiceID: svc.ID, Name: name, PriceCents: 1000})
	}

	progress := jobs.NewMemoryStore()
	w := newWorker(customization.NewEngine(store, logger.Discard()), progress, logger.Discard())
	jobID, orgID := uuid.New(), uuid.New()
	require.NoError(t, progress.Save(ctx, jobs.Progress{JobID: jobID, OrganizationID: orgID, Status: jobs.StatusQueued}))

	require.NoError(t, w.handleBulkCustomize(ctx, bulkTask(t, jobID, orgID, svc.ID)))

	got, err := progress.Get(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, jobs.StatusCompleted, got.Status)
	require.Equal(t, 3, got.Total)
	require.Equal(t, 3, got.Completed)
	require.Equal(t, 3, got.Created)
	require.Equal(t, 1, store.CountCustomizations(orgID, svc.ID, "A"))
}

func TestHandleBulkCustomizeRecordsFailure(t *testing.T) {
	ctx := context.Background()
	progress := jobs.NewMemoryStore()
	engine := failingEngine{
		result: customization.BulkResult{Total: 3, Completed: 1, Created: 1},
		err:    apperr.Store("record store failure", errors.New("connection reset")),
	}
	w := newWorker(engine, progress, logger.Discard())
	jobID, orgID := uuid.New(), uuid.New()

	err := w.handleBulkCustomize(ctx, bulkTask(t, jobID, orgID, uuid.New()))
	require.Error(t, err)
	require.ErrorIs(t, err, asynq.SkipRetry)

	got, getErr := progress.Get(ctx, jobID)
	require.NoError(t, getErr)
	require.Equal(t, jobs.StatusFailed, got.Status)
	require.Equal(t, 1, got.Completed)
	require.Equal(t, 3, got.Total)
	require.NotEmpty(t, got.Error)
}

func TestHandleBulkCustomizeSkipsRetryOnBadPayload(t *testing.T) {
	w := newWorker(failingEngine{}, jobs.NewMemoryStore(), logger.Discard())

	err := w.handleBulkCustomize(context.Background(), asynq.NewTask(TaskBulkCustomize, []byte(`{"jobId":"nope"}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = w.handleBulkCustomize(context.Background(), bulkTask(t, uuid.New(), uuid.New()))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
