package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"backoffice_backend/internal/catalog/customization"
	"backoffice_backend/internal/catalog/jobs"
	"backoffice_backend/platform/apperr"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"
)

// BulkCustomizer runs a bulk customization with progress callbacks.
type BulkCustomizer interface {
	BulkCustomize(ctx context.Context, serviceIDs []uuid.UUID, organizationID uuid.UUID, progress customization.ProgressFunc) (customization.BulkResult, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	engine BulkCustomizer
	jobs   jobs.Store
	log    *logger.Logger
	now    func() time.Time
}

func NewWorker(cfg config.SchedulerConfig, engine BulkCustomizer, store jobs.Store, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(engine, store, log)
	w.server = server
	return w, nil
}

func newWorker(engine BulkCustomizer, store jobs.Store, log *logger.Logger) *Worker {
	w := &Worker{
		mux:    asynq.NewServeMux(),
		engine: engine,
		jobs:   store,
		log:    log,
		now:    time.Now,
	}
	w.mux.HandleFunc(TaskBulkCustomize, w.handleBulkCustomize)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleBulkCustomize(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBulkCustomizePayload(task)
	if err != nil {
		return fmt.Errorf("parse bulk customize payload: %v: %w", err, asynq.SkipRetry)
	}
	jobID, orgID, serviceIDs, err := payload.ids()
	if err != nil {
		return fmt.Errorf("bulk customize payload: %v: %w", err, asynq.SkipRetry)
	}

	log := &logger.Logger{Logger: w.log.With("job_id", jobID, "organization_id", orgID)}
	progress := w.loadProgress(ctx, jobID, orgID, serviceIDs)
	progress.Status = jobs.StatusRunning
	progress.Error = ""
	w.save(ctx, log, &progress)

	result, runErr := w.engine.BulkCustomize(ctx, serviceIDs, orgID, func(completed, total int) {
		progress.Completed = completed
		progress.Total = total
		w.save(ctx, log, &progress)
	})

	progress.Total = result.Total
	progress.Completed = result.Completed
	progress.Created = result.Created
	progress.Skipped = result.Skipped

	if runErr != nil {
		progress.Status = jobs.StatusFailed
		progress.Error = runErr.Error()
		w.save(context.WithoutCancel(ctx), log, &progress)
		log.Error("bulk customization failed", "completed", result.Completed, "total", result.Total, "error", runErr)

		// The caller re-submits a failed run; completed items are skipped then.
		return fmt.Errorf("bulk customize: %v: %w", runErr, asynq.SkipRetry)
	}

	progress.Status = jobs.StatusCompleted
	w.save(ctx, log, &progress)
	log.Info("bulk customization completed", "created", result.Created, "skipped", result.Skipped)
	return nil
}

// loadProgress returns the stored snapshot or starts a fresh one when it has
// expired or was never written.
func (w *Worker) loadProgress(ctx context.Context, jobID, orgID uuid.UUID, serviceIDs []uuid.UUID) jobs.Progress {
	progress, err := w.jobs.Get(ctx, jobID)
	if err == nil {
		return progress
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		w.log.Warn("failed to load bulk job progress", "job_id", jobID, "error", err)
	}
	now := w.now().UTC()
	return jobs.Progress{
		JobID:          jobID,
		OrganizationID: orgID,
		ServiceIDs:     serviceIDs,
		CreatedAt:      now,
	}
}

// save is best effort; the customization itself is the source of truth.
func (w *Worker) save(ctx context.Context, log *logger.Logger, p *jobs.Progress) {
	p.UpdatedAt = w.now().UTC()
	if err := w.jobs.Save(ctx, *p); err != nil {
		log.Warn("failed to save bulk job progress", "error", err)
	}
}

func (p BulkCustomizePayload) ids() (jobID, orgID uuid.UUID, serviceIDs []uuid.UUID, err error) {
	if jobID, err = uuid.Parse(p.JobID); err != nil {
		return
	}
	if orgID, err = uuid.Parse(p.OrganizationID); err != nil {
		return
	}
	if len(p.ServiceIDs) == 0 {
		err = errors.New("no services")
		return
	}
	serviceIDs = make([]uuid.UUID, 0, len(p.ServiceIDs))
	for _, raw := range p.ServiceIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			err = parseErr
			return
		}
		serviceIDs = append(serviceIDs, id)
	}
	return
}
