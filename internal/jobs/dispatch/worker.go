package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/ironcrown/realmforge/internal/clock"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

// WorkerConfig tunes the poll loop: how often to look for due jobs,
// how long a lease lasts before another worker may reclaim it, and how
// many jobs to lease per tick. Mirrors the teacher's worker Config
// field naming (PollInterval/LeaseTTL/BatchSize). There is no retry
// count: a handler error fails the job immediately (spec §4.7, §7);
// LeaseTTL alone governs how soon a crashed worker's stale lease is
// reclaimed by another worker, with no cap on how many times that can
// happen, since a crash (unlike a handler error) never runs this far.
type WorkerConfig struct {
	Consumer     string
	PollInterval time.Duration
	LeaseTTL     time.Duration
	BatchSize    int
}

// Worker polls for due jobs and dispatches each to its registered
// handler inside its own UnitOfWork, committing on success and marking
// the job Failed (never retried, spec §7) on error.
type Worker struct {
	provider storage.Provider
	registry *Registry
	clock    clock.Clock
	cfg      WorkerConfig
	log      *slog.Logger
}

// NewWorker creates a Worker bound to provider/registry.
func NewWorker(provider storage.Provider, registry *Registry, clk clock.Clock, cfg WorkerConfig, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		provider: provider,
		registry: registry,
		clock:    clk,
		cfg:      cfg,
		log:      log,
	}
}

// Run blocks, polling every PollInterval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.processDueJobs(ctx); err != nil {
				w.log.Error("process due jobs", "error", err)
			}
		}
	}
}

// processDueJobs leases a batch of due jobs and runs each to completion.
func (w *Worker) processDueJobs(ctx context.Context) error {
	uow, err := w.provider.Begin(ctx)
	if err != nil {
		return err
	}

	leaseCtx := storage.WithLeaseOwner(ctx, w.cfg.Consumer)
	due, err := uow.Jobs().FindAndLockDueJobs(leaseCtx, w.clock.Now(), w.cfg.LeaseTTL, w.cfg.BatchSize)
	if err != nil {
		_ = uow.Rollback(ctx)
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}
	if len(due) > 0 {
		w.log.Info("processing due jobs", "count", len(due))
	}

	for _, job := range due {
		w.processOne(ctx, job)
	}
	return nil
}

// processOne runs a single leased job in its own transaction.
func (w *Worker) processOne(ctx context.Context, job *jobs.Job) {
	log := w.log.With("job_id", job.ID, "task_type", job.Task.TaskType, "player_id", job.PlayerID, "village_id", job.VillageID)

	handler, err := w.registry.Get(job.Task.TaskType)
	if err != nil {
		log.Error("no handler for task type", "error", err)
		w.failJob(ctx, job.ID, err.Error())
		return
	}

	uow, err := w.provider.Begin(ctx)
	if err != nil {
		log.Error("begin uow", "error", err)
		return
	}

	if err := handler.Handle(ctx, uow, job); err != nil {
		log.Error("job failed", "error", err)
		_ = uow.Rollback(ctx)
		w.failJob(ctx, job.ID, err.Error())
		return
	}

	job.MarkCompleted(w.clock.Now())
	if err := uow.Jobs().Save(ctx, job); err != nil {
		log.Error("save completed job", "error", err)
		_ = uow.Rollback(ctx)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		log.Error("commit completed job", "error", err)
		return
	}
	log.Info("job completed")
}

// failJob marks a job Failed in its own transaction, separate from
// whatever transaction the failed attempt ran in (which was already
// rolled back).
func (w *Worker) failJob(ctx context.Context, jobID, reason string) {
	uow, err := w.provider.Begin(ctx)
	if err != nil {
		w.log.Error("begin uow for fail", "error", err)
		return
	}
	job, err := uow.Jobs().GetByID(ctx, jobID)
	if err != nil {
		_ = uow.Rollback(ctx)
		w.log.Error("load job to fail", "error", err)
		return
	}
	job.MarkFailed(reason, w.clock.Now())
	if err := uow.Jobs().Save(ctx, job); err != nil {
		_ = uow.Rollback(ctx)
		w.log.Error("save failed job", "error", err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		w.log.Error("commit failed job", "error", err)
	}
}
