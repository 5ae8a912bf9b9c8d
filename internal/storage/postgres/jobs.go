package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

type jobRepo struct{ tx pgx.Tx }

func (r jobRepo) GetByID(ctx context.Context, id string) (*jobs.Job, error) {
	row := r.tx.QueryRow(ctx, `
SELECT id, player_id, village_id, task_type, task_data, status, completed_at,
	lease_owner, lease_expires, last_error, created_at, updated_at
FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerrors.ErrNotFound
	}
	if err != nil {
		return nil, gameerrors.WrapDB("get job", err)
	}
	return j, nil
}

func (r jobRepo) Add(ctx context.Context, j *jobs.Job) error {
	return r.upsert(ctx, j)
}

func (r jobRepo) Save(ctx context.Context, j *jobs.Job) error {
	return r.upsert(ctx, j)
}

func (r jobRepo) upsert(ctx context.Context, j *jobs.Job) error {
	_, err := r.tx.Exec(ctx, `
INSERT INTO jobs (id, player_id, village_id, task_type, task_data, status, completed_at,
	lease_owner, lease_expires, last_error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT(id) DO UPDATE SET
	status = excluded.status, completed_at = excluded.completed_at,
	lease_owner = excluded.lease_owner, lease_expires = excluded.lease_expires,
	last_error = excluded.last_error, updated_at = excluded.updated_at
`,
		j.ID, j.PlayerID, j.VillageID, j.Task.TaskType, j.Task.Data, string(j.Status), j.CompletedAt.UnixMilli(),
		j.LeaseOwner, toMillisOrZero(j.LeaseExpires), j.LastError, j.CreatedAt.UnixMilli(), j.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return gameerrors.WrapDB("save job", err)
	}
	return nil
}

// FindAndLockDueJobs selects up to limit jobs that are Pending and due,
// or Processing with an expired lease, locking each selected row with
// SELECT ... FOR UPDATE SKIP LOCKED (Postgres's native expression of
// the same exclusivity the SQLite backend gets from a conditional
// UPDATE), then flips every locked row to Processing under this
// worker's lease in the same transaction.
func (r jobRepo) FindAndLockDueJobs(ctx context.Context, now time.Time, leaseTTL time.Duration, limit int) ([]*jobs.Job, error) {
	nowMillis := now.UnixMilli()
	rows, err := r.tx.Query(ctx, `
SELECT id FROM jobs
WHERE (status = $1 AND completed_at <= $2)
   OR (status = $3 AND lease_expires <= $2)
ORDER BY completed_at ASC, created_at ASC, id ASC
LIMIT $4
FOR UPDATE SKIP LOCKED
`, string(jobs.StatusPending), nowMillis, string(jobs.StatusProcessing), limit)
	if err != nil {
		return nil, gameerrors.WrapDB("select due jobs", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, gameerrors.WrapDB("scan due job id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, gameerrors.WrapDB("iterate due jobs", err)
	}
	rows.Close()
	if len(ids) == 0 {
		return nil, nil
	}

	leaseExpires := now.Add(leaseTTL).UnixMilli()
	owner := storage.LeaseOwner(ctx)
	if owner == "" {
		owner = "worker"
	}

	leased := make([]*jobs.Job, 0, len(ids))
	for _, id := range ids {
		_, err := r.tx.Exec(ctx, `
UPDATE jobs SET status = $1, lease_owner = $2, lease_expires = $3, updated_at = $4
WHERE id = $5
`, string(jobs.StatusProcessing), owner, leaseExpires, nowMillis, id)
		if err != nil {
			return nil, gameerrors.WrapDB("lease job", err)
		}

		row := r.tx.QueryRow(ctx, `
SELECT id, player_id, village_id, task_type, task_data, status, completed_at,
	lease_owner, lease_expires, last_error, created_at, updated_at
FROM jobs WHERE id = $1`, id)
		j, err := scanJob(row.Scan)
		if err != nil {
			return nil, gameerrors.WrapDB("scan leased job", err)
		}
		leased = append(leased, j)
	}
	return leased, nil
}

type jobScanner func(dest ...any) error

func scanJob(scan jobScanner) (*jobs.Job, error) {
	var (
		j                          jobs.Job
		taskType, taskData, status string
		completedAt, leaseExpires  int64
		createdAt, updatedAt       int64
	)
	if err := scan(&j.ID, &j.PlayerID, &j.VillageID, &taskType, &taskData, &status, &completedAt,
		&j.LeaseOwner, &leaseExpires, &j.LastError, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	j.Task = jobs.NewJobPayload(taskType, taskData)
	j.Status = jobs.Status(status)
	j.CompletedAt = time.UnixMilli(completedAt).UTC()
	j.CreatedAt = time.UnixMilli(createdAt).UTC()
	j.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	if leaseExpires > 0 {
		j.LeaseExpires = time.UnixMilli(leaseExpires).UTC()
	}
	return &j, nil
}

func toMillisOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
