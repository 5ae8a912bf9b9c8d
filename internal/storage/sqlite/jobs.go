package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

type jobRepo struct{ tx *sql.Tx }

func (r jobRepo) GetByID(ctx context.Context, id string) (*jobs.Job, error) {
	row := r.tx.QueryRowContext(ctx, `
SELECT id, player_id, village_id, task_type, task_data, status, completed_at,
	lease_owner, lease_expires, last_error, created_at, updated_at
FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err := r.tx.ExecContext(ctx, `
INSERT INTO jobs (id, player_id, village_id, task_type, task_data, status, completed_at,
	lease_owner, lease_expires, last_error, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

// FindAndLockDueJobs atomically selects up to limit jobs that are
// Pending and due, or Processing with an expired lease, and flips each
// to Processing under this worker's lease in the same transaction —
// mirroring the select-candidates-then-conditional-update shape of
// store_integration_outbox.go's LeaseIntegrationOutboxEvents, adapted
// to this repo's terminal-status job model (no retry counter, no
// separate consumer identity beyond the lease owner string).
func (r jobRepo) FindAndLockDueJobs(ctx context.Context, now time.Time, leaseTTL time.Duration, limit int) ([]*jobs.Job, error) {
	nowMillis := now.UnixMilli()
	rows, err := r.tx.QueryContext(ctx, `
SELECT id FROM jobs
WHERE (status = ? AND completed_at <= ?)
   OR (status = ? AND lease_expires <= ?)
ORDER BY completed_at ASC, created_at ASC, id ASC
LIMIT ?
`, string(jobs.StatusPending), nowMillis, string(jobs.StatusProcessing), nowMillis, limit)
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

	leaseExpires := now.Add(leaseTTL).UnixMilli()
	owner := storage.LeaseOwner(ctx)
	if owner == "" {
		owner = "worker"
	}

	var leased []*jobs.Job
	for _, id := range ids {
		result, err := r.tx.ExecContext(ctx, `
UPDATE jobs SET status = ?, lease_owner = ?, lease_expires = ?, updated_at = ?
WHERE id = ?
AND ((status = ? AND completed_at <= ?) OR (status = ? AND lease_expires <= ?))
`,
			string(jobs.StatusProcessing), owner, leaseExpires, nowMillis,
			id,
			string(jobs.StatusPending), nowMillis, string(jobs.StatusProcessing), nowMillis,
		)
		if err != nil {
			return nil, gameerrors.WrapDB("lease job", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, gameerrors.WrapDB("lease job rows affected", err)
		}
		if affected == 0 {
			continue
		}

		row := r.tx.QueryRowContext(ctx, `
SELECT id, player_id, village_id, task_type, task_data, status, completed_at,
	lease_owner, lease_expires, last_error, created_at, updated_at
FROM jobs WHERE id = ?`, id)
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
		j                           jobs.Job
		taskType, taskData, status  string
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

