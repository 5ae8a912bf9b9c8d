// Package storage defines the repository-per-aggregate interfaces and
// the UnitOfWork/Provider pair (C4): every aggregate exposes get/save
// plus domain-specific finders, and a UoW bundles all of them behind
// one transaction so a command handler either commits every write or
// none of them.
package storage

import (
	"context"
	"time"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
)

// PlayerRepository persists Player aggregates.
type PlayerRepository interface {
	GetByID(ctx context.Context, id string) (*game.Player, error)
	Save(ctx context.Context, p *game.Player) error
}

// VillageRepository persists Village aggregates.
type VillageRepository interface {
	GetByID(ctx context.Context, id uint64) (*game.Village, error)
	GetCapitalByPlayerID(ctx context.Context, playerID string) (*game.Village, error)
	Save(ctx context.Context, v *game.Village) error
	Add(ctx context.Context, v *game.Village) error
}

// ArmyRepository persists Army aggregates, including reinforcements
// hosted away from their home village.
type ArmyRepository interface {
	GetByID(ctx context.Context, id string) (*game.Army, error)
	Save(ctx context.Context, a *game.Army) error
	Add(ctx context.Context, a *game.Army) error
	Remove(ctx context.Context, id string) error
}

// HeroRepository persists Hero aggregates.
type HeroRepository interface {
	GetByID(ctx context.Context, id string) (*game.Hero, error)
	GetByPlayerID(ctx context.Context, playerID string) (*game.Hero, error)
	Save(ctx context.Context, h *game.Hero) error
}

// AllianceRepository persists Alliance aggregates plus the
// domain-specific finders commands need (leader lookup, tag lookup,
// member counting).
type AllianceRepository interface {
	GetByID(ctx context.Context, id string) (*game.Alliance, error)
	GetByTag(ctx context.Context, tag string) (*game.Alliance, error)
	GetLeader(ctx context.Context, allianceID string) (*game.Player, error)
	CountMembers(ctx context.Context, allianceID string) (int, error)
	Save(ctx context.Context, a *game.Alliance) error
	Add(ctx context.Context, a *game.Alliance) error
}

// AllianceLogRepository persists the append-only alliance audit trail.
type AllianceLogRepository interface {
	Add(ctx context.Context, l *game.AllianceLog) error
	GetByAllianceID(ctx context.Context, allianceID string, limit, offset int) ([]*game.AllianceLog, error)
}

// AllianceInviteRepository persists pending alliance membership requests.
type AllianceInviteRepository interface {
	GetByID(ctx context.Context, id string) (*game.AllianceInvite, error)
	Add(ctx context.Context, inv *game.AllianceInvite) error
	Remove(ctx context.Context, id string) error
}

// JobRepository persists scheduled deferred-action jobs, including the
// atomic lease operation the worker loop depends on (spec §4.7).
type JobRepository interface {
	GetByID(ctx context.Context, id string) (*jobs.Job, error)
	Add(ctx context.Context, j *jobs.Job) error
	Save(ctx context.Context, j *jobs.Job) error

	// FindAndLockDueJobs atomically selects up to limit Pending jobs
	// whose CompletedAt has passed (or leased-but-expired jobs) and
	// transitions them to Processing in the same operation, so two
	// workers racing against the same row never both observe it as
	// claimable.
	FindAndLockDueJobs(ctx context.Context, now time.Time, leaseTTL time.Duration, limit int) ([]*jobs.Job, error)
}

// ReportRepository persists domain events (battle reports, trade
// deliveries, …) addressed to a set of player audiences.
type ReportRepository interface {
	Add(ctx context.Context, r *game.Report) error
	GetByID(ctx context.Context, id string) (*game.Report, error)
	ListForPlayer(ctx context.Context, playerID string, limit, offset int) ([]*game.Report, error)
}

// MapRepository persists the world grid: one row per field ID, tagged
// as a Valley or an Oasis (spec §5).
type MapRepository interface {
	GetFieldByID(ctx context.Context, id uint64) (*game.MapField, error)
	Save(ctx context.Context, f *game.MapField) error
}

// leaseOwnerKey is the context key backends use to recover the
// worker's consumer label inside FindAndLockDueJobs, which takes no
// owner parameter directly so the JobRepository interface stays the
// same shape across storage backends regardless of how each names its
// lease holder.
type leaseOwnerKey struct{}

// WithLeaseOwner returns a context carrying owner, read by storage
// backends' FindAndLockDueJobs to stamp the lease owner column/field.
func WithLeaseOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, leaseOwnerKey{}, owner)
}

// LeaseOwner reads the owner WithLeaseOwner stored, or "" if none was set.
func LeaseOwner(ctx context.Context) string {
	owner, _ := ctx.Value(leaseOwnerKey{}).(string)
	return owner
}

// UnitOfWork bundles every repository behind one transaction. Handles
// returned by the same UoW share that transaction; Commit or Rollback
// consumes it — neither may be called twice, and no repository call
// is valid once either has run.
type UnitOfWork interface {
	Players() PlayerRepository
	Villages() VillageRepository
	Armies() ArmyRepository
	Heroes() HeroRepository
	Alliances() AllianceRepository
	AllianceLogs() AllianceLogRepository
	AllianceInvites() AllianceInviteRepository
	Jobs() JobRepository
	Reports() ReportRepository
	Map() MapRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Provider creates a UnitOfWork bound to a fresh transaction from a
// connection pool.
type Provider interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
