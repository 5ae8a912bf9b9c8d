// Package storagetest provides an in-memory storage.Provider for
// handler and command tests, following the teacher's per-interface
// fake-store pattern (internal/campaign/service's fakeActorStore,
// fakeCampaignStore, ...) generalized to one struct backing every
// repository this repo's UnitOfWork bundles, since a job handler or
// command test typically touches several aggregates in one call.
package storagetest

import (
	"context"
	"time"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

// Store is an in-memory Provider: every Begin returns a UnitOfWork
// backed by the same maps, and Commit/Rollback are no-ops, since tests
// care about final state, not isolation between concurrent writers.
type Store struct {
	Players         map[string]*game.Player
	Villages        map[uint64]*game.Village
	Armies          map[string]*game.Army
	Heroes          map[string]*game.Hero
	Alliances       map[string]*game.Alliance
	AllianceLogs    []*game.AllianceLog
	AllianceInvites map[string]*game.AllianceInvite
	Jobs            map[string]*jobs.Job
	Reports         map[string]*game.Report
	MapFields       map[uint64]*game.MapField
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		Players:         make(map[string]*game.Player),
		Villages:        make(map[uint64]*game.Village),
		Armies:          make(map[string]*game.Army),
		Heroes:          make(map[string]*game.Hero),
		Alliances:       make(map[string]*game.Alliance),
		AllianceInvites: make(map[string]*game.AllianceInvite),
		Jobs:            make(map[string]*jobs.Job),
		Reports:         make(map[string]*game.Report),
		MapFields:       make(map[uint64]*game.MapField),
	}
}

func (s *Store) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	return &uow{s}, nil
}

type uow struct{ s *Store }

func (u *uow) Players() storage.PlayerRepository     { return playerRepo{u.s} }
func (u *uow) Villages() storage.VillageRepository   { return villageRepo{u.s} }
func (u *uow) Armies() storage.ArmyRepository        { return armyRepo{u.s} }
func (u *uow) Heroes() storage.HeroRepository        { return heroRepo{u.s} }
func (u *uow) Alliances() storage.AllianceRepository { return allianceRepo{u.s} }
func (u *uow) AllianceLogs() storage.AllianceLogRepository { return allianceLogRepo{u.s} }
func (u *uow) AllianceInvites() storage.AllianceInviteRepository {
	return allianceInviteRepo{u.s}
}
func (u *uow) Jobs() storage.JobRepository       { return jobRepo{u.s} }
func (u *uow) Reports() storage.ReportRepository { return reportRepo{u.s} }
func (u *uow) Map() storage.MapRepository        { return mapRepo{u.s} }

func (u *uow) Commit(ctx context.Context) error   { return nil }
func (u *uow) Rollback(ctx context.Context) error { return nil }

var _ storage.Provider = (*Store)(nil)

type playerRepo struct{ s *Store }

func (r playerRepo) GetByID(ctx context.Context, id string) (*game.Player, error) {
	p, ok := r.s.Players[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return p, nil
}

func (r playerRepo) Save(ctx context.Context, p *game.Player) error {
	r.s.Players[p.ID] = p
	return nil
}

type villageRepo struct{ s *Store }

func (r villageRepo) GetByID(ctx context.Context, id uint64) (*game.Village, error) {
	v, ok := r.s.Villages[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return v, nil
}

func (r villageRepo) GetCapitalByPlayerID(ctx context.Context, playerID string) (*game.Village, error) {
	for _, v := range r.s.Villages {
		if v.PlayerID == playerID && v.IsCapital {
			return v, nil
		}
	}
	return nil, gameerrors.ErrNotFound
}

func (r villageRepo) Save(ctx context.Context, v *game.Village) error {
	r.s.Villages[v.ID] = v
	return nil
}

func (r villageRepo) Add(ctx context.Context, v *game.Village) error {
	r.s.Villages[v.ID] = v
	return nil
}

type armyRepo struct{ s *Store }

func (r armyRepo) GetByID(ctx context.Context, id string) (*game.Army, error) {
	a, ok := r.s.Armies[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return a, nil
}

func (r armyRepo) Save(ctx context.Context, a *game.Army) error {
	r.s.Armies[a.ID] = a
	return nil
}

func (r armyRepo) Add(ctx context.Context, a *game.Army) error {
	r.s.Armies[a.ID] = a
	return nil
}

func (r armyRepo) Remove(ctx context.Context, id string) error {
	delete(r.s.Armies, id)
	return nil
}

type heroRepo struct{ s *Store }

func (r heroRepo) GetByID(ctx context.Context, id string) (*game.Hero, error) {
	h, ok := r.s.Heroes[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return h, nil
}

func (r heroRepo) GetByPlayerID(ctx context.Context, playerID string) (*game.Hero, error) {
	for _, h := range r.s.Heroes {
		if h.PlayerID == playerID {
			return h, nil
		}
	}
	return nil, gameerrors.ErrNotFound
}

func (r heroRepo) Save(ctx context.Context, h *game.Hero) error {
	r.s.Heroes[h.ID] = h
	return nil
}

type allianceRepo struct{ s *Store }

func (r allianceRepo) GetByID(ctx context.Context, id string) (*game.Alliance, error) {
	a, ok := r.s.Alliances[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return a, nil
}

func (r allianceRepo) GetByTag(ctx context.Context, tag string) (*game.Alliance, error) {
	for _, a := range r.s.Alliances {
		if a.Tag == tag {
			return a, nil
		}
	}
	return nil, gameerrors.ErrNotFound
}

func (r allianceRepo) GetLeader(ctx context.Context, allianceID string) (*game.Player, error) {
	a, ok := r.s.Alliances[allianceID]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return playerRepo{r.s}.GetByID(ctx, a.LeaderID)
}

func (r allianceRepo) CountMembers(ctx context.Context, allianceID string) (int, error) {
	count := 0
	for _, p := range r.s.Players {
		if p.AllianceID == allianceID {
			count++
		}
	}
	return count, nil
}

func (r allianceRepo) Save(ctx context.Context, a *game.Alliance) error {
	r.s.Alliances[a.ID] = a
	return nil
}

func (r allianceRepo) Add(ctx context.Context, a *game.Alliance) error {
	r.s.Alliances[a.ID] = a
	return nil
}

type allianceLogRepo struct{ s *Store }

func (r allianceLogRepo) Add(ctx context.Context, l *game.AllianceLog) error {
	r.s.AllianceLogs = append(r.s.AllianceLogs, l)
	return nil
}

func (r allianceLogRepo) GetByAllianceID(ctx context.Context, allianceID string, limit, offset int) ([]*game.AllianceLog, error) {
	var out []*game.AllianceLog
	for _, l := range r.s.AllianceLogs {
		if l.AllianceID == allianceID {
			out = append(out, l)
		}
	}
	return out, nil
}

type allianceInviteRepo struct{ s *Store }

func (r allianceInviteRepo) GetByID(ctx context.Context, id string) (*game.AllianceInvite, error) {
	inv, ok := r.s.AllianceInvites[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return inv, nil
}

func (r allianceInviteRepo) Add(ctx context.Context, inv *game.AllianceInvite) error {
	r.s.AllianceInvites[inv.ID] = inv
	return nil
}

func (r allianceInviteRepo) Remove(ctx context.Context, id string) error {
	delete(r.s.AllianceInvites, id)
	return nil
}

type jobRepo struct{ s *Store }

func (r jobRepo) GetByID(ctx context.Context, id string) (*jobs.Job, error) {
	j, ok := r.s.Jobs[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return j, nil
}

func (r jobRepo) Add(ctx context.Context, j *jobs.Job) error {
	r.s.Jobs[j.ID] = j
	return nil
}

func (r jobRepo) Save(ctx context.Context, j *jobs.Job) error {
	r.s.Jobs[j.ID] = j
	return nil
}

func (r jobRepo) FindAndLockDueJobs(ctx context.Context, now time.Time, leaseTTL time.Duration, limit int) ([]*jobs.Job, error) {
	owner := storage.LeaseOwner(ctx)
	if owner == "" {
		owner = "worker"
	}
	var due []*jobs.Job
	for _, j := range r.s.Jobs {
		pending := j.Status == jobs.StatusPending && !j.CompletedAt.After(now)
		expired := j.Status == jobs.StatusProcessing && !j.LeaseExpires.After(now)
		if pending || expired {
			j.MarkProcessing(owner, now, leaseTTL)
			due = append(due, j)
			if len(due) >= limit {
				break
			}
		}
	}
	return due, nil
}

type reportRepo struct{ s *Store }

func (r reportRepo) Add(ctx context.Context, rpt *game.Report) error {
	r.s.Reports[rpt.ID] = rpt
	return nil
}

func (r reportRepo) GetByID(ctx context.Context, id string) (*game.Report, error) {
	rpt, ok := r.s.Reports[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return rpt, nil
}

func (r reportRepo) ListForPlayer(ctx context.Context, playerID string, limit, offset int) ([]*game.Report, error) {
	var out []*game.Report
	for _, rpt := range r.s.Reports {
		for _, entry := range rpt.Audience {
			if entry.PlayerID == playerID {
				out = append(out, rpt)
				break
			}
		}
	}
	return out, nil
}

type mapRepo struct{ s *Store }

func (r mapRepo) GetFieldByID(ctx context.Context, id uint64) (*game.MapField, error) {
	f, ok := r.s.MapFields[id]
	if !ok {
		return nil, gameerrors.ErrNotFound
	}
	return f, nil
}

func (r mapRepo) Save(ctx context.Context, f *game.MapField) error {
	r.s.MapFields[f.ID] = f
	return nil
}
