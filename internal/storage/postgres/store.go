// Package postgres is the production storage.Provider binding named
// in spec §6: the same JSON-blob-plus-indexed-columns shape as
// internal/storage/sqlite, backed by a jackc/pgx/v5 pool instead of
// modernc.org/sqlite, with FindAndLockDueJobs expressed as Postgres's
// idiomatic SELECT ... FOR UPDATE SKIP LOCKED rather than the
// candidate-then-conditional-update pattern SQLite needs.
package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ironcrown/realmforge/internal/storage"
	"github.com/ironcrown/realmforge/internal/storage/postgres/migrations"
)

// Provider opens transactions against a Postgres connection pool.
type Provider struct {
	pool *pgxpool.Pool
}

// Open connects to dsn (a standard postgres:// URL) and runs its
// embedded migrations.
func Open(ctx context.Context, dsn string) (*Provider, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &Provider{pool: pool}
	if err := p.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return p, nil
}

// Close releases the underlying connection pool.
func (p *Provider) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}

// Begin starts a new transaction-bound UnitOfWork.
func (p *Provider) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

func (p *Provider) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUpMigration(string(content))
		if upSQL == "" {
			continue
		}
		if _, err := p.pool.Exec(ctx, upSQL); err != nil {
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
	}
	return nil
}

func extractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}

// unitOfWork bundles every repository behind one pgx.Tx.
type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) Players() storage.PlayerRepository                 { return playerRepo{u.tx} }
func (u *unitOfWork) Villages() storage.VillageRepository               { return villageRepo{u.tx} }
func (u *unitOfWork) Armies() storage.ArmyRepository                    { return armyRepo{u.tx} }
func (u *unitOfWork) Heroes() storage.HeroRepository                    { return heroRepo{u.tx} }
func (u *unitOfWork) Alliances() storage.AllianceRepository             { return allianceRepo{u.tx} }
func (u *unitOfWork) AllianceLogs() storage.AllianceLogRepository       { return allianceLogRepo{u.tx} }
func (u *unitOfWork) AllianceInvites() storage.AllianceInviteRepository {
	return allianceInviteRepo{u.tx}
}
func (u *unitOfWork) Jobs() storage.JobRepository       { return jobRepo{u.tx} }
func (u *unitOfWork) Reports() storage.ReportRepository { return reportRepo{u.tx} }
func (u *unitOfWork) Map() storage.MapRepository        { return mapRepo{u.tx} }

func (u *unitOfWork) Commit(ctx context.Context) error   { return u.tx.Commit(ctx) }
func (u *unitOfWork) Rollback(ctx context.Context) error { return u.tx.Rollback(ctx) }

var _ storage.Provider = (*Provider)(nil)
