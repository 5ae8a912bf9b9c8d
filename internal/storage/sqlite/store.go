// Package sqlite is the dev/test storage.Provider binding: every
// repository persists its aggregate as a JSON blob column, with a
// handful of real columns (player_id, field_id, status, completed_at,
// lease_expires, ...) wherever a repository needs to filter or order
// by them, the same mix of blob-plus-indexed-columns the teacher uses
// for its integration outbox table. Grounded on
// internal/services/auth/storage/sqlite/store.go for the Open/migrate/
// Close shape and store_integration_outbox.go for the atomic lease
// query (internal/storage/storage.go's FindAndLockDueJobs).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironcrown/realmforge/internal/storage"
	"github.com/ironcrown/realmforge/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Provider opens transactions against a single SQLite database.
type Provider struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database at path and runs
// its embedded migrations.
func Open(path string) (*Provider, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	p := &Provider{db: db}
	if err := p.runMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return p, nil
}

// Close closes the underlying database.
func (p *Provider) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Begin starts a new transaction-bound UnitOfWork.
func (p *Provider) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

func (p *Provider) runMigrations() error {
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
		if _, err := p.db.Exec(upSQL); err != nil {
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

// unitOfWork bundles every repository behind one *sql.Tx.
type unitOfWork struct {
	tx *sql.Tx
}

func (u *unitOfWork) Players() storage.PlayerRepository               { return playerRepo{u.tx} }
func (u *unitOfWork) Villages() storage.VillageRepository             { return villageRepo{u.tx} }
func (u *unitOfWork) Armies() storage.ArmyRepository                  { return armyRepo{u.tx} }
func (u *unitOfWork) Heroes() storage.HeroRepository                  { return heroRepo{u.tx} }
func (u *unitOfWork) Alliances() storage.AllianceRepository           { return allianceRepo{u.tx} }
func (u *unitOfWork) AllianceLogs() storage.AllianceLogRepository     { return allianceLogRepo{u.tx} }
func (u *unitOfWork) AllianceInvites() storage.AllianceInviteRepository {
	return allianceInviteRepo{u.tx}
}
func (u *unitOfWork) Jobs() storage.JobRepository     { return jobRepo{u.tx} }
func (u *unitOfWork) Reports() storage.ReportRepository { return reportRepo{u.tx} }
func (u *unitOfWork) Map() storage.MapRepository      { return mapRepo{u.tx} }

func (u *unitOfWork) Commit(ctx context.Context) error   { return u.tx.Commit() }
func (u *unitOfWork) Rollback(ctx context.Context) error { return u.tx.Rollback() }

var _ storage.Provider = (*Provider)(nil)
