package bus

import (
	"context"
	"testing"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/storage"
	"github.com/ironcrown/realmforge/internal/storagetest"
)

type renameCommand struct {
	PlayerID string
	NewName  string
}

func handleRename(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd renameCommand) (string, error) {
	p, err := uow.Players().GetByID(ctx, cmd.PlayerID)
	if err != nil {
		return "", err
	}
	p.Username = cmd.NewName
	if err := uow.Players().Save(ctx, p); err != nil {
		return "", err
	}
	return p.Username, nil
}

func handleFailingRename(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd renameCommand) (string, error) {
	return "", gameerrors.NewGame(gameerrors.CodeUnknown, "always fails")
}

// rollbackTrackingProvider wraps a storagetest.Store to count
// Rollback calls, since the fake's own Rollback is a no-op and can't
// otherwise prove Query always rolls back.
type rollbackTrackingProvider struct {
	*storagetest.Store
	rollbacks *int
}

func (p *rollbackTrackingProvider) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	uow, err := p.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &rollbackTrackingUOW{UnitOfWork: uow, rollbacks: p.rollbacks}, nil
}

type rollbackTrackingUOW struct {
	storage.UnitOfWork
	rollbacks *int
}

func (u *rollbackTrackingUOW) Rollback(ctx context.Context) error {
	*u.rollbacks++
	return u.UnitOfWork.Rollback(ctx)
}

func TestExecute_CommitsOnSuccess(t *testing.T) {
	store := storagetest.New()
	store.Players["p1"] = &game.Player{ID: "p1", Username: "old"}

	appBus := New(store, config.Config{Speed: 1})

	result, err := Execute(context.Background(), appBus, "rename", handleRename, renameCommand{PlayerID: "p1", NewName: "new"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result != "new" {
		t.Fatalf("expected result 'new', got %q", result)
	}
	if store.Players["p1"].Username != "new" {
		t.Fatalf("expected player to be renamed in store, got %q", store.Players["p1"].Username)
	}
}

func TestExecute_ReturnsApplicationErrorOnFailure(t *testing.T) {
	store := storagetest.New()
	store.Players["p1"] = &game.Player{ID: "p1", Username: "old"}

	appBus := New(store, config.Config{Speed: 1})

	_, err := Execute(context.Background(), appBus, "rename", handleFailingRename, renameCommand{PlayerID: "p1"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if store.Players["p1"].Username != "old" {
		t.Fatalf("expected no mutation on failure, got %q", store.Players["p1"].Username)
	}
}

func TestQuery_RollsBackRegardlessOfOutcome(t *testing.T) {
	store := storagetest.New()
	store.Players["p1"] = &game.Player{ID: "p1", Username: "old"}

	rollbacks := 0
	tracking := &rollbackTrackingProvider{Store: store, rollbacks: &rollbacks}
	appBus := New(tracking, config.Config{Speed: 1})

	result, err := Query(context.Background(), appBus, "rename-query", handleRename, renameCommand{PlayerID: "p1", NewName: "renamed-in-memory"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if result != "renamed-in-memory" {
		t.Fatalf("expected handler result reflecting the mutation, got %q", result)
	}
	if rollbacks != 1 {
		t.Fatalf("expected Query to roll back exactly once, got %d", rollbacks)
	}
}
