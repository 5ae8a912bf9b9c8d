package jobhandlers

import (
	"context"
	"testing"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storagetest"
)

func TestArmyReturn_MergesIntoHomeArmyAndDepositsBounty(t *testing.T) {
	store := storagetest.New()

	home := &game.Army{ID: "home-army", PlayerID: "p1", HomeVillageID: 1, Tribe: rules.Roman, Troops: game.TroopSet{10}}
	village := &game.Village{
		ID:       1,
		PlayerID: "p1",
		Tribe:    rules.Roman,
		HomeArmy: home,
		Stocks:   game.DefaultVillageStocks(),
	}
	// Room above the starting stock of 800 so the 100-lumber bounty is not
	// capped by the warehouse.
	village.Stocks.WarehouseCapacity = 1000
	returning := &game.Army{ID: "returning-army", PlayerID: "p1", HomeVillageID: 1, Tribe: rules.Roman, Troops: game.TroopSet{5}}

	store.Villages[village.ID] = village
	store.Armies[returning.ID] = returning

	payload, err := jobs.NewJobPayload(jobs.TaskArmyReturn, "{}").Set("army_id", returning.ID)
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	payload, err = payload.Set("resources.lumber", 100)
	if err != nil {
		t.Fatalf("set lumber: %v", err)
	}
	job := jobs.New("p1", village.ID, 0, payload, now())

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := (ArmyReturn{}).Handle(context.Background(), uow, job); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if home.Troops[0] != 15 {
		t.Fatalf("expected merged troop count 15, got %d", home.Troops[0])
	}
	if _, stillExists := store.Armies[returning.ID]; stillExists {
		t.Fatalf("expected returning army to be removed")
	}
	if village.Stocks.Lumber != 900 {
		t.Fatalf("expected bounty deposited, got lumber=%d", village.Stocks.Lumber)
	}
}

func TestArmyReturn_NoHomeArmyCreatesOne(t *testing.T) {
	store := storagetest.New()

	village := &game.Village{ID: 2, PlayerID: "p2", Tribe: rules.Teuton, Stocks: game.DefaultVillageStocks()}
	returning := &game.Army{ID: "returning-2", PlayerID: "p2", HomeVillageID: 2, Tribe: rules.Teuton, Troops: game.TroopSet{7}}

	store.Villages[village.ID] = village
	store.Armies[returning.ID] = returning

	payload, err := jobs.NewJobPayload(jobs.TaskArmyReturn, "{}").Set("army_id", returning.ID)
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	job := jobs.New("p2", village.ID, 0, payload, now())

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := (ArmyReturn{}).Handle(context.Background(), uow, job); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if village.HomeArmy == nil {
		t.Fatalf("expected home army to be created")
	}
	if village.HomeArmy.Troops[0] != 7 {
		t.Fatalf("expected home army troops 7, got %d", village.HomeArmy.Troops[0])
	}
}

func TestArmyReturn_TribeMismatchFails(t *testing.T) {
	store := storagetest.New()

	home := &game.Army{ID: "home-3", PlayerID: "p3", HomeVillageID: 3, Tribe: rules.Roman, Troops: game.TroopSet{10}}
	village := &game.Village{ID: 3, PlayerID: "p3", Tribe: rules.Roman, HomeArmy: home, Stocks: game.DefaultVillageStocks()}
	returning := &game.Army{ID: "returning-3", PlayerID: "p3", HomeVillageID: 3, Tribe: rules.Gaul, Troops: game.TroopSet{5}}

	store.Villages[village.ID] = village
	store.Armies[returning.ID] = returning

	payload, err := jobs.NewJobPayload(jobs.TaskArmyReturn, "{}").Set("army_id", returning.ID)
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	job := jobs.New("p3", village.ID, 0, payload, now())

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := (ArmyReturn{}).Handle(context.Background(), uow, job); err == nil {
		t.Fatalf("expected tribe mismatch error")
	}
}
