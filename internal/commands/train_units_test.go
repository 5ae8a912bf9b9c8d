package commands

import (
	"context"
	"testing"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storagetest"
)

func TestHandleTrainUnits_DeductsCostAndSchedulesJob(t *testing.T) {
	store := storagetest.New()

	village := &game.Village{
		ID: 1, PlayerID: "p1", Tribe: rules.Roman,
		Buildings: []game.VillageBuilding{{SlotID: 0, Name: rules.Barracks, Level: 1}},
		Stocks:    game.DefaultVillageStocks(),
	}
	roster := unitRosterIndex(rules.Roman, rules.RomanLegionnaire)
	village.Academy[roster] = true
	store.Villages[village.ID] = village

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	result, err := HandleTrainUnits(context.Background(), uow, config.Config{Speed: 1}, TrainUnits{
		PlayerID: "p1", VillageID: 1, SlotID: 0, Unit: rules.RomanLegionnaire, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if result.JobID == "" {
		t.Fatalf("expected a job id")
	}
	if len(store.Jobs) != 1 {
		t.Fatalf("expected one scheduled job, got %d", len(store.Jobs))
	}

	def, _ := rules.Unit(rules.RomanLegionnaire)
	wantLumber := uint32(800) - uint32(def.Cost.Lumber*2)
	if village.Stocks.Lumber != wantLumber {
		t.Fatalf("expected lumber %d after batch deduction, got %d", wantLumber, village.Stocks.Lumber)
	}
}

func TestHandleTrainUnits_RejectsUnresearchedUnit(t *testing.T) {
	store := storagetest.New()

	village := &game.Village{
		ID: 1, PlayerID: "p1", Tribe: rules.Roman,
		Buildings: []game.VillageBuilding{{SlotID: 0, Name: rules.Barracks, Level: 1}},
		Stocks:    game.DefaultVillageStocks(),
	}
	store.Villages[village.ID] = village

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	_, err = HandleTrainUnits(context.Background(), uow, config.Config{Speed: 1}, TrainUnits{
		PlayerID: "p1", VillageID: 1, SlotID: 0, Unit: rules.RomanLegionnaire, Quantity: 1,
	})
	if err == nil {
		t.Fatalf("expected error for unresearched unit")
	}
}

func TestHandleTrainUnits_RejectsWrongOwner(t *testing.T) {
	store := storagetest.New()

	village := &game.Village{ID: 1, PlayerID: "p1", Tribe: rules.Roman, Stocks: game.DefaultVillageStocks()}
	store.Villages[village.ID] = village

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	_, err = HandleTrainUnits(context.Background(), uow, config.Config{Speed: 1}, TrainUnits{
		PlayerID: "someone-else", VillageID: 1, SlotID: 0, Unit: rules.RomanLegionnaire, Quantity: 1,
	})
	if err == nil {
		t.Fatalf("expected ownership error")
	}
}
