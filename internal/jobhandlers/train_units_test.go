package jobhandlers

import (
	"context"
	"testing"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storagetest"
)

func TestTrainUnits_AddsOneAndReschedulesRemainder(t *testing.T) {
	store := storagetest.New()

	village := &game.Village{ID: 1, PlayerID: "p1", Tribe: rules.Roman, Stocks: game.DefaultVillageStocks()}
	store.Villages[village.ID] = village

	payload, err := jobs.NewJobPayload(jobs.TaskTrainUnits, "{}").Set("unit", string(rules.RomanLegionnaire))
	if err != nil {
		t.Fatalf("set unit: %v", err)
	}
	payload, err = payload.Set("slot_id", 0)
	if err != nil {
		t.Fatalf("set slot_id: %v", err)
	}
	payload, err = payload.Set("quantity", 3)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	payload, err = payload.Set("time_per_unit", 60)
	if err != nil {
		t.Fatalf("set time_per_unit: %v", err)
	}
	job := jobs.New("p1", village.ID, 0, payload, now())

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := (TrainUnits{}).Handle(context.Background(), uow, job); err != nil {
		t.Fatalf("handle: %v", err)
	}

	roster := unitRosterIndex(rules.Roman, rules.RomanLegionnaire)
	if village.HomeArmy == nil || village.HomeArmy.Troops[roster] != 1 {
		t.Fatalf("expected one trained unit in home army")
	}
	if len(store.Jobs) != 1 {
		t.Fatalf("expected one follow-up job scheduled, got %d", len(store.Jobs))
	}
	for _, j := range store.Jobs {
		if j.Task.Get("quantity").Uint() != 2 {
			t.Fatalf("expected remaining quantity 2, got %d", j.Task.Get("quantity").Uint())
		}
	}
}

func TestTrainUnits_LastUnitSchedulesNoFollowup(t *testing.T) {
	store := storagetest.New()

	village := &game.Village{ID: 1, PlayerID: "p1", Tribe: rules.Roman, Stocks: game.DefaultVillageStocks()}
	store.Villages[village.ID] = village

	payload, err := jobs.NewJobPayload(jobs.TaskTrainUnits, "{}").Set("unit", string(rules.RomanLegionnaire))
	if err != nil {
		t.Fatalf("set unit: %v", err)
	}
	payload, err = payload.Set("quantity", 1)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	job := jobs.New("p1", village.ID, 0, payload, now())

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := (TrainUnits{}).Handle(context.Background(), uow, job); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(store.Jobs) != 0 {
		t.Fatalf("expected no follow-up job for the last unit, got %d", len(store.Jobs))
	}
}
