package jobhandlers

import (
	"context"
	"testing"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storagetest"
)

func TestAttack_ResolvesBattleAndSchedulesReturn(t *testing.T) {
	store := storagetest.New()

	attackerArmy := &game.Army{ID: "atk", PlayerID: "p1", HomeVillageID: 1, Tribe: rules.Roman, Troops: game.TroopSet{100}}
	attackerVillage := &game.Village{ID: 1, PlayerID: "p1", Tribe: rules.Roman, Position: game.Position{X: 0, Y: 0}, Stocks: game.DefaultVillageStocks()}
	defenderArmy := &game.Army{ID: "def", PlayerID: "p2", HomeVillageID: 2, Tribe: rules.Teuton, Troops: game.TroopSet{50}}
	defenderVillage := &game.Village{
		ID: 2, PlayerID: "p2", Tribe: rules.Teuton, Population: 50,
		Position: game.Position{X: 1, Y: 0}, HomeArmy: defenderArmy, Stocks: game.DefaultVillageStocks(),
	}

	store.Villages[attackerVillage.ID] = attackerVillage
	store.Villages[defenderVillage.ID] = defenderVillage
	store.Armies[attackerArmy.ID] = attackerArmy
	store.Armies[defenderArmy.ID] = defenderArmy

	payload, err := jobs.NewJobPayload(jobs.TaskAttack, "{}").Set("attacker_army_id", attackerArmy.ID)
	if err != nil {
		t.Fatalf("set attacker_army_id: %v", err)
	}
	for path, value := range map[string]any{
		"attacker_village_id": attackerVillage.ID,
		"defender_village_id": defenderVillage.ID,
		"cata_target_slot":    0,
		"world_size":          200,
		"server_speed":        1,
	} {
		payload, err = payload.Set(path, value)
		if err != nil {
			t.Fatalf("set %s: %v", path, err)
		}
	}
	job := jobs.New("p1", attackerVillage.ID, 0, payload, now())

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := (Attack{}).Handle(context.Background(), uow, job); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if attackerArmy.Troops[0] == 0 {
		t.Fatalf("expected attacker to retain survivors")
	}
	if len(store.Jobs) != 1 {
		t.Fatalf("expected one return job scheduled, got %d", len(store.Jobs))
	}
	for _, j := range store.Jobs {
		if j.Task.TaskType != jobs.TaskArmyReturn {
			t.Fatalf("expected ArmyReturn follow-up job, got %s", j.Task.TaskType)
		}
	}
	if len(store.Reports) != 1 {
		t.Fatalf("expected one battle report filed, got %d", len(store.Reports))
	}
	for _, r := range store.Reports {
		if r.Kind != game.ReportBattle {
			t.Fatalf("expected battle report kind, got %s", r.Kind)
		}
		if len(r.Audience) != 2 {
			t.Fatalf("expected report addressed to both players, got %d", len(r.Audience))
		}
	}
}
