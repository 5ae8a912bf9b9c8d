package battle

import (
	"testing"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/rules"
)

func testVillage(tribe rules.Tribe, population uint32, home *game.Army) *game.Village {
	return &game.Village{
		ID:         1,
		Tribe:      tribe,
		Population: population,
		Loyalty:    100,
		HomeArmy:   home,
		Stocks:     game.DefaultVillageStocks(),
	}
}

func testArmy(tribe rules.Tribe, troops game.TroopSet) *game.Army {
	return &game.Army{Tribe: tribe, Troops: troops}
}

func TestCalculateBattle_InfantryAttackerWins(t *testing.T) {
	attackerArmy := testArmy(rules.Roman, game.TroopSet{100})
	attackerVillage := testVillage(rules.Roman, 50, attackerArmy)
	defenderArmy := testArmy(rules.Teuton, game.TroopSet{50})
	defenderVillage := testVillage(rules.Teuton, 50, defenderArmy)

	report := CalculateBattle(Input{
		Kind:            Normal,
		AttackerArmy:    attackerArmy,
		AttackerVillage: attackerVillage,
		DefenderVillage: defenderVillage,
	})

	if !report.Success {
		t.Fatalf("expected attacker to win")
	}
	if report.Defender.Losses[0] != 50 {
		t.Fatalf("expected total defender losses, got %v", report.Defender.Losses)
	}
	if report.Attacker.Losses[0] == 0 || report.Attacker.Losses[0] >= 100 {
		t.Fatalf("expected partial attacker losses, got %d", report.Attacker.Losses[0])
	}
}

func TestCalculateBattle_InfantryDefenderWins(t *testing.T) {
	attackerArmy := testArmy(rules.Roman, game.TroopSet{50})
	attackerVillage := testVillage(rules.Roman, 50, attackerArmy)
	defenderArmy := testArmy(rules.Teuton, game.TroopSet{100})
	defenderVillage := testVillage(rules.Teuton, 100, defenderArmy)

	report := CalculateBattle(Input{
		Kind:            Normal,
		AttackerArmy:    attackerArmy,
		AttackerVillage: attackerVillage,
		DefenderVillage: defenderVillage,
	})

	if report.Success {
		t.Fatalf("expected defender to win")
	}
	if report.Attacker.Losses[0] != 50 {
		t.Fatalf("expected total attacker losses, got %v", report.Attacker.Losses)
	}
	if report.Defender.Losses[0] == 0 || report.Defender.Losses[0] >= 100 {
		t.Fatalf("expected partial defender losses, got %d", report.Defender.Losses[0])
	}
}

func TestCalculateBattle_RamsDamageWall(t *testing.T) {
	attackerArmy := testArmy(rules.Roman, game.TroopSet{10, 0, 0, 0, 0, 100})
	attackerVillage := testVillage(rules.Roman, 50, attackerArmy)
	defenderArmy := testArmy(rules.Roman, game.TroopSet{500})
	defenderVillage := testVillage(rules.Roman, 200, defenderArmy)
	defenderVillage.Buildings = []game.VillageBuilding{{SlotID: rules.WallSlot, Name: rules.CityWall, Level: 20}}

	report := CalculateBattle(Input{
		Kind:            Normal,
		AttackerArmy:    attackerArmy,
		AttackerVillage: attackerVillage,
		DefenderVillage: defenderVillage,
	})

	if report.Success {
		t.Fatalf("attacker should not win this lopsided fight")
	}
	if report.WallDamage <= 0 {
		t.Fatalf("expected rams to inflict wall damage, got %f", report.WallDamage)
	}
	if report.NewWallLevel >= 20 {
		t.Fatalf("expected wall level to drop below 20, got %d", report.NewWallLevel)
	}
}

func TestCalculateBattle_CatapultsDamageTargetBuilding(t *testing.T) {
	attackerArmy := testArmy(rules.Roman, game.TroopSet{1000, 0, 0, 0, 0, 0, 50})
	attackerVillage := testVillage(rules.Roman, 50, attackerArmy)
	defenderArmy := testArmy(rules.Gaul, game.TroopSet{})
	defenderVillage := testVillage(rules.Gaul, 300, defenderArmy)
	defenderVillage.Buildings = []game.VillageBuilding{{SlotID: 20, Name: rules.Marketplace, Level: 15}}

	report := CalculateBattle(Input{
		Kind:            Normal,
		AttackerArmy:    attackerArmy,
		AttackerVillage: attackerVillage,
		DefenderVillage: defenderVillage,
		CataTargetSlot:  20,
	})

	if !report.Success {
		t.Fatalf("expected attacker to win")
	}
	if report.CatapultDamage <= 0 {
		t.Fatalf("expected catapult damage, got %f", report.CatapultDamage)
	}
	if report.NewTargetLevel >= 15 {
		t.Fatalf("expected target building level to drop below 15, got %d", report.NewTargetLevel)
	}
}

func TestCalculateBattle_LargeScaleMFactor(t *testing.T) {
	attackerArmy := testArmy(rules.Roman, game.TroopSet{499999})
	attackerVillage := testVillage(rules.Roman, 50, attackerArmy)
	defenderArmy := testArmy(rules.Teuton, game.TroopSet{999999})
	defenderVillage := testVillage(rules.Teuton, 5000, defenderArmy)

	report := CalculateBattle(Input{
		Kind:            Normal,
		AttackerArmy:    attackerArmy,
		AttackerVillage: attackerVillage,
		DefenderVillage: defenderVillage,
	})

	if report.Success {
		t.Fatalf("expected defender to win at this scale")
	}
	if report.Attacker.Losses[0] != 499999 {
		t.Fatalf("expected total attacker wipeout, got %v", report.Attacker.Losses)
	}
	survivors := report.Defender.Survivors[0]
	if survivors == 0 || survivors >= 999999 {
		t.Fatalf("expected partial but small defender survivors, got %d", survivors)
	}
}

func TestCalculateBattle_RaidSplitsLossesBothWays(t *testing.T) {
	attackerArmy := testArmy(rules.Roman, game.TroopSet{200})
	attackerVillage := testVillage(rules.Roman, 50, attackerArmy)
	defenderArmy := testArmy(rules.Teuton, game.TroopSet{100})
	defenderVillage := testVillage(rules.Teuton, 50, defenderArmy)

	report := CalculateBattle(Input{
		Kind:            Raid,
		AttackerArmy:    attackerArmy,
		AttackerVillage: attackerVillage,
		DefenderVillage: defenderVillage,
	})

	if report.Attacker.Losses[0] == 0 || report.Attacker.Losses[0] >= 200 {
		t.Fatalf("raid should leave both sides with partial losses, attacker got %d", report.Attacker.Losses[0])
	}
	if report.Defender.Losses[0] == 0 || report.Defender.Losses[0] >= 100 {
		t.Fatalf("raid should leave both sides with partial losses, defender got %d", report.Defender.Losses[0])
	}
}
