package rules_test

import (
	"testing"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/rules"
)

func TestValidateConstruction_RequirementsNotMet(t *testing.T) {
	err := rules.ValidateConstruction(rules.Smithy, rules.Roman, false, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !gameerrors.Is(err, gameerrors.CodeBuildingRequirementsNotMet) {
		t.Fatalf("expected BuildingRequirementsNotMet, got %v", err)
	}
}

func TestValidateConstruction_TribeMismatch(t *testing.T) {
	existing := []rules.ExistingBuilding{{Slot: 19, Name: rules.MainBuilding, Level: 5}}
	err := rules.ValidateConstruction(rules.CityWall, rules.Teuton, false, existing)
	if !gameerrors.Is(err, gameerrors.CodeBuildingTribeMismatch) {
		t.Fatalf("expected BuildingTribeMismatch, got %v", err)
	}
}

func TestValidateConstruction_Conflict(t *testing.T) {
	existing := []rules.ExistingBuilding{
		{Slot: 19, Name: rules.MainBuilding, Level: 5},
		{Slot: 20, Name: rules.Palace, Level: 1},
	}
	err := rules.ValidateConstruction(rules.Residence, rules.Roman, false, existing)
	if !gameerrors.Is(err, gameerrors.CodeBuildingConflict) {
		t.Fatalf("expected BuildingConflict, got %v", err)
	}
}

func TestValidateConstruction_NoMultiple(t *testing.T) {
	existing := []rules.ExistingBuilding{{Slot: 20, Name: rules.MainBuilding, Level: 3}}
	err := rules.ValidateConstruction(rules.MainBuilding, rules.Roman, false, existing)
	if !gameerrors.Is(err, gameerrors.CodeNoMultipleBuildingConstraint) {
		t.Fatalf("expected NoMultipleBuildingConstraint, got %v", err)
	}
}

func TestValidateConstruction_MultipleNotMaxed(t *testing.T) {
	existing := []rules.ExistingBuilding{{Slot: 5, Name: rules.Cranny, Level: 3}}
	err := rules.ValidateConstruction(rules.Cranny, rules.Roman, false, existing)
	if !gameerrors.Is(err, gameerrors.CodeMultipleBuildingMaxNotReached) {
		t.Fatalf("expected MultipleBuildingMaxNotReached, got %v", err)
	}
}

func TestValidateConstruction_OK(t *testing.T) {
	existing := []rules.ExistingBuilding{{Slot: 19, Name: rules.MainBuilding, Level: 5}}
	if err := rules.ValidateConstruction(rules.Residence, rules.Roman, false, existing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildingDef_CostAtLevel_Grows(t *testing.T) {
	def := rules.Registry[rules.Woodcutter]
	c1 := def.CostAtLevel(1)
	c2 := def.CostAtLevel(2)
	if c2.Resources.Lumber <= c1.Resources.Lumber {
		t.Fatalf("expected level 2 cost > level 1 cost, got %d <= %d", c2.Resources.Lumber, c1.Resources.Lumber)
	}
}

func TestCombatValueAtLevel_Level0IsBase(t *testing.T) {
	if got := rules.CombatValueAtLevel(100, 1, 0); got != 100 {
		t.Fatalf("expected unchanged base value at level 0, got %d", got)
	}
}

func TestCombatValueAtLevel_Increases(t *testing.T) {
	v0 := rules.CombatValueAtLevel(100, 1, 0)
	v10 := rules.CombatValueAtLevel(100, 1, 10)
	if v10 <= v0 {
		t.Fatalf("expected level 10 value > level 0 value, got %d <= %d", v10, v0)
	}
}

func TestAvailableBuildingsForSlot_ExcludesResourceSlots(t *testing.T) {
	if got := rules.AvailableBuildingsForSlot(5, rules.Roman, true, nil); got != nil {
		t.Fatalf("expected no candidates for a resource-field slot, got %v", got)
	}
}
