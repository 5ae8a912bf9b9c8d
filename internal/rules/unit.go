package rules

import (
	gameerrors "github.com/ironcrown/realmforge/internal/errors"
)

// UnitClass distinguishes infantry from cavalry for weighted-defence
// and upkeep purposes, and marks the chief-class units that can reduce
// village loyalty.
type UnitClass string

const (
	ClassInfantry UnitClass = "infantry"
	ClassCavalry  UnitClass = "cavalry"
	ClassSiege    UnitClass = "siege" // rams, catapults
	ClassChief    UnitClass = "chief"
	ClassSettler  UnitClass = "settler"
)

// UnitName identifies a trainable unit. Names are tribe-scoped in the
// original game data; this catalog keeps one representative roster per
// tribe rather than the full 10-unit table, since the spec only
// requires that training/research/combat operations have real units to
// exercise, not an exhaustive unit list.
type UnitName string

const (
	// Roman
	RomanLegionnaire UnitName = "roman_legionnaire"
	RomanPraetorian  UnitName = "roman_praetorian"
	RomanImperian    UnitName = "roman_imperian"
	RomanEquitesLegati UnitName = "roman_equites_legati"
	RomanEquitesImperatoris UnitName = "roman_equites_imperatoris"
	RomanBatteringRam UnitName = "roman_battering_ram"
	RomanFireCatapult UnitName = "roman_fire_catapult"
	RomanSenator      UnitName = "roman_senator"
	RomanSettler      UnitName = "roman_settler"

	// Teuton
	TeutonClubswinger UnitName = "teuton_clubswinger"
	TeutonSpearman    UnitName = "teuton_spearman"
	TeutonPaladin     UnitName = "teuton_paladin"
	TeutonTeutonicKnight UnitName = "teuton_teutonic_knight"
	TeutonRam         UnitName = "teuton_ram"
	TeutonCatapult    UnitName = "teuton_catapult"
	TeutonChief       UnitName = "teuton_chief"
	TeutonSettler     UnitName = "teuton_settler"

	// Gaul
	GaulPhalanx   UnitName = "gaul_phalanx"
	GaulSwordsman UnitName = "gaul_swordsman"
	GaulPathfinder UnitName = "gaul_pathfinder"
	GaulTheutatesThunder UnitName = "gaul_theutates_thunder"
	GaulRam       UnitName = "gaul_ram"
	GaulCatapult  UnitName = "gaul_catapult"
	GaulChieftain UnitName = "gaul_chieftain"
	GaulSettler   UnitName = "gaul_settler"

	// Natar
	NatarPikeman   UnitName = "natar_pikeman"
	NatarThorn     UnitName = "natar_thorn"
	NatarEmperor   UnitName = "natar_emperor" // chief class: reduces loyalty
	NatarBirdOfPrey UnitName = "natar_bird_of_prey"

	// Nature
	NatureRat    UnitName = "nature_rat"
	NatureWolf   UnitName = "nature_wolf"
)

// UnitDef is the static per-unit-type data at smithy level 0.
type UnitDef struct {
	Name    UnitName
	Tribe   Tribe
	Class   UnitClass
	Attack  uint32
	DefenseInfantry uint32
	DefenseCavalry  uint32
	Speed   uint16 // fields per hour
	Capacity uint32
	Upkeep  uint32
	Cost    Resources
	TrainTimeSecs uint32
	// TrainingBuildings lists the buildings able to train this unit.
	TrainingBuildings []BuildingName
	// Requirements gates academy research (building, level) prerequisites.
	Requirements []BuildingRequirement
	ScoutingPower uint32
}

var UnitRegistry = map[UnitName]UnitDef{
	RomanLegionnaire: {Name: RomanLegionnaire, Tribe: Roman, Class: ClassInfantry,
		Attack: 40, DefenseInfantry: 35, DefenseCavalry: 50, Speed: 6, Capacity: 50, Upkeep: 1,
		Cost: Resources{120, 100, 150, 30}, TrainTimeSecs: 1600, TrainingBuildings: []BuildingName{Barracks}},
	RomanPraetorian: {Name: RomanPraetorian, Tribe: Roman, Class: ClassInfantry,
		Attack: 30, DefenseInfantry: 65, DefenseCavalry: 35, Speed: 5, Capacity: 20, Upkeep: 1,
		Cost: Resources{100, 130, 160, 70}, TrainTimeSecs: 1760, TrainingBuildings: []BuildingName{Barracks}},
	RomanImperian: {Name: RomanImperian, Tribe: Roman, Class: ClassInfantry,
		Attack: 70, DefenseInfantry: 40, DefenseCavalry: 25, Speed: 7, Capacity: 50, Upkeep: 1,
		Cost: Resources{150, 160, 210, 80}, TrainTimeSecs: 1920, TrainingBuildings: []BuildingName{Barracks}},
	RomanEquitesLegati: {Name: RomanEquitesLegati, Tribe: Roman, Class: ClassCavalry,
		Attack: 0, DefenseInfantry: 20, DefenseCavalry: 10, Speed: 16, Capacity: 0, Upkeep: 2,
		Cost: Resources{140, 160, 20, 40}, TrainTimeSecs: 2400, TrainingBuildings: []BuildingName{Stable},
		ScoutingPower: 30},
	RomanEquitesImperatoris: {Name: RomanEquitesImperatoris, Tribe: Roman, Class: ClassCavalry,
		Attack: 120, DefenseInfantry: 65, DefenseCavalry: 50, Speed: 14, Capacity: 100, Upkeep: 3,
		Cost: Resources{550, 440, 320, 100}, TrainTimeSecs: 3200, TrainingBuildings: []BuildingName{Stable}},
	RomanBatteringRam: {Name: RomanBatteringRam, Tribe: Roman, Class: ClassSiege,
		Attack: 60, DefenseInfantry: 30, DefenseCavalry: 75, Speed: 4, Capacity: 0, Upkeep: 3,
		Cost: Resources{900, 360, 500, 70}, TrainTimeSecs: 4800, TrainingBuildings: []BuildingName{Workshop}},
	RomanFireCatapult: {Name: RomanFireCatapult, Tribe: Roman, Class: ClassSiege,
		Attack: 100, DefenseInfantry: 60, DefenseCavalry: 10, Speed: 3, Capacity: 0, Upkeep: 6,
		Cost: Resources{950, 1350, 600, 90}, TrainTimeSecs: 7200, TrainingBuildings: []BuildingName{Workshop}},
	RomanSenator: {Name: RomanSenator, Tribe: Roman, Class: ClassChief,
		Attack: 50, DefenseInfantry: 40, DefenseCavalry: 30, Speed: 4, Capacity: 0, Upkeep: 5,
		Cost: Resources{30750, 27200, 45000, 37500}, TrainTimeSecs: 14400, TrainingBuildings: []BuildingName{Palace, Residence}},
	RomanSettler: {Name: RomanSettler, Tribe: Roman, Class: ClassSettler,
		Attack: 0, DefenseInfantry: 80, DefenseCavalry: 80, Speed: 5, Capacity: 3000, Upkeep: 1,
		Cost: Resources{4600, 4200, 5800, 4400}, TrainTimeSecs: 7800, TrainingBuildings: []BuildingName{Palace, Residence}},

	TeutonClubswinger: {Name: TeutonClubswinger, Tribe: Teuton, Class: ClassInfantry,
		Attack: 40, DefenseInfantry: 20, DefenseCavalry: 5, Speed: 7, Capacity: 60, Upkeep: 1,
		Cost: Resources{95, 75, 40, 40}, TrainTimeSecs: 1360, TrainingBuildings: []BuildingName{Barracks}},
	TeutonSpearman: {Name: TeutonSpearman, Tribe: Teuton, Class: ClassInfantry,
		Attack: 10, DefenseInfantry: 35, DefenseCavalry: 60, Speed: 7, Capacity: 40, Upkeep: 1,
		Cost: Resources{145, 70, 85, 40}, TrainTimeSecs: 1500, TrainingBuildings: []BuildingName{Barracks}},
	TeutonPaladin: {Name: TeutonPaladin, Tribe: Teuton, Class: ClassCavalry,
		Attack: 55, DefenseInfantry: 100, DefenseCavalry: 40, Speed: 10, Capacity: 110, Upkeep: 2,
		Cost: Resources{370, 270, 290, 75}, TrainTimeSecs: 2600, TrainingBuildings: []BuildingName{Stable}},
	TeutonTeutonicKnight: {Name: TeutonTeutonicKnight, Tribe: Teuton, Class: ClassCavalry,
		Attack: 150, DefenseInfantry: 50, DefenseCavalry: 75, Speed: 9, Capacity: 80, Upkeep: 3,
		Cost: Resources{450, 515, 480, 80}, TrainTimeSecs: 3100, TrainingBuildings: []BuildingName{Stable}},
	TeutonRam: {Name: TeutonRam, Tribe: Teuton, Class: ClassSiege,
		Attack: 65, DefenseInfantry: 30, DefenseCavalry: 80, Speed: 4, Capacity: 0, Upkeep: 3,
		Cost: Resources{950, 555, 330, 75}, TrainTimeSecs: 4900, TrainingBuildings: []BuildingName{Workshop}},
	TeutonCatapult: {Name: TeutonCatapult, Tribe: Teuton, Class: ClassSiege,
		Attack: 90, DefenseInfantry: 60, DefenseCavalry: 10, Speed: 3, Capacity: 0, Upkeep: 6,
		Cost: Resources{960, 1450, 630, 90}, TrainTimeSecs: 7300, TrainingBuildings: []BuildingName{Workshop}},
	TeutonChief: {Name: TeutonChief, Tribe: Teuton, Class: ClassChief,
		Attack: 40, DefenseInfantry: 60, DefenseCavalry: 40, Speed: 4, Capacity: 0, Upkeep: 4,
		Cost: Resources{30750, 27200, 45000, 37500}, TrainTimeSecs: 14400, TrainingBuildings: []BuildingName{Palace, Residence}},
	TeutonSettler: {Name: TeutonSettler, Tribe: Teuton, Class: ClassSettler,
		Attack: 10, DefenseInfantry: 80, DefenseCavalry: 80, Speed: 5, Capacity: 3000, Upkeep: 1,
		Cost: Resources{5800, 4400, 4600, 5200}, TrainTimeSecs: 9000, TrainingBuildings: []BuildingName{Palace, Residence}},

	GaulPhalanx: {Name: GaulPhalanx, Tribe: Gaul, Class: ClassInfantry,
		Attack: 15, DefenseInfantry: 40, DefenseCavalry: 50, Speed: 7, Capacity: 35, Upkeep: 1,
		Cost: Resources{100, 130, 55, 30}, TrainTimeSecs: 1440, TrainingBuildings: []BuildingName{Barracks}},
	GaulSwordsman: {Name: GaulSwordsman, Tribe: Gaul, Class: ClassInfantry,
		Attack: 65, DefenseInfantry: 35, DefenseCavalry: 20, Speed: 6, Capacity: 45, Upkeep: 1,
		Cost: Resources{140, 150, 185, 60}, TrainTimeSecs: 1560, TrainingBuildings: []BuildingName{Barracks}},
	GaulPathfinder: {Name: GaulPathfinder, Tribe: Gaul, Class: ClassCavalry,
		Attack: 0, DefenseInfantry: 20, DefenseCavalry: 10, Speed: 17, Capacity: 0, Upkeep: 2,
		Cost: Resources{170, 150, 20, 40}, TrainTimeSecs: 2300, TrainingBuildings: []BuildingName{Stable},
		ScoutingPower: 40},
	GaulTheutatesThunder: {Name: GaulTheutatesThunder, Tribe: Gaul, Class: ClassCavalry,
		Attack: 90, DefenseInfantry: 25, DefenseCavalry: 40, Speed: 19, Capacity: 75, Upkeep: 2,
		Cost: Resources{350, 450, 230, 60}, TrainTimeSecs: 2900, TrainingBuildings: []BuildingName{Stable}},
	GaulRam: {Name: GaulRam, Tribe: Gaul, Class: ClassSiege,
		Attack: 50, DefenseInfantry: 30, DefenseCavalry: 105, Speed: 4, Capacity: 0, Upkeep: 3,
		Cost: Resources{950, 555, 330, 75}, TrainTimeSecs: 4900, TrainingBuildings: []BuildingName{Workshop}},
	GaulCatapult: {Name: GaulCatapult, Tribe: Gaul, Class: ClassSiege,
		Attack: 90, DefenseInfantry: 60, DefenseCavalry: 10, Speed: 3, Capacity: 0, Upkeep: 6,
		Cost: Resources{960, 1450, 630, 90}, TrainTimeSecs: 7300, TrainingBuildings: []BuildingName{Workshop}},
	GaulChieftain: {Name: GaulChieftain, Tribe: Gaul, Class: ClassChief,
		Attack: 40, DefenseInfantry: 50, DefenseCavalry: 50, Speed: 5, Capacity: 0, Upkeep: 4,
		Cost: Resources{30750, 45400, 31000, 37500}, TrainTimeSecs: 14400, TrainingBuildings: []BuildingName{Palace, Residence}},
	GaulSettler: {Name: GaulSettler, Tribe: Gaul, Class: ClassSettler,
		Attack: 0, DefenseInfantry: 80, DefenseCavalry: 80, Speed: 6, Capacity: 3000, Upkeep: 1,
		Cost: Resources{4400, 5600, 4200, 3900}, TrainTimeSecs: 8200, TrainingBuildings: []BuildingName{Palace, Residence}},

	NatarPikeman: {Name: NatarPikeman, Tribe: Natar, Class: ClassInfantry,
		Attack: 80, DefenseInfantry: 180, DefenseCavalry: 120, Speed: 10, Capacity: 0, Upkeep: 2,
		Cost: Resources{500, 420, 610, 200}, TrainTimeSecs: 5000},
	NatarThorn: {Name: NatarThorn, Tribe: Natar, Class: ClassCavalry,
		Attack: 240, DefenseInfantry: 60, DefenseCavalry: 144, Speed: 19, Capacity: 60, Upkeep: 5,
		Cost: Resources{1200, 1440, 1560, 900}, TrainTimeSecs: 7200},
	NatarEmperor: {Name: NatarEmperor, Tribe: Natar, Class: ClassChief,
		Attack: 40, DefenseInfantry: 240, DefenseCavalry: 240, Speed: 4, Capacity: 0, Upkeep: 5,
		Cost: Resources{40000, 35000, 50000, 40000}, TrainTimeSecs: 18000},
	NatarBirdOfPrey: {Name: NatarBirdOfPrey, Tribe: Natar, Class: ClassSiege,
		Attack: 80, DefenseInfantry: 144, DefenseCavalry: 120, Speed: 10, Capacity: 0, Upkeep: 2,
		Cost: Resources{700, 630, 480, 360}, TrainTimeSecs: 5400},

	NatureRat: {Name: NatureRat, Tribe: Nature, Class: ClassInfantry,
		Attack: 20, DefenseInfantry: 14, DefenseCavalry: 5, Speed: 3, Capacity: 5, Upkeep: 0, TrainTimeSecs: 0},
	NatureWolf: {Name: NatureWolf, Tribe: Nature, Class: ClassCavalry,
		Attack: 90, DefenseInfantry: 30, DefenseCavalry: 25, Speed: 14, Capacity: 5, Upkeep: 0, TrainTimeSecs: 0},
}

// Unit returns the static def for name.
func Unit(name UnitName) (UnitDef, bool) {
	d, ok := UnitRegistry[name]
	return d, ok
}

// TrainableAt reports whether unit can be trained at building.
func (d UnitDef) TrainableAt(building BuildingName) bool {
	for _, b := range d.TrainingBuildings {
		if b == building {
			return true
		}
	}
	return false
}

// IsChief reports whether this unit can reduce defender loyalty in a
// Normal attack (spec §4.3 point 12).
func (d UnitDef) IsChief() bool { return d.Class == ClassChief }

// ResearchCost returns the academy research cost for d. The original
// data tables carry a research_cost distinct from the training Cost;
// this catalog derives it from the training cost instead of
// transcribing a second per-unit table, the same shortcut SmithyUpgradeCost
// takes for the per-level smithy tables.
func ResearchCost(d UnitDef) Cost {
	return Cost{
		Resources: Resources{
			Lumber: d.Cost.Lumber * 2,
			Clay:   d.Cost.Clay * 2,
			Iron:   d.Cost.Iron * 2,
			Crop:   d.Cost.Crop * 2,
		},
		TimeSecs: d.TrainTimeSecs * 3,
	}
}

// ValidateRequirements checks reqs against the village's existing
// buildings, the same (building, min level) gate ValidateConstruction
// applies to building prerequisites.
func ValidateRequirements(reqs []BuildingRequirement, existing []ExistingBuilding) error {
	for _, req := range reqs {
		met := false
		for _, eb := range existing {
			if eb.Name == req.Name && eb.Level >= req.Level {
				met = true
				break
			}
		}
		if !met {
			return gameerrors.BuildingRequirementsNotMet(string(req.Name), req.Level)
		}
	}
	return nil
}
