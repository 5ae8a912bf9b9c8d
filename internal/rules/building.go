// Package rules is the static, process-wide rules catalog (C1):
// building/unit/smithy data and the pure validation algorithms that
// consult it. Nothing here mutates, does I/O, or depends on any other
// package in this module — it is safe to share across goroutines.
package rules

import (
	"fmt"
	"math"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
)

// BuildingGroup classifies a building for production/validation purposes.
type BuildingGroup string

const (
	GroupResources      BuildingGroup = "resources"
	GroupInfrastructure BuildingGroup = "infrastructure"
	GroupMilitary       BuildingGroup = "military"
	GroupDefensive      BuildingGroup = "defensive"
)

// BuildingName identifies a building type.
type BuildingName string

const (
	Woodcutter BuildingName = "woodcutter"
	ClayPit    BuildingName = "clay_pit"
	IronMine   BuildingName = "iron_mine"
	Cropland   BuildingName = "cropland"

	Sawmill    BuildingName = "sawmill"
	Brickyard  BuildingName = "brickyard"
	IronFoundry BuildingName = "iron_foundry"
	GrainMill  BuildingName = "grain_mill"
	Bakery     BuildingName = "bakery"

	Warehouse      BuildingName = "warehouse"
	Granary        BuildingName = "granary"
	GreatWarehouse BuildingName = "great_warehouse"
	GreatGranary   BuildingName = "great_granary"

	MainBuilding  BuildingName = "main_building"
	RallyPoint    BuildingName = "rally_point"
	Marketplace   BuildingName = "marketplace"
	Embassy       BuildingName = "embassy"
	Barracks      BuildingName = "barracks"
	GreatBarracks BuildingName = "great_barracks"
	Stable        BuildingName = "stable"
	GreatStable   BuildingName = "great_stable"
	Workshop      BuildingName = "workshop"
	GreatWorkshop BuildingName = "great_workshop"
	Academy       BuildingName = "academy"
	Smithy        BuildingName = "smithy"
	Cranny        BuildingName = "cranny"
	Residence     BuildingName = "residence"
	Palace        BuildingName = "palace"
	TownHall      BuildingName = "town_hall"
	Treasury      BuildingName = "treasury"
	HeroMansion   BuildingName = "hero_mansion"
	StonemansionLodge BuildingName = "stonemansion_lodge"
	Trapper       BuildingName = "trapper"

	CityWall   BuildingName = "city_wall"
	Palisade   BuildingName = "palisade"
	EarthWall  BuildingName = "earth_wall"
)

// BuildingConstraint restricts where a building may be constructed.
type BuildingConstraint int

const (
	ConstraintNone BuildingConstraint = iota
	ConstraintOnlyCapital
	ConstraintNonCapital
)

// BuildingRequirement is a (building, minimum level) prerequisite.
type BuildingRequirement struct {
	Name  BuildingName
	Level uint8
}

// BuildingDef is the static per-building-type data: cost curve,
// production/capacity curve, tribe/level/conflict rules.
type BuildingDef struct {
	Name  BuildingName
	Group BuildingGroup

	// Level-1 figures and the per-level growth factor applied as
	// base * growth^(level-1), floored — this replaces a literal
	// 20-row-per-building lookup table with an equivalent formula.
	BaseCost     Resources
	CostGrowth   float64
	BaseUpkeep   uint32
	UpkeepGrowth float64
	BaseValue    uint32 // production (resource fields) or capacity (warehouse/granary)
	ValueGrowth  float64
	BaseTimeSecs uint32
	TimeGrowth   float64
	BaseCP       uint16
	CPGrowth     float64

	MaxLevel      uint8
	Requirements  []BuildingRequirement
	Conflicts     []BuildingName
	Tribes        []Tribe // empty == any tribe
	Constraint    BuildingConstraint
	AllowMultiple bool
}

// Resources is a quadruple of the four raw resource types.
type Resources struct {
	Lumber uint64
	Clay   uint64
	Iron   uint64
	Crop   uint64
}

// Add returns the elementwise sum of r and o.
func (r Resources) Add(o Resources) Resources {
	return Resources{r.Lumber + o.Lumber, r.Clay + o.Clay, r.Iron + o.Iron, r.Crop + o.Crop}
}

// Sub returns the elementwise difference r-o, saturating at zero per field.
func (r Resources) Sub(o Resources) Resources {
	sub := func(a, b uint64) uint64 {
		if b > a {
			return 0
		}
		return a - b
	}
	return Resources{sub(r.Lumber, o.Lumber), sub(r.Clay, o.Clay), sub(r.Iron, o.Iron), sub(r.Crop, o.Crop)}
}

// GreaterOrEqual reports whether every field of r is >= the matching field of o.
func (r Resources) GreaterOrEqual(o Resources) bool {
	return r.Lumber >= o.Lumber && r.Clay >= o.Clay && r.Iron >= o.Iron && r.Crop >= o.Crop
}

// Cost is the resource + upkeep + build-time cost of constructing or
// upgrading a building, or training/researching a unit.
type Cost struct {
	Resources Resources
	Upkeep    uint32
	TimeSecs  uint32
}

func growth(base uint64, factor float64, level uint8) uint64 {
	if level == 0 {
		return 0
	}
	return uint64(math.Floor(float64(base) * math.Pow(factor, float64(level-1))))
}

func growthU32(base uint32, factor float64, level uint8) uint32 {
	if level == 0 {
		return 0
	}
	return uint32(math.Floor(float64(base) * math.Pow(factor, float64(level-1))))
}

// CostAtLevel returns the cost of building/upgrading def to level.
// Resource-field buildings (group Resources) price level 0->1 the
// same as any other level; non-resource buildings have no level-0 cost.
func (d BuildingDef) CostAtLevel(level uint8) Cost {
	return Cost{
		Resources: Resources{
			Lumber: growth(d.BaseCost.Lumber, d.CostGrowth, level),
			Clay:   growth(d.BaseCost.Clay, d.CostGrowth, level),
			Iron:   growth(d.BaseCost.Iron, d.CostGrowth, level),
			Crop:   growth(d.BaseCost.Crop, d.CostGrowth, level),
		},
		Upkeep:   growthU32(d.BaseUpkeep, d.UpkeepGrowth, level),
		TimeSecs: growthU32(d.BaseTimeSecs, d.TimeGrowth, level),
	}
}

// ValueAtLevel returns the production (resource fields) or capacity
// (warehouse/granary) delivered at level. The value is not scaled by
// server speed, here or in internal/game.
func (d BuildingDef) ValueAtLevel(level uint8) uint32 {
	return growthU32(d.BaseValue, d.ValueGrowth, level)
}

// CulturePointsAtLevel returns the per-level culture point yield.
func (d BuildingDef) CulturePointsAtLevel(level uint8) uint16 {
	if level == 0 {
		return 0
	}
	return uint16(math.Floor(float64(d.BaseCP) * math.Pow(d.CPGrowth, float64(level-1))))
}

// CumulativePopulation sums the population upkeep cost from level 1..level.
func (d BuildingDef) CumulativePopulation(level uint8) uint32 {
	var total uint32
	for l := uint8(1); l <= level; l++ {
		total += growthU32(d.BaseUpkeep, d.UpkeepGrowth, l)
	}
	return total
}

// Registry maps every known building name to its static definition.
var Registry = map[BuildingName]BuildingDef{
	Woodcutter: {Name: Woodcutter, Group: GroupResources,
		BaseCost: Resources{40, 100, 50, 60}, CostGrowth: 1.28,
		BaseValue: 3, ValueGrowth: 1.16, BaseTimeSecs: 260, TimeGrowth: 1.17,
		BaseCP: 1, CPGrowth: 1.13, MaxLevel: 20},
	ClayPit: {Name: ClayPit, Group: GroupResources,
		BaseCost: Resources{80, 40, 80, 50}, CostGrowth: 1.28,
		BaseValue: 3, ValueGrowth: 1.16, BaseTimeSecs: 260, TimeGrowth: 1.17,
		BaseCP: 1, CPGrowth: 1.13, MaxLevel: 20},
	IronMine: {Name: IronMine, Group: GroupResources,
		BaseCost: Resources{100, 80, 30, 60}, CostGrowth: 1.28,
		BaseValue: 3, ValueGrowth: 1.16, BaseTimeSecs: 260, TimeGrowth: 1.17,
		BaseCP: 1, CPGrowth: 1.13, MaxLevel: 20},
	Cropland: {Name: Cropland, Group: GroupResources,
		BaseCost: Resources{70, 90, 70, 20}, CostGrowth: 1.28,
		BaseValue: 3, ValueGrowth: 1.16, BaseTimeSecs: 260, TimeGrowth: 1.17,
		BaseCP: 1, CPGrowth: 1.13, MaxLevel: 20},

	Sawmill: {Name: Sawmill, Group: GroupInfrastructure,
		BaseCost: Resources{520, 380, 290, 90}, CostGrowth: 1.28,
		BaseValue: 5, ValueGrowth: 1.0, BaseTimeSecs: 3600, TimeGrowth: 1.16,
		BaseCP: 20, CPGrowth: 1.1, MaxLevel: 5,
		Requirements: []BuildingRequirement{{Woodcutter, 10}, {MainBuilding, 5}}},
	Brickyard: {Name: Brickyard, Group: GroupInfrastructure,
		BaseCost: Resources{440, 480, 320, 50}, CostGrowth: 1.28,
		BaseValue: 5, ValueGrowth: 1.0, BaseTimeSecs: 3600, TimeGrowth: 1.16,
		BaseCP: 20, CPGrowth: 1.1, MaxLevel: 5,
		Requirements: []BuildingRequirement{{ClayPit, 10}, {MainBuilding, 5}}},
	IronFoundry: {Name: IronFoundry, Group: GroupInfrastructure,
		BaseCost: Resources{200, 450, 510, 60}, CostGrowth: 1.28,
		BaseValue: 5, ValueGrowth: 1.0, BaseTimeSecs: 3600, TimeGrowth: 1.16,
		BaseCP: 20, CPGrowth: 1.1, MaxLevel: 5,
		Requirements: []BuildingRequirement{{IronMine, 10}, {MainBuilding, 5}}},
	GrainMill: {Name: GrainMill, Group: GroupInfrastructure,
		BaseCost: Resources{500, 440, 380, 1240}, CostGrowth: 1.28,
		BaseValue: 5, ValueGrowth: 1.0, BaseTimeSecs: 3600, TimeGrowth: 1.16,
		BaseCP: 20, CPGrowth: 1.1, MaxLevel: 5,
		Requirements: []BuildingRequirement{{Cropland, 5}, {MainBuilding, 5}}},
	Bakery: {Name: Bakery, Group: GroupInfrastructure,
		BaseCost: Resources{1200, 1480, 870, 1600}, CostGrowth: 1.28,
		BaseValue: 5, ValueGrowth: 1.0, BaseTimeSecs: 7200, TimeGrowth: 1.16,
		BaseCP: 25, CPGrowth: 1.1, MaxLevel: 5,
		Requirements: []BuildingRequirement{{GrainMill, 5}, {MainBuilding, 10}}},

	Warehouse: {Name: Warehouse, Group: GroupInfrastructure,
		BaseCost: Resources{130, 160, 90, 40}, CostGrowth: 1.28,
		BaseValue: 1000, ValueGrowth: 1.23, BaseTimeSecs: 1800, TimeGrowth: 1.16,
		BaseCP: 8, CPGrowth: 1.12, MaxLevel: 20},
	Granary: {Name: Granary, Group: GroupInfrastructure,
		BaseCost: Resources{80, 100, 70, 20}, CostGrowth: 1.28,
		BaseValue: 1000, ValueGrowth: 1.23, BaseTimeSecs: 1800, TimeGrowth: 1.16,
		BaseCP: 8, CPGrowth: 1.12, MaxLevel: 20},
	GreatWarehouse: {Name: GreatWarehouse, Group: GroupInfrastructure,
		BaseCost: Resources{650, 800, 450, 200}, CostGrowth: 1.28,
		BaseValue: 2400, ValueGrowth: 1.23, BaseTimeSecs: 3600, TimeGrowth: 1.16,
		BaseCP: 25, CPGrowth: 1.12, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Warehouse, 20}}},
	GreatGranary: {Name: GreatGranary, Group: GroupInfrastructure,
		BaseCost: Resources{400, 500, 350, 100}, CostGrowth: 1.28,
		BaseValue: 2400, ValueGrowth: 1.23, BaseTimeSecs: 3600, TimeGrowth: 1.16,
		BaseCP: 25, CPGrowth: 1.12, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Granary, 20}}},

	MainBuilding: {Name: MainBuilding, Group: GroupInfrastructure,
		BaseCost: Resources{70, 40, 60, 20}, CostGrowth: 1.28,
		BaseValue: 1000, ValueGrowth: 1.005, BaseTimeSecs: 1910, TimeGrowth: 1.16,
		BaseCP: 5, CPGrowth: 1.1, MaxLevel: 20},
	RallyPoint: {Name: RallyPoint, Group: GroupMilitary,
		BaseCost: Resources{110, 160, 90, 70}, CostGrowth: 1.28,
		BaseTimeSecs: 1360, TimeGrowth: 1.16, BaseCP: 5, CPGrowth: 1.1, MaxLevel: 20},
	Marketplace: {Name: Marketplace, Group: GroupInfrastructure,
		BaseCost: Resources{80, 70, 120, 70}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.0, BaseTimeSecs: 1360, TimeGrowth: 1.16,
		BaseCP: 10, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Warehouse, 1}, {Granary, 1}}},
	Embassy: {Name: Embassy, Group: GroupInfrastructure,
		BaseCost: Resources{180, 130, 150, 80}, CostGrowth: 1.28,
		BaseTimeSecs: 1100, TimeGrowth: 1.16, BaseCP: 5, CPGrowth: 1.1, MaxLevel: 20},
	Barracks: {Name: Barracks, Group: GroupMilitary,
		BaseCost: Resources{210, 140, 260, 120}, CostGrowth: 1.28,
		BaseTimeSecs: 1660, TimeGrowth: 1.16, BaseCP: 16, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{MainBuilding, 3}}},
	GreatBarracks: {Name: GreatBarracks, Group: GroupMilitary,
		BaseCost: Resources{630, 420, 780, 360}, CostGrowth: 1.28,
		BaseTimeSecs: 3320, TimeGrowth: 1.16, BaseCP: 25, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Barracks, 20}}, Tribes: []Tribe{Roman}},
	Stable: {Name: Stable, Group: GroupMilitary,
		BaseCost: Resources{260, 140, 220, 100}, CostGrowth: 1.28,
		BaseTimeSecs: 1600, TimeGrowth: 1.16, BaseCP: 19, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Academy, 5}, {MainBuilding, 3}}},
	GreatStable: {Name: GreatStable, Group: GroupMilitary,
		BaseCost: Resources{780, 420, 660, 300}, CostGrowth: 1.28,
		BaseTimeSecs: 3200, TimeGrowth: 1.16, BaseCP: 25, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Stable, 20}}, Tribes: []Tribe{Roman}},
	Workshop: {Name: Workshop, Group: GroupMilitary,
		BaseCost: Resources{460, 510, 600, 320}, CostGrowth: 1.28,
		BaseTimeSecs: 2780, TimeGrowth: 1.16, BaseCP: 20, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{MainBuilding, 5}, {Academy, 10}}},
	GreatWorkshop: {Name: GreatWorkshop, Group: GroupMilitary,
		BaseCost: Resources{1080, 1360, 1680, 880}, CostGrowth: 1.28,
		BaseTimeSecs: 4680, TimeGrowth: 1.16, BaseCP: 30, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Workshop, 20}}, Tribes: []Tribe{Roman}},
	Academy: {Name: Academy, Group: GroupMilitary,
		BaseCost: Resources{220, 160, 90, 40}, CostGrowth: 1.28,
		BaseTimeSecs: 1660, TimeGrowth: 1.16, BaseCP: 15, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Barracks, 3}}},
	Smithy: {Name: Smithy, Group: GroupMilitary,
		BaseCost: Resources{180, 250, 500, 160}, CostGrowth: 1.28,
		BaseTimeSecs: 1830, TimeGrowth: 1.16, BaseCP: 15, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{Academy, 1}}},
	Cranny: {Name: Cranny, Group: GroupDefensive,
		BaseCost: Resources{40, 50, 30, 10}, CostGrowth: 1.28,
		BaseValue: 500, ValueGrowth: 1.2, BaseTimeSecs: 820, TimeGrowth: 1.16,
		BaseCP: 2, CPGrowth: 1.1, MaxLevel: 10, AllowMultiple: true},
	Residence: {Name: Residence, Group: GroupInfrastructure,
		BaseCost: Resources{580, 460, 350, 180}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.0, BaseTimeSecs: 1910, TimeGrowth: 1.16,
		BaseCP: 10, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{MainBuilding, 5}},
		Conflicts:    []BuildingName{Palace}},
	Palace: {Name: Palace, Group: GroupInfrastructure,
		BaseCost: Resources{550, 800, 750, 450}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.0, BaseTimeSecs: 2660, TimeGrowth: 1.16,
		BaseCP: 15, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{MainBuilding, 5}},
		Conflicts:    []BuildingName{Residence}},
	TownHall: {Name: TownHall, Group: GroupInfrastructure,
		BaseCost: Resources{1250, 1110, 1260, 600}, CostGrowth: 1.28,
		BaseTimeSecs: 3320, TimeGrowth: 1.16, BaseCP: 20, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{MainBuilding, 10}}},
	Treasury: {Name: Treasury, Group: GroupInfrastructure,
		BaseCost: Resources{2880, 2740, 2580, 990}, CostGrowth: 1.28,
		BaseTimeSecs: 4430, TimeGrowth: 1.16, BaseCP: 20, CPGrowth: 1.1, MaxLevel: 20},
	HeroMansion: {Name: HeroMansion, Group: GroupMilitary,
		BaseCost: Resources{470, 240, 310, 220}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.0, BaseTimeSecs: 1490, TimeGrowth: 1.16,
		BaseCP: 13, CPGrowth: 1.1, MaxLevel: 20},
	StonemansionLodge: {Name: StonemansionLodge, Group: GroupDefensive,
		BaseCost: Resources{650, 800, 450, 200}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.15, BaseTimeSecs: 3600, TimeGrowth: 1.16,
		BaseCP: 15, CPGrowth: 1.1, MaxLevel: 20,
		Requirements: []BuildingRequirement{{MainBuilding, 5}}, Tribes: []Tribe{Teuton}},
	Trapper: {Name: Trapper, Group: GroupDefensive,
		BaseCost: Resources{80, 120, 60, 40}, CostGrowth: 1.28,
		BaseValue: 10, ValueGrowth: 1.2, BaseTimeSecs: 1000, TimeGrowth: 1.16,
		BaseCP: 5, CPGrowth: 1.1, MaxLevel: 20, Tribes: []Tribe{Gaul}},

	CityWall: {Name: CityWall, Group: GroupDefensive,
		BaseCost: Resources{70, 90, 170, 70}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.0, BaseTimeSecs: 2260, TimeGrowth: 1.16,
		BaseCP: 10, CPGrowth: 1.1, MaxLevel: 20, Tribes: []Tribe{Roman}},
	Palisade: {Name: Palisade, Group: GroupDefensive,
		BaseCost: Resources{160, 100, 80, 60}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.0, BaseTimeSecs: 1460, TimeGrowth: 1.16,
		BaseCP: 8, CPGrowth: 1.1, MaxLevel: 20, Tribes: []Tribe{Gaul}},
	EarthWall: {Name: EarthWall, Group: GroupDefensive,
		BaseCost: Resources{120, 180, 60, 50}, CostGrowth: 1.28,
		BaseValue: 1, ValueGrowth: 1.0, BaseTimeSecs: 1560, TimeGrowth: 1.16,
		BaseCP: 8, CPGrowth: 1.1, MaxLevel: 20, Tribes: []Tribe{Teuton}},
}

// Building returns the static def for name.
func Building(name BuildingName) (BuildingDef, bool) {
	d, ok := Registry[name]
	return d, ok
}

// ResourceFieldSlots is the set of reserved resource-field slot IDs (1-18).
const ResourceFieldSlots = 18

// MainBuildingSlot, RallyPointSlot and WallSlot are the spec's reserved
// non-resource slot IDs (slots 19-40 hold general infrastructure).
const (
	MainBuildingSlot uint8 = 19
	RallyPointSlot   uint8 = 39
	WallSlot         uint8 = 40
)

// ValidateConstruction runs the spec's validate_building_construction
// algorithm: tribe -> capital -> requirements -> per-slot conflict scan.
// existing is every currently-built VillageBuilding in the village,
// expressed as (slot, name, level) tuples so this package stays free of
// any dependency on internal/game.
type ExistingBuilding struct {
	Slot  uint8
	Name  BuildingName
	Level uint8
}

func ValidateConstruction(name BuildingName, tribe Tribe, isCapital bool, existing []ExistingBuilding) error {
	def, ok := Registry[name]
	if !ok {
		return fmt.Errorf("rules: unknown building %q", name)
	}

	if len(def.Tribes) > 0 && !containsTribe(def.Tribes, tribe) {
		return gameerrors.NewGameWithMeta(gameerrors.CodeBuildingTribeMismatch,
			"building is not available to this tribe",
			map[string]string{"name": string(name), "tribe": string(tribe)})
	}

	if isCapital && def.Constraint == ConstraintNonCapital {
		return gameerrors.NewGameWithMeta(gameerrors.CodeNonCapitalConstraint,
			"building cannot be built in the capital", map[string]string{"name": string(name)})
	}
	if !isCapital && def.Constraint == ConstraintOnlyCapital {
		return gameerrors.NewGameWithMeta(gameerrors.CodeCapitalConstraint,
			"building can only be built in the capital", map[string]string{"name": string(name)})
	}

	for _, req := range def.Requirements {
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

	sameNameMaxed := false
	hasExisting := false
	for _, eb := range existing {
		for _, conflict := range def.Conflicts {
			if eb.Name == conflict {
				return gameerrors.NewGameWithMeta(gameerrors.CodeBuildingConflict,
					"building conflicts with an existing building",
					map[string]string{"name": string(name), "conflict": string(conflict)})
			}
		}
		if eb.Name == name {
			hasExisting = true
			if !def.AllowMultiple {
				return gameerrors.NewGameWithMeta(gameerrors.CodeNoMultipleBuildingConstraint,
					"only one instance of this building is allowed", map[string]string{"name": string(name)})
			}
			if eb.Level == def.MaxLevel {
				sameNameMaxed = true
			}
		}
	}
	if hasExisting && def.AllowMultiple && !sameNameMaxed {
		return gameerrors.NewGameWithMeta(gameerrors.CodeMultipleBuildingMaxNotReached,
			"an existing instance of this building must reach max level first",
			map[string]string{"name": string(name)})
	}

	return nil
}

// AvailableBuildingsForSlot lists building names that could legally be
// constructed at slot given the village's tribe, capital status and
// existing buildings — the supplemented candidate-buildings feature.
func AvailableBuildingsForSlot(slot uint8, tribe Tribe, isCapital bool, existing []ExistingBuilding) []BuildingName {
	var out []BuildingName
	if slot >= 1 && slot <= ResourceFieldSlots {
		return out // resource fields are fixed at village creation, not buildable-from-scratch
	}
	for name := range Registry {
		def := Registry[name]
		if def.Group == GroupResources {
			continue
		}
		if slot == RallyPointSlot && name != RallyPoint {
			continue
		}
		if slot == WallSlot && def.Group != GroupDefensive {
			continue
		}
		if ValidateConstruction(name, tribe, isCapital, existing) == nil {
			out = append(out, name)
		}
	}
	return out
}
