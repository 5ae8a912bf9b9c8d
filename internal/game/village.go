package game

import (
	"math"
	"strconv"
	"time"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/rules"
)

// VillageBuilding is a constructed (slot, building-at-level) pair.
// Resource fields (slots 1-18) may exist at level 0. Any other building
// is added at level 0 when its construction starts
// (InitBuildingConstruction) and stays at level 0 until its AddBuilding
// job sets level 1.
type VillageBuilding struct {
	SlotID uint8
	Name   rules.BuildingName
	Level  uint8
}

// Population returns the cumulative population upkeep this building
// contributes at its current level.
func (vb VillageBuilding) Population() uint32 {
	def, ok := rules.Building(vb.Name)
	if !ok {
		return 0
	}
	return def.CumulativePopulation(vb.Level)
}

// Value returns the level-dependent production/capacity/bonus value.
func (vb VillageBuilding) Value() uint32 {
	def, ok := rules.Building(vb.Name)
	if !ok {
		return 0
	}
	return def.ValueAtLevel(vb.Level)
}

// AcademyResearch is a 10-slot tribe-unit research bitset, indexed the
// same way as a TroopSet. Settlers and the first infantry unit start
// researched (index 0 and 9, mirroring the original's defaults).
type AcademyResearch [10]bool

// DefaultAcademyResearch returns the starting research state.
func DefaultAcademyResearch() AcademyResearch {
	var r AcademyResearch
	r[0] = true
	r[9] = true
	return r
}

// ProductionBonus holds percentage bonuses to raw resource production,
// contributed by bonus buildings (Sawmill/Brickyard/...) and oases.
type ProductionBonus struct {
	Lumber uint8
	Clay   uint8
	Iron   uint8
	Crop   uint8
}

// Accumulate adds o's percentages into b. Unlike the original's
// ProductionBonus::add (which overwrites rather than accumulates —
// almost certainly a bug, since a village can have multiple oases),
// this sums bonuses so more than one bonus source compounds correctly.
func (b *ProductionBonus) Accumulate(o ProductionBonus) {
	b.Lumber += o.Lumber
	b.Clay += o.Clay
	b.Iron += o.Iron
	b.Crop += o.Crop
}

// EffectiveProduction is gross production after bonus% and upkeep.
type EffectiveProduction struct {
	Lumber uint32
	Clay   uint32
	Iron   uint32
	Crop   int64
}

// VillageProduction is the village's current gross production profile.
type VillageProduction struct {
	Lumber uint32
	Clay   uint32
	Iron   uint32
	Crop   uint32
	Upkeep uint32
	Bonus  ProductionBonus

	Effective EffectiveProduction
}

// CalculateEffective recomputes Effective from the raw production,
// bonus percentages and upkeep (crop only, per spec §4.2).
func (p *VillageProduction) CalculateEffective() {
	bonusFactor := func(raw uint32, pct uint8) uint32 {
		return uint32(math.Floor(float64(raw) * (float64(pct)/100.0 + 1.0)))
	}
	p.Effective.Lumber = bonusFactor(p.Lumber, p.Bonus.Lumber)
	p.Effective.Clay = bonusFactor(p.Clay, p.Bonus.Clay)
	p.Effective.Iron = bonusFactor(p.Iron, p.Bonus.Iron)
	crop := math.Floor(float64(p.Crop) * (float64(p.Bonus.Crop)/100.0 + 1.0))
	p.Effective.Crop = int64(crop) - int64(p.Upkeep)
}

// PerSecondDeltas returns the (lumber, clay, iron, crop) accrual over
// elapsedSecs at the current effective production rate.
func (p VillageProduction) PerSecondDeltas(elapsedSecs float64) (lumber, clay, iron, crop float64) {
	lumber = elapsedSecs * float64(p.Effective.Lumber) / 3600.0
	clay = elapsedSecs * float64(p.Effective.Clay) / 3600.0
	iron = elapsedSecs * float64(p.Effective.Iron) / 3600.0
	crop = elapsedSecs * float64(p.Effective.Crop) / 3600.0
	return
}

// VillageStocks is the village's currently stored resources and the
// capacity they're clamped against.
type VillageStocks struct {
	WarehouseCapacity uint32
	GranaryCapacity   uint32
	Lumber            uint32
	Clay              uint32
	Iron              uint32
	Crop              int64 // signed: starvation can drive this negative before the cap-at-0 policy
}

// DefaultVillageStocks is the starting stock/capacity of a new village.
func DefaultVillageStocks() VillageStocks {
	return VillageStocks{
		WarehouseCapacity: 800, GranaryCapacity: 800,
		Lumber: 800, Clay: 800, Iron: 800, Crop: 800,
	}
}

func (s VillageStocks) Stored() rules.Resources {
	crop := s.Crop
	if crop < 0 {
		crop = 0
	}
	return rules.Resources{Lumber: uint64(s.Lumber), Clay: uint64(s.Clay), Iron: uint64(s.Iron), Crop: uint64(crop)}
}

func (s *VillageStocks) Store(r rules.Resources) {
	cap32 := func(v uint64, capacity uint32) uint32 {
		if v > uint64(capacity) {
			return capacity
		}
		return uint32(v)
	}
	s.Lumber = cap32(uint64(s.Lumber)+r.Lumber, s.WarehouseCapacity)
	s.Clay = cap32(uint64(s.Clay)+r.Clay, s.WarehouseCapacity)
	s.Iron = cap32(uint64(s.Iron)+r.Iron, s.WarehouseCapacity)
	crop := s.Crop + int64(r.Crop)
	if crop > int64(s.GranaryCapacity) {
		crop = int64(s.GranaryCapacity)
	}
	s.Crop = crop
}

func (s VillageStocks) HasAvailability(r rules.Resources) bool {
	return uint64(s.Lumber) >= r.Lumber && uint64(s.Clay) >= r.Clay &&
		uint64(s.Iron) >= r.Iron && s.Crop >= int64(r.Crop)
}

func (s *VillageStocks) Remove(r rules.Resources) {
	sub32 := func(v uint32, d uint64) uint32 {
		if d > uint64(v) {
			return 0
		}
		return v - uint32(d)
	}
	s.Lumber = sub32(s.Lumber, r.Lumber)
	s.Clay = sub32(s.Clay, r.Clay)
	s.Iron = sub32(s.Iron, r.Iron)
	s.Crop -= int64(r.Crop) // crop may go negative; starvation is handled in accrual
}

// Village is the player's settlement: buildings, armies, stocks and
// production state, all derivable from its building set plus elapsed
// wall-clock time.
type Village struct {
	ID       uint64
	Name     string
	PlayerID string
	Position Position
	Tribe    rules.Tribe

	Oases     []Oasis
	Buildings []VillageBuilding

	HomeArmy      *Army
	Reinforcements []*Army
	DeployedArmies []*Army

	Population uint32
	Loyalty    uint8

	Production VillageProduction
	Stocks     VillageStocks
	Smithy     [10]uint8 // per-unit-slot smithy level, 0..20
	Academy    AcademyResearch

	IsCapital        bool
	ParentVillageID  uint64 // 0 when this village was not founded by another's settlers
	TotalMerchants   uint8
	BusyMerchants    uint8

	UpdatedAt time.Time
}

// NewVillage founds a village on valley for player, populating resource
// fields from the valley topology plus a level-1 Main Building, then
// running the initial state recalculation.
func NewVillage(name string, valley Valley, playerID string, tribe rules.Tribe, isCapital bool, serverSpeed int8, worldSize int32, now time.Time) *Village {
	v := &Village{
		ID:        valley.Position.ToID(worldSize),
		Name:      name,
		PlayerID:  playerID,
		Position:  valley.Position,
		Tribe:     tribe,
		Loyalty:   100,
		Stocks:    DefaultVillageStocks(),
		Academy:   DefaultAcademyResearch(),
		IsCapital: isCapital,
		UpdatedAt: now,
	}

	slot := uint8(1)
	addFields := func(name rules.BuildingName, count uint8) {
		for i := uint8(0); i < count; i++ {
			v.Buildings = append(v.Buildings, VillageBuilding{SlotID: slot, Name: name, Level: 0})
			slot++
		}
	}
	addFields(rules.Woodcutter, valley.Topology.Lumber)
	addFields(rules.ClayPit, valley.Topology.Clay)
	addFields(rules.IronMine, valley.Topology.Iron)
	addFields(rules.Cropland, valley.Topology.Crop)

	v.Buildings = append(v.Buildings, VillageBuilding{SlotID: rules.MainBuildingSlot, Name: rules.MainBuilding, Level: 1})

	v.UpdateState(now)
	return v
}

// existingBuildings projects Buildings into the shape rules.ValidateConstruction expects.
func (v *Village) existingBuildings() []rules.ExistingBuilding {
	out := make([]rules.ExistingBuilding, 0, len(v.Buildings))
	for _, b := range v.Buildings {
		out = append(out, rules.ExistingBuilding{Slot: b.SlotID, Name: b.Name, Level: b.Level})
	}
	return out
}

// GetBuildingBySlot returns the building at slot, if any.
func (v *Village) GetBuildingBySlot(slot uint8) (VillageBuilding, bool) {
	for _, b := range v.Buildings {
		if b.SlotID == slot {
			return b, true
		}
	}
	return VillageBuilding{}, false
}

// GetBuildingByName returns the first building matching name.
func (v *Village) GetBuildingByName(name rules.BuildingName) (VillageBuilding, bool) {
	for _, b := range v.Buildings {
		if b.Name == name {
			return b, true
		}
	}
	return VillageBuilding{}, false
}

// ResourceFields returns every slot-1..18 building.
func (v *Village) ResourceFields() []VillageBuilding {
	var out []VillageBuilding
	for _, b := range v.Buildings {
		if b.SlotID <= rules.ResourceFieldSlots {
			out = append(out, b)
		}
	}
	return out
}

// Wall returns the village's wall building, if one has been built.
func (v *Village) Wall() (VillageBuilding, bool) {
	return v.GetBuildingByName(v.Tribe.WallBuilding())
}

// WallDefenseBonus returns tribe_wall_factor^wall_level, or 1.0 absent a wall.
func (v *Village) WallDefenseBonus() float64 {
	wall, ok := v.Wall()
	if !ok || wall.Level == 0 {
		return 1.0
	}
	return math.Pow(v.Tribe.WallFactor(), float64(wall.Level))
}

// MainBuildingLevel returns the level of the Main Building, or 0.
func (v *Village) MainBuildingLevel() uint8 {
	if mb, ok := v.GetBuildingByName(rules.MainBuilding); ok {
		return mb.Level
	}
	return 0
}

// AvailableBuildingsForSlot lists legally constructible buildings at slot.
func (v *Village) AvailableBuildingsForSlot(slot uint8) []rules.BuildingName {
	return rules.AvailableBuildingsForSlot(slot, v.Tribe, v.IsCapital, v.existingBuildings())
}

// HasEnoughResources reports whether the village stock can afford cost.
func (v *Village) HasEnoughResources(cost rules.Resources) bool {
	return v.Stocks.HasAvailability(cost)
}

// DeductResources removes cost from stock, failing if insufficient.
func (v *Village) DeductResources(cost rules.Resources) error {
	if !v.Stocks.HasAvailability(cost) {
		return gameerrors.NewGame(gameerrors.CodeNotEnoughResources, "not enough resources")
	}
	v.Stocks.Remove(cost)
	return nil
}

// StoreResources adds r to stock, capped at capacity.
func (v *Village) StoreResources(r rules.Resources) {
	v.Stocks.Store(r)
}

// InitBuildingConstruction validates and begins constructing name at
// slot, deducting resources and returning the build time in seconds.
func (v *Village) InitBuildingConstruction(slot uint8, name rules.BuildingName, serverSpeed int8) (uint32, error) {
	if _, occupied := v.GetBuildingBySlot(slot); occupied {
		return 0, gameerrors.SlotOccupied(slot)
	}
	if slot > rules.WallSlot {
		return 0, gameerrors.NewGame(gameerrors.CodeVillageSlotsFull, "no slots remain")
	}

	if err := rules.ValidateConstruction(name, v.Tribe, v.IsCapital, v.existingBuildings()); err != nil {
		return 0, err
	}

	def, _ := rules.Building(name)
	cost := def.CostAtLevel(1)
	if err := v.DeductResources(cost.Resources); err != nil {
		return 0, err
	}

	v.Buildings = append(v.Buildings, VillageBuilding{SlotID: slot, Name: name, Level: 0})
	buildTime := v.buildTimeSecs(cost.TimeSecs, serverSpeed)
	v.UpdateState(v.UpdatedAt)
	return buildTime, nil
}

// buildTimeSecs applies the Main Building construction-time discount
// factor and server speed, matching calculate_build_time_secs.
func (v *Village) buildTimeSecs(baseTimeSecs uint32, serverSpeed int8) uint32 {
	mbLevel := v.MainBuildingLevel()
	factor := 1.0
	if mbLevel > 0 {
		mbDef, _ := rules.Building(rules.MainBuilding)
		factor = float64(mbDef.ValueAtLevel(mbLevel)) / 1000.0
	}
	if serverSpeed < 1 {
		serverSpeed = 1
	}
	t := (float64(baseTimeSecs) * factor) / float64(serverSpeed)
	return uint32(math.Max(1, math.Floor(t)))
}

// InitAcademyResearch validates and begins researching unit in the
// academy, deducting its research cost and returning the research
// time in seconds (spec §4.2 init_academy_research).
func (v *Village) InitAcademyResearch(unit rules.UnitName, serverSpeed int8) (uint32, error) {
	roster := unitRosterIndex(v.Tribe, unit)
	if roster < 0 {
		return 0, gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unit has no roster slot for this tribe")
	}
	if v.Academy[roster] {
		return 0, gameerrors.NewGame(gameerrors.CodeUnitAlreadyResearched, "unit is already researched")
	}

	def, ok := rules.Unit(unit)
	if !ok {
		return 0, gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unknown unit")
	}
	if err := rules.ValidateRequirements(def.Requirements, v.existingBuildings()); err != nil {
		return 0, err
	}

	cost := rules.ResearchCost(def)
	if err := v.DeductResources(cost.Resources); err != nil {
		return 0, err
	}

	return v.buildTimeSecs(cost.TimeSecs, serverSpeed), nil
}

// InitSmithyResearch validates and begins upgrading unit's smithy
// level by one, deducting the step's resource cost and returning the
// research time in seconds (spec §4.2 init_smithy_research).
func (v *Village) InitSmithyResearch(unit rules.UnitName, serverSpeed int8) (uint32, error) {
	roster := unitRosterIndex(v.Tribe, unit)
	if roster < 0 {
		return 0, gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unit has no roster slot for this tribe")
	}

	def, ok := rules.Unit(unit)
	if !ok {
		return 0, gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unknown unit")
	}
	if err := rules.ValidateRequirements(def.Requirements, v.existingBuildings()); err != nil {
		return 0, err
	}
	if def.TrainTimeSecs > 0 && !v.Academy[roster] {
		return 0, gameerrors.NewGame(gameerrors.CodeUnitNotResearched, "unit is not yet researched in the academy")
	}

	currentLevel := v.Smithy[roster]
	if currentLevel >= rules.MaxSmithyLevel {
		return 0, gameerrors.NewGame(gameerrors.CodeInvalidSmithyLevel, "unit is already at max smithy level")
	}

	cost := rules.SmithyUpgradeCost(def, currentLevel+1)
	if err := v.DeductResources(cost.Resources); err != nil {
		return 0, err
	}

	return v.buildTimeSecs(cost.TimeSecs, serverSpeed), nil
}

// MarkAcademyResearched flips unit's researched bit once its
// ResearchAcademy job matures (spec §4.8).
func (v *Village) MarkAcademyResearched(unit rules.UnitName) error {
	roster := unitRosterIndex(v.Tribe, unit)
	if roster < 0 {
		return gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unit has no roster slot for this tribe")
	}
	v.Academy[roster] = true
	return nil
}

// IncrementSmithyLevel raises unit's smithy level by one once its
// ResearchSmithy job matures (spec §4.8).
func (v *Village) IncrementSmithyLevel(unit rules.UnitName) error {
	roster := unitRosterIndex(v.Tribe, unit)
	if roster < 0 {
		return gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unit has no roster slot for this tribe")
	}
	if v.Smithy[roster] < rules.MaxSmithyLevel {
		v.Smithy[roster]++
	}
	return nil
}

// unitRosterIndex returns the TroopSet slot index of unit in tribe's
// roster, or -1 if the tribe doesn't train that unit.
func unitRosterIndex(tribe rules.Tribe, unit rules.UnitName) int {
	for i := uint8(0); i < 10; i++ {
		if def, ok := UnitAt(tribe, i); ok && def.Name == unit {
			return int(i)
		}
	}
	return -1
}

// SetBuildingLevelAtSlot replaces the building at slot with the same
// name at level (clamped to its max level) — the job-tail step of an
// AddBuilding/UpgradeBuilding job firing.
func (v *Village) SetBuildingLevelAtSlot(slot uint8, level uint8) error {
	idx := -1
	for i, b := range v.Buildings {
		if b.SlotID == slot {
			idx = i
			break
		}
	}
	if idx == -1 {
		return gameerrors.NewGameWithMeta(gameerrors.CodeEmptySlot, "slot is empty",
			map[string]string{"slot_id": itoa(slot)})
	}
	def, _ := rules.Building(v.Buildings[idx].Name)
	if level > def.MaxLevel {
		level = def.MaxLevel
	}
	if v.Buildings[idx].Level == def.MaxLevel && level >= v.Buildings[idx].Level {
		return gameerrors.NewGameWithMeta(gameerrors.CodeBuildingMaxLevelReached, "building is already at max level",
			map[string]string{"name": string(v.Buildings[idx].Name)})
	}
	v.Buildings[idx].Level = level
	v.UpdateState(v.UpdatedAt)
	return nil
}

// RemoveBuildingAtSlot handles a downgrade-to-zero: resource fields
// (slots 1-18) revert to level 0, everything else vacates the slot.
func (v *Village) RemoveBuildingAtSlot(slot uint8) error {
	idx := -1
	for i, b := range v.Buildings {
		if b.SlotID == slot {
			idx = i
			break
		}
	}
	if idx == -1 {
		return gameerrors.NewGameWithMeta(gameerrors.CodeEmptySlot, "slot is empty",
			map[string]string{"slot_id": itoa(slot)})
	}
	if slot <= rules.ResourceFieldSlots {
		v.Buildings[idx].Level = 0
	} else {
		v.Buildings = append(v.Buildings[:idx], v.Buildings[idx+1:]...)
	}
	v.UpdateState(v.UpdatedAt)
	return nil
}

func itoa(v uint8) string {
	return strconv.Itoa(int(v))
}

// UpdateState recomputes population, production, capacities and then
// accrues resources for elapsed wall-clock time since UpdatedAt.
func (v *Village) UpdateState(now time.Time) {
	v.Population = 0
	v.Production = VillageProduction{}
	v.Stocks.WarehouseCapacity = 0
	v.Stocks.GranaryCapacity = 0

	for _, b := range v.Buildings {
		v.Population += b.Population()
		val := b.Value()
		switch b.Name {
		case rules.Woodcutter:
			v.Production.Lumber += val
		case rules.ClayPit:
			v.Production.Clay += val
		case rules.IronMine:
			v.Production.Iron += val
		case rules.Cropland:
			v.Production.Crop += val
		case rules.Sawmill:
			v.Production.Bonus.Lumber += uint8(val)
		case rules.Brickyard:
			v.Production.Bonus.Clay += uint8(val)
		case rules.IronFoundry:
			v.Production.Bonus.Iron += uint8(val)
		case rules.GrainMill, rules.Bakery:
			v.Production.Bonus.Crop += uint8(val)
		case rules.Warehouse, rules.GreatWarehouse:
			v.Stocks.WarehouseCapacity += val
		case rules.Granary, rules.GreatGranary:
			v.Stocks.GranaryCapacity += val
		}
	}

	if v.Stocks.WarehouseCapacity == 0 {
		v.Stocks.WarehouseCapacity = DefaultVillageStocks().WarehouseCapacity
	}
	if v.Stocks.GranaryCapacity == 0 {
		v.Stocks.GranaryCapacity = DefaultVillageStocks().GranaryCapacity
	}

	v.Production.Upkeep += v.Population
	for _, o := range v.Oases {
		v.Production.Bonus.Accumulate(o.Bonus())
	}
	if v.HomeArmy != nil {
		v.Production.Upkeep += v.HomeArmy.Upkeep()
	}
	for _, a := range v.Reinforcements {
		v.Production.Upkeep += a.Upkeep()
	}

	v.Production.CalculateEffective()
	v.updateMerchantsCount()
	v.accrueResources(now)
}

func (v *Village) updateMerchantsCount() {
	if mp, ok := v.GetBuildingByName(rules.Marketplace); ok {
		v.TotalMerchants = mp.Level
	} else {
		v.TotalMerchants = 0
	}
}

// AvailableMerchants is the count not currently tied up in MerchantGoing/Return jobs.
func (v *Village) AvailableMerchants() uint8 {
	if v.BusyMerchants > v.TotalMerchants {
		return 0
	}
	return v.TotalMerchants - v.BusyMerchants
}

// accrueResources is the continuous-accrual step (spec §4.2): elapsed
// time since UpdatedAt is converted to a stock delta at the current
// effective production rate, clamped to capacity, crop floored at 0.
func (v *Village) accrueResources(now time.Time) {
	elapsed := now.Sub(v.UpdatedAt).Seconds()
	if elapsed <= 0 {
		v.UpdatedAt = now
		return
	}

	lumberD, clayD, ironD, cropD := v.Production.PerSecondDeltas(elapsed)

	clampU32 := func(cur uint32, delta float64, capacity uint32) uint32 {
		next := float64(cur) + delta
		if next > float64(capacity) {
			next = float64(capacity)
		}
		if next < 0 {
			next = 0
		}
		return uint32(math.Floor(next))
	}
	v.Stocks.Lumber = clampU32(v.Stocks.Lumber, lumberD, v.Stocks.WarehouseCapacity)
	v.Stocks.Clay = clampU32(v.Stocks.Clay, clayD, v.Stocks.WarehouseCapacity)
	v.Stocks.Iron = clampU32(v.Stocks.Iron, ironD, v.Stocks.WarehouseCapacity)

	newCrop := float64(v.Stocks.Crop) + cropD
	if newCrop > float64(v.Stocks.GranaryCapacity) {
		newCrop = float64(v.Stocks.GranaryCapacity)
	}
	if newCrop < 0 {
		v.applyStarvation()
		v.Stocks.Crop = 0
	} else {
		v.Stocks.Crop = int64(math.Floor(newCrop))
	}

	v.UpdatedAt = now
}

// applyStarvation is the hook for the unimplemented troop-kill policy
// spec §9 explicitly leaves open; for now crop is simply capped at 0.
// TODO: once a starvation policy is specified, kill home-army troops
// proportionally to the crop deficit here.
func (v *Village) applyStarvation() {}
