package game

import (
	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/id"
	"github.com/ironcrown/realmforge/internal/rules"
)

// TroopSet is the fixed 10-slot unit-quantity vector spec §9 requires
// for branch-free, allocation-free attack/defense arithmetic. Slot
// indices are tribe-specific; index 8 is the tribe's chief-class unit and
// index 9 its settler in these catalogs, matching the original's slot
// convention.
type TroopSet [10]uint32

// Add returns the elementwise sum of t and o.
func (t TroopSet) Add(o TroopSet) TroopSet {
	var out TroopSet
	for i := range t {
		out[i] = t[i] + o[i]
	}
	return out
}

// Sub returns the elementwise difference t-o, saturating at zero per slot.
func (t TroopSet) Sub(o TroopSet) TroopSet {
	var out TroopSet
	for i := range t {
		if o[i] > t[i] {
			out[i] = 0
		} else {
			out[i] = t[i] - o[i]
		}
	}
	return out
}

// Total sums every slot.
func (t TroopSet) Total() uint64 {
	var total uint64
	for _, q := range t {
		total += uint64(q)
	}
	return total
}

// IsEmpty reports whether every slot is zero.
func (t TroopSet) IsEmpty() bool { return t.Total() == 0 }

// tribeRoster returns the ordered unit roster for a tribe, index 0..9,
// matching the TroopSet slot convention. Slots 8/9 are reserved for the
// tribe's chief and settler class units respectively; missing slots
// for a tribe with fewer catalog entries than 10 are left as the zero
// UnitName.
func tribeRoster(tribe rules.Tribe) [10]rules.UnitName {
	switch tribe {
	case rules.Roman:
		return [10]rules.UnitName{
			rules.RomanLegionnaire, rules.RomanPraetorian, rules.RomanImperian,
			rules.RomanEquitesLegati, rules.RomanEquitesImperatoris,
			rules.RomanBatteringRam, rules.RomanFireCatapult, "",
			rules.RomanSenator, rules.RomanSettler,
		}
	case rules.Teuton:
		return [10]rules.UnitName{
			rules.TeutonClubswinger, rules.TeutonSpearman, rules.TeutonPaladin,
			rules.TeutonTeutonicKnight, "",
			rules.TeutonRam, rules.TeutonCatapult, "",
			rules.TeutonChief, rules.TeutonSettler,
		}
	case rules.Gaul:
		return [10]rules.UnitName{
			rules.GaulPhalanx, rules.GaulSwordsman, rules.GaulPathfinder,
			rules.GaulTheutatesThunder, "",
			rules.GaulRam, rules.GaulCatapult, "",
			rules.GaulChieftain, rules.GaulSettler,
		}
	case rules.Natar:
		return [10]rules.UnitName{
			rules.NatarPikeman, rules.NatarThorn, "", "", "", "",
			rules.NatarBirdOfPrey, "",
			rules.NatarEmperor, "",
		}
	default:
		return [10]rules.UnitName{rules.NatureRat, rules.NatureWolf}
	}
}

// UnitAt returns the unit catalog entry for tribe's roster slot idx.
func UnitAt(tribe rules.Tribe, idx uint8) (rules.UnitDef, bool) {
	if idx >= 10 {
		return rules.UnitDef{}, false
	}
	name := tribeRoster(tribe)[idx]
	if name == "" {
		return rules.UnitDef{}, false
	}
	return rules.Unit(name)
}

// Army is a mobile troop group: identity, owner, current location,
// and the 10-slot troop vector with per-slot smithy levels applied.
type Army struct {
	ID            string
	PlayerID      string
	HomeVillageID uint64
	FieldID       uint64 // village or oasis the army currently occupies
	Tribe         rules.Tribe
	Troops        TroopSet
	SmithyLevels  [10]uint8
	HeroID        string // empty when no hero travels with this army
}

// NewArmy creates an empty army for player, homed at villageID.
func NewArmy(playerID string, homeVillageID uint64, tribe rules.Tribe) *Army {
	return &Army{
		ID:            id.New(),
		PlayerID:      playerID,
		HomeVillageID: homeVillageID,
		FieldID:       homeVillageID,
		Tribe:         tribe,
	}
}

// Upkeep sums unit upkeep * quantity across all slots.
func (a *Army) Upkeep() uint32 {
	var total uint32
	roster := tribeRoster(a.Tribe)
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		if def, ok := rules.Unit(roster[i]); ok {
			total += def.Upkeep * qty
		}
	}
	return total
}

// Immensity is the total troop count across all slots.
func (a *Army) Immensity() uint64 { return a.Troops.Total() }

// CarryCapacity sums unit capacity * quantity.
func (a *Army) CarryCapacity() uint32 {
	var total uint32
	roster := tribeRoster(a.Tribe)
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		if def, ok := rules.Unit(roster[i]); ok {
			total += def.Capacity * qty
		}
	}
	return total
}

// Speed is the minimum speed among non-zero slots, or 0 if the army is
// empty (spec testable property #8).
func (a *Army) Speed() uint16 {
	roster := tribeRoster(a.Tribe)
	var min uint16
	found := false
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		def, ok := rules.Unit(roster[i])
		if !ok {
			continue
		}
		if !found || def.Speed < min {
			min = def.Speed
			found = true
		}
	}
	return min
}

// AttackPoints returns (infantry, cavalry) attack points, smithy-adjusted.
func (a *Army) AttackPoints() (infantry, cavalry uint64) {
	roster := tribeRoster(a.Tribe)
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		def, ok := rules.Unit(roster[i])
		if !ok {
			continue
		}
		val := rules.CombatValueAtLevel(def.Attack, def.Upkeep, a.SmithyLevels[i])
		points := uint64(val) * uint64(qty)
		switch def.Class {
		case rules.ClassCavalry:
			cavalry += points
		default:
			infantry += points
		}
	}
	return
}

// DefensePoints returns (infantry, cavalry) defense points, smithy-adjusted.
func (a *Army) DefensePoints() (infantry, cavalry uint64) {
	roster := tribeRoster(a.Tribe)
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		def, ok := rules.Unit(roster[i])
		if !ok {
			continue
		}
		infVal := rules.CombatValueAtLevel(def.DefenseInfantry, def.Upkeep, a.SmithyLevels[i])
		cavVal := rules.CombatValueAtLevel(def.DefenseCavalry, def.Upkeep, a.SmithyLevels[i])
		infantry += uint64(infVal) * uint64(qty)
		cavalry += uint64(cavVal) * uint64(qty)
	}
	return
}

// ScoutingPoints sums scouting power * quantity.
func (a *Army) ScoutingPoints() uint64 {
	roster := tribeRoster(a.Tribe)
	var total uint64
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		if def, ok := rules.Unit(roster[i]); ok {
			total += uint64(def.ScoutingPower) * uint64(qty)
		}
	}
	return total
}

// HasChief reports whether this army carries a chief-class unit.
func (a *Army) HasChief() bool {
	roster := tribeRoster(a.Tribe)
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		if def, ok := rules.Unit(roster[i]); ok && def.IsChief() {
			return true
		}
	}
	return false
}

// Merge combines o into a in place, requiring matching tribes (spec
// testable property #7). Smithy levels are taken as the max of the two
// armies per slot, since a merged army keeps whichever upgrade is higher.
func (a *Army) Merge(o *Army) error {
	if a.Tribe != o.Tribe {
		return gameerrors.NewGame(gameerrors.CodeTribeMismatch, "cannot merge armies of different tribes")
	}
	a.Troops = a.Troops.Add(o.Troops)
	for i := range a.SmithyLevels {
		if o.SmithyLevels[i] > a.SmithyLevels[i] {
			a.SmithyLevels[i] = o.SmithyLevels[i]
		}
	}
	return nil
}

// Deploy splits want out of a, returning the extracted army and
// leaving the remainder in a. Fails if a does not hold enough of any
// requested slot.
func (a *Army) Deploy(want TroopSet) (*Army, error) {
	for i, qty := range want {
		if qty > a.Troops[i] {
			return nil, gameerrors.NewGame(gameerrors.CodeNotEnoughUnits, "not enough units to deploy")
		}
	}
	extracted := &Army{
		ID:            id.New(),
		PlayerID:      a.PlayerID,
		HomeVillageID: a.HomeVillageID,
		FieldID:       a.FieldID,
		Tribe:         a.Tribe,
		Troops:        want,
		SmithyLevels:  a.SmithyLevels,
	}
	a.Troops = a.Troops.Sub(want)
	return extracted, nil
}

// ApplySurvivors replaces the troop vector with survivors, the losses
// implied by a battle report's party.
func (a *Army) ApplySurvivors(survivors TroopSet) {
	a.Troops = survivors
}
