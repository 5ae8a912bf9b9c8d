// Package battle implements the pure combat-resolution function (C3):
// army + village state in, a structured report out. Nothing here
// mutates its arguments, does I/O, or depends on storage — callers
// apply the returned report to their own aggregates.
package battle

import (
	"math"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/rules"
)

// Kind distinguishes the flavour of an engagement, which changes the
// loss-distribution rule (step 8 of the algorithm).
type Kind int

const (
	Normal Kind = iota
	Raid
	Scout
)

// Party captures one side's troop vector before and after the fight.
type Party struct {
	Before    game.TroopSet
	Survivors game.TroopSet
	Losses    game.TroopSet
}

// Report is the full structured outcome of one battle.
type Report struct {
	AttackType Kind

	Attacker       Party
	Defender       Party
	Reinforcements []Party

	Bounty         rules.Resources
	WallDamage     float64
	NewWallLevel   uint8
	CatapultDamage float64
	NewTargetLevel uint8
	TargetBuilding rules.BuildingName
	TargetSlot     uint8

	Scouting    bool
	LoyaltyAfter uint8

	Success bool
}

// Input bundles everything CalculateBattle needs: the attacking army,
// the attacker's home village (for morale/population), the defending
// village (home army + buildings), any reinforcing armies present, and
// the catapult target selection.
type Input struct {
	Kind Kind

	AttackerArmy    *game.Army
	AttackerVillage *game.Village
	DefenderVillage *game.Village
	Reinforcements  []*game.Army

	// CataTargetSlot is the building slot catapults aim at. If the
	// named building is absent from the defender village, a uniform
	// random existing building is chosen instead, using Seed so tests
	// can fix the outcome (spec §4.3 determinism clause).
	CataTargetSlot uint8
	Seed           int64
}

// sigma is Kirilloid's catapult-efficiency curve.
func sigma(x float64) float64 {
	if x > 1.0 {
		return (2.0 - math.Pow(x, -1.5)) / 2.0
	}
	return math.Pow(x, 1.5) / 2.0
}

// siegeDamage computes the raw damage a battering ram or catapult
// contingent inflicts, scaled by surviving quantity, durability, and
// the attack/defense ratio via sigma.
func siegeDamage(quantity, durability, adRatio float64) float64 {
	if quantity <= 0 {
		return 0
	}
	efficiency := math.Floor(quantity / durability)
	return 4.0 * sigma(adRatio) * efficiency
}

// newLevelAfterDamage applies damage to a building's level, subtracting
// 0.5 first then repeatedly subtracting the current level while damage
// remains at least that level — matching the original's iterative
// decay rather than a closed-form formula.
func newLevelAfterDamage(oldLevel uint8, damage float64) uint8 {
	damage -= 0.5
	if damage < 0 {
		return oldLevel
	}
	level := oldLevel
	for damage >= float64(level) && level > 0 {
		damage -= float64(level)
		level--
	}
	return level
}

// ramCount, cataCount return the quantity of ram/catapult-class units
// in an army, identified by the RomanBatteringRam/.../Catapult family
// of unit names carried in its roster.
func ramCount(a *game.Army) uint64 {
	return classCount(a, rules.ClassSiege, false)
}

func cataCount(a *game.Army) uint64 {
	return classCount(a, rules.ClassSiege, true)
}

// classCount sums troop quantities whose unit definition matches class
// siege and, when wantCatapult is set, whose name denotes a catapult
// rather than a ram (both share ClassSiege in the rules catalog).
func classCount(a *game.Army, class rules.UnitClass, wantCatapult bool) uint64 {
	var total uint64
	for i, qty := range a.Troops {
		if qty == 0 {
			continue
		}
		def, ok := game.UnitAt(a.Tribe, uint8(i))
		if !ok || def.Class != class {
			continue
		}
		isCatapult := def.Name != rules.RomanBatteringRam && def.Name != rules.TeutonRam && def.Name != rules.GaulRam
		if isCatapult == wantCatapult {
			total += uint64(qty)
		}
	}
	return total
}

// CalculateBattle runs the 12-step algorithm from spec §4.3 and
// returns the resulting report. It never mutates in.
func CalculateBattle(in Input) Report {
	attacker := in.AttackerArmy
	defenderHome := in.DefenderVillage.HomeArmy
	if defenderHome == nil {
		defenderHome = game.NewArmy("", in.DefenderVillage.ID, in.DefenderVillage.Tribe)
	}

	// 1. Attacker attack points.
	attackerInf, attackerCav := attacker.AttackPoints()
	totalAttackerPoints := attackerInf + attackerCav

	// 2. Aggregate defender defense: home army + reinforcements.
	defenderInf, defenderCav := defenderHome.DefensePoints()
	for _, r := range in.Reinforcements {
		inf, cav := r.DefensePoints()
		defenderInf += inf
		defenderCav += cav
	}

	// 3. Weight defender by attacker composition.
	var weightedDefense float64
	if totalAttackerPoints > 0 {
		pInf := float64(attackerInf) / float64(totalAttackerPoints)
		pCav := float64(attackerCav) / float64(totalAttackerPoints)
		weightedDefense = float64(defenderInf)*pInf + float64(defenderCav)*pCav
	}

	// Preliminary ram damage reduces effective wall level before the
	// wall factor and residence bonus are computed (step 9, performed
	// early because the defense total depends on it).
	initialWallLevel := uint8(0)
	if wall, ok := in.DefenderVillage.Wall(); ok {
		initialWallLevel = wall.Level
	}
	rams := float64(ramCount(attacker))
	preliminaryWallDamage := siegeDamage(rams, 1.0, 1.0)
	effectiveWallLevel := newLevelAfterDamage(initialWallLevel, preliminaryWallDamage)

	// 4. Wall bonus at the reduced level.
	wallFactor := in.DefenderVillage.Tribe.WallFactor()
	wallMultiplier := math.Pow(wallFactor, float64(effectiveWallLevel))

	// 5. Residence/Palace defence bonus.
	resLevel := residenceLevel(in.DefenderVillage)
	residenceBonus := 2.0 * float64(resLevel) * float64(resLevel)

	finalDefense := (weightedDefense + residenceBonus) * wallMultiplier

	// 6. Morale.
	moraleBonus := 1.0
	attackerImmensity := float64(attacker.Immensity())
	defenderPop := float64(in.DefenderVillage.Population)
	if attackerImmensity > defenderPop && attackerImmensity > 0 {
		moraleBonus = math.Max(0.667, math.Pow(defenderPop/attackerImmensity, 0.2))
	}
	effectiveAttack := float64(totalAttackerPoints) * moraleBonus

	// 7. m-factor from total troops involved.
	totalTroops := attacker.Immensity() + defenderHome.Immensity()
	for _, r := range in.Reinforcements {
		totalTroops += r.Immensity()
	}
	m := 1.5
	if totalTroops >= 1000 {
		m = 2.0 * (1.8592 - math.Pow(float64(totalTroops), 0.015))
	}

	// 8. Loss distribution.
	var attackerLossFrac, defenderLossFrac float64
	denominator := math.Max(effectiveAttack, 1.0)
	ratio := math.Pow(finalDefense/denominator, m)
	switch in.Kind {
	case Raid:
		x := ratio
		attackerLossFrac = x / (1 + x)
		defenderLossFrac = x / (1 + x)
	default:
		winnerIsAttacker := effectiveAttack > finalDefense
		if winnerIsAttacker {
			attackerLossFrac = ratio / (1 + ratio)
			defenderLossFrac = 1.0
		} else {
			attackerLossFrac = 1.0
			defenderLossFrac = 1.0 - (ratio / (1 + ratio))
		}
	}

	attackerSurvivorRatio := 1.0 - attackerLossFrac
	attackerSurvivors := scaleTroops(attacker.Troops, attackerSurvivorRatio)
	attackerLosses := attacker.Troops.Sub(attackerSurvivors)

	defenderSurvivorRatio := 1.0 - defenderLossFrac
	defenderBefore := defenderHome.Troops
	defenderSurvivors := scaleTroops(defenderBefore, defenderSurvivorRatio)
	defenderLosses := defenderBefore.Sub(defenderSurvivors)

	reinforcementParties := make([]Party, len(in.Reinforcements))
	for i, r := range in.Reinforcements {
		survivors := scaleTroops(r.Troops, defenderSurvivorRatio)
		reinforcementParties[i] = Party{Before: r.Troops, Survivors: survivors, Losses: r.Troops.Sub(survivors)}
	}

	adRatio := effectiveAttack / math.Max(finalDefense, 1.0)

	// 9. Final ram damage, using surviving ram count; never less than the
	// preliminary damage already applied before the defence was computed.
	finalRams := rams * attackerSurvivorRatio
	wallDamage := siegeDamage(finalRams, 1.0, adRatio)
	if preliminaryWallDamage > wallDamage {
		wallDamage = preliminaryWallDamage
	}
	newWallLevel := newLevelAfterDamage(initialWallLevel, wallDamage)

	// 10. Catapult damage against the chosen target.
	targetSlot, targetName, targetLevel := resolveCataTarget(in.DefenderVillage, in.CataTargetSlot, in.Seed)
	catas := float64(cataCount(attacker)) * attackerSurvivorRatio
	durability := buildingDurability(in.DefenderVillage)
	catapultDamage := siegeDamage(catas, durability, adRatio)
	newTargetLevel := newLevelAfterDamage(targetLevel, catapultDamage)

	// 11. Bounty: capped by attacker's remaining carry capacity and the
	// defender's unprotected stock: every cranny shelters its level's
	// value of each resource.
	carryLeft := float64(carryCapacity(attackerSurvivors, attacker.Tribe))
	crannyDef, _ := rules.Building(rules.Cranny)
	var sheltered uint64
	for _, b := range in.DefenderVillage.Buildings {
		if b.Name == rules.Cranny {
			sheltered += uint64(crannyDef.ValueAtLevel(b.Level))
		}
	}
	unprotected := in.DefenderVillage.Stocks.Stored().Sub(rules.Resources{Lumber: sheltered, Clay: sheltered, Iron: sheltered, Crop: sheltered})
	bounty := boundedBounty(unprotected, carryLeft)

	// 12. Loyalty hook: Normal attacks by chief-class units erode
	// loyalty; left at a fixed step since the rule-defined amount is
	// not specified beyond "out of core detail if absent, keep hook".
	loyaltyAfter := in.DefenderVillage.Loyalty
	if in.Kind == Normal && attacker.HasChief() && loyaltyAfter > 0 {
		const chiefLoyaltyDamage = 20
		if uint8(chiefLoyaltyDamage) >= loyaltyAfter {
			loyaltyAfter = 0
		} else {
			loyaltyAfter -= chiefLoyaltyDamage
		}
	}

	return Report{
		AttackType: in.Kind,
		Attacker:   Party{Before: attacker.Troops, Survivors: attackerSurvivors, Losses: attackerLosses},
		Defender:   Party{Before: defenderBefore, Survivors: defenderSurvivors, Losses: defenderLosses},
		Reinforcements: reinforcementParties,
		Bounty:         bounty,
		WallDamage:     wallDamage,
		NewWallLevel:   newWallLevel,
		CatapultDamage: catapultDamage,
		NewTargetLevel: newTargetLevel,
		TargetBuilding: targetName,
		TargetSlot:     targetSlot,
		Scouting:       in.Kind == Scout,
		LoyaltyAfter:   loyaltyAfter,
		Success:        effectiveAttack > finalDefense,
	}
}

// carryCapacity sums unit capacity * quantity for an arbitrary troop
// vector under tribe, used to size the bounty once survivor counts
// are known (the *Army method only covers an army's own troops).
func carryCapacity(t game.TroopSet, tribe rules.Tribe) uint64 {
	var total uint64
	for i, qty := range t {
		if qty == 0 {
			continue
		}
		if def, ok := game.UnitAt(tribe, uint8(i)); ok {
			total += uint64(def.Capacity) * uint64(qty)
		}
	}
	return total
}

// scaleTroops multiplies every slot by ratio, flooring to whole units.
func scaleTroops(t game.TroopSet, ratio float64) game.TroopSet {
	if ratio <= 0 {
		return game.TroopSet{}
	}
	if ratio >= 1 {
		return t
	}
	var out game.TroopSet
	for i, qty := range t {
		out[i] = uint32(math.Floor(float64(qty) * ratio))
	}
	return out
}

// residenceLevel returns the level of whichever of Palace/Residence
// exists in v (spec §3: at most one of the two may exist).
func residenceLevel(v *game.Village) uint8 {
	if b, ok := v.GetBuildingByName(rules.Palace); ok {
		return b.Level
	}
	if b, ok := v.GetBuildingByName(rules.Residence); ok {
		return b.Level
	}
	return 0
}

// buildingDurability looks up the StonemansionLodge building's
// durability contribution, defaulting to 1 (no extra protection) when
// absent.
func buildingDurability(v *game.Village) float64 {
	if b, ok := v.GetBuildingByName(rules.StonemansionLodge); ok {
		return 1.0 + float64(b.Level)*0.01
	}
	return 1.0
}

// resolveCataTarget returns the slot, name and level of the building
// catapults aim at: the requested slot if occupied, otherwise a seeded
// uniform pick among the village's existing buildings (spec §4.3
// determinism clause). The returned slot may differ from the
// requested one when the fallback fires, and callers must apply
// resulting damage at the returned slot, not the requested one.
func resolveCataTarget(v *game.Village, slot uint8, seed int64) (uint8, rules.BuildingName, uint8) {
	if b, ok := v.GetBuildingBySlot(slot); ok {
		return b.SlotID, b.Name, b.Level
	}
	if len(v.Buildings) == 0 {
		return 0, "", 0
	}
	idx := int(uint64(seed) % uint64(len(v.Buildings)))
	if idx < 0 {
		idx = -idx
	}
	b := v.Buildings[idx]
	return b.SlotID, b.Name, b.Level
}

// boundedBounty caps the defender's resources by the attacker's
// remaining carry capacity, one resource type at a time in a fixed
// lumber/clay/iron/crop order.
func boundedBounty(stock rules.Resources, carryLeft float64) rules.Resources {
	var bounty rules.Resources
	take := func(amount uint64) uint64 {
		if carryLeft <= 0 {
			return 0
		}
		taken := math.Min(float64(amount), carryLeft)
		carryLeft -= taken
		return uint64(taken)
	}
	bounty.Lumber = take(stock.Lumber)
	bounty.Clay = take(stock.Clay)
	bounty.Iron = take(stock.Iron)
	bounty.Crop = take(stock.Crop)
	return bounty
}
