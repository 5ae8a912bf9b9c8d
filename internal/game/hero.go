package game

import (
	"math"

	"github.com/ironcrown/realmforge/internal/id"
)

// Hero is a player-owned unit that can travel with an army, gaining
// experience and distributing skill points across four tracks.
type Hero struct {
	ID        string
	PlayerID  string
	VillageID uint64

	Health     uint16 // 0..100; 0 means dead, pending revival
	Level      uint32
	Experience uint32

	StrengthPoints    uint32 // offense
	DefensePoints     uint32
	RegenerationPoints uint32
	ResourcesPoints   uint32
	UnassignedPoints  uint32
}

// NewHero creates a fresh level-0 hero bound to village.
func NewHero(playerID string, villageID uint64) *Hero {
	return &Hero{
		ID:        id.New(),
		PlayerID:  playerID,
		VillageID: villageID,
		Health:    100,
	}
}

// IsAlive reports whether the hero currently has HP.
func (h *Hero) IsAlive() bool { return h.Health > 0 }

// bonusByPoints applies the 0.8%-per-point compounding bonus curve.
func bonusByPoints(points uint32) float64 {
	if points == 0 {
		return 0
	}
	return math.Pow(1.008, float64(points)) - 1
}

// AttackBonus returns the hero's flat attack contribution when
// accompanying an army into battle, 0 otherwise.
func (h *Hero) AttackBonus(isAttackingWithArmy bool) uint32 {
	if !isAttackingWithArmy {
		return 0
	}
	const baseAttack = 100
	return uint32(float64(baseAttack) * (1 + bonusByPoints(h.StrengthPoints)))
}

// DefenseBonus returns the hero's flat defense contribution.
func (h *Hero) DefenseBonus() uint32 {
	const baseDefense = 100
	return uint32(float64(baseDefense) * (1 + bonusByPoints(h.DefensePoints)))
}

// Resurrect revives a dead hero into village. "keep" sets HP=100 and
// preserves level/experience/points; "reset" zeros level/experience
// and every assigned point track, redistributing a small pool
// (floor(level/3)) as unassigned — the original's own test fixture is
// the only source for this constant (level 15 -> 5 unassigned points).
func (h *Hero) Resurrect(villageID uint64, reset bool) {
	h.VillageID = villageID
	h.Health = 100

	if !reset {
		return
	}

	preserved := h.Level / 3
	h.Level = 0
	h.Experience = 0
	h.StrengthPoints = 0
	h.DefensePoints = 0
	h.RegenerationPoints = 0
	h.ResourcesPoints = 0
	h.UnassignedPoints = preserved
}
