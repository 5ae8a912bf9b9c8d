package game

import (
	"time"

	"github.com/ironcrown/realmforge/internal/id"
	"github.com/ironcrown/realmforge/internal/rules"
)

// AlliancePermission is a bitmask of actions a player may perform on
// behalf of their alliance.
type AlliancePermission uint32

const (
	PermInviteMembers AlliancePermission = 1 << iota
	PermKickMembers
	PermManageBonuses
	PermEditProfile
)

// Has reports whether perms grants the action p.
func (p AlliancePermission) Has(action AlliancePermission) bool {
	return p&action != 0
}

// BonusContribution tracks a player's running and lifetime donation
// totals for one alliance bonus type.
type BonusContribution struct {
	Current  uint32
	Lifetime uint32
}

// Player is a registered account: identity, tribe, and alliance
// membership state. Never destroyed once created.
type Player struct {
	ID       string
	Username string
	Tribe    rules.Tribe

	AllianceID          string // empty when not in an alliance
	AlliancePermissions AlliancePermission
	AllianceJoinedAt    time.Time

	Contributions map[string]*BonusContribution // keyed by bonus type
}

// NewPlayer creates a new player account.
func NewPlayer(username string, tribe rules.Tribe) *Player {
	return &Player{
		ID:            id.New(),
		Username:      username,
		Tribe:         tribe,
		Contributions: make(map[string]*BonusContribution),
	}
}

// InAlliance reports whether the player currently belongs to an alliance.
func (p *Player) InAlliance() bool { return p.AllianceID != "" }

// JoinAlliance records membership, resetting permissions and join time.
func (p *Player) JoinAlliance(allianceID string, joinedAt time.Time) {
	p.AllianceID = allianceID
	p.AlliancePermissions = 0
	p.AllianceJoinedAt = joinedAt
}

// LeaveAlliance clears every alliance-scoped field, per spec §3's
// "alliance fields cleared when leaving/kicked" lifecycle rule.
func (p *Player) LeaveAlliance() {
	p.AllianceID = ""
	p.AlliancePermissions = 0
	p.AllianceJoinedAt = time.Time{}
}

// Contribution returns (creating if absent) the tracker for bonusType.
func (p *Player) Contribution(bonusType string) *BonusContribution {
	c, ok := p.Contributions[bonusType]
	if !ok {
		c = &BonusContribution{}
		p.Contributions[bonusType] = c
	}
	return c
}
