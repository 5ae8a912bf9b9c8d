package game

import (
	"time"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/id"
	"github.com/ironcrown/realmforge/internal/rules"
)

// BonusType identifies an alliance-wide perk category. Only Training is
// modeled in the source scenarios; the others round out the catalog
// spec §3 implies with "e.g. Training".
type BonusType int16

const (
	BonusTraining BonusType = iota + 1
	BonusResourceProduction
	BonusCulturePoints
	BonusTrade
)

// key is used for map keys on Player.Contributions, keeping
// that map keyed by a human string rather than the numeric wire value.
func (b BonusType) key() string {
	switch b {
	case BonusTraining:
		return "training"
	case BonusResourceProduction:
		return "resources"
	case BonusCulturePoints:
		return "culture_points"
	case BonusTrade:
		return "trade"
	default:
		return "unknown"
	}
}

// ParseBonusType validates a wire-level bonus type ordinal.
func ParseBonusType(v int16) (BonusType, bool) {
	switch BonusType(v) {
	case BonusTraining, BonusResourceProduction, BonusCulturePoints, BonusTrade:
		return BonusType(v), true
	default:
		return 0, false
	}
}

// maxBonusLevel caps every bonus track at 100, matching the original's
// percentage-style bonus levels.
const maxBonusLevel = 100

// resourcesPerContributionPoint is the conversion rate S1 fixes: 4000
// total resources contributed yields 4 points, i.e. 1000 per point.
const resourcesPerContributionPoint = 1000

// bonusUpgradeBaseDurationSecs is the base (speed=1) job duration for
// upgrading one level of a bonus track, keyed by bonus type.
var bonusUpgradeBaseDurationSecs = map[BonusType]int64{
	BonusTraining:           3600,
	BonusResourceProduction: 7200,
	BonusCulturePoints:      10800,
	BonusTrade:              7200,
}

// bonusContributionsNeeded returns the cumulative contribution points
// required to reach level+1 of a bonus track. The curve grows
// quadratically with level so later levels take substantially longer,
// matching the original's escalating thresholds.
func bonusContributionsNeeded(currentLevel int) uint64 {
	next := uint64(currentLevel + 1)
	return 500 * next * next
}

// donationLimit returns the per-player donation cap for one bonus
// track over the contribution period, derived from the embassy level
// the caller passes (the contributing player's capital embassy in
// commands.HandleContributeToAllianceBonus) and scaled by server speed.
func donationLimit(embassyLevel int, serverSpeed int8) uint64 {
	if serverSpeed < 1 {
		serverSpeed = 1
	}
	return uint64(embassyLevel) * 50_000 * uint64(serverSpeed)
}

// newPlayerCooldown is how long a freshly joined member must wait
// before contributing, once the alliance has reached bonus level 3 or
// higher (per the original's "new player cooldown" gate).
const newPlayerCooldown = 24 * time.Hour

// cooldownTriggerLevel is the bonus level at which the new-player
// cooldown starts being enforced.
const cooldownTriggerLevel = 3

// Alliance is a named, tagged group of players sharing bonus tracks.
type Alliance struct {
	ID       string
	Name     string
	Tag      string
	LeaderID string

	MaxMembers int

	// BonusLevels and BonusContributions are keyed by BonusType.key().
	BonusLevels        map[string]int
	BonusContributions map[string]uint64

	CreatedAt time.Time
}

// NewAlliance creates a new alliance founded by leaderID, with
// maxMembers set to the founder's embassy level at founding time (spec
// §3: "max_members equals the founder's embassy level when created").
func NewAlliance(name, tag string, founderEmbassyLevel int, leaderID string, now time.Time) *Alliance {
	return &Alliance{
		ID:                 id.New(),
		Name:               name,
		Tag:                tag,
		LeaderID:           leaderID,
		MaxMembers:         founderEmbassyLevel,
		BonusLevels:        make(map[string]int),
		BonusContributions: make(map[string]uint64),
		CreatedAt:          now,
	}
}

// BonusLevel returns the current level of a bonus track (0 if untouched).
func (a *Alliance) BonusLevel(t BonusType) int {
	return a.BonusLevels[t.key()]
}

// Contributions returns the cumulative contribution points recorded
// toward a bonus track's next level.
func (a *Alliance) Contributions(t BonusType) uint64 {
	return a.BonusContributions[t.key()]
}

// UpgradeDurationSeconds returns the job duration (at server speed 1)
// for advancing t by one level, or false if t has no configured track.
func (a *Alliance) UpgradeDurationSeconds(t BonusType) (int64, bool) {
	d, ok := bonusUpgradeBaseDurationSecs[t]
	return d, ok
}

// ContributionResult reports the outcome of AddContribution.
type ContributionResult struct {
	PointsAdded     uint64
	UpgradeTriggered bool
}

// AddContribution validates and records a resource donation toward a
// bonus track, converting resources to points at
// resourcesPerContributionPoint. It enforces the per-player donation
// limit (embassy-level-derived, spec §3) and the new-player cooldown
// (only once the track has reached cooldownTriggerLevel), deducts the
// resources from village, updates player and alliance contribution
// counters, and reports whether a level threshold was crossed so the
// caller can schedule an AllianceBonusUpgrade job.
func (a *Alliance) AddContribution(
	t BonusType,
	resources rules.Resources,
	village *Village,
	player *Player,
	embassyLevel int,
	serverSpeed int8,
	now time.Time,
) (ContributionResult, error) {
	level := a.BonusLevel(t)
	if level >= cooldownTriggerLevel && !player.AllianceJoinedAt.IsZero() {
		if now.Sub(player.AllianceJoinedAt) < newPlayerCooldown {
			return ContributionResult{}, gameerrors.NewGame(gameerrors.CodeAllianceNewPlayerCooldown, "recently joined members must wait before contributing")
		}
	}

	total := resources.Lumber + resources.Clay + resources.Iron + resources.Crop
	points := total / resourcesPerContributionPoint

	contrib := player.Contribution(t.key())
	limit := donationLimit(embassyLevel, serverSpeed)
	if uint64(contrib.Current)+points > limit {
		return ContributionResult{}, gameerrors.NewGame(gameerrors.CodeAllianceDonationLimitExceeded, "donation limit exceeded")
	}

	if !village.HasEnoughResources(resources) {
		return ContributionResult{}, gameerrors.NewGame(gameerrors.CodeNotEnoughResources, "insufficient resources for contribution")
	}
	if err := village.DeductResources(resources); err != nil {
		return ContributionResult{}, err
	}

	contrib.Current += uint32(points)
	contrib.Lifetime += uint32(points)

	before := a.Contributions(t)
	after := before + points
	a.BonusContributions[t.key()] = after

	threshold := bonusContributionsNeeded(level)
	triggered := level < maxBonusLevel && before < threshold && after >= threshold

	return ContributionResult{PointsAdded: points, UpgradeTriggered: triggered}, nil
}

// UpgradeBonus advances a bonus track by one level and resets its
// contribution counter, applied when a scheduled AllianceBonusUpgrade
// job matures.
func (a *Alliance) UpgradeBonus(t BonusType) error {
	if a.BonusLevel(t) >= maxBonusLevel {
		return gameerrors.NewGame(gameerrors.CodeInvalidBonusType, "bonus track already at max level")
	}
	a.BonusLevels[t.key()] = a.BonusLevel(t) + 1
	a.BonusContributions[t.key()] = 0
	return nil
}

// AllianceLogType categorizes an append-only alliance audit entry.
type AllianceLogType int16

const (
	LogPlayerJoined AllianceLogType = iota + 1
	LogPlayerKicked
	LogPlayerLeft
	LogBonusUpgraded
)

// AllianceLog is one append-only audit entry for an alliance.
type AllianceLog struct {
	ID          string
	AllianceID  string
	Type        AllianceLogType
	Description string
	CreatedAt   time.Time
}

// NewAllianceLog creates a log entry.
func NewAllianceLog(allianceID string, t AllianceLogType, description string, now time.Time) *AllianceLog {
	return &AllianceLog{
		ID:          id.New(),
		AllianceID:  allianceID,
		Type:        t,
		Description: description,
		CreatedAt:   now,
	}
}

// AllianceInvite is a pending membership request between a player and
// an alliance, awaiting either side's acceptance.
type AllianceInvite struct {
	ID         string
	AllianceID string
	PlayerID   string
	CreatedAt  time.Time
}

// NewAllianceInvite creates a pending invite.
func NewAllianceInvite(allianceID, playerID string, now time.Time) *AllianceInvite {
	return &AllianceInvite{
		ID:         id.New(),
		AllianceID: allianceID,
		PlayerID:   playerID,
		CreatedAt:  now,
	}
}

// VerifyKickPermission checks every invariant KickFromAlliance enforces
// before a kick proceeds: kicker and target both belong to allianceID,
// kicker holds PermKickMembers, and target is not the alliance leader.
func (a *Alliance) VerifyKickPermission(kicker, target *Player) error {
	if kicker.AllianceID != a.ID {
		return gameerrors.NewGame(gameerrors.CodePlayerNotInAlliance, "kicker is not a member of this alliance")
	}
	if !kicker.AlliancePermissions.Has(PermKickMembers) {
		return gameerrors.NewGame(gameerrors.CodeNoKickPermission, "player lacks permission to kick alliance members")
	}
	if target.AllianceID != a.ID {
		return gameerrors.NewGame(gameerrors.CodePlayerNotInAlliance, "target is not a member of this alliance")
	}
	if target.ID == a.LeaderID {
		return gameerrors.NewGame(gameerrors.CodeCannotKickLeader, "cannot kick the alliance leader")
	}
	return nil
}
