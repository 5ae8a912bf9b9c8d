// Package errors provides the two-layer error taxonomy used across the
// deferred-action engine: game errors (domain rule violations) and
// infrastructure errors (storage/transport/serialization failures),
// joined by the ApplicationError umbrella described in spec §7.
package errors

// Code is a machine-readable game-error code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Resource / village errors
	CodeNotEnoughResources Code = "NOT_ENOUGH_RESOURCES"
	CodeVillageSlotsFull   Code = "VILLAGE_SLOTS_FULL"
	CodeSlotOccupied       Code = "SLOT_OCCUPIED"
	CodeEmptySlot          Code = "EMPTY_SLOT"

	// Building errors
	CodeBuildingMaxLevelReached        Code = "BUILDING_MAX_LEVEL_REACHED"
	CodeBuildingRequirementsNotMet     Code = "BUILDING_REQUIREMENTS_NOT_MET"
	CodeBuildingConflict               Code = "BUILDING_CONFLICT"
	CodeNoMultipleBuildingConstraint   Code = "NO_MULTIPLE_BUILDING_CONSTRAINT"
	CodeMultipleBuildingMaxNotReached  Code = "MULTIPLE_BUILDING_MAX_NOT_REACHED"
	CodeBuildingTribeMismatch          Code = "BUILDING_TRIBE_MISMATCH"
	CodeCapitalConstraint              Code = "CAPITAL_CONSTRAINT"
	CodeNonCapitalConstraint           Code = "NON_CAPITAL_CONSTRAINT"

	// Unit / training / research errors
	CodeInvalidUnitIndex        Code = "INVALID_UNIT_INDEX"
	CodeUnitNotFound            Code = "UNIT_NOT_FOUND"
	CodeUnitNotResearched       Code = "UNIT_NOT_RESEARCHED"
	CodeUnitAlreadyResearched   Code = "UNIT_ALREADY_RESEARCHED"
	CodeInvalidTrainingBuilding Code = "INVALID_TRAINING_BUILDING"
	CodeInvalidSmithyLevel      Code = "INVALID_SMITHY_LEVEL"

	// Alliance errors
	CodeInvalidBonusType              Code = "INVALID_BONUS_TYPE"
	CodeAllianceDonationLimitExceeded Code = "ALLIANCE_DONATION_LIMIT_EXCEEDED"
	CodeAllianceNewPlayerCooldown     Code = "ALLIANCE_NEW_PLAYER_COOLDOWN"
	CodeNotInAlliance                 Code = "NOT_IN_ALLIANCE"
	CodePlayerNotInAlliance           Code = "PLAYER_NOT_IN_ALLIANCE"
	CodeNoKickPermission              Code = "NO_KICK_PERMISSION"
	CodeCannotKickLeader              Code = "CANNOT_KICK_LEADER"

	// Hero / army / ownership errors
	CodeHeroNotOwned     Code = "HERO_NOT_OWNED"
	CodeVillageNotOwned  Code = "VILLAGE_NOT_OWNED"
	CodeNotEnoughUnits   Code = "NOT_ENOUGH_UNITS"
	CodeTribeMismatch    Code = "TRIBE_MISMATCH"
)
