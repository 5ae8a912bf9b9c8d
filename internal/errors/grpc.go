package errors

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// gameCodeToGRPC maps a domain Code to the closest gRPC status code.
// Most game-rule violations are client-caused, hence FailedPrecondition
// or InvalidArgument rather than Internal.
func gameCodeToGRPC(c Code) codes.Code {
	switch c {
	case CodeNotEnoughResources, CodeVillageSlotsFull, CodeSlotOccupied, CodeEmptySlot,
		CodeBuildingMaxLevelReached, CodeBuildingRequirementsNotMet, CodeBuildingConflict,
		CodeNoMultipleBuildingConstraint, CodeMultipleBuildingMaxNotReached,
		CodeAllianceDonationLimitExceeded, CodeAllianceNewPlayerCooldown, CodeNotEnoughUnits:
		return codes.FailedPrecondition
	case CodeInvalidUnitIndex, CodeInvalidTrainingBuilding, CodeInvalidSmithyLevel,
		CodeInvalidBonusType, CodeBuildingTribeMismatch, CodeCapitalConstraint,
		CodeNonCapitalConstraint, CodeTribeMismatch:
		return codes.InvalidArgument
	case CodeUnitNotFound, CodeUnitNotResearched, CodeUnitAlreadyResearched,
		CodeNotInAlliance, CodePlayerNotInAlliance:
		return codes.NotFound
	case CodeNoKickPermission, CodeCannotKickLeader, CodeHeroNotOwned, CodeVillageNotOwned:
		return codes.PermissionDenied
	default:
		return codes.Unknown
	}
}

// ToGRPCStatus converts an ApplicationError into a gRPC status error,
// the way the optional health/demo transport surface reports failures.
// This is the only place domain errors meet a transport concern; the
// mediator and command handlers never import this package's grpc bits.
func (e *ApplicationError) ToGRPCStatus() error {
	if e.Game != nil {
		return status.Error(gameCodeToGRPC(e.Game.Code), e.Game.Error())
	}
	if e.Infra != nil {
		switch e.Infra.Kind {
		case InfraTransaction, InfraDB:
			return status.Error(codes.Unavailable, e.Infra.Error())
		default:
			return status.Error(codes.Internal, e.Infra.Error())
		}
	}
	return status.Error(codes.Unknown, "unknown application error")
}
