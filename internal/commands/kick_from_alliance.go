package commands

import (
	"context"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/storage"
)

// KickFromAlliance removes target from kicker's alliance.
type KickFromAlliance struct {
	KickerID string
	TargetID string
}

// HandleKickFromAlliance loads kicker and target, verifies kicker's
// membership and KickMembers permission, forbids kicking the leader,
// clears the target's alliance fields, and appends an audit log entry
// (spec §4.6).
func HandleKickFromAlliance(ctx context.Context, uow storage.UnitOfWork, _ config.Config, cmd KickFromAlliance) (struct{}, error) {
	kicker, err := uow.Players().GetByID(ctx, cmd.KickerID)
	if err != nil {
		return struct{}{}, err
	}
	target, err := uow.Players().GetByID(ctx, cmd.TargetID)
	if err != nil {
		return struct{}{}, err
	}

	alliance, err := uow.Alliances().GetByID(ctx, kicker.AllianceID)
	if err != nil {
		return struct{}{}, err
	}
	if err := alliance.VerifyKickPermission(kicker, target); err != nil {
		return struct{}{}, err
	}

	target.LeaveAlliance()
	if err := uow.Players().Save(ctx, target); err != nil {
		return struct{}{}, err
	}

	log := game.NewAllianceLog(alliance.ID, game.LogPlayerKicked, target.Username+" was kicked from the alliance", now())
	if err := uow.AllianceLogs().Add(ctx, log); err != nil {
		return struct{}{}, err
	}

	return struct{}{}, nil
}
