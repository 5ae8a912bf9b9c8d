package commands

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// ContributeToAllianceBonus donates resources from village toward one
// of the player's alliance's bonus tracks.
type ContributeToAllianceBonus struct {
	PlayerID  string
	VillageID uint64
	BonusType game.BonusType
	Resources rules.Resources
}

// ContributeToAllianceBonusResult reports how many contribution points
// were recorded and whether a level threshold was crossed.
type ContributeToAllianceBonusResult struct {
	PointsAdded     uint64
	UpgradeTriggered bool
}

// HandleContributeToAllianceBonus loads player, village and alliance,
// verifies membership and village ownership, reads the capital's
// embassy level as the donation-limit basis, and calls
// Alliance.AddContribution. If the contribution crosses a level
// threshold, it schedules an AllianceBonusUpgrade job (spec §4.6).
func HandleContributeToAllianceBonus(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd ContributeToAllianceBonus) (ContributeToAllianceBonusResult, error) {
	player, err := uow.Players().GetByID(ctx, cmd.PlayerID)
	if err != nil {
		return ContributeToAllianceBonusResult{}, err
	}
	if !player.InAlliance() {
		return ContributeToAllianceBonusResult{}, gameerrors.NewGame(gameerrors.CodeNotInAlliance, "player does not belong to an alliance")
	}

	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return ContributeToAllianceBonusResult{}, err
	}
	if village.PlayerID != player.ID {
		return ContributeToAllianceBonusResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	alliance, err := uow.Alliances().GetByID(ctx, player.AllianceID)
	if err != nil {
		return ContributeToAllianceBonusResult{}, err
	}

	capital, err := uow.Villages().GetCapitalByPlayerID(ctx, player.ID)
	if err != nil {
		return ContributeToAllianceBonusResult{}, err
	}
	embassyLevel := 0
	if b, ok := capital.GetBuildingByName(rules.Embassy); ok {
		embassyLevel = int(b.Level)
	}

	result, err := alliance.AddContribution(cmd.BonusType, cmd.Resources, village, player, embassyLevel, cfg.Speed, now())
	if err != nil {
		return ContributeToAllianceBonusResult{}, err
	}

	if err := uow.Villages().Save(ctx, village); err != nil {
		return ContributeToAllianceBonusResult{}, err
	}
	if err := uow.Players().Save(ctx, player); err != nil {
		return ContributeToAllianceBonusResult{}, err
	}
	if err := uow.Alliances().Save(ctx, alliance); err != nil {
		return ContributeToAllianceBonusResult{}, err
	}

	if result.UpgradeTriggered {
		baseDuration, _ := alliance.UpgradeDurationSeconds(cmd.BonusType)
		durationSecs := durationAtSpeed(baseDuration, cfg.Speed)
		payload, err := jobs.NewJobPayload(jobs.TaskAllianceBonusUpgrade, "{}").Set("bonus_type", int16(cmd.BonusType))
		if err != nil {
			return ContributeToAllianceBonusResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode alliance bonus upgrade payload", err))
		}
		payload, err = payload.Set("alliance_id", alliance.ID)
		if err != nil {
			return ContributeToAllianceBonusResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode alliance bonus upgrade payload", err))
		}
		job := jobs.New(player.ID, village.ID, durationSecs, payload, now())
		if err := uow.Jobs().Add(ctx, job); err != nil {
			return ContributeToAllianceBonusResult{}, err
		}
	}

	return ContributeToAllianceBonusResult{PointsAdded: result.PointsAdded, UpgradeTriggered: result.UpgradeTriggered}, nil
}
