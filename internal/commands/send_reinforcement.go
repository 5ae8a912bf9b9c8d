package commands

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/storage"
)

// SendReinforcement dispatches troops from origin toward a target
// village, to garrison there until recalled.
type SendReinforcement struct {
	PlayerID       string
	OriginVillage  uint64
	TargetVillage  uint64
	Troops         game.TroopSet
}

// SendReinforcementResult reports the scheduled job id.
type SendReinforcementResult struct {
	JobID string
}

// HandleSendReinforcement validates ownership, deploys the requested
// troops into a marching army, and schedules a Reinforcement job at
// travel time (spec §4.6, §4.8).
func HandleSendReinforcement(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd SendReinforcement) (SendReinforcementResult, error) {
	origin, err := uow.Villages().GetByID(ctx, cmd.OriginVillage)
	if err != nil {
		return SendReinforcementResult{}, err
	}
	if origin.PlayerID != cmd.PlayerID {
		return SendReinforcementResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}
	if origin.HomeArmy == nil {
		return SendReinforcementResult{}, gameerrors.NewGame(gameerrors.CodeNotEnoughUnits, "village has no home army")
	}

	target, err := uow.Villages().GetByID(ctx, cmd.TargetVillage)
	if err != nil {
		return SendReinforcementResult{}, err
	}

	marchingArmy, err := origin.HomeArmy.Deploy(cmd.Troops)
	if err != nil {
		return SendReinforcementResult{}, err
	}
	marchingArmy.FieldID = target.ID

	if err := uow.Villages().Save(ctx, origin); err != nil {
		return SendReinforcementResult{}, err
	}
	if err := uow.Armies().Add(ctx, marchingArmy); err != nil {
		return SendReinforcementResult{}, err
	}

	travelSecs := game.TravelSeconds(origin.Position, target.Position, int32(cfg.WorldSize), marchingArmy.Speed(), cfg.Speed)

	payload := jobs.NewJobPayload(jobs.TaskReinforcement, "{}")
	payload, err = payload.Set("army_id", marchingArmy.ID)
	if err != nil {
		return SendReinforcementResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode reinforcement payload", err))
	}
	payload, err = payload.Set("village_id", target.ID)
	if err != nil {
		return SendReinforcementResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode reinforcement payload", err))
	}
	payload, err = payload.Set("player_id", cmd.PlayerID)
	if err != nil {
		return SendReinforcementResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode reinforcement payload", err))
	}

	job := jobs.New(cmd.PlayerID, origin.ID, int64(travelSecs), payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return SendReinforcementResult{}, err
	}
	return SendReinforcementResult{JobID: job.ID}, nil
}
