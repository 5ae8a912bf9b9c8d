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

// FoundVillage dispatches one settler unit from the origin village
// toward an unsettled valley.
type FoundVillage struct {
	PlayerID        string
	OriginVillageID uint64
	TargetPosition  game.Position
}

// FoundVillageResult reports the scheduled job id.
type FoundVillageResult struct {
	JobID string
}

// HandleFoundVillage validates ownership, confirms the target field
// is an unsettled valley, deploys one settler-class unit into a
// marching army, and schedules a FoundVillage job at travel time
// (spec §4.6, §4.8).
func HandleFoundVillage(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd FoundVillage) (FoundVillageResult, error) {
	origin, err := uow.Villages().GetByID(ctx, cmd.OriginVillageID)
	if err != nil {
		return FoundVillageResult{}, err
	}
	if origin.PlayerID != cmd.PlayerID {
		return FoundVillageResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}
	if origin.HomeArmy == nil {
		return FoundVillageResult{}, gameerrors.NewGame(gameerrors.CodeNotEnoughUnits, "village has no home army")
	}

	targetID := cmd.TargetPosition.ToID(int32(cfg.WorldSize))
	field, err := uow.Map().GetFieldByID(ctx, targetID)
	if err != nil {
		return FoundVillageResult{}, err
	}
	if _, ok := field.AsValley(); !ok {
		return FoundVillageResult{}, gameerrors.NewGame(gameerrors.CodeNonCapitalConstraint, "target field is not an unsettled valley")
	}

	settlerIdx := -1
	for i := uint8(0); i < 10; i++ {
		if def, ok := game.UnitAt(origin.Tribe, i); ok && def.Class == rules.ClassSettler {
			settlerIdx = int(i)
			break
		}
	}
	if settlerIdx < 0 {
		return FoundVillageResult{}, gameerrors.NewGame(gameerrors.CodeUnitNotFound, "tribe has no settler unit")
	}

	var want game.TroopSet
	want[settlerIdx] = 1
	settlerArmy, err := origin.HomeArmy.Deploy(want)
	if err != nil {
		return FoundVillageResult{}, err
	}
	settlerArmy.FieldID = targetID

	if err := uow.Villages().Save(ctx, origin); err != nil {
		return FoundVillageResult{}, err
	}
	if err := uow.Armies().Add(ctx, settlerArmy); err != nil {
		return FoundVillageResult{}, err
	}

	travelSecs := game.TravelSeconds(origin.Position, cmd.TargetPosition, int32(cfg.WorldSize), settlerArmy.Speed(), cfg.Speed)

	payload := jobs.NewJobPayload(jobs.TaskFoundVillage, "{}")
	payload, err = payload.Set("army_id", settlerArmy.ID)
	if err != nil {
		return FoundVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode found village payload", err))
	}
	payload, err = payload.Set("origin_village_id", origin.ID)
	if err != nil {
		return FoundVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode found village payload", err))
	}
	payload, err = payload.Set("target_position_x", cmd.TargetPosition.X)
	if err != nil {
		return FoundVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode found village payload", err))
	}
	payload, err = payload.Set("target_position_y", cmd.TargetPosition.Y)
	if err != nil {
		return FoundVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode found village payload", err))
	}
	payload, err = payload.Set("world_size", cfg.WorldSize)
	if err != nil {
		return FoundVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode found village payload", err))
	}
	payload, err = payload.Set("tribe", string(origin.Tribe))
	if err != nil {
		return FoundVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode found village payload", err))
	}

	job := jobs.New(cmd.PlayerID, origin.ID, int64(travelSecs), payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return FoundVillageResult{}, err
	}
	return FoundVillageResult{JobID: job.ID}, nil
}
