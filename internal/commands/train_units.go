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

// TrainUnits starts training quantity copies of unit at the village's
// slotID (a trainable building, e.g. Barracks/Stable/Workshop).
type TrainUnits struct {
	PlayerID  string
	VillageID uint64
	SlotID    uint8
	Unit      rules.UnitName
	Quantity  uint32
}

// TrainUnitsResult reports the first scheduled job; TrainUnits fires a
// chain of single-unit jobs, each scheduling the next (spec §4.8).
type TrainUnitsResult struct {
	JobID string
}

// HandleTrainUnits validates ownership, the training building, and
// academy research state, deducts the full batch's resource cost up
// front, and schedules the first single-unit TrainUnits job.
func HandleTrainUnits(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd TrainUnits) (TrainUnitsResult, error) {
	if cmd.Quantity == 0 {
		return TrainUnitsResult{}, gameerrors.NewGame(gameerrors.CodeNotEnoughUnits, "quantity must be positive")
	}

	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return TrainUnitsResult{}, err
	}
	if village.PlayerID != cmd.PlayerID {
		return TrainUnitsResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	def, ok := rules.Unit(cmd.Unit)
	if !ok {
		return TrainUnitsResult{}, gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unknown unit")
	}
	if def.Tribe != village.Tribe {
		return TrainUnitsResult{}, gameerrors.NewGame(gameerrors.CodeBuildingTribeMismatch, "unit does not belong to village's tribe")
	}

	building, ok := village.GetBuildingBySlot(cmd.SlotID)
	if !ok || !def.TrainableAt(building.Name) {
		return TrainUnitsResult{}, gameerrors.NewGame(gameerrors.CodeInvalidTrainingBuilding, "unit cannot be trained at this building")
	}

	roster := unitRosterIndex(village.Tribe, cmd.Unit)
	if roster < 0 {
		return TrainUnitsResult{}, gameerrors.NewGame(gameerrors.CodeInvalidUnitIndex, "unit has no roster slot for this tribe")
	}
	if !village.Academy[roster] {
		return TrainUnitsResult{}, gameerrors.NewGame(gameerrors.CodeUnitNotResearched, "unit is not yet researched")
	}

	batchCost := rules.Resources{
		Lumber: def.Cost.Lumber * uint64(cmd.Quantity),
		Clay:   def.Cost.Clay * uint64(cmd.Quantity),
		Iron:   def.Cost.Iron * uint64(cmd.Quantity),
		Crop:   def.Cost.Crop * uint64(cmd.Quantity),
	}
	if err := village.DeductResources(batchCost); err != nil {
		return TrainUnitsResult{}, err
	}
	if err := uow.Villages().Save(ctx, village); err != nil {
		return TrainUnitsResult{}, err
	}

	timePerUnit := durationAtSpeed(int64(def.TrainTimeSecs), cfg.Speed)

	payload := jobs.NewJobPayload(jobs.TaskTrainUnits, "{}")
	payload, err = payload.Set("slot_id", cmd.SlotID)
	if err != nil {
		return TrainUnitsResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
	}
	payload, err = payload.Set("unit", string(cmd.Unit))
	if err != nil {
		return TrainUnitsResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
	}
	payload, err = payload.Set("quantity", cmd.Quantity)
	if err != nil {
		return TrainUnitsResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
	}
	payload, err = payload.Set("time_per_unit", timePerUnit)
	if err != nil {
		return TrainUnitsResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
	}

	job := jobs.New(cmd.PlayerID, village.ID, timePerUnit, payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return TrainUnitsResult{}, err
	}
	return TrainUnitsResult{JobID: job.ID}, nil
}

// unitRosterIndex returns the TroopSet slot index of unit in tribe's
// roster, or -1 if the tribe doesn't train that unit.
func unitRosterIndex(tribe rules.Tribe, unit rules.UnitName) int {
	for i := uint8(0); i < 10; i++ {
		if def, ok := game.UnitAt(tribe, i); ok && def.Name == unit {
			return int(i)
		}
	}
	return -1
}
