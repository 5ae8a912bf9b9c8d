package commands

import (
	"context"
	"strconv"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// AddBuilding starts construction of a new building at an empty slot.
type AddBuilding struct {
	PlayerID  string
	VillageID uint64
	Slot      uint8
	Building  rules.BuildingName
}

// AddBuildingResult reports the scheduled job id.
type AddBuildingResult struct {
	JobID string
}

// HandleAddBuilding validates ownership, begins construction through
// Village.InitBuildingConstruction (which deducts resources and
// validates placement rules), and schedules the AddBuilding job tail
// that applies the level once the deadline matures (spec §4.6, §4.8).
func HandleAddBuilding(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd AddBuilding) (AddBuildingResult, error) {
	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return AddBuildingResult{}, err
	}
	if village.PlayerID != cmd.PlayerID {
		return AddBuildingResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	durationSecs, err := village.InitBuildingConstruction(cmd.Slot, cmd.Building, cfg.Speed)
	if err != nil {
		return AddBuildingResult{}, err
	}
	if err := uow.Villages().Save(ctx, village); err != nil {
		return AddBuildingResult{}, err
	}

	payload := jobs.NewJobPayload(jobs.TaskAddBuilding, "{}")
	payload, err = payload.Set("slot", cmd.Slot)
	if err != nil {
		return AddBuildingResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode add building payload", err))
	}
	payload, err = payload.Set("level", 1)
	if err != nil {
		return AddBuildingResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode add building payload", err))
	}

	job := jobs.New(cmd.PlayerID, village.ID, int64(durationSecs), payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return AddBuildingResult{}, err
	}
	return AddBuildingResult{JobID: job.ID}, nil
}

// UpgradeBuilding schedules an upgrade of an existing building by one level.
type UpgradeBuilding struct {
	PlayerID  string
	VillageID uint64
	Slot      uint8
}

// UpgradeBuildingResult reports the scheduled job id.
type UpgradeBuildingResult struct {
	JobID string
}

// HandleUpgradeBuilding validates ownership and the occupied slot,
// deducts the next level's resource cost, and schedules the
// UpgradeBuilding job tail.
func HandleUpgradeBuilding(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd UpgradeBuilding) (UpgradeBuildingResult, error) {
	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return UpgradeBuildingResult{}, err
	}
	if village.PlayerID != cmd.PlayerID {
		return UpgradeBuildingResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	building, ok := village.GetBuildingBySlot(cmd.Slot)
	if !ok {
		return UpgradeBuildingResult{}, gameerrors.NewGameWithMeta(gameerrors.CodeEmptySlot, "slot is empty", map[string]string{"slot_id": itoa(cmd.Slot)})
	}
	def, _ := rules.Building(building.Name)
	if building.Level >= def.MaxLevel {
		return UpgradeBuildingResult{}, gameerrors.NewGameWithMeta(gameerrors.CodeBuildingMaxLevelReached, "building is already at max level", map[string]string{"name": string(building.Name)})
	}

	nextLevel := building.Level + 1
	cost := def.CostAtLevel(nextLevel)
	if err := village.DeductResources(cost.Resources); err != nil {
		return UpgradeBuildingResult{}, err
	}
	if err := uow.Villages().Save(ctx, village); err != nil {
		return UpgradeBuildingResult{}, err
	}

	durationSecs := durationAtSpeed(int64(cost.TimeSecs), cfg.Speed)

	payload := jobs.NewJobPayload(jobs.TaskUpgradeBuilding, "{}")
	payload, err = payload.Set("slot", cmd.Slot)
	if err != nil {
		return UpgradeBuildingResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode upgrade payload", err))
	}
	payload, err = payload.Set("level", nextLevel)
	if err != nil {
		return UpgradeBuildingResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode upgrade payload", err))
	}

	job := jobs.New(cmd.PlayerID, village.ID, durationSecs, payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return UpgradeBuildingResult{}, err
	}
	return UpgradeBuildingResult{JobID: job.ID}, nil
}

// DowngradeBuilding schedules a one-level demolition of a building.
type DowngradeBuilding struct {
	PlayerID  string
	VillageID uint64
	Slot      uint8
}

// DowngradeBuildingResult reports the scheduled job id.
type DowngradeBuildingResult struct {
	JobID string
}

// HandleDowngradeBuilding validates ownership and the occupied slot
// and schedules the DowngradeBuilding job tail; demolition itself
// (and the resource-field-stays-at-0-vs-infrastructure-vacates rule)
// happens when the job fires (spec §4.8).
func HandleDowngradeBuilding(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd DowngradeBuilding) (DowngradeBuildingResult, error) {
	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return DowngradeBuildingResult{}, err
	}
	if village.PlayerID != cmd.PlayerID {
		return DowngradeBuildingResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}
	building, ok := village.GetBuildingBySlot(cmd.Slot)
	if !ok {
		return DowngradeBuildingResult{}, gameerrors.NewGameWithMeta(gameerrors.CodeEmptySlot, "slot is empty", map[string]string{"slot_id": itoa(cmd.Slot)})
	}

	const demolishBaseSecs = 600
	durationSecs := durationAtSpeed(demolishBaseSecs, cfg.Speed)

	payload := jobs.NewJobPayload(jobs.TaskDowngradeBuilding, "{}")
	payload, err = payload.Set("slot", cmd.Slot)
	if err != nil {
		return DowngradeBuildingResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode downgrade payload", err))
	}
	payload, err = payload.Set("level", int(building.Level)-1)
	if err != nil {
		return DowngradeBuildingResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode downgrade payload", err))
	}

	job := jobs.New(cmd.PlayerID, village.ID, durationSecs, payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return DowngradeBuildingResult{}, err
	}
	return DowngradeBuildingResult{JobID: job.ID}, nil
}

func itoa(v uint8) string {
	return strconv.Itoa(int(v))
}
