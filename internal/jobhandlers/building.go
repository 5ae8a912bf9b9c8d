package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

// AddBuilding applies the level-1 construction that HandleAddBuilding
// already paid for once the build timer matures.
type AddBuilding struct{}

func (AddBuilding) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	village, err := uow.Villages().GetByID(ctx, job.VillageID)
	if err != nil {
		return err
	}
	slot := payloadUint8(job, "slot")
	level := payloadUint8(job, "level")
	if err := village.SetBuildingLevelAtSlot(slot, level); err != nil {
		return err
	}
	return uow.Villages().Save(ctx, village)
}

// UpgradeBuilding applies the next level an UpgradeBuilding job already
// paid for.
type UpgradeBuilding struct{}

func (UpgradeBuilding) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	village, err := uow.Villages().GetByID(ctx, job.VillageID)
	if err != nil {
		return err
	}
	slot := payloadUint8(job, "slot")
	level := payloadUint8(job, "level")
	if err := village.SetBuildingLevelAtSlot(slot, level); err != nil {
		return err
	}
	return uow.Villages().Save(ctx, village)
}

// DowngradeBuilding applies a one-level demolition: resource fields
// stay in place at the lower level, every other building vacates its
// slot once it reaches level 0 (spec §4.8, Village.RemoveBuildingAtSlot).
type DowngradeBuilding struct{}

func (DowngradeBuilding) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	village, err := uow.Villages().GetByID(ctx, job.VillageID)
	if err != nil {
		return err
	}
	slot := payloadUint8(job, "slot")
	level := job.Task.Get("level").Int()
	if level <= 0 {
		if err := village.RemoveBuildingAtSlot(slot); err != nil {
			return err
		}
	} else if err := village.SetBuildingLevelAtSlot(slot, uint8(level)); err != nil {
		return err
	}
	return uow.Villages().Save(ctx, village)
}
