package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// ArmyReturn merges a marching army back into its home village's home
// army, deletes the standalone returning army, and deposits any bounty
// it carried (spec §4.8, grounded on
// parabellum_app/job_handlers/army_return.rs).
type ArmyReturn struct{}

func (ArmyReturn) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	armyID := payloadString(job, "army_id")

	village, err := uow.Villages().GetByID(ctx, job.VillageID)
	if err != nil {
		return err
	}
	returning, err := uow.Armies().GetByID(ctx, armyID)
	if err != nil {
		return err
	}

	if village.HomeArmy == nil {
		village.HomeArmy = game.NewArmy(village.PlayerID, village.ID, village.Tribe)
	}
	if err := village.HomeArmy.Merge(returning); err != nil {
		return err
	}
	if err := uow.Armies().Save(ctx, village.HomeArmy); err != nil {
		return err
	}
	if err := uow.Armies().Remove(ctx, returning.ID); err != nil {
		return err
	}

	bounty := rules.Resources{
		Lumber: job.Task.Get("resources.lumber").Uint(),
		Clay:   job.Task.Get("resources.clay").Uint(),
		Iron:   job.Task.Get("resources.iron").Uint(),
		Crop:   job.Task.Get("resources.crop").Uint(),
	}
	village.StoreResources(bounty)

	return uow.Villages().Save(ctx, village)
}
