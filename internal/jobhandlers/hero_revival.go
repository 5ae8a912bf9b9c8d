package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

// HeroRevival resurrects a dead hero into the destination village once
// its revival timer matures (spec §4.8).
type HeroRevival struct{}

func (HeroRevival) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	heroID := payloadString(job, "hero_id")
	reset := payloadBool(job, "reset")

	hero, err := uow.Heroes().GetByID(ctx, heroID)
	if err != nil {
		return err
	}
	hero.Resurrect(job.VillageID, reset)
	return uow.Heroes().Save(ctx, hero)
}
