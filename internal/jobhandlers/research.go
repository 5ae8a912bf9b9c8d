package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// ResearchAcademy flips the researched flag a ResearchAcademy command
// already deducted the cost for.
type ResearchAcademy struct{}

func (ResearchAcademy) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	village, err := uow.Villages().GetByID(ctx, job.VillageID)
	if err != nil {
		return err
	}
	unit := rules.UnitName(payloadString(job, "unit"))
	if err := village.MarkAcademyResearched(unit); err != nil {
		return err
	}
	return uow.Villages().Save(ctx, village)
}

// ResearchSmithy applies the one-level smithy increment a
// ResearchSmithy command already deducted the cost for.
type ResearchSmithy struct{}

func (ResearchSmithy) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	village, err := uow.Villages().GetByID(ctx, job.VillageID)
	if err != nil {
		return err
	}
	unit := rules.UnitName(payloadString(job, "unit"))
	if err := village.IncrementSmithyLevel(unit); err != nil {
		return err
	}
	return uow.Villages().Save(ctx, village)
}
