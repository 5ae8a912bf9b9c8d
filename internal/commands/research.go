package commands

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// ResearchAcademy starts researching unit in the village's academy.
type ResearchAcademy struct {
	PlayerID  string
	VillageID uint64
	Unit      rules.UnitName
}

// ResearchAcademyResult reports the scheduled job id.
type ResearchAcademyResult struct {
	JobID string
}

// HandleResearchAcademy validates ownership and academy state through
// Village.InitAcademyResearch, then schedules the ResearchAcademy job
// that flips the unit's researched flag on completion (spec §4.2,
// §4.8).
func HandleResearchAcademy(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd ResearchAcademy) (ResearchAcademyResult, error) {
	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return ResearchAcademyResult{}, err
	}
	if village.PlayerID != cmd.PlayerID {
		return ResearchAcademyResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	durationSecs, err := village.InitAcademyResearch(cmd.Unit, cfg.Speed)
	if err != nil {
		return ResearchAcademyResult{}, err
	}
	if err := uow.Villages().Save(ctx, village); err != nil {
		return ResearchAcademyResult{}, err
	}

	payload := jobs.NewJobPayload(jobs.TaskResearchAcademy, "{}")
	payload, err = payload.Set("unit", string(cmd.Unit))
	if err != nil {
		return ResearchAcademyResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode research academy payload", err))
	}

	job := jobs.New(cmd.PlayerID, village.ID, int64(durationSecs), payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return ResearchAcademyResult{}, err
	}
	return ResearchAcademyResult{JobID: job.ID}, nil
}

// ResearchSmithy upgrades unit's smithy level by one.
type ResearchSmithy struct {
	PlayerID  string
	VillageID uint64
	Unit      rules.UnitName
}

// ResearchSmithyResult reports the scheduled job id.
type ResearchSmithyResult struct {
	JobID string
}

// HandleResearchSmithy validates ownership and smithy state through
// Village.InitSmithyResearch, then schedules the ResearchSmithy job
// that applies the level increment on completion (spec §4.2, §4.8).
func HandleResearchSmithy(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd ResearchSmithy) (ResearchSmithyResult, error) {
	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return ResearchSmithyResult{}, err
	}
	if village.PlayerID != cmd.PlayerID {
		return ResearchSmithyResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	durationSecs, err := village.InitSmithyResearch(cmd.Unit, cfg.Speed)
	if err != nil {
		return ResearchSmithyResult{}, err
	}
	if err := uow.Villages().Save(ctx, village); err != nil {
		return ResearchSmithyResult{}, err
	}

	payload := jobs.NewJobPayload(jobs.TaskResearchSmithy, "{}")
	payload, err = payload.Set("unit", string(cmd.Unit))
	if err != nil {
		return ResearchSmithyResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode research smithy payload", err))
	}

	job := jobs.New(cmd.PlayerID, village.ID, int64(durationSecs), payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return ResearchSmithyResult{}, err
	}
	return ResearchSmithyResult{JobID: job.ID}, nil
}
