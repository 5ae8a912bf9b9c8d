package commands

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/storage"
)

// ReviveHero schedules a dead hero's return to villageID.
type ReviveHero struct {
	PlayerID  string
	HeroID    string
	VillageID uint64
	Reset     bool
}

// ReviveHeroResult reports the scheduled job id.
type ReviveHeroResult struct {
	JobID string
}

// reviveBaseDurationSecs is the fixed base revival time the original
// also hardcodes rather than deriving from a building level.
const reviveBaseDurationSecs = 7200

// HandleReviveHero validates hero and village ownership and schedules
// a HeroRevival job; the actual resurrection happens when the job
// fires (spec §4.8).
func HandleReviveHero(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd ReviveHero) (ReviveHeroResult, error) {
	hero, err := uow.Heroes().GetByID(ctx, cmd.HeroID)
	if err != nil {
		return ReviveHeroResult{}, err
	}
	if hero.PlayerID != cmd.PlayerID {
		return ReviveHeroResult{}, gameerrors.NewGame(gameerrors.CodeHeroNotOwned, "hero is not owned by player")
	}
	if hero.IsAlive() {
		return ReviveHeroResult{}, gameerrors.NewGame(gameerrors.CodeHeroNotOwned, "hero is not dead")
	}

	village, err := uow.Villages().GetByID(ctx, cmd.VillageID)
	if err != nil {
		return ReviveHeroResult{}, err
	}
	if village.PlayerID != cmd.PlayerID {
		return ReviveHeroResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	durationSecs := durationAtSpeed(reviveBaseDurationSecs, cfg.Speed)

	payload := jobs.NewJobPayload(jobs.TaskHeroRevival, "{}")
	payload, err = payload.Set("hero_id", hero.ID)
	if err != nil {
		return ReviveHeroResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode hero revival payload", err))
	}
	payload, err = payload.Set("reset", cmd.Reset)
	if err != nil {
		return ReviveHeroResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode hero revival payload", err))
	}

	job := jobs.New(cmd.PlayerID, village.ID, durationSecs, payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return ReviveHeroResult{}, err
	}
	return ReviveHeroResult{JobID: job.ID}, nil
}
