package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

// AllianceBonusUpgrade advances a bonus track by one level once its
// contribution threshold job matures (spec §4.6, §4.8).
type AllianceBonusUpgrade struct{}

func (AllianceBonusUpgrade) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	allianceID := payloadString(job, "alliance_id")
	bonusType := game.BonusType(job.Task.Get("bonus_type").Int())

	alliance, err := uow.Alliances().GetByID(ctx, allianceID)
	if err != nil {
		return err
	}
	if err := alliance.UpgradeBonus(bonusType); err != nil {
		return err
	}
	return uow.Alliances().Save(ctx, alliance)
}
