package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// Reinforcement stations an arriving army at its target village once
// travel time matures. An empty escort army carrying only a hero, sent
// to the player's own village with a Hero's Mansion, instead hands the
// hero straight into the home army garrison (spec §4.8, grounded on
// parabellum_app/job_handlers/reinforcement.rs).
type Reinforcement struct{}

func (Reinforcement) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	armyID := payloadString(job, "army_id")
	villageID := payloadUint64(job, "village_id")
	playerID := payloadString(job, "player_id")

	target, err := uow.Villages().GetByID(ctx, villageID)
	if err != nil {
		return err
	}
	reinforcement, err := uow.Armies().GetByID(ctx, armyID)
	if err != nil {
		return err
	}

	_, hasMansion := target.GetBuildingByName(rules.HeroMansion)
	if target.PlayerID == playerID && reinforcement.Troops.IsEmpty() && reinforcement.HeroID != "" && hasMansion {
		heroID := reinforcement.HeroID
		if target.HomeArmy == nil {
			target.HomeArmy = game.NewArmy(playerID, target.ID, target.Tribe)
		}
		target.HomeArmy.HeroID = heroID
		if err := uow.Armies().Save(ctx, target.HomeArmy); err != nil {
			return err
		}
		if err := uow.Armies().Remove(ctx, reinforcement.ID); err != nil {
			return err
		}
	} else {
		reinforcement.FieldID = target.ID
		target.Reinforcements = append(target.Reinforcements, reinforcement)
		if err := uow.Armies().Save(ctx, reinforcement); err != nil {
			return err
		}
	}

	return uow.Villages().Save(ctx, target)
}
