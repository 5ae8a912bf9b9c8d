package jobhandlers

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// FoundVillage consumes the settler army that arrived at an unsettled
// valley and raises a new capital-less village there, once the
// settlers' travel timer matures (spec §4.8,
// parabellum_app/job_handlers/found_village.rs).
type FoundVillage struct{}

func (FoundVillage) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	armyID := payloadString(job, "army_id")
	worldSize := int32(payloadUint32(job, "world_size"))
	tribe := rules.Tribe(payloadString(job, "tribe"))
	position := game.Position{
		X: int32(job.Task.Get("target_position_x").Int()),
		Y: int32(job.Task.Get("target_position_y").Int()),
	}

	fieldID := position.ToID(worldSize)
	field, err := uow.Map().GetFieldByID(ctx, fieldID)
	if err != nil {
		return err
	}
	valley, ok := field.AsValley()
	if !ok {
		return gameerrors.NewGame(gameerrors.CodeNonCapitalConstraint, "target field is no longer an unsettled valley")
	}

	village := game.NewVillage("New Village", valley, job.PlayerID, tribe, false, 1, worldSize, now())
	if err := uow.Villages().Add(ctx, village); err != nil {
		return err
	}

	field.Settled = true
	if err := uow.Map().Save(ctx, field); err != nil {
		return err
	}

	return uow.Armies().Remove(ctx, armyID)
}
