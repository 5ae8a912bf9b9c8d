package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/game"
	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// TrainUnits adds exactly one trained unit to the village's home army
// and, if more remain, schedules the next single-unit job in the
// chain (spec §4.8, grounded on
// parabellum_app/job_handlers/train_units.rs).
type TrainUnits struct{}

func (TrainUnits) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	village, err := uow.Villages().GetByID(ctx, job.VillageID)
	if err != nil {
		return err
	}

	unit := rules.UnitName(payloadString(job, "unit"))
	roster := unitRosterIndex(village.Tribe, unit)
	if roster < 0 {
		return gameerrors.NewGame(gameerrors.CodeUnitNotFound, "unit has no roster slot for this tribe")
	}

	if village.HomeArmy == nil {
		village.HomeArmy = game.NewArmy(job.PlayerID, village.ID, village.Tribe)
	}
	var add game.TroopSet
	add[roster] = 1
	village.HomeArmy.Troops = village.HomeArmy.Troops.Add(add)

	if err := uow.Armies().Save(ctx, village.HomeArmy); err != nil {
		return err
	}
	if err := uow.Villages().Save(ctx, village); err != nil {
		return err
	}

	quantity := payloadUint32(job, "quantity")
	if quantity > 1 {
		timePerUnit := job.Task.Get("time_per_unit").Int()
		nextPayload, err := jobs.NewJobPayload(jobs.TaskTrainUnits, "{}").Set("slot_id", payloadUint8(job, "slot_id"))
		if err != nil {
			return gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
		}
		nextPayload, err = nextPayload.Set("unit", string(unit))
		if err != nil {
			return gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
		}
		nextPayload, err = nextPayload.Set("quantity", quantity-1)
		if err != nil {
			return gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
		}
		nextPayload, err = nextPayload.Set("time_per_unit", timePerUnit)
		if err != nil {
			return gameerrors.FromInfra(gameerrors.WrapJSON("encode train units payload", err))
		}

		nextJob := jobs.New(job.PlayerID, job.VillageID, timePerUnit, nextPayload, now())
		if err := uow.Jobs().Add(ctx, nextJob); err != nil {
			return err
		}
	}

	return nil
}

// unitRosterIndex mirrors game's internal roster lookup; duplicated
// here since it is unexported in package game.
func unitRosterIndex(tribe rules.Tribe, unit rules.UnitName) int {
	for i := uint8(0); i < 10; i++ {
		if def, ok := game.UnitAt(tribe, i); ok && def.Name == unit {
			return int(i)
		}
	}
	return -1
}
