package commands

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
)

// SendMerchant dispatches resources from origin to destination through
// a marketplace trade.
type SendMerchant struct {
	PlayerID             string
	OriginVillageID      uint64
	DestinationVillageID uint64
	Resources            rules.Resources
}

// SendMerchantResult reports the scheduled job id.
type SendMerchantResult struct {
	JobID string
}

// merchantSpeed is the fixed travel speed (fields/hour) every
// marketplace merchant moves at, regardless of tribe.
const merchantSpeed = 16

// merchantCarryCapacity is how much of the four resources combined one
// merchant can carry per trip (spec §8 S6: 400 resources ties up 4
// merchants).
const merchantCarryCapacity = 100

// merchantsNeeded returns how many merchants a trade of r requires,
// rounding up, with a floor of one merchant per trip.
func merchantsNeeded(r rules.Resources) uint8 {
	total := r.Lumber + r.Clay + r.Iron + r.Crop
	needed := (total + merchantCarryCapacity - 1) / merchantCarryCapacity
	if needed < 1 {
		needed = 1
	}
	return uint8(needed)
}

// HandleSendMerchant validates ownership, merchant availability and
// resource sufficiency, deducts the resources and the merchants the
// trade's volume requires, and schedules a MerchantGoing job (spec
// §4.6, §4.8).
func HandleSendMerchant(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd SendMerchant) (SendMerchantResult, error) {
	origin, err := uow.Villages().GetByID(ctx, cmd.OriginVillageID)
	if err != nil {
		return SendMerchantResult{}, err
	}
	if origin.PlayerID != cmd.PlayerID {
		return SendMerchantResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "village is not owned by player")
	}

	merchantsUsed := merchantsNeeded(cmd.Resources)
	if origin.AvailableMerchants() < merchantsUsed {
		return SendMerchantResult{}, gameerrors.NewGame(gameerrors.CodeNotEnoughUnits, "not enough merchants available for this trade's volume")
	}

	destination, err := uow.Villages().GetByID(ctx, cmd.DestinationVillageID)
	if err != nil {
		return SendMerchantResult{}, err
	}

	if err := origin.DeductResources(cmd.Resources); err != nil {
		return SendMerchantResult{}, err
	}
	origin.BusyMerchants += merchantsUsed
	if err := uow.Villages().Save(ctx, origin); err != nil {
		return SendMerchantResult{}, err
	}

	travelSecs := game.TravelSeconds(origin.Position, destination.Position, int32(cfg.WorldSize), merchantSpeed, cfg.Speed)

	payload := jobs.NewJobPayload(jobs.TaskMerchantGoing, "{}")
	payload, err = payload.Set("origin_village_id", origin.ID)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}
	payload, err = payload.Set("destination_village_id", destination.ID)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}
	payload, err = payload.Set("resources.lumber", cmd.Resources.Lumber)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}
	payload, err = payload.Set("resources.clay", cmd.Resources.Clay)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}
	payload, err = payload.Set("resources.iron", cmd.Resources.Iron)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}
	payload, err = payload.Set("resources.crop", cmd.Resources.Crop)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}
	payload, err = payload.Set("travel_time_secs", travelSecs)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}
	payload, err = payload.Set("merchants_used", merchantsUsed)
	if err != nil {
		return SendMerchantResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode send merchant payload", err))
	}

	job := jobs.New(cmd.PlayerID, origin.ID, int64(travelSecs), payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return SendMerchantResult{}, err
	}
	return SendMerchantResult{JobID: job.ID}, nil
}
