package jobhandlers

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/rules"
	"github.com/ironcrown/realmforge/internal/storage"
	"github.com/tidwall/sjson"
)

// MerchantGoing delivers resources to the destination village, files a
// marketplace delivery report, and schedules the merchant's return
// trip (spec §4.8, grounded on
// parabellum_app/job_handlers/merchant_going.rs).
type MerchantGoing struct{}

func (MerchantGoing) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	destinationID := payloadUint64(job, "destination_village_id")
	originID := payloadUint64(job, "origin_village_id")
	merchantsUsed := payloadUint32(job, "merchants_used")
	travelSecs := job.Task.Get("travel_time_secs").Int()
	resources := rules.Resources{
		Lumber: job.Task.Get("resources.lumber").Uint(),
		Clay:   job.Task.Get("resources.clay").Uint(),
		Iron:   job.Task.Get("resources.iron").Uint(),
		Crop:   job.Task.Get("resources.crop").Uint(),
	}

	destination, err := uow.Villages().GetByID(ctx, destinationID)
	if err != nil {
		return err
	}
	destination.StoreResources(resources)
	if err := uow.Villages().Save(ctx, destination); err != nil {
		return err
	}

	origin, err := uow.Villages().GetByID(ctx, originID)
	if err != nil {
		return err
	}

	data, _ := sjson.Set("{}", "sender_village_id", origin.ID)
	data, _ = sjson.Set(data, "sender_position.x", origin.Position.X)
	data, _ = sjson.Set(data, "sender_position.y", origin.Position.Y)
	data, _ = sjson.Set(data, "receiver_village_id", destination.ID)
	data, _ = sjson.Set(data, "receiver_position.x", destination.Position.X)
	data, _ = sjson.Set(data, "receiver_position.y", destination.Position.Y)
	data, _ = sjson.Set(data, "resources.lumber", resources.Lumber)
	data, _ = sjson.Set(data, "resources.clay", resources.Clay)
	data, _ = sjson.Set(data, "resources.iron", resources.Iron)
	data, _ = sjson.Set(data, "resources.crop", resources.Crop)
	data, _ = sjson.Set(data, "merchants_used", merchantsUsed)

	audience := []string{origin.PlayerID}
	if destination.PlayerID != origin.PlayerID {
		audience = append(audience, destination.PlayerID)
	}
	report := game.NewReport(game.ReportTradeArrived, data, audience, now())
	if err := uow.Reports().Add(ctx, report); err != nil {
		return err
	}

	returnPayload, err := jobs.NewJobPayload(jobs.TaskMerchantReturn, "{}").Set("destination_village_id", origin.ID)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode merchant return payload", err))
	}
	returnPayload, err = returnPayload.Set("origin_village_id", destination.ID)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode merchant return payload", err))
	}
	returnPayload, err = returnPayload.Set("merchants_used", merchantsUsed)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode merchant return payload", err))
	}

	returnJob := jobs.New(job.PlayerID, job.VillageID, travelSecs, returnPayload, now())
	return uow.Jobs().Add(ctx, returnJob)
}

// MerchantReturn frees the merchant slots a SendMerchant command
// reserved, once the round trip completes (spec §4.8, grounded on
// parabellum_app/job_handlers/merchant_return.rs — there a no-op
// since busy-count is query-derived; here BusyMerchants is a stored
// counter so the return trip must decrement it explicitly).
type MerchantReturn struct{}

func (MerchantReturn) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	destinationID := payloadUint64(job, "destination_village_id")
	merchantsUsed := payloadUint8(job, "merchants_used")

	village, err := uow.Villages().GetByID(ctx, destinationID)
	if err != nil {
		return err
	}
	if village.BusyMerchants >= merchantsUsed {
		village.BusyMerchants -= merchantsUsed
	} else {
		village.BusyMerchants = 0
	}
	return uow.Villages().Save(ctx, village)
}
