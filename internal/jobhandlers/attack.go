package jobhandlers

import (
	"context"

	"github.com/ironcrown/realmforge/internal/battle"
	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
	"github.com/tidwall/sjson"
)

// Attack runs the combat-resolution algorithm against the defending
// village, applies the resulting losses to every party, deposits
// catapult/wall damage, schedules the survivors' trip home with
// whatever bounty they carry, and files a battle report addressed to
// both players (spec §4.3, §4.8, grounded on
// parabellum_app/job_handlers/attack.rs).
type Attack struct{}

func (Attack) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	return resolveAttack(ctx, uow, job, battle.Normal)
}

// Scout resolves a scouting run through the same path as Attack.
// battle.CalculateBattle resolves Kind Scout exactly like a Normal
// attack (losses, siege damage, bounty) and only sets the report's
// Scouting flag.
type Scout struct{}

func (Scout) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	return resolveAttack(ctx, uow, job, battle.Scout)
}

func resolveAttack(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job, kind battle.Kind) error {
	if job.Task.Get("raid").Bool() {
		kind = battle.Raid
	}

	armyID := payloadString(job, "attacker_army_id")
	attackerVillageID := payloadUint64(job, "attacker_village_id")
	defenderVillageID := payloadUint64(job, "defender_village_id")
	cataTargetSlot := payloadUint8(job, "cata_target_slot")
	worldSize := int32(payloadUint32(job, "world_size"))
	serverSpeed := int8(job.Task.Get("server_speed").Int())

	attackerArmy, err := uow.Armies().GetByID(ctx, armyID)
	if err != nil {
		return err
	}
	attackerVillage, err := uow.Villages().GetByID(ctx, attackerVillageID)
	if err != nil {
		return err
	}
	defenderVillage, err := uow.Villages().GetByID(ctx, defenderVillageID)
	if err != nil {
		return err
	}

	report := battle.CalculateBattle(battle.Input{
		Kind:            kind,
		AttackerArmy:    attackerArmy,
		AttackerVillage: attackerVillage,
		DefenderVillage: defenderVillage,
		Reinforcements:  defenderVillage.Reinforcements,
		CataTargetSlot:  cataTargetSlot,
	})

	attackerArmy.ApplySurvivors(report.Attacker.Survivors)
	if err := uow.Armies().Save(ctx, attackerArmy); err != nil {
		return err
	}

	if defenderVillage.HomeArmy != nil {
		defenderVillage.HomeArmy.ApplySurvivors(report.Defender.Survivors)
		if defenderVillage.HomeArmy.Troops.IsEmpty() {
			if err := uow.Armies().Remove(ctx, defenderVillage.HomeArmy.ID); err != nil {
				return err
			}
			defenderVillage.HomeArmy = nil
		} else if err := uow.Armies().Save(ctx, defenderVillage.HomeArmy); err != nil {
			return err
		}
	}

	survivingReinforcements := defenderVillage.Reinforcements[:0]
	for i, r := range defenderVillage.Reinforcements {
		r.ApplySurvivors(report.Reinforcements[i].Survivors)
		if r.Troops.IsEmpty() {
			if err := uow.Armies().Remove(ctx, r.ID); err != nil {
				return err
			}
			continue
		}
		if err := uow.Armies().Save(ctx, r); err != nil {
			return err
		}
		survivingReinforcements = append(survivingReinforcements, r)
	}
	defenderVillage.Reinforcements = survivingReinforcements

	if newLevel, ok := catapultTargetLevel(report); ok {
		_ = defenderVillage.SetBuildingLevelAtSlot(report.TargetSlot, newLevel)
	}
	if wall, ok := defenderVillage.Wall(); ok {
		_ = defenderVillage.SetBuildingLevelAtSlot(wall.SlotID, report.NewWallLevel)
	}
	defenderVillage.Loyalty = report.LoyaltyAfter
	if err := defenderVillage.DeductResources(report.Bounty); err != nil {
		return err
	}
	if err := uow.Villages().Save(ctx, defenderVillage); err != nil {
		return err
	}

	returnSecs := game.TravelSeconds(defenderVillage.Position, attackerVillage.Position, worldSize, attackerArmy.Speed(), serverSpeed)
	returnPayload, err := jobs.NewJobPayload(jobs.TaskArmyReturn, "{}").Set("army_id", attackerArmy.ID)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode army return payload", err))
	}
	returnPayload, err = returnPayload.Set("resources.lumber", report.Bounty.Lumber)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode army return payload", err))
	}
	returnPayload, err = returnPayload.Set("resources.clay", report.Bounty.Clay)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode army return payload", err))
	}
	returnPayload, err = returnPayload.Set("resources.iron", report.Bounty.Iron)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode army return payload", err))
	}
	returnPayload, err = returnPayload.Set("resources.crop", report.Bounty.Crop)
	if err != nil {
		return gameerrors.FromInfra(gameerrors.WrapJSON("encode army return payload", err))
	}

	returnJob := jobs.New(job.PlayerID, attackerVillage.ID, int64(returnSecs), returnPayload, now())
	if err := uow.Jobs().Add(ctx, returnJob); err != nil {
		return err
	}

	return fileBattleReport(ctx, uow, report, attackerVillage, defenderVillage)
}

func catapultTargetLevel(r battle.Report) (uint8, bool) {
	if r.TargetBuilding == "" {
		return 0, false
	}
	return r.NewTargetLevel, true
}

func fileBattleReport(ctx context.Context, uow storage.UnitOfWork, report battle.Report, attackerVillage, defenderVillage *game.Village) error {
	data, _ := sjson.Set("{}", "attack_type", int(report.AttackType))
	data, _ = sjson.Set(data, "attacker_village_id", attackerVillage.ID)
	data, _ = sjson.Set(data, "defender_village_id", defenderVillage.ID)
	data, _ = sjson.Set(data, "success", report.Success)
	data, _ = sjson.Set(data, "wall_damage", report.WallDamage)
	data, _ = sjson.Set(data, "catapult_damage", report.CatapultDamage)
	data, _ = sjson.Set(data, "scouting", report.Scouting)
	data, _ = sjson.Set(data, "bounty.lumber", report.Bounty.Lumber)
	data, _ = sjson.Set(data, "bounty.clay", report.Bounty.Clay)
	data, _ = sjson.Set(data, "bounty.iron", report.Bounty.Iron)
	data, _ = sjson.Set(data, "bounty.crop", report.Bounty.Crop)
	data, _ = sjson.Set(data, "attacker.losses", report.Attacker.Losses)
	data, _ = sjson.Set(data, "defender.losses", report.Defender.Losses)

	audience := []string{attackerVillage.PlayerID}
	if defenderVillage.PlayerID != attackerVillage.PlayerID {
		audience = append(audience, defenderVillage.PlayerID)
	}
	rpt := game.NewReport(game.ReportBattle, data, audience, now())
	return uow.Reports().Add(ctx, rpt)
}
