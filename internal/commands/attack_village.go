package commands

import (
	"context"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/game"
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/storage"
)

// AttackKind distinguishes a raiding/conquering attack from a scouting run.
type AttackKind string

const (
	AttackNormal AttackKind = "normal"
	AttackRaid   AttackKind = "raid"
	AttackScout  AttackKind = "scout"
)

// AttackVillage deploys troops from the attacker's home army toward a
// defender village.
type AttackVillage struct {
	PlayerID        string
	AttackerVillage uint64
	DefenderVillage uint64
	Troops          game.TroopSet
	Kind            AttackKind
	CataTargetSlot  uint8
}

// AttackVillageResult reports the scheduled job id, useful for the UI
// to show a countdown.
type AttackVillageResult struct {
	JobID string
}

// HandleAttackVillage loads the attacker village and army, the
// defender village, deploys the requested troops into a marching
// army, computes travel time from position distance and army speed,
// and schedules an Attack (or Scout) job at that deadline (spec §4.6).
func HandleAttackVillage(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd AttackVillage) (AttackVillageResult, error) {
	attackerVillage, err := uow.Villages().GetByID(ctx, cmd.AttackerVillage)
	if err != nil {
		return AttackVillageResult{}, err
	}
	if attackerVillage.PlayerID != cmd.PlayerID {
		return AttackVillageResult{}, gameerrors.NewGame(gameerrors.CodeVillageNotOwned, "attacker village is not owned by player")
	}
	if attackerVillage.HomeArmy == nil {
		return AttackVillageResult{}, gameerrors.NewGame(gameerrors.CodeNotEnoughUnits, "village has no home army")
	}

	defenderVillage, err := uow.Villages().GetByID(ctx, cmd.DefenderVillage)
	if err != nil {
		return AttackVillageResult{}, err
	}

	marchingArmy, err := attackerVillage.HomeArmy.Deploy(cmd.Troops)
	if err != nil {
		return AttackVillageResult{}, err
	}
	marchingArmy.FieldID = defenderVillage.ID

	if err := uow.Villages().Save(ctx, attackerVillage); err != nil {
		return AttackVillageResult{}, err
	}
	if err := uow.Armies().Add(ctx, marchingArmy); err != nil {
		return AttackVillageResult{}, err
	}

	travelSecs := game.TravelSeconds(attackerVillage.Position, defenderVillage.Position, int32(cfg.WorldSize), marchingArmy.Speed(), cfg.Speed)

	taskType := jobs.TaskAttack
	if cmd.Kind == AttackScout {
		taskType = jobs.TaskScout
	}
	payload := jobs.NewJobPayload(taskType, "{}")
	payload, err = payload.Set("attacker_army_id", marchingArmy.ID)
	if err != nil {
		return AttackVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode attack payload", err))
	}
	payload, err = payload.Set("defender_village_id", defenderVillage.ID)
	if err != nil {
		return AttackVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode attack payload", err))
	}
	payload, err = payload.Set("attacker_village_id", attackerVillage.ID)
	if err != nil {
		return AttackVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode attack payload", err))
	}
	payload, err = payload.Set("raid", cmd.Kind == AttackRaid)
	if err != nil {
		return AttackVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode attack payload", err))
	}
	payload, err = payload.Set("cata_target_slot", cmd.CataTargetSlot)
	if err != nil {
		return AttackVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode attack payload", err))
	}
	payload, err = payload.Set("world_size", cfg.WorldSize)
	if err != nil {
		return AttackVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode attack payload", err))
	}
	payload, err = payload.Set("server_speed", cfg.Speed)
	if err != nil {
		return AttackVillageResult{}, gameerrors.FromInfra(gameerrors.WrapJSON("encode attack payload", err))
	}

	job := jobs.New(cmd.PlayerID, attackerVillage.ID, int64(travelSecs), payload, now())
	if err := uow.Jobs().Add(ctx, job); err != nil {
		return AttackVillageResult{}, err
	}

	return AttackVillageResult{JobID: job.ID}, nil
}
