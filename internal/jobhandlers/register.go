package jobhandlers

import (
	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/jobs/dispatch"
)

// RegisterAll binds every task type this package implements into
// registry. cmd/worker calls this once at startup.
func RegisterAll(registry *dispatch.Registry) {
	registry.Register(jobs.TaskAddBuilding, AddBuilding{})
	registry.Register(jobs.TaskUpgradeBuilding, UpgradeBuilding{})
	registry.Register(jobs.TaskDowngradeBuilding, DowngradeBuilding{})
	registry.Register(jobs.TaskTrainUnits, TrainUnits{})
	registry.Register(jobs.TaskAttack, Attack{})
	registry.Register(jobs.TaskScout, Scout{})
	registry.Register(jobs.TaskReinforcement, Reinforcement{})
	registry.Register(jobs.TaskArmyReturn, ArmyReturn{})
	registry.Register(jobs.TaskMerchantGoing, MerchantGoing{})
	registry.Register(jobs.TaskMerchantReturn, MerchantReturn{})
	registry.Register(jobs.TaskResearchAcademy, ResearchAcademy{})
	registry.Register(jobs.TaskResearchSmithy, ResearchSmithy{})
	registry.Register(jobs.TaskFoundVillage, FoundVillage{})
	registry.Register(jobs.TaskHeroRevival, HeroRevival{})
	registry.Register(jobs.TaskAllianceBonusUpgrade, AllianceBonusUpgrade{})
}
