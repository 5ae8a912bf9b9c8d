// Package jobs defines the deferred-action job model (C7): a typed
// payload and a terminal status machine. The handler registry and the
// worker loop live in internal/jobs/dispatch.
package jobs

import (
	"time"

	"github.com/ironcrown/realmforge/internal/id"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Status is a job's position in its terminal state machine: Pending ->
// Processing (lease) -> Completed | Failed. No step skips; Failed is
// terminal — spec §7 explicitly forbids retrying a failed job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Recognised task types (spec §3). The worker dispatches on this
// string, so adding a task type never requires touching every caller.
const (
	TaskAddBuilding          = "AddBuilding"
	TaskUpgradeBuilding      = "UpgradeBuilding"
	TaskDowngradeBuilding    = "DowngradeBuilding"
	TaskTrainUnits           = "TrainUnits"
	TaskAttack               = "Attack"
	TaskScout                = "Scout"
	TaskReinforcement        = "Reinforcement"
	TaskArmyReturn           = "ArmyReturn"
	TaskMerchantGoing        = "MerchantGoing"
	TaskMerchantReturn       = "MerchantReturn"
	TaskResearchAcademy      = "ResearchAcademy"
	TaskResearchSmithy       = "ResearchSmithy"
	TaskFoundVillage         = "FoundVillage"
	TaskHeroRevival          = "HeroRevival"
	TaskAllianceBonusUpgrade = "AllianceBonusUpgrade"
)

// JobPayload is a tagged union: a task type discriminator plus its
// JSON-encoded data, read field-by-field with gjson/sjson rather than
// unmarshalled into a concrete struct up front, so a handler only pays
// for the fields it touches.
type JobPayload struct {
	TaskType string
	Data     string // raw JSON object
}

// NewJobPayload builds a payload from task type and an already-encoded
// JSON data object.
func NewJobPayload(taskType, data string) JobPayload {
	return JobPayload{TaskType: taskType, Data: data}
}

// Get reads one field out of the payload data by gjson path.
func (p JobPayload) Get(path string) gjson.Result {
	return gjson.Get(p.Data, path)
}

// Set returns a copy of p with path set to value, used by job handlers
// that patch a payload before re-deriving a follow-up job.
func (p JobPayload) Set(path string, value any) (JobPayload, error) {
	data, err := sjson.Set(p.Data, path, value)
	if err != nil {
		return JobPayload{}, err
	}
	return JobPayload{TaskType: p.TaskType, Data: data}, nil
}

// Job is one deferred action: identity, owning player/village, typed
// payload, and the wall-clock deadline at which it becomes due.
type Job struct {
	ID        string
	PlayerID  string
	VillageID uint64
	Task      JobPayload

	Status      Status
	CompletedAt time.Time // deadline: due once now >= CompletedAt

	LeaseOwner    string
	LeaseExpires  time.Time
	LastError     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a Pending job for playerID/villageID, due durationSecs
// from now.
func New(playerID string, villageID uint64, durationSecs int64, task JobPayload, now time.Time) *Job {
	return WithDeadline(playerID, villageID, task, now.Add(time.Duration(durationSecs)*time.Second), now)
}

// WithDeadline creates a Pending job with an explicit completion deadline.
func WithDeadline(playerID string, villageID uint64, task JobPayload, completedAt, now time.Time) *Job {
	return &Job{
		ID:          id.New(),
		PlayerID:    playerID,
		VillageID:   villageID,
		Task:        task,
		Status:      StatusPending,
		CompletedAt: completedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsDue reports whether the job's deadline has passed as of now.
func (j *Job) IsDue(now time.Time) bool {
	return !j.CompletedAt.After(now)
}

// MarkProcessing transitions Pending -> Processing under lease owner,
// expiring at now+leaseTTL.
func (j *Job) MarkProcessing(owner string, now time.Time, leaseTTL time.Duration) {
	j.Status = StatusProcessing
	j.LeaseOwner = owner
	j.LeaseExpires = now.Add(leaseTTL)
	j.UpdatedAt = now
}

// MarkCompleted transitions Processing -> Completed, a terminal state.
func (j *Job) MarkCompleted(now time.Time) {
	j.Status = StatusCompleted
	j.LeaseOwner = ""
	j.LeaseExpires = time.Time{}
	j.UpdatedAt = now
}

// MarkFailed transitions Processing -> Failed, a terminal state with
// no retry path (spec §7): once Failed, the worker never re-enqueues
// this job.
func (j *Job) MarkFailed(reason string, now time.Time) {
	j.Status = StatusFailed
	j.LastError = reason
	j.LeaseOwner = ""
	j.LeaseExpires = time.Time{}
	j.UpdatedAt = now
}
