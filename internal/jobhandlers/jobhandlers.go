// Package jobhandlers implements the job-tail side of every deferred
// action (C8): one Handle per task type, each loading the aggregates a
// job's payload names, applying the mutation the originating command
// only scheduled, and saving. Handlers never mark the job itself
// completed or failed — the worker (internal/jobs/dispatch) does that
// once Handle returns.
package jobhandlers

import (
	"time"

	"github.com/ironcrown/realmforge/internal/jobs"
)

// now returns the current wall-clock instant handlers stamp onto
// mutated aggregates and newly created jobs.
func now() time.Time {
	return time.Now().UTC()
}

func payloadString(job *jobs.Job, path string) string {
	return job.Task.Get(path).String()
}

func payloadUint64(job *jobs.Job, path string) uint64 {
	return job.Task.Get(path).Uint()
}

func payloadUint8(job *jobs.Job, path string) uint8 {
	return uint8(job.Task.Get(path).Uint())
}

func payloadUint32(job *jobs.Job, path string) uint32 {
	return uint32(job.Task.Get(path).Uint())
}

func payloadBool(job *jobs.Job, path string) bool {
	return job.Task.Get(path).Bool()
}
