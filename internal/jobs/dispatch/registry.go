// Package dispatch wires job handlers to task types and runs the
// worker poll loop. It is a separate package from jobs itself so that
// storage (which jobs.Job's repository interface lives in) never has
// to import the handler-dispatch machinery that in turn depends on
// storage.UnitOfWork.
package dispatch

import (
	"context"
	"fmt"

	"github.com/ironcrown/realmforge/internal/jobs"
	"github.com/ironcrown/realmforge/internal/storage"
)

// Handler executes one job's task against a transaction-bound
// UnitOfWork. It must be idempotent-safe enough that a crash between
// Commit and lease-release does not corrupt state on the next lease.
type Handler interface {
	Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error

func (f HandlerFunc) Handle(ctx context.Context, uow storage.UnitOfWork, job *jobs.Job) error {
	return f(ctx, uow, job)
}

// Registry maps a task type string to its handler, mirroring the
// original's JobRegistry trait.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds taskType to handler. Re-registering a task type
// overwrites the previous binding.
func (r *Registry) Register(taskType string, handler Handler) {
	r.handlers[taskType] = handler
}

// Get returns the handler bound to taskType, or an error naming the
// missing binding so the worker can fail the job instead of panicking.
func (r *Registry) Get(taskType string) (Handler, error) {
	h, ok := r.handlers[taskType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for task type %q", taskType)
	}
	return h, nil
}
