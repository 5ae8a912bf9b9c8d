// Package bus implements the command/query mediator (C5): a thin
// dispatcher that begins a UnitOfWork, runs one handler against it,
// and commits on success or rolls back on error. It owns no business
// logic of its own — every decision about what a command does lives
// in internal/commands.
package bus

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	gameerrors "github.com/ironcrown/realmforge/internal/errors"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/storage"
)

var tracer = otel.Tracer("github.com/ironcrown/realmforge/internal/bus")

// CommandHandler mutates aggregates through a UnitOfWork and returns
// whatever result the caller needs (often nothing). It also receives
// the process-wide shared config (world size, server speed) every
// handler needs for travel-time/build-time arithmetic, per spec §4.5.
type CommandHandler[C any, R any] func(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, cmd C) (R, error)

// QueryHandler reads through a UnitOfWork without ever persisting a
// mutation — its UoW is always rolled back, never committed.
type QueryHandler[Q any, R any] func(ctx context.Context, uow storage.UnitOfWork, cfg config.Config, q Q) (R, error)

// AppBus begins UnitOfWorks from provider and runs handlers against them.
type AppBus struct {
	provider storage.Provider
	cfg      config.Config
}

// New creates an AppBus bound to provider, sharing cfg with every handler.
func New(provider storage.Provider, cfg config.Config) *AppBus {
	return &AppBus{provider: provider, cfg: cfg}
}

// Execute begins a UoW, runs handler with cmd, and commits on success
// or rolls back on error. If handler returns an error, any aggregate
// mutations already applied in memory never reach storage and no job
// handler ever observes them.
func Execute[C any, R any](ctx context.Context, bus *AppBus, spanName string, handler CommandHandler[C, R], cmd C) (R, error) {
	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()

	var zero R

	uow, err := bus.provider.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin uow")
		return zero, gameerrors.FromInfra(gameerrors.WrapTransaction("begin", err))
	}

	result, err := handler(ctx, uow, bus.cfg, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			span.RecordError(rbErr)
		}
		return zero, asApplicationError(err)
	}

	if err := uow.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return zero, gameerrors.FromInfra(gameerrors.WrapTransaction("commit", err))
	}

	span.SetAttributes(attribute.Bool("bus.committed", true))
	return result, nil
}

// Query begins a UoW, runs handler with q, and always rolls back —
// queries never persist a mutation regardless of outcome.
func Query[Q any, R any](ctx context.Context, bus *AppBus, spanName string, handler QueryHandler[Q, R], q Q) (R, error) {
	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()

	var zero R

	uow, err := bus.provider.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin uow")
		return zero, gameerrors.FromInfra(gameerrors.WrapTransaction("begin", err))
	}
	defer func() { _ = uow.Rollback(ctx) }()

	result, err := handler(ctx, uow, bus.cfg, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		return zero, asApplicationError(err)
	}
	return result, nil
}

// asApplicationError wraps err as an ApplicationError if it isn't
// already one, so every bus caller sees the same two-family taxonomy.
func asApplicationError(err error) error {
	if g, ok := gameerrors.AsGame(err); ok {
		return gameerrors.FromGame(g)
	}
	if i, ok := gameerrors.AsInfra(err); ok {
		return gameerrors.FromInfra(i)
	}
	return gameerrors.FromInfra(gameerrors.WrapDB("handler error", err))
}
