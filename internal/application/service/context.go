// Package service implements the application use cases on top of the
// domain layer: orchestration, persistence, caching, auditing.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
)

// parseUUID parses a path or body identifier, reporting the offending
// field on failure.
func parseUUID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidRequest.
			WithMessagef("%s is not a valid UUID", field).
			WithDetails(map[string]string{field: "must be a valid UUID"})
	}
	return id, nil
}

// actorFromContext returns the audit actor injected by middleware, or
// "system" for background and CLI work.
func actorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(constants.ContextKeyActor).(string); ok && actor != "" {
		return actor
	}
	return "system"
}

// invalidateDashboard drops every cached dashboard projection. Called on
// each register write so reads never serve stale aggregates longer than
// one cache miss.
func invalidateDashboard(ctx context.Context, cache service.CacheService) {
	if cache == nil {
		return
	}
	_ = cache.Delete(ctx,
		constants.CacheKeyDashboardSummary,
		constants.CacheKeyMatrixPrefix+"current",
		constants.CacheKeyMatrixPrefix+"target",
		constants.CacheKeyDistribution,
	)
}
