package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/internal/application/dto"
	appservice "github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/internal/domain/models"
	repoMocks "github.com/rosverk/rosreg/internal/domain/repository/mocks"
	serviceMocks "github.com/rosverk/rosreg/internal/domain/service/mocks"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

type actionServiceFixture struct {
	actionRepo *repoMocks.MockActionRepository
	riskRepo   *repoMocks.MockRiskRepository
	audit      *serviceMocks.MockAuditService
	cache      *serviceMocks.MockCacheService
	sut        appservice.ActionAppService
}

func newActionServiceFixture() *actionServiceFixture {
	f := &actionServiceFixture{
		actionRepo: new(repoMocks.MockActionRepository),
		riskRepo:   new(repoMocks.MockRiskRepository),
		audit:      new(serviceMocks.MockAuditService),
		cache:      new(serviceMocks.MockCacheService),
	}
	f.sut = appservice.NewActionAppService(f.actionRepo, f.riskRepo, f.audit, f.cache, logger.NewNoopLogger())
	return f
}

func (f *actionServiceFixture) expectWriteSideEffects() {
	f.cache.On("Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()
}

func TestActionAppServiceCreateAction(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an open action for a live risk", func(t *testing.T) {
		f := newActionServiceFixture()
		risk := models.NewRisk(uuid.New(), "Single carrier for transport capacity", constants.RiskTypeExternal,
			models.Assessment{Likelihood: 3, Consequence: 4})
		f.riskRepo.On("GetByID", mock.Anything, risk.ID).Return(risk, nil)
		f.actionRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Action")).Return(nil)
		f.expectWriteSideEffects()

		due := time.Now().UTC().Add(30 * 24 * time.Hour)
		resp, err := f.sut.CreateAction(ctx, &dto.CreateActionRequest{
			RiskID:      risk.ID.String(),
			Title:       "Procure a second transport supplier",
			Priority:    "high",
			Responsible: "network procurement",
			DueDate:     &due,
		})
		require.NoError(t, err)

		assert.Equal(t, "open", resp.Status)
		assert.False(t, resp.Overdue)
		f.actionRepo.AssertExpectations(t)
	})

	t.Run("closed risks reject new actions", func(t *testing.T) {
		f := newActionServiceFixture()
		risk := models.NewRisk(uuid.New(), "Retired risk", constants.RiskTypeTechnical,
			models.Assessment{Likelihood: 1, Consequence: 1})
		risk.Close(time.Now().UTC())
		f.riskRepo.On("GetByID", mock.Anything, risk.ID).Return(risk, nil)

		_, err := f.sut.CreateAction(ctx, &dto.CreateActionRequest{
			RiskID:   risk.ID.String(),
			Title:    "Too late to remediate",
			Priority: "low",
		})
		assertAppErrorCode(t, err, constants.ErrCodeConflict)
		f.actionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown risk is not found", func(t *testing.T) {
		f := newActionServiceFixture()
		riskID := uuid.New()
		f.riskRepo.On("GetByID", mock.Anything, riskID).Return(nil, errors.ErrNotFound)

		_, err := f.sut.CreateAction(ctx, &dto.CreateActionRequest{
			RiskID:   riskID.String(),
			Title:    "Orphaned action",
			Priority: "medium",
		})
		assertAppErrorCode(t, err, constants.ErrCodeNotFound)
	})
}

func TestActionAppServiceStatus(t *testing.T) {
	ctx := context.Background()

	newOpenAction := func() *models.Action {
		return models.NewAction(uuid.New(), "Harden site access control", constants.ActionPriorityHigh, "site operations")
	}

	t.Run("done stamps the completion time", func(t *testing.T) {
		f := newActionServiceFixture()
		action := newOpenAction()
		f.actionRepo.On("GetByID", mock.Anything, action.ID).Return(action, nil)
		f.actionRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Action")).Return(nil)
		f.expectWriteSideEffects()

		resp, err := f.sut.SetActionStatus(ctx, action.ID.String(), &dto.ActionStatusRequest{Status: "done"})
		require.NoError(t, err)

		assert.Equal(t, "done", resp.Status)
		assert.NotNil(t, resp.CompletedAt)
	})

	t.Run("reopening clears the completion time", func(t *testing.T) {
		f := newActionServiceFixture()
		action := newOpenAction()
		completed := time.Now().UTC()
		action.Status = constants.ActionStatusDone
		action.CompletedAt = &completed
		f.actionRepo.On("GetByID", mock.Anything, action.ID).Return(action, nil)
		f.actionRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Action")).Return(nil)
		f.expectWriteSideEffects()

		resp, err := f.sut.SetActionStatus(ctx, action.ID.String(), &dto.ActionStatusRequest{Status: "open"})
		require.NoError(t, err)

		assert.Equal(t, "open", resp.Status)
		assert.Nil(t, resp.CompletedAt)
	})

	t.Run("overdue is derived from the due date", func(t *testing.T) {
		f := newActionServiceFixture()
		action := newOpenAction()
		past := time.Now().UTC().Add(-48 * time.Hour)
		action.DueDate = &past
		f.actionRepo.On("GetByID", mock.Anything, action.ID).Return(action, nil)

		resp, err := f.sut.GetAction(ctx, action.ID.String())
		require.NoError(t, err)
		assert.True(t, resp.Overdue)
	})
}

func TestActionAppServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("clear_due removes the due date", func(t *testing.T) {
		f := newActionServiceFixture()
		action := models.NewAction(uuid.New(), "Replace end-of-life routers", constants.ActionPriorityMedium, "")
		due := time.Now().UTC().Add(14 * 24 * time.Hour)
		action.DueDate = &due
		f.actionRepo.On("GetByID", mock.Anything, action.ID).Return(action, nil)
		f.actionRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Action")).Return(nil)
		f.expectWriteSideEffects()

		resp, err := f.sut.UpdateAction(ctx, action.ID.String(), &dto.UpdateActionRequest{ClearDue: true})
		require.NoError(t, err)
		assert.Nil(t, resp.DueDate)
	})

	t.Run("delete audits the removal", func(t *testing.T) {
		f := newActionServiceFixture()
		action := models.NewAction(uuid.New(), "Obsolete measure", constants.ActionPriorityLow, "")
		f.actionRepo.On("GetByID", mock.Anything, action.ID).Return(action, nil)
		f.actionRepo.On("Delete", mock.Anything, action.ID).Return(nil)
		f.expectWriteSideEffects()

		require.NoError(t, f.sut.DeleteAction(ctx, action.ID.String()))
		f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	})
}

func TestActionAppServiceListOverdueActions(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	f := newActionServiceFixture()
	riskID := uuid.New()

	oldest := models.NewAction(riskID, "Rotate expired TLS certificates", constants.ActionPriorityHigh, "noc")
	weekAgo := now.Add(-7 * 24 * time.Hour)
	oldest.DueDate = &weekAgo

	recent := models.NewAction(riskID, "Patch edge routers", constants.ActionPriorityMedium, "noc")
	yesterday := now.Add(-24 * time.Hour)
	recent.DueDate = &yesterday

	future := models.NewAction(riskID, "Review peering agreements", constants.ActionPriorityLow, "legal")
	nextWeek := now.Add(7 * 24 * time.Hour)
	future.DueDate = &nextWeek

	finished := models.NewAction(riskID, "Decommission legacy VPN", constants.ActionPriorityHigh, "noc")
	finished.DueDate = &weekAgo
	finished.SetStatus(constants.ActionStatusDone, now)

	f.actionRepo.On("ListAll", mock.Anything).
		Return([]*models.Action{recent, future, finished, oldest}, nil)

	resp, err := f.sut.ListOverdueActions(ctx)
	require.NoError(t, err)

	// Done and not-yet-due actions are excluded; longest overdue first.
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, "Rotate expired TLS certificates", resp.Actions[0].Title)
	assert.Equal(t, "Patch edge routers", resp.Actions[1].Title)
	assert.True(t, resp.Actions[0].Overdue)
	assert.EqualValues(t, 2, resp.Pagination.Total)
}
