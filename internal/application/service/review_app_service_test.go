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
	"github.com/rosverk/rosreg/pkg/logger"
)

type reviewServiceFixture struct {
	reviewRepo *repoMocks.MockReviewRepository
	riskRepo   *repoMocks.MockRiskRepository
	audit      *serviceMocks.MockAuditService
	cache      *serviceMocks.MockCacheService
	sut        appservice.ReviewAppService
}

func newReviewServiceFixture() *reviewServiceFixture {
	f := &reviewServiceFixture{
		reviewRepo: new(repoMocks.MockReviewRepository),
		riskRepo:   new(repoMocks.MockRiskRepository),
		audit:      new(serviceMocks.MockAuditService),
		cache:      new(serviceMocks.MockCacheService),
	}
	f.sut = appservice.NewReviewAppService(f.reviewRepo, f.riskRepo, f.audit, f.cache, logger.NewNoopLogger())
	return f
}

func (f *reviewServiceFixture) expectWriteSideEffects() {
	f.cache.On("Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()
}

func TestReviewAppServiceSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules a review of a live risk", func(t *testing.T) {
		f := newReviewServiceFixture()
		f.expectWriteSideEffects()

		risk := liveRisk("Aging battery backup", 3, 4)
		f.riskRepo.On("GetByID", mock.Anything, risk.ID).Return(risk, nil)
		f.reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

		scheduled := time.Now().UTC().Add(30 * 24 * time.Hour)
		resp, err := f.sut.ScheduleReview(ctx, &dto.ScheduleReviewRequest{
			RiskID:        risk.ID.String(),
			ScheduledDate: scheduled,
			Reviewer:      "security lead",
		})
		require.NoError(t, err)

		assert.Equal(t, risk.ID.String(), resp.RiskID)
		assert.Nil(t, resp.ConductedDate)
		assert.False(t, resp.Overdue)
		f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	})

	t.Run("refuses a review of a closed risk", func(t *testing.T) {
		f := newReviewServiceFixture()

		risk := liveRisk("Closed exposure", 2, 2)
		risk.Close(time.Now().UTC())
		f.riskRepo.On("GetByID", mock.Anything, risk.ID).Return(risk, nil)

		_, err := f.sut.ScheduleReview(ctx, &dto.ScheduleReviewRequest{
			RiskID:        risk.ID.String(),
			ScheduledDate: time.Now().UTC().Add(24 * time.Hour),
			Reviewer:      "security lead",
		})
		assertAppErrorCode(t, err, constants.ErrCodeConflict)
		f.reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReviewAppServiceComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("completing records the date and outcome", func(t *testing.T) {
		f := newReviewServiceFixture()
		f.expectWriteSideEffects()

		review := models.NewReview(uuid.New(), time.Now().UTC().Add(-24*time.Hour), "security lead")
		f.reviewRepo.On("GetByID", mock.Anything, review.ID).Return(review, nil)
		f.reviewRepo.On("Update", mock.Anything, review).Return(nil)

		conducted := time.Now().UTC()
		resp, err := f.sut.CompleteReview(ctx, review.ID.String(), &dto.CompleteReviewRequest{
			ConductedDate: conducted,
			Outcome:       "likelihood unchanged, follow-up action raised",
		})
		require.NoError(t, err)

		require.NotNil(t, resp.ConductedDate)
		assert.Equal(t, "likelihood unchanged, follow-up action raised", resp.Outcome)
		assert.False(t, resp.Overdue)
	})

	t.Run("completing twice is a conflict", func(t *testing.T) {
		f := newReviewServiceFixture()
		f.expectWriteSideEffects()

		review := models.NewReview(uuid.New(), time.Now().UTC().Add(-24*time.Hour), "security lead")
		f.reviewRepo.On("GetByID", mock.Anything, review.ID).Return(review, nil)
		f.reviewRepo.On("Update", mock.Anything, review).Return(nil)

		req := &dto.CompleteReviewRequest{ConductedDate: time.Now().UTC()}
		_, err := f.sut.CompleteReview(ctx, review.ID.String(), req)
		require.NoError(t, err)

		_, err = f.sut.CompleteReview(ctx, review.ID.String(), req)
		assertAppErrorCode(t, err, constants.ErrCodeConflict)
	})
}

func TestReviewAppServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a pending review", func(t *testing.T) {
		f := newReviewServiceFixture()
		f.expectWriteSideEffects()

		review := models.NewReview(uuid.New(), time.Now().UTC().Add(14*24*time.Hour), "CISO")
		f.reviewRepo.On("GetByID", mock.Anything, review.ID).Return(review, nil)
		f.reviewRepo.On("Delete", mock.Anything, review.ID).Return(nil)

		require.NoError(t, f.sut.CancelReview(ctx, review.ID.String()))
		f.reviewRepo.AssertCalled(t, "Delete", mock.Anything, review.ID)
		f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	})

	t.Run("conducted reviews stay on record", func(t *testing.T) {
		f := newReviewServiceFixture()

		review := models.NewReview(uuid.New(), time.Now().UTC().Add(-48*time.Hour), "CISO")
		review.Complete(time.Now().UTC(), "no change")
		f.reviewRepo.On("GetByID", mock.Anything, review.ID).Return(review, nil)

		err := f.sut.CancelReview(ctx, review.ID.String())
		assertAppErrorCode(t, err, constants.ErrCodeConflict)
		f.reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestReviewAppServiceLists(t *testing.T) {
	ctx := context.Background()

	t.Run("pending reviews derive the overdue flag", func(t *testing.T) {
		f := newReviewServiceFixture()
		overdue := models.NewReview(uuid.New(), time.Now().UTC().Add(-72*time.Hour), "security lead")
		upcoming := models.NewReview(uuid.New(), time.Now().UTC().Add(72*time.Hour), "security lead")
		f.reviewRepo.On("ListPending", mock.Anything).Return([]*models.Review{overdue, upcoming}, nil)

		resp, err := f.sut.ListPendingReviews(ctx)
		require.NoError(t, err)

		require.Len(t, resp.Reviews, 2)
		assert.True(t, resp.Reviews[0].Overdue)
		assert.False(t, resp.Reviews[1].Overdue)
	})

	t.Run("listing for an unknown risk is not found", func(t *testing.T) {
		f := newReviewServiceFixture()
		riskID := uuid.New()
		f.riskRepo.On("GetByID", mock.Anything, riskID).Return(nil, assert.AnError)

		_, err := f.sut.ListReviewsForRisk(ctx, riskID.String())
		require.Error(t, err)
		f.reviewRepo.AssertNotCalled(t, "ListByRisk", mock.Anything, mock.Anything)
	})
}
