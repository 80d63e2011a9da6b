package service

import (
	"context"
	"time"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
	"github.com/rosverk/rosreg/pkg/utils"
)

// ReviewAppService manages scheduled reassessments. Completing a review
// only records that it took place; changing the risk's ratings goes
// through the risk service's reassess operation.
type ReviewAppService interface {
	ScheduleReview(ctx context.Context, req *dto.ScheduleReviewRequest) (*dto.ReviewResponse, error)
	GetReview(ctx context.Context, id string) (*dto.ReviewResponse, error)
	ListReviewsForRisk(ctx context.Context, riskID string) (*dto.ReviewListResponse, error)
	ListPendingReviews(ctx context.Context) (*dto.ReviewListResponse, error)
	CompleteReview(ctx context.Context, id string, req *dto.CompleteReviewRequest) (*dto.ReviewResponse, error)
	CancelReview(ctx context.Context, id string) error
}

type reviewAppServiceImpl struct {
	reviewRepo repository.ReviewRepository
	riskRepo   repository.RiskRepository
	audit      service.AuditService
	cache      service.CacheService
	logger     logger.Logger
}

// NewReviewAppService creates the review application service.
func NewReviewAppService(
	reviewRepo repository.ReviewRepository,
	riskRepo repository.RiskRepository,
	audit service.AuditService,
	cache service.CacheService,
	log logger.Logger,
) ReviewAppService {
	return &reviewAppServiceImpl{
		reviewRepo: reviewRepo,
		riskRepo:   riskRepo,
		audit:      audit,
		cache:      cache,
		logger:     log.WithComponent("review_service"),
	}
}

func (s *reviewAppServiceImpl) ScheduleReview(ctx context.Context, req *dto.ScheduleReviewRequest) (*dto.ReviewResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	riskID, err := parseUUID(req.RiskID, "risk_id")
	if err != nil {
		return nil, err
	}

	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	if !risk.IsLive() {
		return nil, errors.ErrConflict.WithMessage("cannot schedule a review of a closed risk")
	}

	review := models.NewReview(riskID, req.ScheduledDate.UTC(), req.Reviewer)
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeReviewScheduled, actorFromContext(ctx), "review scheduled").
		WithSubject(constants.SubjectTypeReview, review.ID).
		WithMetadata(map[string]interface{}{
			"risk_id":        riskID.String(),
			"scheduled_date": review.ScheduledDate.Format(time.RFC3339),
		}))

	s.logger.Info(ctx, "Review scheduled",
		logger.String("review_id", review.ID.String()),
		logger.String("risk_id", riskID.String()),
		logger.Time("scheduled_date", review.ScheduledDate))

	return dto.NewReview(review, time.Now().UTC()), nil
}

func (s *reviewAppServiceImpl) GetReview(ctx context.Context, id string) (*dto.ReviewResponse, error) {
	reviewID, err := parseUUID(id, "review_id")
	if err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.NewReview(review, time.Now().UTC()), nil
}

func (s *reviewAppServiceImpl) ListReviewsForRisk(ctx context.Context, riskID string) (*dto.ReviewListResponse, error) {
	id, err := parseUUID(riskID, "risk_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.riskRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByRisk(ctx, id)
	if err != nil {
		return nil, err
	}
	return reviewList(reviews), nil
}

func (s *reviewAppServiceImpl) ListPendingReviews(ctx context.Context) (*dto.ReviewListResponse, error) {
	reviews, err := s.reviewRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return reviewList(reviews), nil
}

func (s *reviewAppServiceImpl) CompleteReview(ctx context.Context, id string, req *dto.CompleteReviewRequest) (*dto.ReviewResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	reviewID, err := parseUUID(id, "review_id")
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.IsConducted() {
		return nil, errors.ErrConflict.WithMessage("review has already been conducted")
	}

	review.Complete(req.ConductedDate.UTC(), req.Outcome)
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeReviewCompleted, actorFromContext(ctx), "review completed").
		WithSubject(constants.SubjectTypeReview, review.ID).
		WithMetadata(map[string]interface{}{"risk_id": review.RiskID.String()}))

	return dto.NewReview(review, time.Now().UTC()), nil
}

func (s *reviewAppServiceImpl) CancelReview(ctx context.Context, id string) error {
	reviewID, err := parseUUID(id, "review_id")
	if err != nil {
		return err
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	// Conducted reviews are history and stay on record.
	if review.IsConducted() {
		return errors.ErrConflict.WithMessage("cannot cancel a conducted review")
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeReviewCancelled, actorFromContext(ctx), "review cancelled").
		WithSubject(constants.SubjectTypeReview, reviewID).
		WithMetadata(map[string]interface{}{"risk_id": review.RiskID.String()}))

	return nil
}

func reviewList(reviews []*models.Review) *dto.ReviewListResponse {
	now := time.Now().UTC()
	items := make([]*dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, dto.NewReview(review, now))
	}
	return &dto.ReviewListResponse{Reviews: items}
}
