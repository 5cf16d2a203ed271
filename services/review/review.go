package review

import (
	"context"
	"errors"
	"math"
	"strings"

	"metro/apperrors"
	"metro/database/repository"
	bookingRepo "metro/database/repository/booking"
	reviewRepo "metro/database/repository/review"
	userRepo "metro/database/repository/user"
	"metro/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	Submit(ctx context.Context, actor models.Actor, req models.SubmitReviewRequest) (*models.Review, error)
	Summary(ctx context.Context, partnerID string) (*models.ReviewSummary, error)
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	SetApproval(ctx context.Context, actor models.Actor, id string, approved bool) (*models.Review, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// DefaultReviewService publishes reviews immediately. Admins can later hide or delete them.
type DefaultReviewService struct {
	Reviews  reviewRepo.ReviewRepository
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Logger   *zap.Logger
}

func NewReviewService(reviews reviewRepo.ReviewRepository, bookings bookingRepo.BookingRepository, users userRepo.UserRepository, logger *zap.Logger) *DefaultReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultReviewService{Reviews: reviews, Bookings: bookings, Users: users, Logger: logger}
}

// Submit records the customer's rating of a partner who served the booking.
func (s *DefaultReviewService) Submit(ctx context.Context, actor models.Actor, req models.SubmitReviewRequest) (*models.Review, error) {
	if actor.Role != models.RoleCustomer {
		return nil, apperrors.Forbidden("only customers can review")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	b, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	if b.CustomerID != actor.ID {
		return nil, apperrors.Forbidden("booking belongs to another customer")
	}
	if !served(b, req.PartnerID, req.ServiceID) {
		return nil, apperrors.Validation("partner did not complete this service on the booking")
	}

	r := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		CustomerID: actor.ID,
		PartnerID:  req.PartnerID,
		ServiceID:  req.ServiceID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		IsApproved: true,
	}
	if err := s.Reviews.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.AlreadyReviewed()
		}
		return nil, apperrors.Internal("failed to save review", err)
	}

	if err := s.refreshRating(ctx, req.PartnerID); err != nil {
		s.Logger.Warn("failed to refresh partner rating", zap.String("partner_id", req.PartnerID), zap.Error(err))
	}
	return r, nil
}

// Summary aggregates a partner's approved reviews.
func (s *DefaultReviewService) Summary(ctx context.Context, partnerID string) (*models.ReviewSummary, error) {
	reviews, err := s.Reviews.ListByPartner(ctx, partnerID, true)
	if err != nil {
		return nil, apperrors.Internal("failed to list reviews", err)
	}
	sum := &models.ReviewSummary{
		PartnerID:    partnerID,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Reviews:      []models.Review{},
	}
	total := 0
	for _, r := range reviews {
		sum.Distribution[r.Rating]++
		total += r.Rating
	}
	sum.Count = len(reviews)
	if sum.Count > 0 {
		sum.Average = math.Round(float64(total)/float64(sum.Count)*10) / 10
		sum.Reviews = reviews
	}
	return sum, nil
}

// List returns reviews for moderation, including hidden ones.
func (s *DefaultReviewService) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	if filter.Rating < 0 || filter.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	reviews, err := s.Reviews.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list reviews", err)
	}
	return reviews, nil
}

// SetApproval shows or hides a review and recomputes the partner's rating.
func (s *DefaultReviewService) SetApproval(ctx context.Context, actor models.Actor, id string, approved bool) (*models.Review, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can moderate reviews")
	}
	r, err := s.Reviews.SetApproved(ctx, id, approved)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("review")
		}
		return nil, apperrors.Internal("failed to update review", err)
	}
	s.Logger.Info("review moderated", zap.String("review_id", id), zap.Bool("approved", approved), zap.String("admin_id", actor.ID))
	if err := s.refreshRating(ctx, r.PartnerID); err != nil {
		s.Logger.Warn("failed to refresh partner rating", zap.String("partner_id", r.PartnerID), zap.Error(err))
	}
	return r, nil
}

// Delete removes a review and recomputes the partner's rating.
func (s *DefaultReviewService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if actor.Role != models.RoleAdmin {
		return apperrors.Forbidden("only admins can delete reviews")
	}
	r, err := s.Reviews.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("review")
		}
		return apperrors.Internal("failed to delete review", err)
	}
	s.Logger.Info("review deleted", zap.String("review_id", id), zap.String("admin_id", actor.ID))
	if err := s.refreshRating(ctx, r.PartnerID); err != nil {
		s.Logger.Warn("failed to refresh partner rating", zap.String("partner_id", r.PartnerID), zap.Error(err))
	}
	return nil
}

func (s *DefaultReviewService) refreshRating(ctx context.Context, partnerID string) error {
	sum, err := s.Summary(ctx, partnerID)
	if err != nil {
		return err
	}
	return s.Users.SetRating(ctx, partnerID, sum.Average)
}

func served(b *models.Booking, partnerID, serviceID string) bool {
	for _, it := range b.Items {
		if it.PartnerID != partnerID || it.ServiceID != serviceID {
			continue
		}
		if it.Status == models.ItemCompletedByPartner || it.Status == models.ItemCompleted {
			return true
		}
	}
	return false
}
