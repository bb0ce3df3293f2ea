package service

import (
	"context"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type reviewService struct {
	store repository.Store
}

func NewReviewService(store repository.Store) ReviewService {
	return &reviewService{store: store}
}

func (s *reviewService) SubmitReview(ctx context.Context, userID, bookingID int64, rating int32, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != userID {
		return nil, apperr.Authorization("only the renter may review this booking")
	}
	if booking.Status != domain.BookingStatusCompleted && booking.Status != domain.BookingStatusCompletedDamages {
		return nil, apperr.State("booking must be completed before it can be reviewed", string(booking.Status))
	}

	review := &domain.Review{
		BookingID:        bookingID,
		UnitID:           booking.UnitID,
		UserID:           userID,
		Rating:           rating,
		Comment:          comment,
		ModerationStatus: domain.ModerationStatusVisible,
	}
	// unique(booking_id) closes the duplicate-submission race; the repo
	// surfaces the violation as a Conflict.
	if err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ModerateReview(ctx context.Context, adminID, reviewID int64, status domain.ModerationStatus, flagged bool) (*domain.Review, error) {
	if status != domain.ModerationStatusVisible && status != domain.ModerationStatusHidden {
		return nil, apperr.Validation("moderation status must be VISIBLE or HIDDEN")
	}

	admin, err := s.store.Users().GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.Role.CanModerate() {
		return nil, apperr.Authorization("only staff may moderate reviews")
	}

	if err := s.store.Reviews().UpdateModeration(ctx, reviewID, status, flagged); err != nil {
		return nil, err
	}
	return s.store.Reviews().GetByID(ctx, reviewID)
}
