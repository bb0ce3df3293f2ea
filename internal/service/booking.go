package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/clock"
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
	"rentloop-backend/internal/utils"
)

type bookingService struct {
	store      repository.Store
	compliance ComplianceService
	penalty    PenaltyService
	emailSvc   EmailService
	clk        clock.Clock
	cfg        config.BookingConfig
}

func NewBookingService(
	store repository.Store,
	compliance ComplianceService,
	penalty PenaltyService,
	emailSvc EmailService,
	clk clock.Clock,
	cfg config.BookingConfig,
) BookingService {
	return &bookingService{
		store:      store,
		compliance: compliance,
		penalty:    penalty,
		emailSvc:   emailSvc,
		clk:        clk,
		cfg:        cfg,
	}
}

// dateOnly truncates t to UTC midnight; bookings are date-granular.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *bookingService) initialStatus() domain.BookingStatus {
	if s.cfg.PayBeforeConfirmation {
		return domain.BookingStatusPendingPayment
	}
	if s.cfg.RequireVendorApproval {
		return domain.BookingStatusPendingConfirmation
	}
	return domain.BookingStatusConfirmed
}

func (s *bookingService) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	start := dateOnly(req.StartDate)
	end := dateOnly(req.EndDate)

	if !start.Before(end) {
		return nil, apperr.Validation("start date must be before end date")
	}
	if start.Before(dateOnly(s.clk.Now())) {
		return nil, apperr.Validation("start date must not be in the past")
	}
	if req.TotalAmountCents < 0 || req.DeliveryFeeCents < 0 {
		return nil, apperr.Validation("amounts must not be negative")
	}

	if err := s.compliance.CheckGate(ctx, req.RenterID); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:        uuid.NewString(),
		UnitID:           req.UnitID,
		RenterID:         req.RenterID,
		StartDate:        start,
		EndDate:          end,
		Status:           s.initialStatus(),
		TotalAmountCents: req.TotalAmountCents,
		DeliveryMethod:   req.DeliveryMethod,
		DeliveryFeeCents: req.DeliveryFeeCents,
	}

	var unit *domain.Unit
	// Lock, check, insert: the unit row lock serializes concurrent attempts
	// for the same unit so the overlap check and insert commit atomically.
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		unit, err = tx.Units().GetForUpdate(ctx, req.UnitID)
		if err != nil {
			return err
		}

		quote, err := utils.QuoteBooking(start, end, unit, req.DeliveryFeeCents)
		if err != nil {
			return apperr.Validation(err.Error())
		}
		if booking.TotalAmountCents == 0 {
			booking.TotalAmountCents = quote.TotalCents
		} else if booking.TotalAmountCents != quote.TotalCents {
			return apperr.Validation(fmt.Sprintf("total amount mismatch: expected %d cents", quote.TotalCents))
		}

		overlap, err := tx.Bookings().HasOverlap(ctx, req.UnitID, start, end, 0)
		if err != nil {
			return err
		}
		if overlap {
			return apperr.Conflict("unit is already booked for the requested dates")
		}

		return tx.Bookings().Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.notifyBookingRequested(ctx, booking, unit)
	return booking, nil
}

func (s *bookingService) notifyBookingRequested(ctx context.Context, b *domain.Booking, unit *domain.Unit) {
	owner, err := s.store.Users().GetByID(ctx, unit.OwnerID)
	if err != nil {
		logger.Warn("owner lookup failed for booking notification", "booking_id", b.ID, "error", err)
		return
	}
	renter, err := s.store.Users().GetByID(ctx, b.RenterID)
	if err != nil {
		logger.Warn("renter lookup failed for booking notification", "booking_id", b.ID, "error", err)
		return
	}

	if err := s.emailSvc.SendBookingRequested(ctx, owner.Email, renter.Name, unit.Name, b.StartDate, b.EndDate); err != nil {
		logger.Warn("booking request email failed", "booking_id", b.ID, "error", err)
	}

	note := &domain.Notification{
		UserID:  owner.ID,
		Title:   "New Booking Request",
		Message: fmt.Sprintf("%s requested %s from %s to %s", renter.Name, unit.Name, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02")),
		Attributes: map[string]string{
			"type":       "BOOKING_REQUESTED",
			"booking_id": fmt.Sprintf("%d", b.ID),
		},
	}
	if err := s.store.Notifications().Create(ctx, note); err != nil {
		logger.Warn("booking request notification failed", "booking_id", b.ID, "error", err)
	}
}

func (s *bookingService) notifyRenter(ctx context.Context, b *domain.Booking, title, message, noteType string) {
	renter, err := s.store.Users().GetByID(ctx, b.RenterID)
	if err != nil {
		logger.Warn("renter lookup failed", "booking_id", b.ID, "error", err)
		return
	}
	note := &domain.Notification{
		UserID:  renter.ID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":       noteType,
			"booking_id": fmt.Sprintf("%d", b.ID),
		},
	}
	if err := s.store.Notifications().Create(ctx, note); err != nil {
		logger.Warn("renter notification failed", "booking_id", b.ID, "error", err)
	}
}

// actorMayManage reports whether the actor is the renter or holds a staff
// role.
func (s *bookingService) actorMayManage(ctx context.Context, actorID int64, b *domain.Booking) (bool, error) {
	if actorID == b.RenterID {
		return true, nil
	}
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	return actor.Role.CanModerate(), nil
}

func (s *bookingService) mustBeUnitOwner(ctx context.Context, actorID int64, b *domain.Booking) (*domain.Unit, error) {
	unit, err := s.store.Units().GetByID(ctx, b.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.OwnerID == actorID {
		return unit, nil
	}
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanModerate() {
		return nil, apperr.Authorization("only the unit owner may perform this action")
	}
	return unit, nil
}

func (s *bookingService) Cancel(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error) {
	var booking *domain.Booking
	// Lock the row before the status guard so a concurrent transition
	// cannot commit between the read and the write.
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		allowed, err := s.actorMayManage(ctx, actorID, booking)
		if err != nil {
			return err
		}
		if !allowed {
			return apperr.Authorization("only the renter may cancel this booking")
		}

		if booking.Status.IsTerminal() {
			return apperr.State("booking can no longer be cancelled", string(booking.Status))
		}

		booking.Status = domain.BookingStatusCancelled
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.notifyRenter(ctx, booking, "Booking Cancelled",
		fmt.Sprintf("Booking %s was cancelled", booking.Reference), "BOOKING_CANCELLED")
	return booking, nil
}

func (s *bookingService) Extend(ctx context.Context, actorID, bookingID int64, newEndDate time.Time) (*domain.Booking, error) {
	newEnd := dateOnly(newEndDate)

	var booking *domain.Booking
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.RenterID != actorID {
			return apperr.Authorization("only the renter may extend this booking")
		}
		if booking.Status != domain.BookingStatusConfirmed {
			return apperr.State("only confirmed bookings can be extended", string(booking.Status))
		}
		if !newEnd.After(booking.EndDate) {
			return apperr.Validation("new end date must be after the current end date")
		}

		// Same serialization as create: lock the unit, then re-check the
		// whole extended range, ignoring this booking's own row.
		if _, err := tx.Units().GetForUpdate(ctx, booking.UnitID); err != nil {
			return err
		}
		overlap, err := tx.Bookings().HasOverlap(ctx, booking.UnitID, booking.StartDate, newEnd, booking.ID)
		if err != nil {
			return err
		}
		if overlap {
			return apperr.Conflict("unit is already booked during the extension window")
		}

		// Amount recalculation is the billing collaborator's concern.
		booking.EndDate = newEnd
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) Return(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.RenterID != actorID {
			return apperr.Authorization("only the renter may return this booking")
		}
		if booking.Status != domain.BookingStatusActive {
			return apperr.State("only active bookings can be returned", string(booking.Status))
		}

		booking.Status = domain.BookingStatusCompleted
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	// Trigger point for the late fine. The sweep covers bookings nobody
	// returns, so a failure here is logged, not surfaced.
	if _, err := s.penalty.CalculateLateFine(ctx, booking.ID); err != nil {
		logger.Warn("late fine calculation failed on return", "booking_id", booking.ID, "error", err)
	}

	return booking, nil
}

func (s *bookingService) Approve(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error) {
	var booking *domain.Booking
	var unit *domain.Unit
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		unit, err = s.mustBeUnitOwner(ctx, actorID, booking)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingStatusPendingConfirmation {
			return apperr.State("booking is not awaiting vendor confirmation", string(booking.Status))
		}

		booking.Status = domain.BookingStatusConfirmed
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if renter, rerr := s.store.Users().GetByID(ctx, booking.RenterID); rerr == nil {
		if err := s.emailSvc.SendBookingConfirmed(ctx, renter.Email, unit.Name); err != nil {
			logger.Warn("booking confirmation email failed", "booking_id", booking.ID, "error", err)
		}
	}
	s.notifyRenter(ctx, booking, "Booking Confirmed",
		fmt.Sprintf("Your booking for %s was confirmed", unit.Name), "BOOKING_CONFIRMED")
	return booking, nil
}

func (s *bookingService) Reject(ctx context.Context, actorID, bookingID int64, reason string) (*domain.Booking, error) {
	var booking *domain.Booking
	var unit *domain.Unit
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		unit, err = s.mustBeUnitOwner(ctx, actorID, booking)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingStatusPendingConfirmation {
			return apperr.State("booking is not awaiting vendor confirmation", string(booking.Status))
		}

		booking.Status = domain.BookingStatusCancelled
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if renter, rerr := s.store.Users().GetByID(ctx, booking.RenterID); rerr == nil {
		if err := s.emailSvc.SendBookingCancelled(ctx, renter.Email, unit.Name, reason); err != nil {
			logger.Warn("booking rejection email failed", "booking_id", booking.ID, "error", err)
		}
	}
	s.notifyRenter(ctx, booking, "Booking Rejected",
		fmt.Sprintf("Your booking for %s was rejected: %s", unit.Name, reason), "BOOKING_REJECTED")
	return booking, nil
}

func (s *bookingService) Start(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if _, err := s.mustBeUnitOwner(ctx, actorID, booking); err != nil {
			return err
		}
		if booking.Status != domain.BookingStatusConfirmed {
			return apperr.State("only confirmed bookings can be handed over", string(booking.Status))
		}

		booking.Status = domain.BookingStatusActive
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID == actorID {
		return booking, nil
	}
	unit, err := s.store.Units().GetByID(ctx, booking.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.OwnerID == actorID {
		return booking, nil
	}
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanModerate() {
		return nil, apperr.Authorization("not a party to this booking")
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, int32, error) {
	return s.store.Bookings().List(ctx, filter)
}

func (s *bookingService) HandlePaymentEvent(ctx context.Context, event domain.PaymentEvent) (*domain.Booking, error) {
	switch event.Kind {
	case domain.PaymentEventCaptured, domain.PaymentEventFailed, domain.PaymentEventRefund:
	default:
		return nil, apperr.Validation(fmt.Sprintf("unknown payment event kind %q", event.Kind))
	}

	var booking *domain.Booking
	var notifyTitle, notifyType string
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetForUpdate(ctx, event.BookingID)
		if err != nil {
			return err
		}

		switch event.Kind {
		case domain.PaymentEventCaptured:
			if booking.Paid {
				// Gateways redeliver; a captured event for a paid booking is a no-op.
				return nil
			}
			booking.Paid = true
			if booking.Status == domain.BookingStatusPendingPayment {
				if s.cfg.RequireVendorApproval {
					booking.Status = domain.BookingStatusPendingConfirmation
				} else {
					booking.Status = domain.BookingStatusConfirmed
				}
			}
			notifyTitle, notifyType = "Payment Received", "PAYMENT_CAPTURED"
			return tx.Bookings().Update(ctx, booking)

		case domain.PaymentEventFailed:
			if booking.Status != domain.BookingStatusPendingPayment {
				logger.Info("ignoring payment failure for booking not awaiting payment",
					"booking_id", booking.ID, "status", booking.Status)
				return nil
			}
			booking.Status = domain.BookingStatusPaymentFailed
			notifyTitle, notifyType = "Payment Failed", "PAYMENT_FAILED"
			return tx.Bookings().Update(ctx, booking)

		default: // refund
			amount := event.AmountCents
			if amount > 0 {
				amount = -amount
			}
			fine := &domain.Fine{
				BookingID:   booking.ID,
				AmountCents: amount,
				Reason:      domain.FineReasonRefund,
				Paid:        true,
				Status:      domain.FineStatusResolved,
			}
			return tx.Fines().Create(ctx, fine)
		}
	})
	if err != nil {
		return nil, err
	}

	switch notifyType {
	case "PAYMENT_CAPTURED":
		s.notifyRenter(ctx, booking, notifyTitle,
			fmt.Sprintf("Payment for booking %s was captured", booking.Reference), notifyType)
	case "PAYMENT_FAILED":
		s.notifyRenter(ctx, booking, notifyTitle,
			fmt.Sprintf("Payment for booking %s failed", booking.Reference), notifyType)
	}
	return booking, nil
}

func (s *bookingService) ExpireStale(ctx context.Context) (int, error) {
	now := s.clk.Now()

	failed, err := s.store.Bookings().ExpireStale(ctx,
		domain.BookingStatusPendingPayment, domain.BookingStatusPaymentFailed,
		now.Add(-time.Duration(s.cfg.PaymentTimeoutMinutes)*time.Minute))
	if err != nil {
		return 0, err
	}

	expired, err := s.store.Bookings().ExpireStale(ctx,
		domain.BookingStatusPendingConfirmation, domain.BookingStatusExpired,
		now.Add(-time.Duration(s.cfg.ApprovalTimeoutMinutes)*time.Minute))
	if err != nil {
		return len(failed), err
	}

	for i := range failed {
		s.notifyRenter(ctx, &failed[i], "Booking Expired",
			fmt.Sprintf("Booking %s expired awaiting payment", failed[i].Reference), "BOOKING_EXPIRED")
	}
	for i := range expired {
		s.notifyRenter(ctx, &expired[i], "Booking Expired",
			fmt.Sprintf("Booking %s expired awaiting vendor confirmation", expired[i].Reference), "BOOKING_EXPIRED")
	}

	return len(failed) + len(expired), nil
}
