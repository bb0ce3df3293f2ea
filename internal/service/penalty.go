package service

import (
	"context"
	"fmt"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/clock"
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
	"rentloop-backend/internal/utils"
)

type penaltyService struct {
	store      repository.Store
	compliance ComplianceService
	emailSvc   EmailService
	clk        clock.Clock
	cfg        config.PenaltyConfig
}

func NewPenaltyService(
	store repository.Store,
	compliance ComplianceService,
	emailSvc EmailService,
	clk clock.Clock,
	cfg config.PenaltyConfig,
) PenaltyService {
	return &penaltyService{
		store:      store,
		compliance: compliance,
		emailSvc:   emailSvc,
		clk:        clk,
		cfg:        cfg,
	}
}

func (s *penaltyService) CalculateLateFine(ctx context.Context, bookingID int64) (*domain.Fine, error) {
	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Idempotence: one late-return fine per booking. The unique index is the
	// authoritative guard; this lookup just avoids the round trip.
	if existing, err := s.store.Fines().GetByBookingAndReason(ctx, bookingID, domain.FineReasonLateReturn); err == nil {
		return existing, nil
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	unit, err := s.store.Units().GetByID(ctx, booking.UnitID)
	if err != nil {
		return nil, err
	}

	amount := utils.LateFee(booking.ScheduledEnd(), s.clk.Now(), unit,
		s.cfg.DefaultLateFeePerHourCents, s.cfg.DefaultGracePeriodMinutes)
	if amount == 0 {
		return nil, nil
	}

	fine := &domain.Fine{
		BookingID:   booking.ID,
		AmountCents: amount,
		Reason:      domain.FineReasonLateReturn,
		Paid:        false,
		Status:      domain.FineStatusPending,
	}
	if err := s.store.Fines().Create(ctx, fine); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// Lost the race against the sweep or a concurrent return; the
			// existing fine wins.
			return s.store.Fines().GetByBookingAndReason(ctx, bookingID, domain.FineReasonLateReturn)
		}
		return nil, err
	}

	if _, err := s.compliance.RecordEvent(ctx, booking.RenterID, domain.ComplianceEventLateReturn,
		fmt.Sprintf("late return on booking %d", booking.ID)); err != nil {
		logger.Warn("compliance event for late return failed", "booking_id", booking.ID, "error", err)
	}

	if renter, rerr := s.store.Users().GetByID(ctx, booking.RenterID); rerr == nil {
		if err := s.emailSvc.SendLateFineNotice(ctx, renter.Email, unit.Name, fine.AmountCents); err != nil {
			logger.Warn("late fine email failed", "booking_id", booking.ID, "error", err)
		}
	}

	return fine, nil
}

func (s *penaltyService) ReportDamage(ctx context.Context, reporterID, bookingID int64, description string, imageURLs []string) (*domain.DamageReport, error) {
	if description == "" {
		return nil, apperr.Validation("damage description is required")
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	unit, err := s.store.Units().GetByID(ctx, booking.UnitID)
	if err != nil {
		return nil, err
	}
	if reporterID != booking.RenterID && reporterID != unit.OwnerID {
		return nil, apperr.Authorization("only a party to the booking may report damage")
	}

	report := &domain.DamageReport{
		BookingID:   bookingID,
		ReporterID:  reporterID,
		Description: description,
		ImageURLs:   imageURLs,
		Status:      domain.DamageReportStatusPending,
	}
	if err := s.store.DamageReports().Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *penaltyService) requireReviewer(ctx context.Context, reviewerID int64) error {
	reviewer, err := s.store.Users().GetByID(ctx, reviewerID)
	if err != nil {
		return err
	}
	if !reviewer.Role.CanModerate() {
		return apperr.Authorization("only staff may review damage reports")
	}
	return nil
}

// ApproveDamage marks the report approved, posts the damage fine and moves
// the booking to COMPLETED_WITH_DAMAGES in one transaction.
func (s *penaltyService) ApproveDamage(ctx context.Context, reviewerID, reportID int64, fineAmountCents int64, notes string) (*domain.DamageReport, error) {
	if fineAmountCents <= 0 {
		return nil, apperr.Validation("damage fine amount must be positive")
	}
	if err := s.requireReviewer(ctx, reviewerID); err != nil {
		return nil, err
	}

	var report *domain.DamageReport
	var booking *domain.Booking
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		report, err = tx.DamageReports().GetByID(ctx, reportID)
		if err != nil {
			return err
		}
		if report.Status != domain.DamageReportStatusPending {
			return apperr.State("damage report already reviewed", string(report.Status))
		}

		booking, err = tx.Bookings().GetForUpdate(ctx, report.BookingID)
		if err != nil {
			return err
		}

		report.Status = domain.DamageReportStatusApproved
		report.FineAmountCents = &fineAmountCents
		report.AdminNotes = notes
		if err := tx.DamageReports().Update(ctx, report); err != nil {
			return err
		}

		// Damage fines are deducted from the held deposit immediately, so
		// they are born paid; late fines start unpaid.
		fine := &domain.Fine{
			BookingID:   booking.ID,
			AmountCents: fineAmountCents,
			Reason:      domain.FineReasonDamage,
			Paid:        true,
			Status:      domain.FineStatusPending,
		}
		if err := tx.Fines().Create(ctx, fine); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCompletedDamages
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.compliance.RecordEvent(ctx, booking.RenterID, domain.ComplianceEventDamageConfirmed,
		fmt.Sprintf("damage confirmed on booking %d", booking.ID)); err != nil {
		logger.Warn("compliance event for damage failed", "booking_id", booking.ID, "error", err)
	}

	if renter, rerr := s.store.Users().GetByID(ctx, booking.RenterID); rerr == nil {
		if unit, uerr := s.store.Units().GetByID(ctx, booking.UnitID); uerr == nil {
			if err := s.emailSvc.SendDamageFineNotice(ctx, renter.Email, unit.Name, fineAmountCents); err != nil {
				logger.Warn("damage fine email failed", "booking_id", booking.ID, "error", err)
			}
		}
	}

	return report, nil
}

func (s *penaltyService) RejectDamage(ctx context.Context, reviewerID, reportID int64, notes string) (*domain.DamageReport, error) {
	if err := s.requireReviewer(ctx, reviewerID); err != nil {
		return nil, err
	}

	report, err := s.store.DamageReports().GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.DamageReportStatusPending {
		return nil, apperr.State("damage report already reviewed", string(report.Status))
	}

	report.Status = domain.DamageReportStatusRejected
	report.AdminNotes = notes
	if err := s.store.DamageReports().Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *penaltyService) ListFines(ctx context.Context, filter repository.FineFilter) ([]domain.Fine, int32, error) {
	return s.store.Fines().List(ctx, filter)
}

func (s *penaltyService) ProcessLateBookings(ctx context.Context) (int, error) {
	overdue, err := s.store.Bookings().ListOverdueActive(ctx, s.clk.Now())
	if err != nil {
		return 0, err
	}

	fined := 0
	for i := range overdue {
		fine, err := s.CalculateLateFine(ctx, overdue[i].ID)
		if err != nil {
			logger.Error("late fine sweep failed for booking", "booking_id", overdue[i].ID, "error", err)
			continue
		}
		if fine != nil {
			fined++
		}
	}
	return fined, nil
}
