package service

import (
	"context"
	"fmt"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
)

type disputeService struct {
	store      repository.Store
	compliance ComplianceService
	emailSvc   EmailService
}

func NewDisputeService(store repository.Store, compliance ComplianceService, emailSvc EmailService) DisputeService {
	return &disputeService{store: store, compliance: compliance, emailSvc: emailSvc}
}

// RaiseDispute opens a dispute and parks the fine as DISPUTED in one
// transaction, so the fine drops out of collectable views immediately.
func (s *disputeService) RaiseDispute(ctx context.Context, userID, fineID int64, description string) (*domain.DisputeReport, error) {
	if description == "" {
		return nil, apperr.Validation("dispute description is required")
	}

	var dispute *domain.DisputeReport
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		fine, err := tx.Fines().GetByID(ctx, fineID)
		if err != nil {
			return err
		}

		booking, err := tx.Bookings().GetByID(ctx, fine.BookingID)
		if err != nil {
			return err
		}
		if booking.RenterID != userID {
			return apperr.Authorization("only the fined renter may dispute this fine")
		}

		if fine.Status == domain.FineStatusDisputed {
			return apperr.Conflict("fine is already under dispute")
		}
		if fine.Status == domain.FineStatusResolved {
			return apperr.State("fine is already settled", string(fine.Status))
		}

		dispute = &domain.DisputeReport{
			FineID:      fineID,
			BookingID:   fine.BookingID,
			RaisedBy:    userID,
			Kind:        domain.DisputeKindFine,
			Description: description,
			Status:      domain.DisputeStatusOpen,
		}
		if err := tx.Disputes().Create(ctx, dispute); err != nil {
			return err
		}
		return tx.Fines().UpdateStatus(ctx, fineID, domain.FineStatusDisputed)
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

// ResolveDispute settles the dispute and flips the linked fine: resolved
// voids it, rejected reverts it to PENDING so collection resumes.
func (s *disputeService) ResolveDispute(ctx context.Context, adminID, disputeID int64, outcome domain.DisputeStatus, notes string) (*domain.DisputeReport, error) {
	if outcome != domain.DisputeStatusResolved && outcome != domain.DisputeStatusRejected {
		return nil, apperr.Validation("outcome must be RESOLVED or REJECTED")
	}

	admin, err := s.store.Users().GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.Role.CanModerate() {
		return nil, apperr.Authorization("only staff may resolve disputes")
	}

	var dispute *domain.DisputeReport
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		dispute, err = tx.Disputes().GetByID(ctx, disputeID)
		if err != nil {
			return err
		}
		if dispute.Status != domain.DisputeStatusOpen {
			return apperr.State("dispute is already resolved", string(dispute.Status))
		}

		dispute.Status = outcome
		dispute.ResolutionNotes = notes
		if err := tx.Disputes().Update(ctx, dispute); err != nil {
			return err
		}

		fineStatus := domain.FineStatusResolved
		if outcome == domain.DisputeStatusRejected {
			fineStatus = domain.FineStatusPending
		}
		return tx.Fines().UpdateStatus(ctx, dispute.FineID, fineStatus)
	})
	if err != nil {
		return nil, err
	}

	if outcome == domain.DisputeStatusRejected {
		if _, err := s.compliance.RecordEvent(ctx, dispute.RaisedBy, domain.ComplianceEventDisputeRejected,
			fmt.Sprintf("dispute %d rejected", dispute.ID)); err != nil {
			logger.Warn("compliance event for rejected dispute failed", "dispute_id", dispute.ID, "error", err)
		}
	}

	if raiser, rerr := s.store.Users().GetByID(ctx, dispute.RaisedBy); rerr == nil {
		if err := s.emailSvc.SendDisputeOutcome(ctx, raiser.Email, string(outcome), notes); err != nil {
			logger.Warn("dispute outcome email failed", "dispute_id", dispute.ID, "error", err)
		}
	}

	return dispute, nil
}
