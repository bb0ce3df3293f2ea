package service

import (
	"context"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
)

type complianceService struct {
	store repository.Store
	cfg   config.ComplianceConfig
}

func NewComplianceService(store repository.Store, cfg config.ComplianceConfig) ComplianceService {
	return &complianceService{store: store, cfg: cfg}
}

func (s *complianceService) weightFor(kind domain.ComplianceEventKind) int32 {
	switch kind {
	case domain.ComplianceEventLateReturn:
		return s.cfg.LateReturnWeight
	case domain.ComplianceEventDamageConfirmed:
		return s.cfg.DamageWeight
	case domain.ComplianceEventDisputeRejected:
		return s.cfg.DisputeRejectedWeight
	default:
		return 0
	}
}

func (s *complianceService) CheckGate(ctx context.Context, userID int64) error {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Blocked {
		return apperr.Compliance(apperr.CodeAccountBlocked, "account is blocked")
	}
	if user.FraudScore >= s.cfg.VerificationThreshold {
		// Not a hard failure: the caller routes to identity verification.
		return apperr.Compliance(apperr.CodeVerificationRequired, "additional verification required before booking")
	}
	return nil
}

// RecordEvent appends one ledger row and updates the cached projection in the
// same transaction, auto-blocking when the score crosses the threshold.
func (s *complianceService) RecordEvent(ctx context.Context, userID int64, kind domain.ComplianceEventKind, note string) (*domain.ComplianceState, error) {
	delta := s.weightFor(kind)
	if delta == 0 {
		return nil, apperr.Validation("unknown compliance event kind")
	}

	var state *domain.ComplianceState
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		event := &domain.ComplianceEvent{
			UserID: userID,
			Kind:   kind,
			Delta:  delta,
			Note:   note,
		}
		if err := tx.Compliance().InsertEvent(ctx, event); err != nil {
			return err
		}

		var err error
		state, err = tx.Compliance().ApplyScoreDelta(ctx, userID, delta, s.cfg.BlockThreshold)
		return err
	})
	if err != nil {
		return nil, err
	}

	if state.Blocked {
		logger.Warn("user auto-blocked by fraud score", "user_id", userID, "fraud_score", state.FraudScore)
	}
	return state, nil
}

// ResetScore is the only path that lowers a score to zero; it is recorded in
// the ledger like every other adjustment.
func (s *complianceService) ResetScore(ctx context.Context, adminID, userID int64, note string) error {
	admin, err := s.store.Users().GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.Role.CanModerate() {
		return apperr.Authorization("only staff may reset a fraud score")
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		event := &domain.ComplianceEvent{
			UserID: userID,
			Kind:   domain.ComplianceEventAdminReset,
			Delta:  -user.FraudScore,
			Note:   note,
		}
		if err := tx.Compliance().InsertEvent(ctx, event); err != nil {
			return err
		}
		return tx.Compliance().ResetScore(ctx, userID)
	})
}

func (s *complianceService) GetState(ctx context.Context, userID int64) (*domain.ComplianceState, []domain.ComplianceEvent, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.store.Compliance().ListEvents(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	state := &domain.ComplianceState{
		UserID:     user.ID,
		FraudScore: user.FraudScore,
		Blocked:    user.Blocked,
	}
	return state, events, nil
}
