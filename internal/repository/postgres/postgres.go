package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentloop-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repository code serves both plain and transactional access.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  DBTX

	bookings      repository.BookingRepository
	units         repository.UnitRepository
	fines         repository.FineRepository
	damageReports repository.DamageReportRepository
	disputes      repository.DisputeRepository
	reviews       repository.ReviewRepository
	users         repository.UserRepository
	compliance    repository.ComplianceRepository
	notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, q DBTX) *Store {
	return &Store{
		db:            db,
		q:             q,
		bookings:      NewBookingRepository(q),
		units:         NewUnitRepository(q),
		fines:         NewFineRepository(q),
		damageReports: NewDamageReportRepository(q),
		disputes:      NewDisputeRepository(q),
		reviews:       NewReviewRepository(q),
		users:         NewUserRepository(q),
		compliance:    NewComplianceRepository(q),
		notifications: NewNotificationRepository(q),
	}
}

func (s *Store) Bookings() repository.BookingRepository           { return s.bookings }
func (s *Store) Units() repository.UnitRepository                 { return s.units }
func (s *Store) Fines() repository.FineRepository                 { return s.fines }
func (s *Store) DamageReports() repository.DamageReportRepository { return s.damageReports }
func (s *Store) Disputes() repository.DisputeRepository           { return s.disputes }
func (s *Store) Reviews() repository.ReviewRepository             { return s.reviews }
func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Compliance() repository.ComplianceRepository      { return s.compliance }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }

// WithinTx runs fn against a transaction-scoped Store. The transaction is
// rolled back on error or panic and committed otherwise. Nested calls reuse
// the surrounding transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newStore(s.db, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return translateTxErr(err)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)
