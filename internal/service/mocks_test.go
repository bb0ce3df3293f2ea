package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

// mockStore hands out the repository mocks and runs transactions inline, so
// service tests exercise the same code paths with and without WithinTx.
type mockStore struct {
	bookings      *MockBookingRepo
	units         *MockUnitRepo
	fines         *MockFineRepo
	damageReports *MockDamageRepo
	disputes      *MockDisputeRepo
	reviews       *MockReviewRepo
	users         *MockUserRepo
	compliance    *MockComplianceRepo
	notifications *MockNotificationRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		bookings:      new(MockBookingRepo),
		units:         new(MockUnitRepo),
		fines:         new(MockFineRepo),
		damageReports: new(MockDamageRepo),
		disputes:      new(MockDisputeRepo),
		reviews:       new(MockReviewRepo),
		users:         new(MockUserRepo),
		compliance:    new(MockComplianceRepo),
		notifications: new(MockNotificationRepo),
	}
}

func (s *mockStore) Bookings() repository.BookingRepository           { return s.bookings }
func (s *mockStore) Units() repository.UnitRepository                 { return s.units }
func (s *mockStore) Fines() repository.FineRepository                 { return s.fines }
func (s *mockStore) DamageReports() repository.DamageReportRepository { return s.damageReports }
func (s *mockStore) Disputes() repository.DisputeRepository           { return s.disputes }
func (s *mockStore) Reviews() repository.ReviewRepository             { return s.reviews }
func (s *mockStore) Users() repository.UserRepository                 { return s.users }
func (s *mockStore) Compliance() repository.ComplianceRepository      { return s.compliance }
func (s *mockStore) Notifications() repository.NotificationRepository { return s.notifications }

func (s *mockStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepo) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

func (m *MockBookingRepo) HasOverlap(ctx context.Context, unitID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	args := m.Called(ctx, unitID, start, end, excludeBookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) ExpireStale(ctx context.Context, fromStatus, toStatus domain.BookingStatus, cutoff time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, fromStatus, toStatus, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListOverdueActive(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockUnitRepo struct{ mock.Mock }

func (m *MockUnitRepo) Create(ctx context.Context, u *domain.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepo) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

type MockFineRepo struct{ mock.Mock }

func (m *MockFineRepo) Create(ctx context.Context, f *domain.Fine) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFineRepo) GetByID(ctx context.Context, id int64) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockFineRepo) GetByBookingAndReason(ctx context.Context, bookingID int64, reason domain.FineReason) (*domain.Fine, error) {
	args := m.Called(ctx, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockFineRepo) UpdateStatus(ctx context.Context, id int64, status domain.FineStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFineRepo) MarkPaid(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFineRepo) List(ctx context.Context, filter repository.FineFilter) ([]domain.Fine, int32, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Fine), args.Get(1).(int32), args.Error(2)
}

type MockDamageRepo struct{ mock.Mock }

func (m *MockDamageRepo) Create(ctx context.Context, r *domain.DamageReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDamageRepo) GetByID(ctx context.Context, id int64) (*domain.DamageReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageReport), args.Error(1)
}

func (m *MockDamageRepo) Update(ctx context.Context, r *domain.DamageReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDamageRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.DamageReport, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DamageReport), args.Error(1)
}

type MockDisputeRepo struct{ mock.Mock }

func (m *MockDisputeRepo) Create(ctx context.Context, d *domain.DisputeReport) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDisputeRepo) GetByID(ctx context.Context, id int64) (*domain.DisputeReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisputeReport), args.Error(1)
}

func (m *MockDisputeRepo) GetOpenByFine(ctx context.Context, fineID int64) (*domain.DisputeReport, error) {
	args := m.Called(ctx, fineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisputeReport), args.Error(1)
}

func (m *MockDisputeRepo) Update(ctx context.Context, d *domain.DisputeReport) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type MockReviewRepo struct{ mock.Mock }

func (m *MockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepo) GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepo) UpdateModeration(ctx context.Context, id int64, status domain.ModerationStatus, flagged bool) error {
	args := m.Called(ctx, id, status, flagged)
	return args.Error(0)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockComplianceRepo struct{ mock.Mock }

func (m *MockComplianceRepo) InsertEvent(ctx context.Context, e *domain.ComplianceEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockComplianceRepo) ApplyScoreDelta(ctx context.Context, userID int64, delta, blockThreshold int32) (*domain.ComplianceState, error) {
	args := m.Called(ctx, userID, delta, blockThreshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceState), args.Error(1)
}

func (m *MockComplianceRepo) ResetScore(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockComplianceRepo) ListEvents(ctx context.Context, userID int64) ([]domain.ComplianceEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplianceEvent), args.Error(1)
}

type MockNotificationRepo struct{ mock.Mock }

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendBookingRequested(ctx context.Context, to, renterName, unitName string, start, end time.Time) error {
	args := m.Called(ctx, to, renterName, unitName, start, end)
	return args.Error(0)
}

func (m *MockEmailService) SendBookingConfirmed(ctx context.Context, to, unitName string) error {
	args := m.Called(ctx, to, unitName)
	return args.Error(0)
}

func (m *MockEmailService) SendBookingCancelled(ctx context.Context, to, unitName, reason string) error {
	args := m.Called(ctx, to, unitName, reason)
	return args.Error(0)
}

func (m *MockEmailService) SendLateFineNotice(ctx context.Context, to, unitName string, amountCents int64) error {
	args := m.Called(ctx, to, unitName, amountCents)
	return args.Error(0)
}

func (m *MockEmailService) SendDamageFineNotice(ctx context.Context, to, unitName string, amountCents int64) error {
	args := m.Called(ctx, to, unitName, amountCents)
	return args.Error(0)
}

func (m *MockEmailService) SendDisputeOutcome(ctx context.Context, to string, outcome, notes string) error {
	args := m.Called(ctx, to, outcome, notes)
	return args.Error(0)
}

type MockComplianceService struct{ mock.Mock }

func (m *MockComplianceService) CheckGate(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockComplianceService) RecordEvent(ctx context.Context, userID int64, kind domain.ComplianceEventKind, note string) (*domain.ComplianceState, error) {
	args := m.Called(ctx, userID, kind, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceState), args.Error(1)
}

func (m *MockComplianceService) ResetScore(ctx context.Context, adminID, userID int64, note string) error {
	args := m.Called(ctx, adminID, userID, note)
	return args.Error(0)
}

func (m *MockComplianceService) GetState(ctx context.Context, userID int64) (*domain.ComplianceState, []domain.ComplianceEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ComplianceState), args.Get(1).([]domain.ComplianceEvent), args.Error(2)
}

type MockPenaltyService struct{ mock.Mock }

func (m *MockPenaltyService) CalculateLateFine(ctx context.Context, bookingID int64) (*domain.Fine, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockPenaltyService) ReportDamage(ctx context.Context, reporterID, bookingID int64, description string, imageURLs []string) (*domain.DamageReport, error) {
	args := m.Called(ctx, reporterID, bookingID, description, imageURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageReport), args.Error(1)
}

func (m *MockPenaltyService) ApproveDamage(ctx context.Context, reviewerID, reportID int64, fineAmountCents int64, notes string) (*domain.DamageReport, error) {
	args := m.Called(ctx, reviewerID, reportID, fineAmountCents, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageReport), args.Error(1)
}

func (m *MockPenaltyService) RejectDamage(ctx context.Context, reviewerID, reportID int64, notes string) (*domain.DamageReport, error) {
	args := m.Called(ctx, reviewerID, reportID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageReport), args.Error(1)
}

func (m *MockPenaltyService) ListFines(ctx context.Context, filter repository.FineFilter) ([]domain.Fine, int32, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Fine), args.Get(1).(int32), args.Error(2)
}

func (m *MockPenaltyService) ProcessLateBookings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
