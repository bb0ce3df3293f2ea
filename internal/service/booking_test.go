package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/clock"
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bookingTestConfig() config.BookingConfig {
	return config.BookingConfig{
		RequireVendorApproval:  true,
		PayBeforeConfirmation:  true,
		PaymentTimeoutMinutes:  30,
		ApprovalTimeoutMinutes: 24 * 60,
	}
}

func newBookingFixture() (*mockStore, *MockComplianceService, *MockPenaltyService, *MockEmailService, service.BookingService) {
	store := newMockStore()
	compliance := new(MockComplianceService)
	penalty := new(MockPenaltyService)
	email := new(MockEmailService)
	svc := service.NewBookingService(store, compliance, penalty, email, clock.Fixed(testNow), bookingTestConfig())
	return store, compliance, penalty, email, svc
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()
	unit := &domain.Unit{ID: 5, OwnerID: 2, Name: "Pressure Washer", PricePerDayCents: 1000}
	owner := &domain.User{ID: 2, Email: "owner@test.com", Name: "Owner"}
	renter := &domain.User{ID: 1, Email: "renter@test.com", Name: "Renter"}

	t.Run("Computes total and creates", func(t *testing.T) {
		store, compliance, _, email, svc := newBookingFixture()
		compliance.On("CheckGate", ctx, int64(1)).Return(nil).Once()
		store.units.On("GetForUpdate", ctx, int64(5)).Return(unit, nil).Once()
		store.bookings.On("HasOverlap", ctx, int64(5), date(2026, 9, 10), date(2026, 9, 12), int64(0)).Return(false, nil).Once()
		store.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusPendingPayment &&
				b.TotalAmountCents == 2000 &&
				b.Reference != "" &&
				!b.Paid
		})).Return(nil).Once()
		store.users.On("GetByID", ctx, int64(2)).Return(owner, nil).Once()
		store.users.On("GetByID", ctx, int64(1)).Return(renter, nil).Once()
		email.On("SendBookingRequested", ctx, "owner@test.com", "Renter", "Pressure Washer", date(2026, 9, 10), date(2026, 9, 12)).Return(nil).Once()
		store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

		booking, err := svc.Create(ctx, service.CreateBookingRequest{
			RenterID:       1,
			UnitID:         5,
			StartDate:      date(2026, 9, 10),
			EndDate:        date(2026, 9, 12),
			DeliveryMethod: domain.DeliveryMethodPickup,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPendingPayment, booking.Status)
		assert.Equal(t, int64(2000), booking.TotalAmountCents)
		store.bookings.AssertExpectations(t)
	})

	t.Run("Rejects overlapping range", func(t *testing.T) {
		store, compliance, _, _, svc := newBookingFixture()
		compliance.On("CheckGate", ctx, int64(1)).Return(nil).Once()
		store.units.On("GetForUpdate", ctx, int64(5)).Return(unit, nil).Once()
		store.bookings.On("HasOverlap", ctx, int64(5), date(2026, 9, 10), date(2026, 9, 12), int64(0)).Return(true, nil).Once()

		_, err := svc.Create(ctx, service.CreateBookingRequest{
			RenterID: 1, UnitID: 5, StartDate: date(2026, 9, 10), EndDate: date(2026, 9, 12),
		})
		assert.True(t, apperr.Is(err, apperr.KindConflict))
		store.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Rejects mismatched total", func(t *testing.T) {
		store, compliance, _, _, svc := newBookingFixture()
		compliance.On("CheckGate", ctx, int64(1)).Return(nil).Once()
		store.units.On("GetForUpdate", ctx, int64(5)).Return(unit, nil).Once()

		_, err := svc.Create(ctx, service.CreateBookingRequest{
			RenterID: 1, UnitID: 5, StartDate: date(2026, 9, 10), EndDate: date(2026, 9, 12),
			TotalAmountCents: 999,
		})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("Rejects inverted range", func(t *testing.T) {
		_, _, _, _, svc := newBookingFixture()
		_, err := svc.Create(ctx, service.CreateBookingRequest{
			RenterID: 1, UnitID: 5, StartDate: date(2026, 9, 12), EndDate: date(2026, 9, 12),
		})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("Rejects past start date", func(t *testing.T) {
		_, _, _, _, svc := newBookingFixture()
		_, err := svc.Create(ctx, service.CreateBookingRequest{
			RenterID: 1, UnitID: 5, StartDate: date(2026, 8, 20), EndDate: date(2026, 9, 12),
		})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("Blocked renter cannot book", func(t *testing.T) {
		store, compliance, _, _, svc := newBookingFixture()
		compliance.On("CheckGate", ctx, int64(1)).
			Return(apperr.Compliance(apperr.CodeAccountBlocked, "account is blocked")).Once()

		_, err := svc.Create(ctx, service.CreateBookingRequest{
			RenterID: 1, UnitID: 5, StartDate: date(2026, 9, 10), EndDate: date(2026, 9, 12),
		})
		assert.True(t, apperr.Is(err, apperr.KindCompliance))
		assert.Equal(t, apperr.CodeAccountBlocked, apperr.CodeOf(err))
		store.units.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Renter cancels pending booking", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, Reference: "ref-7", RenterID: 1, Status: domain.BookingStatusPendingConfirmation}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusCancelled
		})).Return(nil).Once()
		store.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil).Once()
		store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.Cancel(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, got.Status)
	})

	t.Run("Completed booking cannot be cancelled", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusCompleted}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()

		_, err := svc.Cancel(ctx, 1, 7)
		assert.True(t, apperr.Is(err, apperr.KindState))
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Cancel racing a return sees the completed row", func(t *testing.T) {
		// The locked read observes the status committed by a concurrent
		// return, so the stale ACTIVE snapshot never reaches the write.
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusCompleted}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()

		_, err := svc.Cancel(ctx, 1, 7)
		assert.True(t, apperr.Is(err, apperr.KindState))
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Stranger cannot cancel", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusConfirmed}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.users.On("GetByID", ctx, int64(99)).Return(&domain.User{ID: 99, Role: domain.RoleRenter}, nil).Once()

		_, err := svc.Cancel(ctx, 99, 7)
		assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	})

	t.Run("Staff may cancel on behalf of renter", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusConfirmed}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.users.On("GetByID", ctx, int64(50)).Return(&domain.User{ID: 50, Role: domain.RoleStaff}, nil).Once()
		store.bookings.On("Update", ctx, mock.Anything).Return(nil).Once()
		store.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil).Once()
		store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.Cancel(ctx, 50, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, got.Status)
	})
}

func TestBookingService_Extend(t *testing.T) {
	ctx := context.Background()

	base := func() *domain.Booking {
		return &domain.Booking{
			ID: 7, UnitID: 5, RenterID: 1,
			StartDate: date(2026, 9, 10), EndDate: date(2026, 9, 12),
			Status: domain.BookingStatusConfirmed,
		}
	}

	t.Run("Extends when window is free", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := base()
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.units.On("GetForUpdate", ctx, int64(5)).Return(&domain.Unit{ID: 5}, nil).Once()
		store.bookings.On("HasOverlap", ctx, int64(5), date(2026, 9, 10), date(2026, 9, 14), int64(7)).Return(false, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.EndDate.Equal(date(2026, 9, 14))
		})).Return(nil).Once()

		got, err := svc.Extend(ctx, 1, 7, date(2026, 9, 14))
		assert.NoError(t, err)
		assert.Equal(t, date(2026, 9, 14), got.EndDate)
	})

	t.Run("Conflicting extension is rejected", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(base(), nil).Once()
		store.units.On("GetForUpdate", ctx, int64(5)).Return(&domain.Unit{ID: 5}, nil).Once()
		store.bookings.On("HasOverlap", ctx, int64(5), date(2026, 9, 10), date(2026, 9, 14), int64(7)).Return(true, nil).Once()

		_, err := svc.Extend(ctx, 1, 7, date(2026, 9, 14))
		assert.True(t, apperr.Is(err, apperr.KindConflict))
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("New end must move forward", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(base(), nil).Once()

		_, err := svc.Extend(ctx, 1, 7, date(2026, 9, 12))
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("Only confirmed bookings extend", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := base()
		booking.Status = domain.BookingStatusActive
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()

		_, err := svc.Extend(ctx, 1, 7, date(2026, 9, 14))
		assert.True(t, apperr.Is(err, apperr.KindState))
	})
}

func TestBookingService_Return(t *testing.T) {
	ctx := context.Background()

	t.Run("Completes and triggers late fine check", func(t *testing.T) {
		store, _, penalty, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusActive}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusCompleted
		})).Return(nil).Once()
		penalty.On("CalculateLateFine", ctx, int64(7)).Return(nil, nil).Once()

		got, err := svc.Return(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCompleted, got.Status)
		penalty.AssertExpectations(t)
	})

	t.Run("Fine calculation failure does not fail the return", func(t *testing.T) {
		store, _, penalty, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusActive}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.Anything).Return(nil).Once()
		penalty.On("CalculateLateFine", ctx, int64(7)).Return(nil, assert.AnError).Once()

		got, err := svc.Return(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCompleted, got.Status)
	})

	t.Run("Only active bookings return", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusConfirmed}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()

		_, err := svc.Return(ctx, 1, 7)
		assert.True(t, apperr.Is(err, apperr.KindState))
	})
}

func TestBookingService_ApproveReject(t *testing.T) {
	ctx := context.Background()
	unit := &domain.Unit{ID: 5, OwnerID: 2, Name: "Pressure Washer"}

	t.Run("Owner approves", func(t *testing.T) {
		store, _, _, email, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, UnitID: 5, RenterID: 1, Status: domain.BookingStatusPendingConfirmation}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.units.On("GetByID", ctx, int64(5)).Return(unit, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusConfirmed
		})).Return(nil).Once()
		store.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Email: "renter@test.com"}, nil)
		email.On("SendBookingConfirmed", ctx, "renter@test.com", "Pressure Washer").Return(nil).Once()
		store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.Approve(ctx, 2, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
	})

	t.Run("Non-owner cannot approve", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, UnitID: 5, RenterID: 1, Status: domain.BookingStatusPendingConfirmation}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.units.On("GetByID", ctx, int64(5)).Return(unit, nil).Once()
		store.users.On("GetByID", ctx, int64(99)).Return(&domain.User{ID: 99, Role: domain.RoleRenter}, nil).Once()

		_, err := svc.Approve(ctx, 99, 7)
		assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	})

	t.Run("Reject cancels with reason", func(t *testing.T) {
		store, _, _, email, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, UnitID: 5, RenterID: 1, Status: domain.BookingStatusPendingConfirmation}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.units.On("GetByID", ctx, int64(5)).Return(unit, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusCancelled
		})).Return(nil).Once()
		store.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Email: "renter@test.com"}, nil)
		email.On("SendBookingCancelled", ctx, "renter@test.com", "Pressure Washer", "unavailable").Return(nil).Once()
		store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.Reject(ctx, 2, 7, "unavailable")
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, got.Status)
	})

	t.Run("Approve racing the expiry sweep sees the expired row", func(t *testing.T) {
		// Once the sweep commits EXPIRED the unit may be rebooked; the
		// locked read keeps the approval from resurrecting occupancy.
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, UnitID: 5, RenterID: 1, Status: domain.BookingStatusExpired}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.units.On("GetByID", ctx, int64(5)).Return(unit, nil).Once()

		_, err := svc.Approve(ctx, 2, 7)
		assert.True(t, apperr.Is(err, apperr.KindState))
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Approve requires pending confirmation", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, UnitID: 5, RenterID: 1, Status: domain.BookingStatusConfirmed}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.units.On("GetByID", ctx, int64(5)).Return(unit, nil).Once()

		_, err := svc.Approve(ctx, 2, 7)
		assert.True(t, apperr.Is(err, apperr.KindState))
	})
}

func TestBookingService_HandlePaymentEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Captured advances to vendor confirmation", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, Reference: "ref-7", RenterID: 1, Status: domain.BookingStatusPendingPayment}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Paid && b.Status == domain.BookingStatusPendingConfirmation
		})).Return(nil).Once()
		store.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil).Once()
		store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.HandlePaymentEvent(ctx, domain.PaymentEvent{BookingID: 7, Kind: domain.PaymentEventCaptured})
		assert.NoError(t, err)
		assert.True(t, got.Paid)
		assert.Equal(t, domain.BookingStatusPendingConfirmation, got.Status)
	})

	t.Run("Redelivered capture is a no-op", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Paid: true, Status: domain.BookingStatusPendingConfirmation}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()

		got, err := svc.HandlePaymentEvent(ctx, domain.PaymentEvent{BookingID: 7, Kind: domain.PaymentEventCaptured})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPendingConfirmation, got.Status)
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Failure outside pending payment is ignored", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusConfirmed}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()

		got, err := svc.HandlePaymentEvent(ctx, domain.PaymentEvent{BookingID: 7, Kind: domain.PaymentEventFailed})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Failure moves pending payment to failed", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, Reference: "ref-7", RenterID: 1, Status: domain.BookingStatusPendingPayment}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusPaymentFailed
		})).Return(nil).Once()
		store.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil).Once()
		store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.HandlePaymentEvent(ctx, domain.PaymentEvent{BookingID: 7, Kind: domain.PaymentEventFailed})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPaymentFailed, got.Status)
	})

	t.Run("Refund posts a negative settled fine", func(t *testing.T) {
		store, _, _, _, svc := newBookingFixture()
		booking := &domain.Booking{ID: 7, RenterID: 1, Status: domain.BookingStatusCancelled}
		store.bookings.On("GetForUpdate", ctx, int64(7)).Return(booking, nil).Once()
		store.fines.On("Create", ctx, mock.MatchedBy(func(f *domain.Fine) bool {
			return f.AmountCents == -2500 &&
				f.Reason == domain.FineReasonRefund &&
				f.Paid &&
				f.Status == domain.FineStatusResolved
		})).Return(nil).Once()

		_, err := svc.HandlePaymentEvent(ctx, domain.PaymentEvent{BookingID: 7, Kind: domain.PaymentEventRefund, AmountCents: 2500})
		assert.NoError(t, err)
		store.fines.AssertExpectations(t)
	})
}

func TestBookingService_ExpireStale(t *testing.T) {
	ctx := context.Background()
	store, _, _, _, svc := newBookingFixture()

	paymentCutoff := testNow.Add(-30 * time.Minute)
	approvalCutoff := testNow.Add(-24 * time.Hour)

	failed := []domain.Booking{{ID: 1, Reference: "a", RenterID: 10, Status: domain.BookingStatusPaymentFailed}}
	expired := []domain.Booking{{ID: 2, Reference: "b", RenterID: 11, Status: domain.BookingStatusExpired}}

	store.bookings.On("ExpireStale", ctx, domain.BookingStatusPendingPayment, domain.BookingStatusPaymentFailed, paymentCutoff).Return(failed, nil).Once()
	store.bookings.On("ExpireStale", ctx, domain.BookingStatusPendingConfirmation, domain.BookingStatusExpired, approvalCutoff).Return(expired, nil).Once()
	store.users.On("GetByID", ctx, int64(10)).Return(&domain.User{ID: 10}, nil).Once()
	store.users.On("GetByID", ctx, int64(11)).Return(&domain.User{ID: 11}, nil).Once()
	store.notifications.On("Create", ctx, mock.Anything).Return(nil).Twice()

	n, err := svc.ExpireStale(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	store.bookings.AssertExpectations(t)
}
