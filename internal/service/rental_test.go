package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/lifecycle"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/notify"
	"encore-rentals/internal/repository"
	"encore-rentals/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var blocking = []domain.RentalStatus{domain.RentalStatusPending, domain.RentalStatusConfirmed, domain.RentalStatusActive}

func guitar() *domain.Instrument {
	return &domain.Instrument{
		ID: "i1", HostID: "h1", Name: "Fender Stratocaster", Category: "Guitar",
		PricePerDay: decimal.NewFromInt(18), ImageEmoji: "🎸", IsAvailable: true,
	}
}

func TestRentalService_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		instRepo := new(MockInstrumentRepo)
		userRepo := new(MockUserRepo)
		notifier := new(MockNotifier)
		svc := service.NewRentalService(rentalRepo, instRepo, userRepo, lifecycle.NoOverlap{}, notifier)

		instRepo.On("GetByID", ctx, "i1").Return(guitar(), nil)
		rentalRepo.On("ListByInstrument", ctx, "i1", blocking).Return([]domain.Rental{}, nil)
		rentalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Rental).ID = "rent-1" }).
			Return(nil)
		userRepo.On("GetByID", ctx, "r1").Return(&domain.User{ID: "r1", Name: "Ada"}, nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(m notify.Message) bool {
			return m.UserID == "h1" && m.Data["rental_id"] == "rent-1"
		})).Return(nil)

		rt, quote, err := svc.Book(ctx, "r1", "i1", "2025-06-10", "2025-06-14")
		require.NoError(t, err)
		assert.Equal(t, "rent-1", rt.ID)
		assert.Equal(t, domain.RentalStatusPending, rt.Status)
		assert.Equal(t, "h1", rt.HostID)
		assert.Equal(t, "Fender Stratocaster", rt.InstrumentName)
		assert.Equal(t, 4, quote.Days)
		assert.True(t, rt.TotalPrice.Equal(decimal.RequireFromString("79.2")))
		notifier.AssertExpectations(t)
	})

	t.Run("Notification failure does not fail booking", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		instRepo := new(MockInstrumentRepo)
		userRepo := new(MockUserRepo)
		notifier := new(MockNotifier)
		svc := service.NewRentalService(rentalRepo, instRepo, userRepo, nil, notifier)

		instRepo.On("GetByID", ctx, "i1").Return(guitar(), nil)
		rentalRepo.On("ListByInstrument", ctx, "i1", blocking).Return([]domain.Rental{}, nil)
		rentalRepo.On("Create", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByID", ctx, "r1").Return(nil, repository.ErrNotFound)
		notifier.On("Notify", ctx, mock.Anything).Return(errors.New("smtp down"))

		_, _, err := svc.Book(ctx, "r1", "i1", "2025-06-10", "2025-06-10")
		assert.NoError(t, err)
	})

	t.Run("Unavailable", func(t *testing.T) {
		instRepo := new(MockInstrumentRepo)
		svc := service.NewRentalService(new(MockRentalRepo), instRepo, new(MockUserRepo), nil, nil)
		inst := guitar()
		inst.IsAvailable = false
		instRepo.On("GetByID", ctx, "i1").Return(inst, nil)

		_, _, err := svc.Book(ctx, "r1", "i1", "2025-06-10", "2025-06-14")
		assert.ErrorIs(t, err, service.ErrInstrumentUnavailable)
	})

	t.Run("Own instrument", func(t *testing.T) {
		instRepo := new(MockInstrumentRepo)
		svc := service.NewRentalService(new(MockRentalRepo), instRepo, new(MockUserRepo), nil, nil)
		instRepo.On("GetByID", ctx, "i1").Return(guitar(), nil)

		_, _, err := svc.Book(ctx, "h1", "i1", "2025-06-10", "2025-06-14")
		assert.ErrorIs(t, err, service.ErrOwnInstrument)
	})

	t.Run("Overlap rejected", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		instRepo := new(MockInstrumentRepo)
		svc := service.NewRentalService(rentalRepo, instRepo, new(MockUserRepo), lifecycle.NoOverlap{}, nil)

		instRepo.On("GetByID", ctx, "i1").Return(guitar(), nil)
		rentalRepo.On("ListByInstrument", ctx, "i1", blocking).Return([]domain.Rental{
			{ID: "other", InstrumentID: "i1", StartDate: "2025-06-12", EndDate: "2025-06-20", Status: domain.RentalStatusConfirmed},
		}, nil)

		_, _, err := svc.Book(ctx, "r1", "i1", "2025-06-10", "2025-06-14")
		assert.ErrorIs(t, err, lifecycle.ErrBookingConflict)
		rentalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Bad date", func(t *testing.T) {
		instRepo := new(MockInstrumentRepo)
		svc := service.NewRentalService(new(MockRentalRepo), instRepo, new(MockUserRepo), nil, nil)
		instRepo.On("GetByID", ctx, "i1").Return(guitar(), nil)

		_, _, err := svc.Book(ctx, "r1", "i1", "2025-02-30", "2025-03-02")
		assert.Error(t, err)
	})
}

func TestRentalService_Book_LogsFailedExit(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	prev := logger.SetDefault(logger.New(&buf, "debug", "text"))
	t.Cleanup(func() { logger.SetDefault(prev) })

	unavailable := guitar()
	unavailable.IsAvailable = false

	tests := []struct {
		name     string
		renterID string
		inst     *domain.Instrument
		start    string
		listErr  error
		existing []domain.Rental
	}{
		{name: "unavailable", renterID: "r1", inst: unavailable, start: "2025-06-10"},
		{name: "own instrument", renterID: "h1", inst: guitar(), start: "2025-06-10"},
		{name: "bad dates", renterID: "r1", inst: guitar(), start: "2025-02-30"},
		{name: "list failure", renterID: "r1", inst: guitar(), start: "2025-06-10", listErr: errors.New("db down")},
		{name: "overlap", renterID: "r1", inst: guitar(), start: "2025-06-10", existing: []domain.Rental{
			{ID: "other", InstrumentID: "i1", StartDate: "2025-06-12", EndDate: "2025-06-20", Status: domain.RentalStatusConfirmed},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			rentalRepo := new(MockRentalRepo)
			instRepo := new(MockInstrumentRepo)
			svc := service.NewRentalService(rentalRepo, instRepo, new(MockUserRepo), lifecycle.NoOverlap{}, nil)
			instRepo.On("GetByID", ctx, "i1").Return(tt.inst, nil)
			rentalRepo.On("ListByInstrument", ctx, "i1", blocking).Return(tt.existing, tt.listErr)

			_, _, err := svc.Book(ctx, tt.renterID, "i1", tt.start, "2025-06-14")
			require.Error(t, err)

			out := buf.String()
			assert.Equal(t, 1, strings.Count(out, "Method exited with error"), out)
			assert.Contains(t, out, "method=rentalService.Book")
		})
	}
}

func pendingRental() *domain.Rental {
	return &domain.Rental{
		ID: "rent-1", InstrumentID: "i1", RenterID: "r1", HostID: "h1",
		StartDate: "2025-06-10", EndDate: "2025-06-14", TotalPrice: decimal.RequireFromString("79.2"),
		Status: domain.RentalStatusPending, InstrumentName: "Fender Stratocaster", InstrumentEmoji: "🎸",
	}
}

func TestRentalService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		notifier := new(MockNotifier)
		svc := service.NewRentalService(rentalRepo, new(MockInstrumentRepo), new(MockUserRepo), nil, notifier)

		confirmed := pendingRental()
		confirmed.Status = domain.RentalStatusConfirmed
		rentalRepo.On("GetByID", ctx, "rent-1").Return(pendingRental(), nil)
		rentalRepo.On("UpdateStatus", ctx, "rent-1", domain.RentalStatusPending, domain.RentalStatusConfirmed).Return(confirmed, nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(m notify.Message) bool { return m.UserID == "r1" })).Return(nil)

		rt, err := svc.Approve(ctx, "h1", "rent-1")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusConfirmed, rt.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("Not the host", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := service.NewRentalService(rentalRepo, new(MockInstrumentRepo), new(MockUserRepo), nil, nil)
		rentalRepo.On("GetByID", ctx, "rent-1").Return(pendingRental(), nil)

		_, err := svc.Approve(ctx, "intruder", "rent-1")
		assert.ErrorIs(t, err, service.ErrNotOwner)
		rentalRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not pending", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := service.NewRentalService(rentalRepo, new(MockInstrumentRepo), new(MockUserRepo), nil, nil)
		active := pendingRental()
		active.Status = domain.RentalStatusActive
		rentalRepo.On("GetByID", ctx, "rent-1").Return(active, nil)

		_, err := svc.Approve(ctx, "h1", "rent-1")
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
		rentalRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Status changed after the read", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		notifier := new(MockNotifier)
		svc := service.NewRentalService(rentalRepo, new(MockInstrumentRepo), new(MockUserRepo), nil, notifier)
		rentalRepo.On("GetByID", ctx, "rent-1").Return(pendingRental(), nil)
		rentalRepo.On("UpdateStatus", ctx, "rent-1", domain.RentalStatusPending, domain.RentalStatusConfirmed).
			Return(nil, repository.ErrConflict)

		_, err := svc.Approve(ctx, "h1", "rent-1")
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := service.NewRentalService(rentalRepo, new(MockInstrumentRepo), new(MockUserRepo), nil, nil)
		rentalRepo.On("GetByID", ctx, "ghost").Return(nil, repository.ErrNotFound)

		_, err := svc.Approve(ctx, "h1", "ghost")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestRentalService_DeclineStartComplete(t *testing.T) {
	ctx := context.Background()
	rentalRepo := new(MockRentalRepo)
	notifier := new(MockNotifier)
	svc := service.NewRentalService(rentalRepo, new(MockInstrumentRepo), new(MockUserRepo), nil, notifier)

	cancelled := pendingRental()
	cancelled.Status = domain.RentalStatusCancelled
	rentalRepo.On("GetByID", ctx, "rent-1").Return(pendingRental(), nil).Once()
	rentalRepo.On("UpdateStatus", ctx, "rent-1", domain.RentalStatusPending, domain.RentalStatusCancelled).Return(cancelled, nil)
	notifier.On("Notify", ctx, mock.Anything).Return(nil)

	rt, err := svc.Decline(ctx, "h1", "rent-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCancelled, rt.Status)

	confirmed := pendingRental()
	confirmed.Status = domain.RentalStatusConfirmed
	active := pendingRental()
	active.Status = domain.RentalStatusActive
	rentalRepo.On("GetByID", ctx, "rent-2").Return(confirmed, nil).Once()
	rentalRepo.On("UpdateStatus", ctx, "rent-1", domain.RentalStatusConfirmed, domain.RentalStatusActive).Return(active, nil)

	rt, err = svc.Start(ctx, "h1", "rent-2")
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusActive, rt.Status)

	rentalRepo.On("GetByID", ctx, "rent-3").Return(confirmed, nil).Once()
	_, err = svc.Complete(ctx, "h1", "rent-3")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestRentalService_Lists(t *testing.T) {
	ctx := context.Background()
	rentalRepo := new(MockRentalRepo)
	svc := service.NewRentalService(rentalRepo, new(MockInstrumentRepo), new(MockUserRepo), nil, nil)

	rentals := []domain.Rental{
		{ID: "a", Status: domain.RentalStatusPending},
		{ID: "b", Status: domain.RentalStatusActive},
		{ID: "c", Status: domain.RentalStatusCompleted},
		{ID: "d", Status: domain.RentalStatusConfirmed},
	}
	rentalRepo.On("ListByHost", ctx, "h1").Return(rentals, nil)
	rentalRepo.On("ListByRenter", ctx, "r1").Return(rentals, nil)

	host, err := svc.ListForHost(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, host.Pending, 1)
	assert.Len(t, host.Upcoming, 2)
	assert.Len(t, host.Past, 1)

	renter, err := svc.ListForRenter(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, renter.Current, 3)
	assert.Len(t, renter.History, 1)
}
