package service_test

import (
	"context"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/notify"
	"encore-rentals/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, r *domain.Rental) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus) (*domain.Rental, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID string) ([]domain.Rental, error) {
	args := m.Called(ctx, renterID)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) ListByHost(ctx context.Context, hostID string) ([]domain.Rental, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) ListByInstrument(ctx context.Context, instrumentID string, statuses ...domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, instrumentID, statuses)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) ListStartingBetween(ctx context.Context, status domain.RentalStatus, from, to string) ([]domain.Rental, error) {
	args := m.Called(ctx, status, from, to)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type MockInstrumentRepo struct {
	mock.Mock
}

func (m *MockInstrumentRepo) Create(ctx context.Context, i *domain.Instrument) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInstrumentRepo) GetByID(ctx context.Context, id string) (*domain.Instrument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepo) List(ctx context.Context, q repository.InstrumentQuery) ([]domain.Instrument, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepo) ListByHost(ctx context.Context, hostID string) ([]domain.Instrument, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]domain.Instrument), args.Error(1)
}

func (m *MockInstrumentRepo) SetAvailability(ctx context.Context, id string, available bool) (*domain.Instrument, error) {
	args := m.Called(ctx, id, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Instrument), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepo) GetByRental(ctx context.Context, rentalID string) (*domain.Review, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg notify.Message) error {
	return m.Called(ctx, msg).Error(0)
}
