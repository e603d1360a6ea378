package service

import (
	"context"
	"errors"
	"fmt"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/lifecycle"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/notify"
	"encore-rentals/internal/pricing"
	"encore-rentals/internal/repository"
)

type rentalService struct {
	rentalRepo     repository.RentalRepository
	instrumentRepo repository.InstrumentRepository
	userRepo       repository.UserRepository
	validator      lifecycle.BookingValidator
	notifier       notify.Notifier
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	instrumentRepo repository.InstrumentRepository,
	userRepo repository.UserRepository,
	validator lifecycle.BookingValidator,
	notifier notify.Notifier,
) RentalService {
	if validator == nil {
		validator = lifecycle.AllowAll{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &rentalService{
		rentalRepo:     rentalRepo,
		instrumentRepo: instrumentRepo,
		userRepo:       userRepo,
		validator:      validator,
		notifier:       notifier,
	}
}

func (s *rentalService) Book(ctx context.Context, renterID, instrumentID, startDate, endDate string) (*domain.Rental, pricing.Quote, error) {
	logger.EnterMethod("rentalService.Book", "renter_id", renterID, "instrument_id", instrumentID)

	inst, err := s.instrumentRepo.GetByID(ctx, instrumentID)
	if err != nil {
		logger.ExitMethodWithError("rentalService.Book", err)
		return nil, pricing.Quote{}, fmt.Errorf("failed to load instrument: %w", err)
	}
	if !inst.IsAvailable {
		logger.ExitMethodWithError("rentalService.Book", ErrInstrumentUnavailable)
		return nil, pricing.Quote{}, ErrInstrumentUnavailable
	}
	if inst.HostID == renterID {
		logger.ExitMethodWithError("rentalService.Book", ErrOwnInstrument)
		return nil, pricing.Quote{}, ErrOwnInstrument
	}

	rental, quote, err := lifecycle.Book(inst, lifecycle.BookingRequest{
		RenterID:  renterID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.Book", err)
		return nil, pricing.Quote{}, err
	}

	existing, err := s.rentalRepo.ListByInstrument(ctx, inst.ID,
		domain.RentalStatusPending, domain.RentalStatusConfirmed, domain.RentalStatusActive)
	if err != nil {
		logger.ExitMethodWithError("rentalService.Book", err)
		return nil, pricing.Quote{}, fmt.Errorf("failed to load existing bookings: %w", err)
	}
	if err := s.validator.Validate(ctx, rental, existing); err != nil {
		logger.ExitMethodWithError("rentalService.Book", err)
		return nil, pricing.Quote{}, err
	}

	if err := s.rentalRepo.Create(ctx, &rental); err != nil {
		logger.ExitMethodWithError("rentalService.Book", err)
		return nil, pricing.Quote{}, fmt.Errorf("failed to store rental: %w", err)
	}

	renterName := "A renter"
	if renter, err := s.userRepo.GetByID(ctx, renterID); err == nil {
		renterName = renter.Name
	}
	notify.Send(ctx, s.notifier, notify.RentalRequested(rental, renterName))

	logger.ExitMethod("rentalService.Book", "rental_id", rental.ID, "total", quote.Total.String())
	return &rental, quote, nil
}

func (s *rentalService) Approve(ctx context.Context, hostID, rentalID string) (*domain.Rental, error) {
	rt, err := s.transition(ctx, hostID, rentalID, lifecycle.Approve)
	if err != nil {
		return nil, err
	}
	notify.Send(ctx, s.notifier, notify.RentalApproved(*rt))
	return rt, nil
}

func (s *rentalService) Decline(ctx context.Context, hostID, rentalID string) (*domain.Rental, error) {
	rt, err := s.transition(ctx, hostID, rentalID, lifecycle.Decline)
	if err != nil {
		return nil, err
	}
	notify.Send(ctx, s.notifier, notify.RentalDeclined(*rt))
	return rt, nil
}

// Start marks a confirmed rental as handed over.
func (s *rentalService) Start(ctx context.Context, hostID, rentalID string) (*domain.Rental, error) {
	return s.transition(ctx, hostID, rentalID, lifecycle.Activate)
}

// Complete marks an active rental as returned.
func (s *rentalService) Complete(ctx context.Context, hostID, rentalID string) (*domain.Rental, error) {
	return s.transition(ctx, hostID, rentalID, lifecycle.Complete)
}

// transition checks ownership and the state machine before writing the new
// status. The write only lands if the rental still has the status that was
// checked, so of two racing transitions from the same status one fails with
// ErrInvalidTransition. On any error nothing is written.
func (s *rentalService) transition(ctx context.Context, hostID, rentalID string, step func(domain.Rental) (domain.Rental, error)) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.HostID != hostID {
		return nil, ErrNotOwner
	}
	next, err := step(*rt)
	if err != nil {
		return nil, fmt.Errorf("rental %s is %s: %w", rt.ID, rt.Status, err)
	}

	stored, err := s.rentalRepo.UpdateStatus(ctx, rt.ID, rt.Status, next.Status)
	if errors.Is(err, repository.ErrConflict) {
		logger.Warn("Rental status changed concurrently", "rental_id", rt.ID, "from", rt.Status, "to", next.Status)
		return nil, fmt.Errorf("rental %s is no longer %s: %w", rt.ID, rt.Status, lifecycle.ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update rental status: %w", err)
	}
	logger.Info("Rental status changed", "rental_id", rt.ID, "from", rt.Status, "to", stored.Status)
	return stored, nil
}

func (s *rentalService) ListForHost(ctx context.Context, hostID string) (lifecycle.HostGroups, error) {
	rentals, err := s.rentalRepo.ListByHost(ctx, hostID)
	if err != nil {
		return lifecycle.HostGroups{}, err
	}
	return lifecycle.GroupForHost(rentals), nil
}

func (s *rentalService) ListForRenter(ctx context.Context, renterID string) (lifecycle.RenterGroups, error) {
	rentals, err := s.rentalRepo.ListByRenter(ctx, renterID)
	if err != nil {
		return lifecycle.RenterGroups{}, err
	}
	return lifecycle.GroupForRenter(rentals), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
