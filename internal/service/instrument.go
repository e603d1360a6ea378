package service

import (
	"context"
	"strings"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultListingName     = "Unnamed Instrument"
	defaultListingLocation = "Unknown"
)

var defaultPricePerDay = decimal.NewFromInt(10)

// ListingInput is the "add instrument" form. Empty fields get defaults.
type ListingInput struct {
	Name        string
	Category    string
	Description string
	PricePerDay string
	ImageEmoji  string
	Location    string
}

type instrumentService struct {
	instrumentRepo repository.InstrumentRepository
}

func NewInstrumentService(instrumentRepo repository.InstrumentRepository) InstrumentService {
	return &instrumentService{instrumentRepo: instrumentRepo}
}

func (s *instrumentService) Browse(ctx context.Context, category, search string) ([]domain.Instrument, error) {
	return s.instrumentRepo.List(ctx, repository.InstrumentQuery{
		Category: category,
		Search:   strings.TrimSpace(search),
	})
}

func (s *instrumentService) Get(ctx context.Context, id string) (*domain.Instrument, error) {
	return s.instrumentRepo.GetByID(ctx, id)
}

func (s *instrumentService) AddListing(ctx context.Context, hostID string, in ListingInput) (*domain.Instrument, error) {
	inst := NewListing(hostID, in)
	if err := s.instrumentRepo.Create(ctx, inst); err != nil {
		return nil, err
	}
	logger.Info("Listing created", "instrument_id", inst.ID, "host_id", hostID)
	return inst, nil
}

// NewListing applies the form defaults: a name and location placeholder, a
// price of 10 when the price is missing or unparsable, available, no reviews.
func NewListing(hostID string, in ListingInput) *domain.Instrument {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultListingName
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = defaultListingLocation
	}
	category := in.Category
	if !domain.IsCategory(category) {
		category = domain.Categories[0]
	}
	emoji := in.ImageEmoji
	if emoji == "" {
		emoji = domain.EmojiOptions[0]
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.PricePerDay))
	if err != nil || price.IsNegative() {
		price = defaultPricePerDay
	}

	return &domain.Instrument{
		HostID:      hostID,
		Name:        name,
		Category:    category,
		Description: in.Description,
		PricePerDay: price,
		ImageEmoji:  emoji,
		Location:    location,
		IsAvailable: true,
	}
}

func (s *instrumentService) ToggleAvailability(ctx context.Context, hostID, instrumentID string) (*domain.Instrument, error) {
	inst, err := s.instrumentRepo.GetByID(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	if inst.HostID != hostID {
		return nil, ErrNotOwner
	}
	return s.instrumentRepo.SetAvailability(ctx, inst.ID, !inst.IsAvailable)
}

func (s *instrumentService) ListForHost(ctx context.Context, hostID string) ([]domain.Instrument, error) {
	return s.instrumentRepo.ListByHost(ctx, hostID)
}

// FilterInstruments is the browse screen's local filter: an exact category
// ("All" matches everything) and a case-insensitive search on name or category.
func FilterInstruments(list []domain.Instrument, category, search string) []domain.Instrument {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Instrument, 0, len(list))
	for _, inst := range list {
		if category != "" && category != domain.CategoryAll && inst.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(inst.Name), search) &&
			!strings.Contains(strings.ToLower(inst.Category), search) {
			continue
		}
		out = append(out, inst)
	}
	return out
}
