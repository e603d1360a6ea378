package service

import (
	"context"
	"sort"
	"time"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/pricing"
	"encore-rentals/internal/repository"

	"github.com/shopspring/decimal"
)

type MonthlyEarning struct {
	Month  string // yyyy-mm
	Amount decimal.Decimal
}

// HostDashboard is the summary shown on the host home screen.
type HostDashboard struct {
	TotalEarnings decimal.Decimal
	ThisMonth     decimal.Decimal
	Monthly       []MonthlyEarning // oldest first
	Listings      int
	Bookings      int
	Rating        float64 // review-weighted average over listings
}

type dashboardService struct {
	rentalRepo     repository.RentalRepository
	instrumentRepo repository.InstrumentRepository
	now            func() time.Time
}

func NewDashboardService(rentalRepo repository.RentalRepository, instrumentRepo repository.InstrumentRepository) DashboardService {
	return &dashboardService{rentalRepo: rentalRepo, instrumentRepo: instrumentRepo, now: time.Now}
}

func (s *dashboardService) HostDashboard(ctx context.Context, hostID string) (*HostDashboard, error) {
	rentals, err := s.rentalRepo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	listings, err := s.instrumentRepo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}

	d := Earnings(rentals, s.now())
	d.Listings = len(listings)
	d.Rating = averageRating(listings)
	return d, nil
}

// Earnings totals completed rentals, bucketed by the month they ended in.
// Bookings counts every rental that was not cancelled.
func Earnings(rentals []domain.Rental, now time.Time) *HostDashboard {
	d := &HostDashboard{TotalEarnings: decimal.Zero, ThisMonth: decimal.Zero}
	thisMonth := now.Format("2006-01")
	byMonth := map[string]decimal.Decimal{}

	for _, r := range rentals {
		if r.Status != domain.RentalStatusCancelled {
			d.Bookings++
		}
		if r.Status != domain.RentalStatusCompleted {
			continue
		}
		d.TotalEarnings = d.TotalEarnings.Add(r.TotalPrice)
		end, err := pricing.ParseDate(r.EndDate)
		if err != nil {
			continue
		}
		month := end.Format("2006-01")
		byMonth[month] = byMonth[month].Add(r.TotalPrice)
	}

	for month, amount := range byMonth {
		d.Monthly = append(d.Monthly, MonthlyEarning{Month: month, Amount: amount})
	}
	sort.Slice(d.Monthly, func(i, j int) bool { return d.Monthly[i].Month < d.Monthly[j].Month })
	if amount, ok := byMonth[thisMonth]; ok {
		d.ThisMonth = amount
	}
	return d
}

func averageRating(listings []domain.Instrument) float64 {
	var weighted float64
	var reviews int
	for _, l := range listings {
		weighted += l.Rating * float64(l.ReviewCount)
		reviews += l.ReviewCount
	}
	if reviews == 0 {
		return 0
	}
	return weighted / float64(reviews)
}
