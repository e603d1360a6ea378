// Package app assembles the client stack: one gateway, one session, and the
// services reading and writing through the signed-in user's token.
package app

import (
	"net/http"

	"encore-rentals/internal/config"
	"encore-rentals/internal/gateway"
	"encore-rentals/internal/lifecycle"
	"encore-rentals/internal/notify"
	"encore-rentals/internal/repository/rest"
	"encore-rentals/internal/service"
	"encore-rentals/internal/session"
)

type App struct {
	Session     *session.Manager
	Rentals     service.RentalService
	Instruments service.InstrumentService
	Reviews     service.ReviewService
	Users       service.UserService
	Dashboard   service.DashboardService
}

type Options struct {
	HTTPClient *http.Client
	// Notifier receives booking notifications; nil disables them.
	Notifier notify.Notifier
}

// New wires the app against the backend named in cfg.
func New(cfg *config.Config, opts Options) (*App, error) {
	gw, err := gateway.New(gateway.Config{
		URL:        cfg.Backend.URL,
		APIKey:     cfg.Backend.AnonKey,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	sess := session.NewManager(gw, session.Options{JWTSecret: cfg.Backend.JWTSecret})
	store := rest.NewStore(gw.WithTokenSource(sess))

	return &App{
		Session: sess,
		Rentals: service.NewRentalService(
			store.RentalRepository,
			store.InstrumentRepository,
			store.UserRepository,
			BookingValidator(cfg.Booking),
			opts.Notifier,
		),
		Instruments: service.NewInstrumentService(store.InstrumentRepository),
		Reviews:     service.NewReviewService(store.ReviewRepository, store.RentalRepository, store.UserRepository),
		Users:       service.NewUserService(store.UserRepository),
		Dashboard:   service.NewDashboardService(store.RentalRepository, store.InstrumentRepository),
	}, nil
}

// BookingValidator picks the overlap policy for new bookings.
func BookingValidator(cfg config.BookingConfig) lifecycle.BookingValidator {
	if cfg.RejectOverlaps {
		return lifecycle.NoOverlap{}
	}
	return lifecycle.AllowAll{}
}
