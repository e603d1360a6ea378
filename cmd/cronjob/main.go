package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"encore-rentals/internal/config"
	"encore-rentals/internal/gateway"
	"encore-rentals/internal/jobs"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/notify"
	"encore-rentals/internal/repository"
	"encore-rentals/internal/repository/postgres"
	"encore-rentals/internal/repository/rest"
	"encore-rentals/internal/scheduler"
)

// stores is what the runner needs from either repository backend.
type stores struct {
	rentals repository.RentalRepository
	users   repository.UserRepository
	devices repository.DeviceTokenRepository
	close   func() error
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'pending-request-reminders', 'all')")
	flag.Parse()

	// Optional .env for local secrets
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Encore Cronjob Runner...", "log_level", cfg.Log.Level, "store", cfg.Store.Type)

	st, err := openStores(cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.close()

	notifier, err := buildNotifier(context.Background(), cfg, st)
	if err != nil {
		logger.Error("Failed to set up notifications", "error", err)
		log.Fatalf("Failed to set up notifications: %v", err)
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(st.rentals, notifier, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

func openStores(cfg *config.Config) (*stores, error) {
	switch cfg.Store.Type {
	case config.StorePostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Database connection established")
		store := postgres.NewStore(db)
		return &stores{
			rentals: store.RentalRepository,
			users:   store.UserRepository,
			devices: store.DeviceTokenRepository,
			close:   store.Close,
		}, nil
	default:
		client, err := gateway.New(gateway.Config{URL: cfg.Backend.URL, APIKey: cfg.TrustedAPIKey()})
		if err != nil {
			return nil, err
		}
		logger.Info("Using backend table API", "url", cfg.Backend.URL)
		store := rest.NewStore(client)
		return &stores{
			rentals: store.RentalRepository,
			users:   store.UserRepository,
			devices: store.DeviceTokenRepository,
			close:   func() error { return nil },
		}, nil
	}
}

func buildNotifier(ctx context.Context, cfg *config.Config, st *stores) (notify.Notifier, error) {
	var out notify.Multi

	switch cfg.Email.Provider {
	case config.EmailSendGrid:
		sender := notify.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
		out = append(out, notify.NewEmailNotifier(st.users, sender))
	case config.EmailSMTP:
		smtp := cfg.Email.SMTP
		sender := notify.NewSMTPSender(smtp.Host, smtp.Port, smtp.User, smtp.Password, cfg.Email.FromEmail)
		out = append(out, notify.NewEmailNotifier(st.users, sender))
	}
	logger.Info("Email configuration", "provider", cfg.Email.Provider)

	if cfg.Push.Enabled {
		client, err := notify.NewFCMClient(ctx, cfg.Push.CredentialsFile)
		if err != nil {
			return nil, err
		}
		out = append(out, notify.NewPushNotifier(st.devices, client))
		logger.Info("Push notifications enabled")
	}

	if len(out) == 0 {
		return notify.Nop{}, nil
	}
	return out, nil
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "pending-request-reminders":
		jobRunner.SendPendingRequestReminders()
	case "upcoming-rental-reminders":
		jobRunner.SendUpcomingRentalReminders()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - pending-request-reminders\n")
		fmt.Printf("  - upcoming-rental-reminders\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
