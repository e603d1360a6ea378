package postgres

import (
	"database/sql"
	"errors"
	"time"

	"encore-rentals/internal/repository"

	_ "github.com/lib/pq"
)

const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.InstrumentRepository
	repository.RentalRepository
	repository.ReviewRepository
	repository.DeviceTokenRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		InstrumentRepository:  NewInstrumentRepository(db),
		RentalRepository:      NewRentalRepository(db),
		ReviewRepository:      NewReviewRepository(db),
		DeviceTokenRepository: NewDeviceTokenRepository(db),
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
