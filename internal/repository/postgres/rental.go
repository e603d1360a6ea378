package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/repository"

	"github.com/lib/pq"
)

const rentalColumns = `id, instrument_id, renter_id, host_id, start_date, end_date, total_price, status,
	COALESCE(instrument_name, ''), COALESCE(instrument_emoji, '')`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(s rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var start, end time.Time
	err := s.Scan(&rt.ID, &rt.InstrumentID, &rt.RenterID, &rt.HostID, &start, &end, &rt.TotalPrice, &rt.Status,
		&rt.InstrumentName, &rt.InstrumentEmoji)
	if err != nil {
		return nil, err
	}
	rt.StartDate = formatDate(start)
	rt.EndDate = formatDate(end)
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (instrument_id, renter_id, host_id, start_date, end_date, total_price, status, instrument_name, instrument_emoji, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, rt.InstrumentID, rt.RenterID, rt.HostID, rt.StartDate, rt.EndDate, rt.TotalPrice,
		rt.Status, rt.InstrumentName, rt.InstrumentEmoji, now, now).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus) (*domain.Rental, error) {
	query := `UPDATE rentals SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4 RETURNING ` + rentalColumns
	logger.DatabaseCall("UPDATE", "rentals.status", "rental_id", id, "from", from, "to", to)
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, to, time.Now(), id, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repository.ErrConflict
		}
		logger.DatabaseResult("UPDATE", 0, err)
		return nil, err
	}
	logger.DatabaseResult("UPDATE", 1, nil)
	return rt, nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.Rental, error) {
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE renter_id = $1 ORDER BY start_date DESC`, renterID)
}

func (r *rentalRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Rental, error) {
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE host_id = $1 ORDER BY start_date DESC`, hostID)
}

func (r *rentalRepository) ListByInstrument(ctx context.Context, instrumentID string, statuses ...domain.RentalStatus) ([]domain.Rental, error) {
	if len(statuses) == 0 {
		return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE instrument_id = $1 ORDER BY start_date ASC`, instrumentID)
	}
	statusStrs := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrs[i] = string(s)
	}
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE instrument_id = $1 AND status = ANY($2) ORDER BY start_date ASC`,
		instrumentID, pq.Array(statusStrs))
}

func (r *rentalRepository) ListStartingBetween(ctx context.Context, status domain.RentalStatus, from, to string) ([]domain.Rental, error) {
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE status = $1 AND start_date BETWEEN $2 AND $3 ORDER BY start_date ASC`,
		status, from, to)
}

func (r *rentalRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
