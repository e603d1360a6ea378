package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/repository"
)

const instrumentColumns = `id, host_id, name, category, COALESCE(description, ''), price_per_day, COALESCE(image_emoji, ''),
	COALESCE(location, ''), is_available, rating, review_count`

type instrumentRepository struct {
	db *sql.DB
}

func NewInstrumentRepository(db *sql.DB) repository.InstrumentRepository {
	return &instrumentRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstrument(s rowScanner) (*domain.Instrument, error) {
	i := &domain.Instrument{}
	err := s.Scan(&i.ID, &i.HostID, &i.Name, &i.Category, &i.Description, &i.PricePerDay, &i.ImageEmoji,
		&i.Location, &i.IsAvailable, &i.Rating, &i.ReviewCount)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *instrumentRepository) Create(ctx context.Context, i *domain.Instrument) error {
	query := `INSERT INTO instruments (host_id, name, category, description, price_per_day, image_emoji, location, is_available, rating, review_count, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	return r.db.QueryRowContext(ctx, query, i.HostID, i.Name, i.Category, i.Description, i.PricePerDay, i.ImageEmoji,
		i.Location, i.IsAvailable, i.Rating, i.ReviewCount, time.Now()).Scan(&i.ID)
}

func (r *instrumentRepository) GetByID(ctx context.Context, id string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE id = $1`
	i, err := scanInstrument(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

func (r *instrumentRepository) List(ctx context.Context, q repository.InstrumentQuery) ([]domain.Instrument, error) {
	sql := `SELECT ` + instrumentColumns + ` FROM instruments WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if q.Category != "" && q.Category != domain.CategoryAll {
		sql += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, q.Category)
		argIdx++
	}
	if q.Search != "" {
		sql += fmt.Sprintf(" AND (name ILIKE $%d OR category ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+q.Search+"%")
		argIdx++
	}
	if q.AvailableOnly {
		sql += " AND is_available"
	}
	sql += " ORDER BY name ASC"

	return r.query(ctx, sql, args...)
}

func (r *instrumentRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Instrument, error) {
	sql := `SELECT ` + instrumentColumns + ` FROM instruments WHERE host_id = $1 ORDER BY name ASC`
	return r.query(ctx, sql, hostID)
}

func (r *instrumentRepository) SetAvailability(ctx context.Context, id string, available bool) (*domain.Instrument, error) {
	query := `UPDATE instruments SET is_available=$1, updated_at=$2 WHERE id=$3 RETURNING ` + instrumentColumns
	i, err := scanInstrument(r.db.QueryRowContext(ctx, query, available, time.Now(), id))
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

func (r *instrumentRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Instrument, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Instrument
	for rows.Next() {
		i, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}
