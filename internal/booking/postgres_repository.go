package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IFernandes27/barbershop-platform/internal/schedule"
)

// db is the subset of pgxpool.Pool used here, split out so tests can
// inject pgxmock.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(database db) *PostgresRepository {
	return &PostgresRepository{db: database}
}

// Create inserts a new booking row. The partial unique index on
// (professional_id, start_at) for non-cancelled rows turns a concurrent
// double-booking into a unique violation, surfaced as ErrSlotTaken.
func (r *PostgresRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	stored := *b
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bookings (id, customer_id, professional_id, service_id, start_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		stored.ID,
		stored.CustomerID,
		stored.ProfessionalID,
		stored.ServiceID,
		stored.StartAt,
		string(stored.Status),
	).Scan(&stored.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("booking: insert failed: %w", err)
	}
	return &stored, nil
}

const bookingColumns = `id, customer_id, professional_id, service_id, start_at, created_at, status`

// GetByID fetches a booking by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: select failed: %w", err)
	}
	return b, nil
}

// ListByCustomer returns the customer's bookings, newest start first.
func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1
		ORDER BY start_at DESC, created_at DESC
	`
	return r.list(ctx, query, customerID)
}

// ListByProfessional returns the professional's agenda, newest start first.
func (r *PostgresRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE professional_id = $1
		ORDER BY start_at DESC, created_at DESC
	`
	return r.list(ctx, query, professionalID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*Booking, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate failed: %w", err)
	}
	return out, nil
}

// BusyIntervals returns the occupied windows for a professional in
// [from, to), joining services for the booked duration. Cancelled
// bookings do not block slots.
func (r *PostgresRepository) BusyIntervals(ctx context.Context, professionalID string, from, to time.Time) ([]schedule.Interval, error) {
	query := `
		SELECT b.start_at, s.duration_min
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.professional_id = $1
		  AND b.status <> 'cancelled'
		  AND b.start_at >= $2
		  AND b.start_at < $3
		ORDER BY b.start_at
	`
	rows, err := r.db.Query(ctx, query, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("booking: busy intervals query: %w", err)
	}
	defer rows.Close()

	var out []schedule.Interval
	for rows.Next() {
		var start time.Time
		var durationMin int
		if err := rows.Scan(&start, &durationMin); err != nil {
			return nil, fmt.Errorf("booking: scan busy interval: %w", err)
		}
		out = append(out, schedule.NewInterval(start, time.Duration(durationMin)*time.Minute))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate busy intervals: %w", err)
	}
	return out, nil
}

// UpdateStatus stores a lifecycle transition.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("booking: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	if err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.ProfessionalID,
		&b.ServiceID,
		&b.StartAt,
		&b.CreatedAt,
		&status,
	); err != nil {
		return nil, err
	}
	b.Status = Status(status)
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 is the Postgres unique_violation code.
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
