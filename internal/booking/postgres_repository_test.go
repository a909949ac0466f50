package booking

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepositoryWithDB(mock)
}

func TestPostgresCreate(t *testing.T) {
	mock, repo := newMockRepo(t)

	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	created := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "cust-1", "pro-1", "svc-1", start, "pending").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	b, err := New("cust-1", "pro-1", "svc-1", start)
	require.NoError(t, err)

	stored, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, created, stored.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	mock, repo := newMockRepo(t)

	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "cust-1", "pro-1", "svc-1", start, "pending").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uniq_bookings_professional_start"})

	b, err := New("cust-1", "pro-1", "svc-1", start)
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), b)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBusyIntervals(t *testing.T) {
	mock, repo := newMockRepo(t)

	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT b.start_at, s.duration_min").
		WithArgs("pro-1", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"start_at", "duration_min"}).
			AddRow(start, 30).
			AddRow(start.Add(time.Hour), 45))

	got, err := repo.BusyIntervals(context.Background(), "pro-1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, start, got[0].Start)
	assert.Equal(t, start.Add(30*time.Minute), got[0].End)
	assert.Equal(t, start.Add(time.Hour+45*time.Minute), got[1].End)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatus(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("b-1", "confirmed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "b-1", StatusConfirmed)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatus_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("ghost", "cancelled").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "ghost", StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
