package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool used here, split out so tests
// can inject pgxmock.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores users in the relational database.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("identity: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	id := user.ID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO users (id, email, name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	stored := *user
	stored.ID = id
	stored.Email = strings.ToLower(user.Email)
	if err := r.db.QueryRow(ctx, query,
		id,
		stored.Email,
		user.Name,
		string(user.Role),
		user.PasswordHash,
	).Scan(&stored.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("identity: insert failed: %w", err)
	}
	return &stored, nil
}

// GetByID fetches a user by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getWhere(ctx, "email = $1", strings.ToLower(email))
}

func (r *PostgresRepository) getWhere(ctx context.Context, where string, arg any) (*User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at
		FROM users
		WHERE ` + where
	row := r.db.QueryRow(ctx, query, arg)
	var user User
	var role string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&role,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("identity: select failed: %w", err)
	}
	user.Role = Role(role)
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 is the Postgres unique_violation code.
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
