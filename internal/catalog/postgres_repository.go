package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool used here, split out so tests
// can inject pgxmock.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresServiceRepository stores services in the relational database.
type PostgresServiceRepository struct {
	db querier
}

// NewPostgresServiceRepository initializes a repo backed by pgxpool.
func NewPostgresServiceRepository(pool *pgxpool.Pool) *PostgresServiceRepository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresServiceRepository{db: pool}
}

// NewPostgresServiceRepositoryWithDB allows injecting mocks for tests.
func NewPostgresServiceRepositoryWithDB(db querier) *PostgresServiceRepository {
	return &PostgresServiceRepository{db: db}
}

// Create inserts a new service row.
func (r *PostgresServiceRepository) Create(ctx context.Context, svc *Service) (*Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	stored := *svc
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	query := `
		INSERT INTO services (id, name, description, duration_min, price_cents, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		stored.ID,
		stored.Name,
		stored.Description,
		stored.DurationMin,
		stored.PriceCents,
		stored.ImageURL,
	).Scan(&stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("catalog: insert service: %w", err)
	}
	return &stored, nil
}

// GetByID fetches a service by primary key.
func (r *PostgresServiceRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	query := `
		SELECT id, name, description, duration_min, price_cents, image_url, created_at
		FROM services
		WHERE id = $1
	`
	var svc Service
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMin,
		&svc.PriceCents,
		&svc.ImageURL,
		&svc.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: select service: %w", err)
	}
	return &svc, nil
}

// List returns all services ordered by price then name.
func (r *PostgresServiceRepository) List(ctx context.Context) ([]*Service, error) {
	query := `
		SELECT id, name, description, duration_min, price_cents, image_url, created_at
		FROM services
		ORDER BY price_cents, name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var out []*Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.Description,
			&svc.DurationMin,
			&svc.PriceCents,
			&svc.ImageURL,
			&svc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		out = append(out, &svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate services: %w", err)
	}
	return out, nil
}

// PostgresProfessionalRepository stores professionals in the relational database.
type PostgresProfessionalRepository struct {
	db querier
}

// NewPostgresProfessionalRepository initializes a repo backed by pgxpool.
func NewPostgresProfessionalRepository(pool *pgxpool.Pool) *PostgresProfessionalRepository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresProfessionalRepository{db: pool}
}

// NewPostgresProfessionalRepositoryWithDB allows injecting mocks for tests.
func NewPostgresProfessionalRepositoryWithDB(db querier) *PostgresProfessionalRepository {
	return &PostgresProfessionalRepository{db: db}
}

// Create inserts a new professional row.
func (r *PostgresProfessionalRepository) Create(ctx context.Context, pro *Professional) (*Professional, error) {
	if err := pro.Validate(); err != nil {
		return nil, err
	}
	stored := *pro
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	query := `
		INSERT INTO professionals (id, user_id, display_name, bio, photo_url, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		stored.ID,
		stored.UserID,
		stored.DisplayName,
		stored.Bio,
		stored.PhotoURL,
		stored.Active,
	).Scan(&stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("catalog: insert professional: %w", err)
	}
	return &stored, nil
}

// GetByID fetches a professional by primary key.
func (r *PostgresProfessionalRepository) GetByID(ctx context.Context, id string) (*Professional, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByUserID fetches the professional linked to a user account.
func (r *PostgresProfessionalRepository) GetByUserID(ctx context.Context, userID string) (*Professional, error) {
	return r.getWhere(ctx, "user_id = $1", userID)
}

func (r *PostgresProfessionalRepository) getWhere(ctx context.Context, where string, arg any) (*Professional, error) {
	query := `
		SELECT id, user_id, display_name, bio, photo_url, active, created_at
		FROM professionals
		WHERE ` + where
	var pro Professional
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&pro.ID,
		&pro.UserID,
		&pro.DisplayName,
		&pro.Bio,
		&pro.PhotoURL,
		&pro.Active,
		&pro.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("catalog: select professional: %w", err)
	}
	return &pro, nil
}

// ListActive returns active professionals ordered by display name.
func (r *PostgresProfessionalRepository) ListActive(ctx context.Context) ([]*Professional, error) {
	query := `
		SELECT id, user_id, display_name, bio, photo_url, active, created_at
		FROM professionals
		WHERE active
		ORDER BY display_name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list professionals: %w", err)
	}
	defer rows.Close()

	var out []*Professional
	for rows.Next() {
		var pro Professional
		if err := rows.Scan(
			&pro.ID,
			&pro.UserID,
			&pro.DisplayName,
			&pro.Bio,
			&pro.PhotoURL,
			&pro.Active,
			&pro.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("catalog: scan professional: %w", err)
		}
		out = append(out, &pro)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate professionals: %w", err)
	}
	return out, nil
}
