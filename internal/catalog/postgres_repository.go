package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores the service catalog in Postgres.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new service row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	query := `
		INSERT INTO services (id, nombre, duracion_minutos, precio_clp, activo)
		VALUES ($1, $2, $3, $4, true)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, req.Name, req.DurationMinutes, req.PriceCLP).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("catalog: insert service: %w", err)
	}
	return &Service{
		ID:              id.String(),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceCLP:        req.PriceCLP,
		Active:          true,
		CreatedAt:       createdAt,
	}, nil
}

// Get returns one service by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Service, error) {
	query := `
		SELECT id, nombre, duracion_minutos, precio_clp, activo, created_at
		FROM services
		WHERE id = $1
	`
	var s Service
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.PriceCLP, &s.Active, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: load service: %w", err)
	}
	return &s, nil
}

// List returns active services sorted by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Service, error) {
	query := `
		SELECT id, nombre, duracion_minutos, precio_clp, activo, created_at
		FROM services
		WHERE activo
		ORDER BY nombre
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var list []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.PriceCLP, &s.Active, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
