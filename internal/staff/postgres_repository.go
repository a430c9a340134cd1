package staff

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

// PostgresRepository stores veterinarians and weekly hours in Postgres.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo over a pgx pool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("staff: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new veterinarian row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateVeterinarianRequest) (*Veterinarian, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	query := `
		INSERT INTO veterinarians (id, nombre, email, especialidad, activo)
		VALUES ($1, $2, $3, $4, true)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, req.Name, req.Email, req.Specialty).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("staff: insert veterinarian: %w", err)
	}
	return &Veterinarian{
		ID:        id.String(),
		Name:      req.Name,
		Email:     req.Email,
		Specialty: req.Specialty,
		Active:    true,
		CreatedAt: createdAt,
	}, nil
}

// List returns active veterinarians sorted by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Veterinarian, error) {
	query := `
		SELECT id, nombre, email, especialidad, activo, created_at
		FROM veterinarians
		WHERE activo
		ORDER BY nombre
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("staff: list veterinarians: %w", err)
	}
	defer rows.Close()

	var vets []Veterinarian
	for rows.Next() {
		var v Veterinarian
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Specialty, &v.Active, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("staff: scan veterinarian: %w", err)
		}
		vets = append(vets, v)
	}
	return vets, rows.Err()
}

// Get returns one veterinarian by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Veterinarian, error) {
	query := `
		SELECT id, nombre, email, especialidad, activo, created_at
		FROM veterinarians
		WHERE id = $1
	`
	var v Veterinarian
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.Name, &v.Email, &v.Specialty, &v.Active, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("staff: load veterinarian: %w", err)
	}
	return &v, nil
}

// SetWeeklyHours replaces the weekly hours of a veterinarian.
func (r *PostgresRepository) SetWeeklyHours(ctx context.Context, vetID string, hours WeeklyHours) error {
	for _, ranges := range hours {
		for _, br := range ranges {
			if br.StartBlock < 0 || br.EndBlock > 96 || br.StartBlock >= br.EndBlock {
				return ErrInvalidRange
			}
		}
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM vet_working_hours WHERE vet_id = $1`, vetID); err != nil {
		return fmt.Errorf("staff: clear weekly hours: %w", err)
	}
	for weekday, ranges := range hours {
		for _, br := range ranges {
			query := `
				INSERT INTO vet_working_hours (vet_id, weekday, start_block, end_block)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := r.pool.Exec(ctx, query, vetID, int(weekday), br.StartBlock, br.EndBlock); err != nil {
				return fmt.Errorf("staff: insert weekly hours: %w", err)
			}
		}
	}
	return nil
}

// RangesOn returns the working ranges for the weekday of the given date,
// ordered by start block.
func (r *PostgresRepository) RangesOn(ctx context.Context, vetID string, date time.Time) ([]BlockRange, error) {
	query := `
		SELECT start_block, end_block
		FROM vet_working_hours
		WHERE vet_id = $1 AND weekday = $2
		ORDER BY start_block
	`
	rows, err := r.pool.Query(ctx, query, vetID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("staff: load weekly hours: %w", err)
	}
	defer rows.Close()

	var ranges []BlockRange
	for rows.Next() {
		var br BlockRange
		if err := rows.Scan(&br.StartBlock, &br.EndBlock); err != nil {
			return nil, fmt.Errorf("staff: scan weekly hours: %w", err)
		}
		ranges = append(ranges, br)
	}
	return ranges, rows.Err()
}
