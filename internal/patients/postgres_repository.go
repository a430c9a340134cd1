package patients

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

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new patient row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	query := `
		INSERT INTO patients (id, nombre, especie, raza, propietario_nombre, propietario_telefono, propietario_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Species,
		req.Breed,
		req.OwnerName,
		req.OwnerPhone,
		req.OwnerEmail,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("patients: insert failed: %w", err)
	}
	return &Patient{
		ID:         id.String(),
		Name:       req.Name,
		Species:    req.Species,
		Breed:      req.Breed,
		OwnerName:  req.OwnerName,
		OwnerPhone: req.OwnerPhone,
		OwnerEmail: req.OwnerEmail,
		CreatedAt:  createdAt,
	}, nil
}

// Get returns one patient by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Patient, error) {
	query := `
		SELECT id, nombre, especie, raza, propietario_nombre, propietario_telefono, propietario_email, created_at
		FROM patients
		WHERE id = $1
	`
	var p Patient
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Species, &p.Breed,
		&p.OwnerName, &p.OwnerPhone, &p.OwnerEmail, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patients: load failed: %w", err)
	}
	return &p, nil
}

// List returns every patient sorted by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Patient, error) {
	query := `
		SELECT id, nombre, especie, raza, propietario_nombre, propietario_telefono, propietario_email, created_at
		FROM patients
		ORDER BY nombre
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("patients: list failed: %w", err)
	}
	defer rows.Close()

	var list []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Species, &p.Breed,
			&p.OwnerName, &p.OwnerPhone, &p.OwnerEmail, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("patients: scan failed: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
