package appointments

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
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in Postgres. CreateValidated locks
// the veterinarian's day rows so the availability re-check and the insert
// are atomic: the losing side of a concurrent booking gets ErrBlocksTaken.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// CreateValidated inserts an appointment after re-validating the span inside
// a transaction.
func (r *PostgresRepository) CreateValidated(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lockQuery := `
		SELECT bloque_inicio, bloque_fin
		FROM appointments
		WHERE veterinario_id = $1 AND fecha = $2 AND estado <> 'cancelada'
		FOR UPDATE
	`
	rows, err := tx.Query(ctx, lockQuery, req.VetID, req.Date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("appointments: lock day: %w", err)
	}
	var spans [][2]int
	for rows.Next() {
		var start, end int
		if err := rows.Scan(&start, &end); err != nil {
			rows.Close()
			return nil, fmt.Errorf("appointments: scan span: %w", err)
		}
		spans = append(spans, [2]int{start, end})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: lock day: %w", err)
	}

	for _, span := range spans {
		if Overlaps(req.StartBlock, req.EndBlock, span[0], span[1]) {
			return nil, ErrBlocksTaken
		}
	}

	id := uuid.New()
	insertQuery := `
		INSERT INTO appointments
			(id, paciente_id, veterinario_id, servicio_id, fecha, bloque_inicio, bloque_fin, motivo, notas, tipo, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := tx.QueryRow(ctx, insertQuery,
		id,
		req.PatientID,
		req.VetID,
		req.ServiceID,
		req.Date.Format("2006-01-02"),
		req.StartBlock,
		req.EndBlock,
		req.Motivo,
		req.Notas,
		req.Tipo,
		string(req.Estado),
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit: %w", err)
	}

	return &Appointment{
		ID:         id.String(),
		PatientID:  req.PatientID,
		VetID:      req.VetID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Fecha:      req.Date.Format("2006-01-02"),
		StartBlock: req.StartBlock,
		EndBlock:   req.EndBlock,
		HoraInicio: blockTime(req.StartBlock),
		HoraFin:    blockTime(req.EndBlock),
		Motivo:     req.Motivo,
		Notas:      req.Notas,
		Tipo:       req.Tipo,
		Estado:     req.Estado,
		CreatedAt:  createdAt,
	}, nil
}

const appointmentColumns = `
	a.id, a.paciente_id, a.veterinario_id, a.servicio_id,
	a.fecha, a.bloque_inicio, a.bloque_fin, a.motivo, a.notas, a.tipo, a.estado, a.created_at,
	p.nombre, p.propietario_nombre, p.propietario_telefono, p.propietario_email,
	s.nombre, v.nombre
`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var fecha time.Time
	if err := row.Scan(
		&a.ID, &a.PatientID, &a.VetID, &a.ServiceID,
		&fecha, &a.StartBlock, &a.EndBlock, &a.Motivo, &a.Notas, &a.Tipo, &a.Estado, &a.CreatedAt,
		&a.PatientName, &a.OwnerName, &a.OwnerPhone, &a.OwnerEmail,
		&a.ServiceName, &a.VetName,
	); err != nil {
		return nil, err
	}
	a.Date = fecha
	a.Fecha = fecha.Format("2006-01-02")
	a.HoraInicio = blockTime(a.StartBlock)
	a.HoraFin = blockTime(a.EndBlock)
	return &a, nil
}

func blockTime(i int) string {
	minutes := i * 15
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Get returns one appointment with its display projection.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.paciente_id
		JOIN services s ON s.id = a.servicio_id
		JOIN veterinarians v ON v.id = a.veterinario_id
		WHERE a.id = $1
	`
	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: load: %w", err)
	}
	return appt, nil
}

// ListForVetDate returns one veterinarian's non-cancelled appointments for a
// date with their display projections, ordered by start block.
func (r *PostgresRepository) ListForVetDate(ctx context.Context, vetID string, date time.Time) ([]Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.paciente_id
		JOIN services s ON s.id = a.servicio_id
		JOIN veterinarians v ON v.id = a.veterinario_id
		WHERE a.veterinario_id = $1 AND a.fecha = $2 AND a.estado <> 'cancelada'
		ORDER BY a.bloque_inicio
	`
	rows, err := r.pool.Query(ctx, query, vetID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("appointments: list day: %w", err)
	}
	defer rows.Close()

	var list []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		list = append(list, *appt)
	}
	return list, rows.Err()
}

// UpdateEstado applies a state transition, enforcing the state machine at
// the database so concurrent transitions cannot both win.
func (r *PostgresRepository) UpdateEstado(ctx context.Context, id string, from, to Estado) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	query := `
		UPDATE appointments
		SET estado = $1, updated_at = now()
		WHERE id = $2 AND estado = $3
	`
	ct, err := r.pool.Exec(ctx, query, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("appointments: update estado: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}
