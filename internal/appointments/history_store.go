package appointments

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Transition is one recorded estado change.
type Transition struct {
	ID            int64     `json:"id"`
	AppointmentID string    `json:"cita_id"`
	From          Estado    `json:"desde"`
	To            Estado    `json:"hasta"`
	Actor         string    `json:"actor,omitempty"`
	At            time.Time `json:"at"`
}

// HistoryStore appends estado transitions to the appointment_history table.
// It rides a plain database/sql handle so it can share a connection with
// reporting tooling.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	if db == nil {
		panic("appointments: sql db required")
	}
	return &HistoryStore{db: db}
}

// Record appends one transition.
func (s *HistoryStore) Record(ctx context.Context, appointmentID string, from, to Estado, actor string) error {
	query := `
		INSERT INTO appointment_history (cita_id, estado_desde, estado_hasta, actor)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, appointmentID, string(from), string(to), actor); err != nil {
		return fmt.Errorf("appointments: record transition: %w", err)
	}
	return nil
}

// History returns an appointment's transitions oldest first.
func (s *HistoryStore) History(ctx context.Context, appointmentID string) ([]Transition, error) {
	query := `
		SELECT id, cita_id, estado_desde, estado_hasta, actor, created_at
		FROM appointment_history
		WHERE cita_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointments: load history: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var t Transition
		var from, to string
		if err := rows.Scan(&t.ID, &t.AppointmentID, &from, &to, &t.Actor, &t.At); err != nil {
			return nil, fmt.Errorf("appointments: scan transition: %w", err)
		}
		t.From, t.To = Estado(from), Estado(to)
		out = append(out, t)
	}
	return out, rows.Err()
}
