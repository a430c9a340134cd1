package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStoreRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO appointment_history").
		WithArgs("cita-1", "pendiente", "en_curso", "recepcion").
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewHistoryStore(db)
	err = store.Record(context.Background(), "cita-1", EstadoPendiente, EstadoEnCurso, "recepcion")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStoreHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "cita_id", "estado_desde", "estado_hasta", "actor", "created_at"}).
		AddRow(int64(1), "cita-1", "pendiente", "en_curso", "recepcion", at).
		AddRow(int64(2), "cita-1", "en_curso", "completada", "veterinario", at.Add(30*time.Minute))
	mock.ExpectQuery("SELECT id, cita_id, estado_desde, estado_hasta, actor, created_at").
		WithArgs("cita-1").
		WillReturnRows(rows)

	store := NewHistoryStore(db)
	got, err := store.History(context.Background(), "cita-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EstadoEnCurso, got[0].To)
	assert.Equal(t, EstadoCompletada, got[1].To)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewHistoryStoreRequiresDB(t *testing.T) {
	assert.Panics(t, func() { NewHistoryStore(nil) })
}
