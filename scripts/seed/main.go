// Seeds a local database with a demo clinic: one veterinarian with weekday
// hours, a patient, the service catalog, and one booked morning appointment.
//
// Usage: DATABASE_URL=postgres://... go run scripts/seed/main.go [fecha]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetlink-cl/agenda-platform/internal/appointments"
	"github.com/vetlink-cl/agenda-platform/internal/catalog"
	"github.com/vetlink-cl/agenda-platform/internal/patients"
	"github.com/vetlink-cl/agenda-platform/internal/staff"
)

func main() {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		fmt.Println("Error: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	fecha := time.Now().AddDate(0, 0, 1)
	if len(os.Args) >= 2 {
		parsed, err := time.Parse("2006-01-02", os.Args[1])
		if err != nil {
			fmt.Printf("Error: invalid fecha %q, expected YYYY-MM-DD\n", os.Args[1])
			os.Exit(1)
		}
		fecha = parsed
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		fmt.Printf("Error: connect postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	staffRepo := staff.NewPostgresRepository(pool)
	patientsRepo := patients.NewPostgresRepository(pool)
	catalogRepo := catalog.NewPostgresRepository(pool)
	apptRepo := appointments.NewPostgresRepository(pool)

	vet, err := staffRepo.Create(ctx, &staff.CreateVeterinarianRequest{
		Name:      "Dr. Ramírez",
		Email:     "ramirez@vetlink.cl",
		Specialty: "Medicina general",
	})
	if err != nil {
		fatal("create veterinarian", err)
	}

	// 09:00 to 16:00, Monday through Friday.
	hours := staff.WeeklyHours{}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		hours[wd] = []staff.BlockRange{{StartBlock: 36, EndBlock: 64}}
	}
	if err := staffRepo.SetWeeklyHours(ctx, vet.ID, hours); err != nil {
		fatal("set weekly hours", err)
	}

	patient, err := patientsRepo.Create(ctx, &patients.CreatePatientRequest{
		Name:       "Luna",
		Species:    "Perro",
		Breed:      "Labrador",
		OwnerName:  "María Soto",
		OwnerPhone: "+56 9 5555 0001",
		OwnerEmail: "maria.soto@example.com",
	})
	if err != nil {
		fatal("create patient", err)
	}

	services := []*catalog.CreateServiceRequest{
		{Name: "Consulta general", DurationMinutes: 30, PriceCLP: 25000},
		{Name: "Vacunación", DurationMinutes: 15, PriceCLP: 18000},
		{Name: "Control post operatorio", DurationMinutes: 45, PriceCLP: 30000},
		{Name: "Cirugía menor", DurationMinutes: 60, PriceCLP: 120000},
	}
	var consulta *catalog.Service
	for _, req := range services {
		svc, err := catalogRepo.Create(ctx, req)
		if err != nil {
			fatal("create service "+req.Name, err)
		}
		if consulta == nil {
			consulta = svc
		}
		fmt.Printf("service %q (%d min) -> %s\n", svc.Name, svc.DurationMinutes, svc.ID)
	}

	// One booked consultation at 09:00, four blocks. The grid for this day
	// should render a merged occupied cell from 09:00 to 10:00.
	appt, err := apptRepo.CreateValidated(ctx, &appointments.CreateAppointmentRequest{
		PatientID:  patient.ID,
		VetID:      vet.ID,
		ServiceID:  consulta.ID,
		Date:       fecha,
		StartBlock: 36,
		EndBlock:   40,
		Motivo:     "Control anual",
	})
	if err != nil {
		fatal("create appointment", err)
	}

	fmt.Printf("veterinarian %q -> %s\n", vet.Name, vet.ID)
	fmt.Printf("patient %q (owner %s) -> %s\n", patient.Name, patient.OwnerName, patient.ID)
	fmt.Printf("appointment %s on %s at %s -> %s\n", appt.Estado, appt.Fecha, appt.HoraInicio, appt.ID)
	fmt.Println("seed complete")
}

func fatal(step string, err error) {
	fmt.Printf("Error: %s: %v\n", step, err)
	os.Exit(1)
}
