package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	"github.com/carepoint-health/frontdesk-service/internal/config"
	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/medicalrecord"
	"github.com/carepoint-health/frontdesk-service/internal/refdata"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

// Seeds the store with demo patients' bookings so a fresh environment has
// something to show. Running it twice is safe for records (the second
// derivation is rejected) but will add duplicate appointments on free slots.
func main() {
	log.Println("frontdesk-service seed - starting")

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var st store.Store
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pg, err := store.NewPostgresStore()
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer pg.Close()
		st = pg
	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		st = fs
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ref := refdata.NewProvider()
	ids := idgen.UUID{}
	validate := validation.New()

	apptRepo, err := appointment.NewRepository(ctx, st)
	if err != nil {
		log.Fatalf("Failed to load appointments: %v", err)
	}
	apptService := appointment.NewService(apptRepo, ref, ids, validate, nil, nil)

	recordRepo, err := medicalrecord.NewRepository(ctx, st)
	if err != nil {
		log.Fatalf("Failed to load medical records: %v", err)
	}
	recordService := medicalrecord.NewService(recordRepo, apptService, ids, validate, nil, nil)

	nextWeekday := func(days int) string {
		d := time.Now().AddDate(0, 0, days)
		for d.Weekday() == refdata.ClosedWeekday {
			d = d.AddDate(0, 0, 1)
		}
		return d.Format(appointment.DateLayout)
	}

	seeds := []appointment.CreateAppointmentRequest{
		{PatientID: "pat-1001", PatientName: "John Doe", DoctorID: "doc-gm-01", Date: nextWeekday(2), Time: "09:00", Type: appointment.TypeCheckup, Notes: "annual physical"},
		{PatientID: "pat-1002", PatientName: "Jane Roe", DoctorID: "doc-ca-01", Date: nextWeekday(3), Time: "10:30", Type: appointment.TypeConsultation, Notes: "palpitations"},
		{PatientID: "pat-1003", PatientName: "Sam Lee", DoctorID: "doc-pe-01", Date: nextWeekday(4), Time: "14:00", Type: appointment.TypeFollowup},
	}

	created := 0
	var first *appointment.Appointment
	for _, req := range seeds {
		a, err := apptService.Create(ctx, req)
		if err != nil {
			log.Printf("Skipping %s / %s %s: %v", req.DoctorID, req.Date, req.Time, err)
			continue
		}
		if first == nil {
			first = a
		}
		created++
	}
	log.Printf("✓ Seeded %d appointments", created)

	// Confirm the first booking and derive a draft record from it, so the
	// record flow has demo data too.
	if first != nil {
		if _, err := apptService.Confirm(ctx, first.ID); err != nil {
			log.Fatalf("Failed to confirm seed appointment: %v", err)
		}
		rec, err := recordService.CreateFromAppointment(ctx, medicalrecord.CreateRecordRequest{AppointmentID: first.ID})
		if err != nil {
			log.Printf("Skipping record derivation: %v", err)
		} else {
			complaint := "routine annual physical"
			if _, err := recordService.Update(ctx, rec.ID, medicalrecord.UpdateRecordRequest{ChiefComplaint: &complaint}); err != nil {
				log.Printf("Failed to update seed record: %v", err)
			}
			log.Printf("✓ Seeded draft medical record %s", rec.ID)
		}
	}

	log.Println("seed - finished")
}
