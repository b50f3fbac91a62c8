package booking

import (
	"strings"
	"time"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	"github.com/carepoint-health/frontdesk-service/internal/refdata"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

// Wizard holds the step-gating rules: which fields each step requires and
// which dates the clinic offers at all. It is pure; slot-level availability
// needs the appointment collection and lives in the Service.
type Wizard struct {
	ref *refdata.Provider
	now func() time.Time
}

func NewWizard(ref *refdata.Provider) *Wizard {
	return &Wizard{ref: ref, now: time.Now}
}

// ValidateStep checks the collected form against the requirements of step n.
// A nil return means the step is satisfied.
func (wz *Wizard) ValidateStep(n int, form FormState) validation.FieldErrors {
	errs := validation.FieldErrors{}
	switch n {
	case StepDoctor:
		if form.Department == "" {
			errs["department"] = "is required"
		}
		if form.DoctorID == "" {
			errs["doctor_id"] = "is required"
		} else if doc, ok := wz.ref.DoctorByID(form.DoctorID); !ok {
			errs["doctor_id"] = "unknown doctor"
		} else if doc.Department != form.Department {
			errs["doctor_id"] = "doctor does not belong to the selected department"
		}
	case StepSlot:
		if form.Date == "" {
			errs["date"] = "is required"
		} else if !wz.DateOffered(form.Date) {
			errs["date"] = "date is not open for booking"
		}
		if form.Time == "" {
			errs["time"] = "is required"
		} else if !wz.ref.IsTimeSlot(form.Time) {
			errs["time"] = "not a bookable time slot"
		}
	case StepIntake:
		if strings.TrimSpace(form.Reason) == "" {
			errs["reason"] = "is required"
		}
		if form.Type != "" {
			switch appointment.Type(form.Type) {
			case appointment.TypeCheckup, appointment.TypeFollowup, appointment.TypeEmergency, appointment.TypeConsultation:
			default:
				errs["type"] = "must be one of: checkup followup emergency consultation"
			}
		}
	case StepConfirm:
		// Confirmation re-checks everything collected so far.
		for _, prev := range []int{StepDoctor, StepSlot, StepIntake} {
			for field, msg := range wz.ValidateStep(prev, form) {
				errs[field] = msg
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AvailableDates lists the calendar days open for booking: tomorrow through
// the horizon, skipping the weekly closed day.
func (wz *Wizard) AvailableDates() []string {
	today := wz.now()
	var dates []string
	for i := 1; i <= refdata.HorizonDays; i++ {
		day := today.AddDate(0, 0, i)
		if day.Weekday() == refdata.ClosedWeekday {
			continue
		}
		dates = append(dates, day.Format(appointment.DateLayout))
	}
	return dates
}

// DateOffered reports whether date falls inside the bookable window.
func (wz *Wizard) DateOffered(date string) bool {
	day, err := time.Parse(appointment.DateLayout, date)
	if err != nil {
		return false
	}
	if day.Weekday() == refdata.ClosedWeekday {
		return false
	}
	today := wz.now()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(day.Sub(start).Hours() / 24)
	return diff >= 1 && diff <= refdata.HorizonDays
}
