package refdata

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Booking calendar constants. The clinic is closed one fixed day a week and
// only offers slots inside a bounded future horizon.
const (
	ClosedWeekday = time.Sunday
	HorizonDays   = 30
)

// Doctor is an entry in the department-keyed roster.
type Doctor struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Department string `json:"department" yaml:"department"`
}

// Provider serves the static catalogs: departments, the doctor roster, and
// the ordered list of bookable time-of-day slots. The data is immutable for
// the lifetime of the process.
type Provider struct {
	departments []string
	doctors     []Doctor
	byID        map[string]Doctor
	slots       []string
	slotSet     map[string]bool
}

type catalogFile struct {
	Departments []string `yaml:"departments"`
	Doctors     []Doctor `yaml:"doctors"`
	TimeSlots   []string `yaml:"time_slots"`
}

// NewProvider returns a provider backed by the compiled-in catalog.
func NewProvider() *Provider {
	return newProvider(defaultDepartments, defaultDoctors, defaultSlots())
}

// LoadProvider loads a catalog override from a YAML file. Missing sections
// fall back to the compiled-in defaults.
func LoadProvider(path string) (*Provider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf catalogFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(cf.Departments) == 0 {
		cf.Departments = defaultDepartments
	}
	if len(cf.Doctors) == 0 {
		cf.Doctors = defaultDoctors
	}
	if len(cf.TimeSlots) == 0 {
		cf.TimeSlots = defaultSlots()
	}
	return newProvider(cf.Departments, cf.Doctors, cf.TimeSlots), nil
}

func newProvider(departments []string, doctors []Doctor, slots []string) *Provider {
	p := &Provider{
		departments: departments,
		doctors:     doctors,
		byID:        make(map[string]Doctor, len(doctors)),
		slots:       slots,
		slotSet:     make(map[string]bool, len(slots)),
	}
	for _, d := range doctors {
		p.byID[d.ID] = d
	}
	for _, s := range slots {
		p.slotSet[s] = true
	}
	return p
}

// Departments returns the department list in catalog order.
func (p *Provider) Departments() []string {
	out := make([]string, len(p.departments))
	copy(out, p.departments)
	return out
}

// DoctorsByDepartment returns the roster for one department.
func (p *Provider) DoctorsByDepartment(department string) []Doctor {
	var out []Doctor
	for _, d := range p.doctors {
		if d.Department == department {
			out = append(out, d)
		}
	}
	return out
}

// DoctorByID looks a doctor up across all departments.
func (p *Provider) DoctorByID(id string) (Doctor, bool) {
	d, ok := p.byID[id]
	return d, ok
}

// TimeSlots returns the ordered list of bookable slots.
func (p *Provider) TimeSlots() []string {
	out := make([]string, len(p.slots))
	copy(out, p.slots)
	return out
}

// IsTimeSlot reports whether t is one of the bookable slots.
func (p *Provider) IsTimeSlot(t string) bool {
	return p.slotSet[t]
}

var defaultDepartments = []string{
	"General Medicine",
	"Cardiology",
	"Dermatology",
	"Orthopedics",
	"Pediatrics",
	"Neurology",
}

var defaultDoctors = []Doctor{
	{ID: "doc-gm-01", Name: "Dr. Sarah Mitchell", Title: "MD", Department: "General Medicine"},
	{ID: "doc-gm-02", Name: "Dr. James Carter", Title: "MD", Department: "General Medicine"},
	{ID: "doc-ca-01", Name: "Dr. Elena Petrova", Title: "MD, FACC", Department: "Cardiology"},
	{ID: "doc-ca-02", Name: "Dr. Robert Nguyen", Title: "MD", Department: "Cardiology"},
	{ID: "doc-de-01", Name: "Dr. Amira Hassan", Title: "MD", Department: "Dermatology"},
	{ID: "doc-or-01", Name: "Dr. Thomas Keller", Title: "MD", Department: "Orthopedics"},
	{ID: "doc-or-02", Name: "Dr. Lucia Romero", Title: "MD", Department: "Orthopedics"},
	{ID: "doc-pe-01", Name: "Dr. Wei Zhang", Title: "MD", Department: "Pediatrics"},
	{ID: "doc-ne-01", Name: "Dr. Henrik Olsen", Title: "MD, PhD", Department: "Neurology"},
}

// defaultSlots builds the two half-hour clusters: 09:00-11:30 mornings and
// 14:00-16:30 afternoons.
func defaultSlots() []string {
	var slots []string
	add := func(startHour, endHour int) {
		for h := startHour; h <= endHour; h++ {
			slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
		}
	}
	add(9, 11)
	add(14, 16)
	return slots
}
