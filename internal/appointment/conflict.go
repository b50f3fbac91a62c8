package appointment

// HasConflict reports whether booking doctorID on date at timeSlot would
// double-book the doctor. Cancelled appointments do not hold their slot.
// excludeID skips one appointment so an edit does not collide with itself;
// pass "" when creating.
//
// Pure function over the full collection; callers must run it before every
// create or (doctor, date, time) edit and reject the operation on conflict.
func HasConflict(existing []Appointment, doctorID, date, timeSlot, excludeID string) bool {
	for i := range existing {
		a := &existing[i]
		if a.Status == StatusCancelled {
			continue
		}
		if a.ID == excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.Date == date && a.Time == timeSlot {
			return true
		}
	}
	return false
}
