package appointment

// transitions is the explicit lifecycle table. completed, cancelled and
// no-show are terminal. no-show is admitted by the table but no service
// operation currently performs it.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave s.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// IsEditable reports whether date/time/doctor edits are still allowed.
func IsEditable(s Status) bool {
	return s == StatusScheduled || s == StatusConfirmed
}
