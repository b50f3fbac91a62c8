package appointment

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusNoShow, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusScheduled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusNoShow, StatusScheduled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if !IsTerminal(s) {
			t.Errorf("Expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusScheduled, StatusConfirmed} {
		if IsTerminal(s) {
			t.Errorf("Expected %s to not be terminal", s)
		}
	}
}

func TestIsEditable(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusConfirmed} {
		if !IsEditable(s) {
			t.Errorf("Expected %s to be editable", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if IsEditable(s) {
			t.Errorf("Expected %s to not be editable", s)
		}
	}
}
