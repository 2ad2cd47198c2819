package schedule

import (
	"fmt"
	"time"
)

// Shift identifies a nursing shift.
type Shift string

const (
	ShiftDay     Shift = "day"
	ShiftEvening Shift = "evening"
	ShiftNight   Shift = "night"
)

// Shift boundaries as hours-of-day. The night shift is the only window that
// crosses midnight.
const (
	dayStartHour     = 7
	eveningStartHour = 15
	nightStartHour   = 23
)

// ParseShift validates a shift name. The empty string is not a valid shift;
// callers that accept an optional shift should auto-detect instead.
func ParseShift(s string) (Shift, error) {
	switch Shift(s) {
	case ShiftDay, ShiftEvening, ShiftNight:
		return Shift(s), nil
	}
	return "", fmt.Errorf("invalid shift: %q", s)
}

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within [Start, End].
// The end bound is inclusive because a dose anchored exactly on the shift
// boundary belongs to the outgoing shift's queue.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WindowFor computes the window for a named shift relative to now.
// Day runs 07:00-15:00 and evening 15:00-23:00 on now's calendar date.
// Night runs 23:00-07:00: anchored on yesterday when now is before 07:00
// (the shift that is currently in progress), on today otherwise.
func WindowFor(shift Shift, now time.Time) Window {
	switch shift {
	case ShiftDay:
		return Window{Start: at(now, 0, dayStartHour), End: at(now, 0, eveningStartHour)}
	case ShiftEvening:
		return Window{Start: at(now, 0, eveningStartHour), End: at(now, 0, nightStartHour)}
	default:
		if now.Hour() < dayStartHour {
			return Window{Start: at(now, -1, nightStartHour), End: at(now, 0, dayStartHour)}
		}
		return Window{Start: at(now, 0, nightStartHour), End: at(now, 1, dayStartHour)}
	}
}

// DetectWindow picks the shift whose window contains now, guaranteeing
// Start <= now < End for all 24 hours of the day.
func DetectWindow(now time.Time) (Shift, Window) {
	h := now.Hour()
	switch {
	case h >= dayStartHour && h < eveningStartHour:
		return ShiftDay, WindowFor(ShiftDay, now)
	case h >= eveningStartHour && h < nightStartHour:
		return ShiftEvening, WindowFor(ShiftEvening, now)
	default:
		return ShiftNight, WindowFor(ShiftNight, now)
	}
}

// at returns now's calendar date shifted by dayOffset days, at hour:00.
func at(now time.Time, dayOffset, hour int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+dayOffset, hour, 0, 0, 0, now.Location())
}
