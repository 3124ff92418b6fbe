// Package period computes the time windows statistics are rolled up
// over: ISO calendar weeks, rolling multi-week windows and the
// open-ended all-time window.
package period

import (
	"fmt"
	"math"
	"time"
)

// Window is a half-open interval [Start, End) plus the week count used
// as the denominator for weekly rates.
type Window struct {
	Start time.Time
	End   time.Time
	Weeks float64
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ISOWeek returns the calendar week containing t: Monday 00:00 through
// the following Monday, in t's location.
func ISOWeek(t time.Time) Window {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7), Weeks: 1}
}

// Rolling returns the window covering the n weeks ending at now.
func Rolling(now time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{Start: now.AddDate(0, 0, -7*n), End: now, Weeks: float64(n)}
}

// AllTime spans from the first recorded activity to now. The week
// count is dynamic so a two-day-old account does not report weekly
// rates diluted over a full week grid: ceil(days/7), never below 1.
func AllTime(first, now time.Time) Window {
	if first.IsZero() || first.After(now) {
		first = now
	}
	days := now.Sub(first).Hours() / 24
	weeks := math.Ceil(days / 7)
	if weeks < 1 {
		weeks = 1
	}
	return Window{Start: first, End: now, Weeks: weeks}
}

// ForPreset resolves a user-facing period name. "all" needs the first
// activity time to size its denominator.
func ForPreset(preset string, now, firstActivity time.Time) (Window, error) {
	switch preset {
	case "", "week":
		return ISOWeek(now), nil
	case "month":
		return Rolling(now, 4), nil
	case "12w":
		return Rolling(now, 12), nil
	case "all":
		return AllTime(firstActivity, now), nil
	default:
		return Window{}, fmt.Errorf("unknown period %q", preset)
	}
}

// DaysUntil counts whole calendar days from now to the target date,
// ignoring the time of day on either side. Past dates are negative.
func DaysUntil(target, now time.Time) int {
	d := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(d(target).Sub(d(now)).Hours() / 24)
}
