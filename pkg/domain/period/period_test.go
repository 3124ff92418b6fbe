package period

import (
	"testing"
	"time"
)

func TestISOWeek(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
	}{
		{
			name:      "wednesday maps to preceding monday",
			in:        time.Date(2026, 5, 6, 14, 30, 0, 0, time.UTC),
			wantStart: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monday is its own week start",
			in:        time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday belongs to the week started six days earlier",
			in:        time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC),
			wantStart: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ISOWeek(tt.in)
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("End = %v, want one week after start", got.End)
			}
			if got.Weeks != 1 {
				t.Errorf("Weeks = %v, want 1", got.Weeks)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := ISOWeek(time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC))
	if !w.Contains(w.Start) {
		t.Error("window start is inclusive")
	}
	if w.Contains(w.End) {
		t.Error("window end is exclusive")
	}
}

func TestRolling(t *testing.T) {
	now := time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)
	got := Rolling(now, 12)
	if !got.Start.Equal(now.AddDate(0, 0, -84)) {
		t.Errorf("Start = %v, want 84 days back", got.Start)
	}
	if got.Weeks != 12 {
		t.Errorf("Weeks = %v, want 12", got.Weeks)
	}
}

func TestAllTime_DynamicWeeks(t *testing.T) {
	now := time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		first time.Time
		want  float64
	}{
		{"two days of history still counts one week", now.AddDate(0, 0, -2), 1},
		{"eight days rounds up to two weeks", now.AddDate(0, 0, -8), 2},
		{"exactly four weeks", now.AddDate(0, 0, -28), 4},
		{"no history at all", time.Time{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllTime(tt.first, now); got.Weeks != tt.want {
				t.Errorf("Weeks = %v, want %v", got.Weeks, tt.want)
			}
		})
	}
}

func TestForPreset(t *testing.T) {
	now := time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)
	first := now.AddDate(0, 0, -100)

	if w, err := ForPreset("", now, first); err != nil || w.Weeks != 1 {
		t.Errorf("empty preset = (%v, %v), want current week", w, err)
	}
	if w, err := ForPreset("12w", now, first); err != nil || w.Weeks != 12 {
		t.Errorf("12w preset = (%v, %v)", w, err)
	}
	if w, err := ForPreset("all", now, first); err != nil || w.Weeks != 15 {
		t.Errorf("all preset Weeks = %v (err %v), want ceil(100/7) = 15", w.Weeks, err)
	}
	if _, err := ForPreset("fortnight", now, first); err == nil {
		t.Error("unknown preset must error")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 5, 6, 23, 0, 0, 0, time.UTC)
	target := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	if got := DaysUntil(target, now); got != 40 {
		t.Errorf("DaysUntil = %d, want 40 regardless of time of day", got)
	}
	if got := DaysUntil(now, now); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
	if got := DaysUntil(now.AddDate(0, 0, -3), now); got != -3 {
		t.Errorf("past date = %d, want -3", got)
	}
}
