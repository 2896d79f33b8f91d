package normalization

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := ParseDate("date", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d.Ptr()
}

func intPtr(v int) *int { return &v }

func TestEndDate(t *testing.T) {
	start := day(t, "2024-01-01")
	cases := []struct {
		days *int
		want string
	}{
		{intPtr(5), "2024-01-05"},
		{intPtr(1), "2024-01-01"},
		{nil, "2024-01-01"},
		{intPtr(0), "2024-01-01"},
		{intPtr(32), "2024-02-01"},
	}
	for _, tc := range cases {
		got := FormatDate(EndDate(start, tc.days))
		if got == nil || *got != tc.want {
			t.Fatalf("EndDate(days=%v) = %v, want %s", tc.days, got, tc.want)
		}
	}
	if EndDate(nil, intPtr(3)) != nil {
		t.Fatalf("null start must give null end")
	}
}

func TestEventStatus(t *testing.T) {
	start := day(t, "2024-03-10")
	end := EndDate(start, intPtr(3))
	cases := map[string]string{
		"2024-03-09": EventUpcoming,
		"2024-03-10": EventOngoing,
		"2024-03-12": EventOngoing,
		"2024-03-13": EventPast,
	}
	for today, want := range cases {
		if got := EventStatus(start, end, *day(t, today)); got != want {
			t.Fatalf("EventStatus(today=%s) = %s, want %s", today, got, want)
		}
	}
	if got := EventStatus(nil, nil, time.Now()); got != EventUpcoming {
		t.Fatalf("undated event: %s", got)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	if v, err := ParseTimeOfDay("start_time", "09:30"); err != nil || v != "09:30:00" {
		t.Fatalf("got %q, %v", v, err)
	}
	if v, err := ParseTimeOfDay("start_time", "18:05:59"); err != nil || v != "18:05:59" {
		t.Fatalf("got %q, %v", v, err)
	}
	if _, err := ParseTimeOfDay("start_time", "25:00"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDays(t *testing.T) {
	if _, err := Days("days", 0); err == nil {
		t.Fatalf("expected zero days to be rejected")
	}
	if v, err := Days("days", 4); err != nil || v != 4 {
		t.Fatalf("got %d, %v", v, err)
	}
}
