package normalization

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day without a time zone, written as YYYY-MM-DD.
type Date struct {
	time.Time
}

func ParseDate(field, input string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(input), time.UTC)
	if err != nil {
		return Date{}, &FieldError{Field: field, Msg: "date has wrong format, use YYYY-MM-DD"}
	}
	return Date{Time: t}, nil
}

// Ptr returns the date as a UTC midnight timestamp for storage.
func (d Date) Ptr() *time.Time {
	t := d.Time
	return &t
}

// FormatDate renders a stored date column, or nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}

// TimeOfDay is a wall-clock time normalized to HH:MM:SS.
type TimeOfDay string

func ParseTimeOfDay(field, input string) (TimeOfDay, error) {
	s := strings.TrimSpace(input)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Format("15:04:05")), nil
		}
	}
	return "", &FieldError{Field: field, Msg: "time has wrong format, use hh:mm[:ss]"}
}

// Days validates an event duration.
func Days(field string, days int) (int, error) {
	if days < 1 {
		return 0, &FieldError{Field: field, Msg: "ensure this value is greater than or equal to 1"}
	}
	return days, nil
}

// EndDate is start + (days-1) calendar days. Missing or non-positive days count as one.
func EndDate(start *time.Time, days *int) *time.Time {
	if start == nil {
		return nil
	}
	n := 1
	if days != nil && *days > 1 {
		n = *days
	}
	end := start.AddDate(0, 0, n-1)
	return &end
}

const (
	EventUpcoming = "upcoming"
	EventOngoing  = "ongoing"
	EventPast     = "past"
)

// EventStatus compares the event's day range against today, at day granularity.
// Events without a start date are treated as upcoming.
func EventStatus(start, end *time.Time, today time.Time) string {
	if start == nil {
		return EventUpcoming
	}
	day := truncateDay(today)
	if day.Before(truncateDay(*start)) {
		return EventUpcoming
	}
	last := truncateDay(*start)
	if end != nil {
		last = truncateDay(*end)
	}
	if day.After(last) {
		return EventPast
	}
	return EventOngoing
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
