package domain

import (
	"strings"
	"time"
)

// WeekDay is a teaching day. The week runs Monday through Saturday; Sunday is
// not a teaching day and never appears in a timetable.
type WeekDay string

const (
	Monday    WeekDay = "Monday"
	Tuesday   WeekDay = "Tuesday"
	Wednesday WeekDay = "Wednesday"
	Thursday  WeekDay = "Thursday"
	Friday    WeekDay = "Friday"
	Saturday  WeekDay = "Saturday"
)

var weekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekDays returns the teaching days in display order.
func WeekDays() []WeekDay {
	out := make([]WeekDay, len(weekDays))
	copy(out, weekDays)
	return out
}

// ParseWeekDay matches s against the teaching days, ignoring case and
// surrounding spaces, and returns the canonical name.
func ParseWeekDay(s string) (WeekDay, error) {
	s = strings.TrimSpace(s)
	for _, d := range weekDays {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", &ValidationError{Field: "weekday", Reason: "unknown day " + quote(s), Err: ErrInvalidWeekDay}
}

// WeekDayOf returns the teaching day for t. ok is false on Sunday.
func WeekDayOf(t time.Time) (d WeekDay, ok bool) {
	wd := t.Weekday()
	if wd == time.Sunday {
		return "", false
	}
	return weekDays[int(wd)-1], true
}


func (d WeekDay) String() string { return string(d) }
