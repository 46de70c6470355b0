package domain

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// LocalToUTC converts a local "HH:MM" at the given offset (local = UTC + offset)
// into a UTC "HH:MM". The date rollover is discarded.
func LocalToUTC(local string, offset int) (string, error) {
	m, err := ParseClock(local)
	if err != nil {
		return "", err
	}
	return FormatMinutes(m - offset*60), nil
}

// UTCToLocal is the inverse of LocalToUTC, used to show a stored time back to the user.
func UTCToLocal(utc string, offset int) (string, error) {
	m, err := ParseClock(utc)
	if err != nil {
		return "", err
	}
	return FormatMinutes(m + offset*60), nil
}

// UTCClock formats t as "HH:MM" in UTC, truncated to the minute.
func UTCClock(t time.Time) string {
	return t.UTC().Format("15:04")
}

// LocalTime shifts t into the fixed zone of a subscriber.
func LocalTime(t time.Time, offset int) time.Time {
	return t.In(time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*3600))
}

// LocalDate returns the subscriber-local calendar date of t as YYYY-MM-DD.
func LocalDate(t time.Time, offset int) string {
	return LocalTime(t, offset).Format(time.DateOnly)
}

// TomorrowWeekDay returns the teaching day following t in the subscriber's
// local frame. ok is false when tomorrow is Sunday.
func TomorrowWeekDay(t time.Time, offset int) (WeekDay, bool) {
	return WeekDayOf(LocalTime(t, offset).AddDate(0, 0, 1))
}
