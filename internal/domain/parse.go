package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Offset bounds for a user-entered UTC offset in whole hours.
const (
	MinOffset = -12
	MaxOffset = 14
)

// ParseClock parses a 24h "H:MM" or "HH:MM" clock into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, &ValidationError{Field: "time", Reason: "expected HH:MM, got " + quote(s), Err: ErrInvalidClock}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, &ValidationError{Field: "time", Reason: "invalid hour", Err: ErrInvalidClock}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, &ValidationError{Field: "time", Reason: "invalid minute", Err: ErrInvalidClock}
	}
	return h*60 + m, nil
}

// FormatMinutes returns HH:MM for minutes since midnight, wrapping into 00:00..23:59.
func FormatMinutes(mins int) string {
	mins = ((mins % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// NormalizeClock zero-pads a parseable clock ("9:50" -> "09:50") and returns
// anything else unchanged. Lesson times are free text, so this is only used
// for ordering and display.
func NormalizeClock(s string) string {
	m, err := ParseClock(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return FormatMinutes(m)
}

// ParseOffset parses a whole-hour UTC offset such as "3", "+3", "-3" or "UTC+3".
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(s), "UTC"))
	if s == "" {
		s = "0"
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: "timezone", Reason: "not a whole number of hours", Err: ErrInvalidOffset}
	}
	if n < MinOffset || n > MaxOffset {
		return 0, &ValidationError{
			Field:  "timezone",
			Reason: fmt.Sprintf("offset must be between %d and %+d", MinOffset, MaxOffset),
			Err:    ErrInvalidOffset,
		}
	}
	return n, nil
}
