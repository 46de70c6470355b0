package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseWeekDay_CanonicalizesCase(t *testing.T) {
	got, err := ParseWeekDay("  monday ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != Monday {
		t.Fatalf("want Monday, got %s", got)
	}
}

func TestParseWeekDay_RejectsSundayAndGarbage(t *testing.T) {
	for _, in := range []string{"Sunday", "", "Mon", "funday"} {
		_, err := ParseWeekDay(in)
		if !errors.Is(err, ErrInvalidWeekDay) {
			t.Fatalf("%q: want ErrInvalidWeekDay, got %v", in, err)
		}
	}
}

func TestWeekDayOf(t *testing.T) {
	// 2025-05-05 is a Monday.
	mon := time.Date(2025, time.May, 5, 12, 0, 0, 0, time.UTC)
	if d, ok := WeekDayOf(mon); !ok || d != Monday {
		t.Fatalf("want Monday, got %s %v", d, ok)
	}
	if d, ok := WeekDayOf(mon.AddDate(0, 0, 5)); !ok || d != Saturday {
		t.Fatalf("want Saturday, got %s %v", d, ok)
	}
	if _, ok := WeekDayOf(mon.AddDate(0, 0, 6)); ok {
		t.Fatalf("Sunday must not be a teaching day")
	}
}

func TestWeekDays_ReturnsCopy(t *testing.T) {
	days := WeekDays()
	if len(days) != 6 {
		t.Fatalf("want 6 days, got %d", len(days))
	}
	days[0] = "Sunday"
	if WeekDays()[0] != Monday {
		t.Fatalf("WeekDays must not expose internal slice")
	}
}
