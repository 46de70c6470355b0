package domain

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxMessageLen is the longest text a single chat message may carry.
const MaxMessageLen = 4096

// RenderReminder builds the daily reminder for the given day, split to fit
// into chat messages. Lessons are listed in the order they were stored.
func RenderReminder(day WeekDay, lessons []Lesson) []string {
	lines := []string{"Timetable for tomorrow (" + string(day) + "):"}
	for _, l := range lessons {
		lines = append(lines, l.Line())
	}
	return SplitMessage(lines, MaxMessageLen)
}

// RenderDay builds the listing shown by the view flow.
func RenderDay(day WeekDay, lessons []Lesson) []string {
	if len(lessons) == 0 {
		return []string{"Timetable for " + string(day) + " is empty."}
	}
	lines := []string{"Timetable for " + string(day) + ":"}
	for _, l := range lessons {
		lines = append(lines, l.Line())
	}
	return SplitMessage(lines, MaxMessageLen)
}

// RenderWeek builds the full-week listing, Monday to Saturday, lessons ordered
// by zero-padded time. The result is split to fit into chat messages.
func RenderWeek(lessons []Lesson) []string {
	byDay := make(map[WeekDay][]Lesson, len(weekDays))
	for _, l := range lessons {
		byDay[l.WeekDay] = append(byDay[l.WeekDay], l)
	}

	lines := []string{"Your timetable:"}
	for _, d := range weekDays {
		dl := byDay[d]
		sort.SliceStable(dl, func(i, j int) bool {
			return NormalizeClock(dl[i].Time) < NormalizeClock(dl[j].Time)
		})
		lines = append(lines, "", string(d)+":")
		if len(dl) == 0 {
			lines = append(lines, "No lessons.")
			continue
		}
		for _, l := range dl {
			l.Time = NormalizeClock(l.Time)
			lines = append(lines, l.Line())
		}
	}
	return SplitMessage(lines, MaxMessageLen)
}

// SplitMessage joins lines with newlines into as few texts as possible, each
// shorter than limit in bytes. A single line longer than limit is cut on a
// rune boundary.
func SplitMessage(lines []string, limit int) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, line := range lines {
		for len(line) >= limit {
			flush()
			n := limit - 1
			for n > 0 && !utf8.RuneStart(line[n]) {
				n--
			}
			if n == 0 {
				_, n = utf8.DecodeRuneInString(line)
			}
			out = append(out, line[:n])
			line = line[n:]
		}
		if cur.Len() > 0 && cur.Len()+1+len(line) >= limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()
	return out
}
