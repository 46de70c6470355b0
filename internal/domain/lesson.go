package domain

import (
	"fmt"
	"strings"
)

// Lesson is one row of a user's weekly timetable.
type Lesson struct {
	ID        int64
	UserID    int64
	WeekDay   WeekDay
	Time      string // free text, usually H:MM
	Name      string
	Teacher   string
	Classroom string
}

// LessonDetails are the user-editable fields of a lesson.
type LessonDetails struct {
	Time      string
	Name      string
	Teacher   string
	Classroom string
}

// Details returns the editable part of l.
func (l Lesson) Details() LessonDetails {
	return LessonDetails{Time: l.Time, Name: l.Name, Teacher: l.Teacher, Classroom: l.Classroom}
}

// Label renders l the way it is shown on a selection button.
func (l Lesson) Label() string {
	return fmt.Sprintf("%s - %s (%s)", l.Time, l.Name, l.WeekDay)
}

// Line renders l as one line of a day listing.
func (l Lesson) Line() string {
	return fmt.Sprintf("%s - %s, %s, room %s", l.Time, l.Name, l.Teacher, l.Classroom)
}

func (d LessonDetails) String() string {
	return strings.Join([]string{d.Time, d.Name, d.Teacher, d.Classroom}, ", ")
}

// ParseLessonDetails splits "time, name, teacher, classroom" into its four
// fields. Any other number of fields, or an empty field, is rejected.
func ParseLessonDetails(s string) (LessonDetails, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return LessonDetails{}, &ValidationError{
			Field:  "lesson",
			Reason: fmt.Sprintf("expected 4 comma-separated fields, got %d", len(parts)),
			Err:    ErrInvalidLessonDetails,
		}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return LessonDetails{}, &ValidationError{
				Field:  "lesson",
				Reason: fmt.Sprintf("field %d is empty", i+1),
				Err:    ErrInvalidLessonDetails,
			}
		}
	}
	return LessonDetails{Time: parts[0], Name: parts[1], Teacher: parts[2], Classroom: parts[3]}, nil
}
