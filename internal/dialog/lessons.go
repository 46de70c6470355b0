package dialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
)

// Add flow.

func (m *Machine) onAddWeekDay(ctx context.Context, s *turn, text string) []Reply {
	day, err := domain.ParseWeekDay(text)
	if err != nil {
		return m.badWeekDay(ctx, text)
	}
	s.Data[keyWeekDay] = day.String()
	m.advance(ctx, s, evDayChosen)
	return sayWith(askLessonFormat, backKeyboard())
}

func (m *Machine) onAddDetails(ctx context.Context, s *turn, text string) []Reply {
	d, err := domain.ParseLessonDetails(text)
	if err != nil {
		return sayWith(invalidLessonFormat, backKeyboard())
	}
	l := &domain.Lesson{
		UserID:    s.UserID,
		WeekDay:   domain.WeekDay(s.Data[keyWeekDay]),
		Time:      d.Time,
		Name:      d.Name,
		Teacher:   d.Teacher,
		Classroom: d.Classroom,
	}
	id, err := m.repo.InsertLesson(ctx, l)
	if err != nil {
		return m.storeFailed(s, "insert lesson", err)
	}
	s.log.Info("lesson added", zap.Int64("lesson_id", id), zap.String("week_day", l.WeekDay.String()))

	delete(s.Data, keyWeekDay)
	m.advance(ctx, s, evLessonSaved)
	return sayWith(lessonAdded, weekDaysKeyboard())
}

// Edit flow.

func (m *Machine) onEditWeekDay(ctx context.Context, s *turn, text string) []Reply {
	day, err := domain.ParseWeekDay(text)
	if err != nil {
		return m.badWeekDay(ctx, text)
	}
	lessons, err := m.repo.ListLessonsForDay(ctx, s.UserID, day)
	if err != nil {
		return m.readFailed(s, "list lessons", err)
	}
	if len(lessons) == 0 {
		return sayWith(fmt.Sprintf(noLessonsOnDay, day), weekDaysKeyboard())
	}

	s.Data[keySelectedDay] = day.String()
	labels := offerLessons(s.Session, lessons)
	m.advance(ctx, s, evDayChosen)
	return sayWith(askEditLesson, labelsKeyboard(labels))
}

func (m *Machine) onEditSelection(ctx context.Context, s *turn, text string) []Reply {
	id, err := m.resolveSelection(ctx, s.Session, text)
	if err != nil {
		return m.selectionFailed(s, err)
	}
	l, err := m.repo.GetLesson(ctx, id)
	if err != nil {
		return m.selectionFailed(s, err)
	}

	s.Data[keyLessonID] = strconv.FormatInt(l.ID, 10)
	s.Data[keyLessonTime] = l.Time
	s.Data[keyLessonName] = l.Name
	s.Data[keyTeacherName] = l.Teacher
	s.Data[keyClassroom] = l.Classroom
	clear(s.Choices)
	m.advance(ctx, s, evLessonSelected)
	return []Reply{
		{Text: fmt.Sprintf(currentDetails, l.Details())},
		{Text: askNewDetails, Keyboard: backKeyboard()},
	}
}

func (m *Machine) onEditDetails(ctx context.Context, s *turn, text string) []Reply {
	d, err := domain.ParseLessonDetails(text)
	if err != nil {
		return sayWith(invalidLessonFormat, backKeyboard())
	}
	id, err := strconv.ParseInt(s.Data[keyLessonID], 10, 64)
	if err != nil {
		s.log.Error("lesson id missing from session", zap.Error(err))
		m.advance(ctx, s, evBack)
		return menu(invalidChoice)
	}
	if err := m.repo.UpdateLesson(ctx, id, d); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return sayWith(invalidChoice, backKeyboard())
		}
		return m.storeFailed(s, "update lesson", err)
	}
	s.log.Info("lesson updated", zap.Int64("lesson_id", id))

	m.advance(ctx, s, evLessonUpdated)
	return menu(lessonUpdated)
}

// View.

func (m *Machine) onViewWeekDay(ctx context.Context, s *turn, text string) []Reply {
	day, err := domain.ParseWeekDay(text)
	if err != nil {
		return m.badWeekDay(ctx, text)
	}
	lessons, err := m.repo.ListLessonsForDay(ctx, s.UserID, day)
	if err != nil {
		return m.readFailed(s, "list lessons", err)
	}
	// The view loop stays put so another day can be picked.
	var out []Reply
	for _, text := range domain.RenderDay(day, lessons) {
		out = append(out, Reply{Text: text})
	}
	return append(out, Reply{Text: viewAnother, Keyboard: weekDaysKeyboard()})
}

func (m *Machine) showWeek(ctx context.Context, s *turn) []Reply {
	lessons, err := m.repo.ListLessonsForUser(ctx, s.UserID)
	if err != nil {
		s.log.Error("list week failed", zap.Error(err), zap.String("kind", domain.ErrorKind(err)))
		return menu(loadFailed)
	}
	return withMenu(domain.RenderWeek(lessons))
}

// Delete flow.

func (m *Machine) onDeleteWeekDay(ctx context.Context, s *turn, text string) []Reply {
	day, err := domain.ParseWeekDay(text)
	if err != nil {
		return m.badWeekDay(ctx, text)
	}
	lessons, err := m.repo.ListLessonsForDay(ctx, s.UserID, day)
	if err != nil {
		return m.readFailed(s, "list lessons", err)
	}
	if len(lessons) == 0 {
		return sayWith(fmt.Sprintf(noLessonsOnDay, day), weekDaysKeyboard())
	}

	s.Data[keySelectedDay] = day.String()
	m.advance(ctx, s, evDayChosen)
	return sayWith(askDeleteOption, deleteOptionsKeyboard())
}

func (m *Machine) onDeleteOption(ctx context.Context, s *turn, text string) []Reply {
	day := domain.WeekDay(s.Data[keySelectedDay])

	switch {
	case strings.EqualFold(text, btnDeleteOne):
		lessons, err := m.repo.ListLessonsForDay(ctx, s.UserID, day)
		if err != nil {
			return m.readFailed(s, "list lessons", err)
		}
		if len(lessons) == 0 {
			m.advance(ctx, s, evBack)
			return menu(fmt.Sprintf(noLessonsLeft, day))
		}
		labels := offerLessons(s.Session, lessons)
		m.advance(ctx, s, evDeleteOne)
		return sayWith(askDeleteLesson, labelsKeyboard(labels))

	case strings.EqualFold(text, btnDeleteWhole):
		m.advance(ctx, s, evDeleteDay)
		return sayWith(fmt.Sprintf(confirmDayWipe, day), yesNoBackKeyboard())

	default:
		return sayWith(invalidOption, deleteOptionsKeyboard())
	}
}

func (m *Machine) onDeleteSelection(ctx context.Context, s *turn, text string) []Reply {
	id, err := m.resolveSelection(ctx, s.Session, text)
	if err != nil {
		return m.selectionFailed(s, err)
	}
	if err := m.repo.DeleteLesson(ctx, s.UserID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return say(invalidChoice)
		}
		return m.storeFailed(s, "delete lesson", err)
	}
	s.log.Info("lesson deleted", zap.Int64("lesson_id", id))

	m.advance(ctx, s, evLessonDeleted)
	return menu(lessonDeleted)
}

func (m *Machine) onDayDeletionConfirm(ctx context.Context, s *turn, text string) []Reply {
	day := domain.WeekDay(s.Data[keySelectedDay])
	if !isYes(text) {
		m.advance(ctx, s, evDayDeletionDone)
		return menu(deleteCancelled)
	}

	n, err := m.repo.DeleteLessonsForDay(ctx, s.UserID, day)
	if err != nil {
		return m.storeFailed(s, "delete day", err)
	}
	s.log.Info("day deleted", zap.String("week_day", day.String()), zap.Int64("lessons", n))

	m.advance(ctx, s, evDayDeletionDone)
	return menu(fmt.Sprintf(dayDeleted, day))
}

// Selection.

// offerLessons records the lessons about to be offered in s.Choices and
// returns their button labels. Repeated labels get a " #n" suffix.
func offerLessons(s *Session, lessons []domain.Lesson) []string {
	clear(s.Choices)
	labels := make([]string, 0, len(lessons))
	seen := make(map[string]int, len(lessons))
	for _, l := range lessons {
		label := l.Label()
		seen[label]++
		if n := seen[label]; n > 1 {
			label = fmt.Sprintf("%s #%d", label, n)
		}
		s.Choices[label] = l.ID
		labels = append(labels, label)
	}
	return labels
}

// resolveSelection maps a chosen label to a lesson id. Labels that were not
// offered in this session, e.g. typed by hand, are parsed and looked up.
func (m *Machine) resolveSelection(ctx context.Context, s *Session, text string) (int64, error) {
	if id, ok := s.Choices[text]; ok {
		return id, nil
	}
	lessonTime, name, day, err := parseLabel(text)
	if err != nil {
		return 0, err
	}
	if sel := s.Data[keySelectedDay]; sel != "" && day != domain.WeekDay(sel) {
		return 0, &domain.ValidationError{Field: "selection", Reason: "lesson is on another day", Err: domain.ErrInvalidSelection}
	}
	return m.repo.FindLessonID(ctx, s.UserID, day, lessonTime, name)
}

// parseLabel splits "<time> - <name> (<weekday>)".
func parseLabel(label string) (lessonTime, name string, day domain.WeekDay, err error) {
	invalid := &domain.ValidationError{Field: "selection", Reason: "not a lesson label", Err: domain.ErrInvalidSelection}

	label = strings.TrimSpace(label)
	open := strings.LastIndex(label, " (")
	if open < 0 || !strings.HasSuffix(label, ")") {
		return "", "", "", invalid
	}
	day, err = domain.ParseWeekDay(label[open+2 : len(label)-1])
	if err != nil {
		return "", "", "", invalid
	}
	lessonTime, name, ok := strings.Cut(label[:open], " - ")
	if !ok || lessonTime == "" || name == "" {
		return "", "", "", invalid
	}
	return lessonTime, name, day, nil
}

// selectionFailed reprompts for invalid and unknown selections and reports
// anything else as a storage failure.
func (m *Machine) selectionFailed(s *turn, err error) []Reply {
	if errors.Is(err, domain.ErrInvalidSelection) || errors.Is(err, domain.ErrNotFound) {
		return say(invalidChoice)
	}
	return m.readFailed(s, "resolve selection", err)
}

// withMenu turns texts into replies, the last one carrying the main menu.
func withMenu(texts []string) []Reply {
	out := make([]Reply, len(texts))
	for i, t := range texts {
		out[i] = Reply{Text: t}
	}
	if len(out) > 0 {
		out[len(out)-1].Keyboard = mainMenuKeyboard()
	}
	return out
}
