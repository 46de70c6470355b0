package dialog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
)

func (m *Machine) dumpSchedule(ctx context.Context, s *turn) []Reply {
	lessons, err := m.repo.ListAllLessons(ctx)
	if err != nil {
		s.log.Error("dump schedule failed", zap.Error(err))
		return menu(loadFailed)
	}
	if len(lessons) == 0 {
		return menu(dumpScheduleEmpty)
	}
	lines := make([]string, 0, len(lessons)+1)
	lines = append(lines, dumpScheduleTitle)
	for _, l := range lessons {
		lines = append(lines, fmt.Sprintf(dumpLessonFmt, l.ID, l.UserID, l.WeekDay, l.Time, l.Name, l.Teacher, l.Classroom))
	}
	return withMenu(domain.SplitMessage(lines, domain.MaxMessageLen))
}

func (m *Machine) dumpSubscriptions(ctx context.Context, s *turn) []Reply {
	subs, err := m.repo.ListAllSubscriptions(ctx)
	if err != nil {
		s.log.Error("dump subscriptions failed", zap.Error(err))
		return menu(loadFailed)
	}
	if len(subs) == 0 {
		return menu(dumpSubsEmpty)
	}
	lines := make([]string, 0, len(subs)+1)
	lines = append(lines, dumpSubsTitle)
	for _, sub := range subs {
		fired := sub.LastFiredOn
		if fired == "" {
			fired = "-"
		}
		lines = append(lines, fmt.Sprintf(dumpSubFmt, sub.UserID, sub.Active, sub.NotifyUTC, sub.Offset, fired))
	}
	return withMenu(domain.SplitMessage(lines, domain.MaxMessageLen))
}

func (m *Machine) startReset(ctx context.Context, s *turn, target string) []Reply {
	s.Data[keyResetTarget] = target
	m.advance(ctx, s, evStartReset)
	prompt := confirmResetSchedule
	if target == targetSubscriptions {
		prompt = confirmResetSubs
	}
	return sayWith(prompt, yesNoBackKeyboard())
}

// onDestructiveConfirm wipes a table only on an explicit "yes".
func (m *Machine) onDestructiveConfirm(ctx context.Context, s *turn, text string) []Reply {
	target := s.Data[keyResetTarget]
	if !strings.EqualFold(strings.TrimSpace(text), "yes") || !m.isAdmin(s.UserID) {
		m.advance(ctx, s, evResetDone)
		return menu(resetCancelled)
	}

	var (
		err  error
		done string
	)
	switch target {
	case targetSchedule:
		done = scheduleReset
		err = m.repo.ResetLessons(ctx)
	case targetSubscriptions:
		done = subscriptionsReset
		err = m.repo.ResetSubscriptions(ctx)
	default:
		s.log.Error("unknown reset target", zap.String("target", target))
		m.advance(ctx, s, evResetDone)
		return menu(resetCancelled)
	}
	if err != nil {
		return m.storeFailed(s, "reset "+target, err)
	}
	s.log.Warn("table reset", zap.String("target", target))

	m.advance(ctx, s, evResetDone)
	return menu(done)
}
