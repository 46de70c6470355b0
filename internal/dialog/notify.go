package dialog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
)

func (m *Machine) startNotification(ctx context.Context, s *turn) []Reply {
	text := notificationIntro
	sub, err := m.repo.GetSubscription(ctx, s.UserID)
	switch {
	case err == nil && sub.Active:
		if local, err := domain.UTCToLocal(sub.NotifyUTC, sub.Offset); err == nil {
			text = fmt.Sprintf(currentSubscription, local, sub.Offset) + "\n" + text
		}
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		s.log.Warn("get subscription failed", zap.Error(err))
	}

	m.advance(ctx, s, evStartNotification)
	return sayWith(text, yesNoBackKeyboard())
}

func (m *Machine) onOptIn(ctx context.Context, s *turn, text string) []Reply {
	switch {
	case isYes(text):
		m.advance(ctx, s, evOptIn)
		return sayWith(askNotifyTime, backKeyboard())

	case isNo(text):
		err := m.repo.SetSubscriptionActive(ctx, s.UserID, false)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return m.storeFailed(s, "unsubscribe", err)
		}
		s.log.Info("unsubscribed")
		m.advance(ctx, s, evOptOut)
		return menu(unsubscribed)

	default:
		return sayWith(askYesNo, yesNoBackKeyboard())
	}
}

func (m *Machine) onNotifyTime(ctx context.Context, s *turn, text string) []Reply {
	mins, err := domain.ParseClock(text)
	if err != nil {
		return sayWith(invalidNotifyTime, backKeyboard())
	}
	s.Data[keyNotifyTime] = domain.FormatMinutes(mins)
	m.advance(ctx, s, evTimeChosen)
	return sayWith(askTimezone, backKeyboard())
}

func (m *Machine) onTimezone(ctx context.Context, s *turn, text string) []Reply {
	offset, err := domain.ParseOffset(text)
	if err != nil {
		return sayWith(invalidTimezone, backKeyboard())
	}
	local := s.Data[keyNotifyTime]
	utc, err := domain.LocalToUTC(local, offset)
	if err != nil {
		s.log.Error("notification time missing from session", zap.Error(err))
		m.advance(ctx, s, evBack)
		return menu(invalidNotifyTime)
	}

	sub := domain.Subscription{
		UserID:    s.UserID,
		Active:    true,
		NotifyUTC: utc,
		Offset:    offset,
	}
	if err := m.repo.UpsertSubscription(ctx, sub); err != nil {
		return m.storeFailed(s, "upsert subscription", err)
	}
	s.log.Info("subscribed", zap.String("notify_utc", utc), zap.Int("offset", offset))

	m.advance(ctx, s, evSubscribed)
	return menu(fmt.Sprintf(subscribed, local, offset))
}
