package store

import (
	"database/sql"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
)

const lessonColumns = `id, user_id, week_day, lesson_time, lesson_name, teacher_name, classroom`

const subscriptionColumns = `user_id, active, notify_utc, tz_offset, last_fired_on`

type scanner interface {
	Scan(dest ...any) error
}

func scanLesson(s scanner) (domain.Lesson, error) {
	var (
		l   domain.Lesson
		day string
	)
	if err := s.Scan(&l.ID, &l.UserID, &day, &l.Time, &l.Name, &l.Teacher, &l.Classroom); err != nil {
		return domain.Lesson{}, err
	}
	l.WeekDay = domain.WeekDay(day)
	return l, nil
}

func scanSubscription(s scanner) (domain.Subscription, error) {
	var (
		sub       domain.Subscription
		activeInt int
		notifyNS  sql.NullString
		offsetNI  sql.NullInt64
		firedNS   sql.NullString
	)
	if err := s.Scan(&sub.UserID, &activeInt, &notifyNS, &offsetNI, &firedNS); err != nil {
		return domain.Subscription{}, err
	}
	sub.Active = activeInt != 0
	sub.NotifyUTC = notifyNS.String
	sub.Offset = int(offsetNI.Int64)
	sub.LastFiredOn = firedNS.String
	return sub, nil
}

func collectLessons(rows *sql.Rows) ([]domain.Lesson, error) {
	defer rows.Close()
	var res []domain.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func collectSubscriptions(rows *sql.Rows) ([]domain.Subscription, error) {
	defer rows.Close()
	var res []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
