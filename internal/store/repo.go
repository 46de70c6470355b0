package store

import (
	"context"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
)

// Repo defines storage operations for timetables and reminder subscriptions.
// Every method is a single atomic statement or transaction.
type Repo interface {
	InsertLesson(ctx context.Context, l *domain.Lesson) (int64, error)
	UpdateLesson(ctx context.Context, id int64, d domain.LessonDetails) error
	DeleteLesson(ctx context.Context, userID, id int64) error
	DeleteLessonsForDay(ctx context.Context, userID int64, day domain.WeekDay) (int64, error)
	ListLessonsForDay(ctx context.Context, userID int64, day domain.WeekDay) ([]domain.Lesson, error)
	ListLessonsForUser(ctx context.Context, userID int64) ([]domain.Lesson, error)
	FindLessonID(ctx context.Context, userID int64, day domain.WeekDay, lessonTime, name string) (int64, error)
	GetLesson(ctx context.Context, id int64) (*domain.Lesson, error)

	UpsertSubscription(ctx context.Context, s domain.Subscription) error
	SetSubscriptionActive(ctx context.Context, userID int64, active bool) error
	GetSubscription(ctx context.Context, userID int64) (*domain.Subscription, error)
	ListActiveSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	MarkFired(ctx context.Context, userID int64, localDate string) error

	// Admin operations.
	ListAllLessons(ctx context.Context) ([]domain.Lesson, error)
	ListAllSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	ResetLessons(ctx context.Context) error
	ResetSubscriptions(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}
