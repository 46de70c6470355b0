// Package storetest provides an in-memory store.Repo for tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
	"github.com/rolewj/class-schedule-notifications-bot/internal/store"
)

// Repo is a goroutine-safe in-memory store.Repo. Errors can be injected per
// method name with FailOn.
type Repo struct {
	mu      sync.Mutex
	nextID  int64
	lessons []domain.Lesson
	subs    map[int64]domain.Subscription
	fail    map[string]error
	calls   map[string]int
}

var _ store.Repo = (*Repo)(nil)

// New returns an empty Repo.
func New() *Repo {
	return &Repo{
		nextID: 1,
		subs:   make(map[int64]domain.Subscription),
		fail:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// FailOn makes every call to method return err until cleared with a nil err.
func (r *Repo) FailOn(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, method)
		return
	}
	r.fail[method] = err
}

// Calls reports how many times method was invoked.
func (r *Repo) Calls(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

// Lessons returns a snapshot of every stored lesson.
func (r *Repo) Lessons() []domain.Lesson {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Lesson(nil), r.lessons...)
}

// Subscription returns the stored row for userID.
func (r *Repo) Subscription(userID int64) (domain.Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[userID]
	return s, ok
}

// check records a call and returns the injected error, if any. r.mu must be held.
func (r *Repo) check(method string) error {
	r.calls[method]++
	return r.fail[method]
}

func (r *Repo) InsertLesson(_ context.Context, l *domain.Lesson) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("InsertLesson"); err != nil {
		return 0, err
	}
	l.ID = r.nextID
	r.nextID++
	r.lessons = append(r.lessons, *l)
	return l.ID, nil
}

func (r *Repo) UpdateLesson(_ context.Context, id int64, d domain.LessonDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("UpdateLesson"); err != nil {
		return err
	}
	for i := range r.lessons {
		if r.lessons[i].ID == id {
			r.lessons[i].Time, r.lessons[i].Name = d.Time, d.Name
			r.lessons[i].Teacher, r.lessons[i].Classroom = d.Teacher, d.Classroom
			return nil
		}
	}
	return fmt.Errorf("lesson %d: %w", id, domain.ErrNotFound)
}

func (r *Repo) DeleteLesson(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("DeleteLesson"); err != nil {
		return err
	}
	for i, l := range r.lessons {
		if l.ID == id && l.UserID == userID {
			r.lessons = append(r.lessons[:i], r.lessons[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("lesson %d: %w", id, domain.ErrNotFound)
}

func (r *Repo) DeleteLessonsForDay(_ context.Context, userID int64, day domain.WeekDay) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("DeleteLessonsForDay"); err != nil {
		return 0, err
	}
	var (
		kept []domain.Lesson
		n    int64
	)
	for _, l := range r.lessons {
		if l.UserID == userID && l.WeekDay == day {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.lessons = kept
	return n, nil
}

func (r *Repo) ListLessonsForDay(_ context.Context, userID int64, day domain.WeekDay) ([]domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("ListLessonsForDay"); err != nil {
		return nil, err
	}
	var out []domain.Lesson
	for _, l := range r.lessons {
		if l.UserID == userID && l.WeekDay == day {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *Repo) ListLessonsForUser(_ context.Context, userID int64) ([]domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("ListLessonsForUser"); err != nil {
		return nil, err
	}
	var out []domain.Lesson
	for _, l := range r.lessons {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *Repo) FindLessonID(_ context.Context, userID int64, day domain.WeekDay, lessonTime, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("FindLessonID"); err != nil {
		return 0, err
	}
	for _, l := range r.lessons {
		if l.UserID == userID && l.WeekDay == day && l.Time == lessonTime && l.Name == name {
			return l.ID, nil
		}
	}
	return 0, fmt.Errorf("find lesson: %w", domain.ErrNotFound)
}

func (r *Repo) GetLesson(_ context.Context, id int64) (*domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("GetLesson"); err != nil {
		return nil, err
	}
	for _, l := range r.lessons {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("lesson %d: %w", id, domain.ErrNotFound)
}

func (r *Repo) UpsertSubscription(_ context.Context, s domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("UpsertSubscription"); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s.LastFiredOn = r.subs[s.UserID].LastFiredOn
	r.subs[s.UserID] = s
	return nil
}

func (r *Repo) SetSubscriptionActive(_ context.Context, userID int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("SetSubscriptionActive"); err != nil {
		return err
	}
	if s, ok := r.subs[userID]; ok {
		s.Active = active
		r.subs[userID] = s
	}
	return nil
}

func (r *Repo) GetSubscription(_ context.Context, userID int64) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("GetSubscription"); err != nil {
		return nil, err
	}
	s, ok := r.subs[userID]
	if !ok {
		return nil, fmt.Errorf("subscription %d: %w", userID, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *Repo) ListActiveSubscriptions(_ context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("ListActiveSubscriptions"); err != nil {
		return nil, err
	}
	var out []domain.Subscription
	for _, s := range r.subs {
		if s.Active && s.NotifyUTC != "" {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *Repo) MarkFired(_ context.Context, userID int64, localDate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("MarkFired"); err != nil {
		return err
	}
	if s, ok := r.subs[userID]; ok {
		s.LastFiredOn = localDate
		r.subs[userID] = s
	}
	return nil
}

func (r *Repo) ListAllLessons(_ context.Context) ([]domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("ListAllLessons"); err != nil {
		return nil, err
	}
	return append([]domain.Lesson(nil), r.lessons...), nil
}

func (r *Repo) ListAllSubscriptions(_ context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("ListAllSubscriptions"); err != nil {
		return nil, err
	}
	out := make([]domain.Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *Repo) ResetLessons(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("ResetLessons"); err != nil {
		return err
	}
	r.lessons = nil
	r.nextID = 1
	return nil
}

func (r *Repo) ResetSubscriptions(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("ResetSubscriptions"); err != nil {
		return err
	}
	r.subs = make(map[int64]domain.Subscription)
	return nil
}

func (r *Repo) Ping(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.check("Ping")
}

func (r *Repo) Close() error { return nil }
