package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
	"github.com/rolewj/class-schedule-notifications-bot/internal/storetest"
)

type sentMessage struct {
	chatID int64
	text   string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[int64]error
}

func (r *recordingSender) SendMessage(chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[chatID]; err != nil {
		return err
	}
	r.sent = append(r.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (r *recordingSender) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage(nil), r.sent...)
}

// 2025-03-03 is a Monday.
var monday1500 = time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, now time.Time) (*Scheduler, *storetest.Repo, *recordingSender) {
	t.Helper()
	repo := storetest.New()
	sender := &recordingSender{fail: map[int64]error{}}
	s := New(repo, zap.NewNop(), sender, "* * * * *")
	s.now = func() time.Time { return now }
	return s, repo, sender
}

func subscribe(t *testing.T, repo *storetest.Repo, userID int64, notifyUTC string, offset int) {
	t.Helper()
	require.NoError(t, repo.UpsertSubscription(context.Background(), domain.Subscription{
		UserID: userID, Active: true, NotifyUTC: notifyUTC, Offset: offset,
	}))
}

func addLesson(t *testing.T, repo *storetest.Repo, userID int64, day domain.WeekDay, lessonTime, name string) {
	t.Helper()
	_, err := repo.InsertLesson(context.Background(), &domain.Lesson{
		UserID: userID, WeekDay: day, Time: lessonTime, Name: name, Teacher: "Smith A.", Classroom: "420",
	})
	require.NoError(t, err)
}

func TestTickFiresAtSubscribedMinute(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500.Add(25*time.Second))
	subscribe(t, repo, 1, "15:00", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Defense of Information")
	addLesson(t, repo, 1, domain.Monday, "8:00", "Not tomorrow")

	st := s.Tick(context.Background())

	assert.Equal(t, Stats{Due: 1, Sent: 1}, st)
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(1), msgs[0].chatID)
	assert.Equal(t, "Timetable for tomorrow (Tuesday):\n9:50 - Defense of Information, Smith A., room 420", msgs[0].text)

	sub, _ := repo.Subscription(1)
	assert.Equal(t, "2025-03-03", sub.LastFiredOn)
}

func TestTickOtherMinuteSendsNothing(t *testing.T) {
	for _, at := range []time.Time{monday1500.Add(time.Minute), monday1500.Add(-time.Minute), monday1500.Add(3 * time.Hour)} {
		s, repo, sender := newTestScheduler(t, at)
		subscribe(t, repo, 1, "15:00", 3)
		addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")

		st := s.Tick(context.Background())
		assert.Zero(t, st.Due, at)
		assert.Empty(t, sender.messages(), at)
	}
}

func TestTickTwiceInSameMinuteSendsOnce(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")

	first := s.Tick(context.Background())
	s.now = func() time.Time { return monday1500.Add(59 * time.Second) }
	second := s.Tick(context.Background())

	assert.Equal(t, 1, first.Sent)
	assert.Equal(t, Stats{Due: 1, Duplicate: 1}, second)
	assert.Len(t, sender.messages(), 1)
}

func TestTickFiresAgainNextDay(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")
	addLesson(t, repo, 1, domain.Wednesday, "11:30", "Physics")

	s.Tick(context.Background())
	s.now = func() time.Time { return monday1500.AddDate(0, 0, 1) }
	s.Tick(context.Background())

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].text, "(Wednesday)")
	assert.Contains(t, msgs[1].text, "Physics")
}

func TestTickUsesLocalTomorrow(t *testing.T) {
	// 22:00 UTC Monday is 01:00 Tuesday at UTC+3, so tomorrow is Wednesday.
	at := time.Date(2025, 3, 3, 22, 0, 0, 0, time.UTC)
	s, repo, sender := newTestScheduler(t, at)
	subscribe(t, repo, 1, "22:00", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")
	addLesson(t, repo, 1, domain.Wednesday, "11:30", "Physics")

	s.Tick(context.Background())

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].text, "(Wednesday)")
	sub, _ := repo.Subscription(1)
	assert.Equal(t, "2025-03-04", sub.LastFiredOn)
}

func TestTickEmptyDayIsSilent(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	addLesson(t, repo, 1, domain.Friday, "9:50", "Math")

	st := s.Tick(context.Background())

	assert.Equal(t, Stats{Due: 1, Empty: 1}, st)
	assert.Empty(t, sender.messages())
	sub, _ := repo.Subscription(1)
	assert.Equal(t, "2025-03-03", sub.LastFiredOn)
}

func TestTickSundayTomorrowIsSilent(t *testing.T) {
	saturday := time.Date(2025, 3, 8, 15, 0, 0, 0, time.UTC)
	s, repo, sender := newTestScheduler(t, saturday)
	subscribe(t, repo, 1, "15:00", 3)
	for _, d := range domain.WeekDays() {
		addLesson(t, repo, 1, d, "9:50", "Math")
	}

	st := s.Tick(context.Background())

	assert.Equal(t, Stats{Due: 1, Empty: 1}, st)
	assert.Empty(t, sender.messages())
	assert.Zero(t, repo.Calls("ListLessonsForDay"))
}

func TestTickSendFailureDoesNotStopScan(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	for _, id := range []int64{1, 2, 3} {
		subscribe(t, repo, id, "15:00", 3)
		addLesson(t, repo, id, domain.Tuesday, "9:50", "Math")
	}
	sender.fail[2] = errors.New("Forbidden: bot was blocked by the user")

	st := s.Tick(context.Background())

	assert.Equal(t, Stats{Due: 3, Sent: 2, Failed: 1}, st)
	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1), msgs[0].chatID)
	assert.Equal(t, int64(3), msgs[1].chatID)

	sub, _ := repo.Subscription(2)
	assert.Empty(t, sub.LastFiredOn)
}

func TestTickSkipsInactive(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")
	require.NoError(t, repo.SetSubscriptionActive(context.Background(), 1, false))

	st := s.Tick(context.Background())
	assert.Zero(t, st.Due)
	assert.Empty(t, sender.messages())
}

func TestTickListFailure(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	repo.FailOn("ListActiveSubscriptions", errors.New("database is locked"))

	assert.Equal(t, Stats{}, s.Tick(context.Background()))
	assert.Empty(t, sender.messages())
}

func TestTickSplitsLongDay(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	long := strings.Repeat("n", 1500)
	for _, at := range []string{"08:00", "09:50", "11:40"} {
		addLesson(t, repo, 1, domain.Tuesday, at, long)
	}

	st := s.Tick(context.Background())

	assert.Equal(t, Stats{Due: 1, Sent: 1}, st)
	msgs := sender.messages()
	require.Greater(t, len(msgs), 1)
	for _, m := range msgs {
		assert.Less(t, len(m.text), domain.MaxMessageLen)
	}
	sub, _ := repo.Subscription(1)
	assert.Equal(t, "2025-03-03", sub.LastFiredOn)
}

type failAfterSender struct {
	recordingSender
	ok int
}

func (f *failAfterSender) SendMessage(chatID int64, text string) error {
	f.mu.Lock()
	n := len(f.sent)
	f.mu.Unlock()
	if n >= f.ok {
		return errors.New("Too Many Requests: retry after 5")
	}
	return f.recordingSender.SendMessage(chatID, text)
}

func TestTickPartialSendIsNotMarked(t *testing.T) {
	s, repo, _ := newTestScheduler(t, monday1500)
	sender := &failAfterSender{ok: 1}
	s.sender = sender
	subscribe(t, repo, 1, "15:00", 3)
	long := strings.Repeat("n", 1500)
	for _, at := range []string{"08:00", "09:50", "11:40"} {
		addLesson(t, repo, 1, domain.Tuesday, at, long)
	}

	st := s.Tick(context.Background())

	assert.Equal(t, Stats{Due: 1, Failed: 1}, st)
	assert.Len(t, sender.messages(), 1)
	sub, _ := repo.Subscription(1)
	assert.Empty(t, sub.LastFiredOn)
	assert.Zero(t, repo.Calls("MarkFired"))
}

func TestTickRemembersFiredWhenStoreFails(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")
	repo.FailOn("MarkFired", errors.New("database is locked"))

	first := s.Tick(context.Background())
	s.now = func() time.Time { return monday1500.Add(30 * time.Second) }
	second := s.Tick(context.Background())

	assert.Equal(t, Stats{Due: 1, Sent: 1}, first)
	assert.Equal(t, Stats{Due: 1, Duplicate: 1}, second)
	assert.Len(t, sender.messages(), 1)
}

func TestTickAtUsesGivenMinute(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500.Add(5*time.Minute))
	subscribe(t, repo, 1, "15:00", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")

	st := s.TickAt(context.Background(), monday1500.Add(10*time.Second))

	assert.Equal(t, Stats{Due: 1, Sent: 1}, st)
	assert.Len(t, sender.messages(), 1)
}

func TestJobWaitsAndKeepsActivationMinute(t *testing.T) {
	s, repo, sender := newTestScheduler(t, monday1500)
	subscribe(t, repo, 1, "15:00", 3)
	subscribe(t, repo, 2, "15:02", 3)
	addLesson(t, repo, 1, domain.Tuesday, "9:50", "Math")
	addLesson(t, repo, 2, domain.Tuesday, "9:50", "Math")

	var calls atomic.Int32
	activated := make(chan struct{})
	s.now = func() time.Time {
		if calls.Add(1) == 1 {
			close(activated)
			return monday1500
		}
		return monday1500.Add(2 * time.Minute)
	}

	// A previous tick is still running.
	s.running.Lock()
	done := make(chan struct{})
	go func() {
		s.job(context.Background())()
		close(done)
	}()
	<-activated
	s.running.Unlock()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(1), msgs[0].chatID)
}

func TestRunRejectsBadSpec(t *testing.T) {
	s, _, _ := newTestScheduler(t, monday1500)
	s.spec = "every minute"
	err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _, _ := newTestScheduler(t, monday1500)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
