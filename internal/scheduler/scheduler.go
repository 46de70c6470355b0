package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
	"github.com/rolewj/class-schedule-notifications-bot/internal/store"
)

// Sender is a minimal interface the scheduler needs to send a text message.
// telegram.Messenger implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Stats summarises one tick.
type Stats struct {
	Due       int // subscriptions whose time matched
	Sent      int
	Empty     int // nothing to remind about tomorrow
	Duplicate int // already fired today
	Failed    int
}

type outcome int

const (
	sent outcome = iota
	empty
	duplicate
	failed
)

// Scheduler polls the active subscriptions once a minute and sends each due
// subscriber tomorrow's timetable, at most once per local day.
type Scheduler struct {
	repo   store.Repo
	log    *zap.Logger
	sender Sender
	spec   string
	now    func() time.Time

	// running serializes ticks.
	running sync.Mutex

	// fired remembers the local date of the last reminder per user for when
	// the store could not record it.
	firedMu sync.Mutex
	fired   map[int64]string
}

// New creates a Scheduler. spec is a standard five-field cron expression
// evaluated in UTC.
func New(repo store.Repo, log *zap.Logger, sender Sender, spec string) *Scheduler {
	return &Scheduler{
		repo:   repo,
		log:    log,
		sender: sender,
		spec:   spec,
		now:    time.Now,
		fired:  make(map[int64]string),
	}
}

// Run starts the poll job and blocks until ctx is canceled. Ticks never
// overlap: one that comes due while another is in progress waits for it and
// then handles the minute it was activated in.
func (s *Scheduler) Run(ctx context.Context) error {
	clog := cronLogger{s.log}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog)),
	)
	if _, err := c.AddFunc(s.spec, s.job(ctx)); err != nil {
		return fmt.Errorf("schedule poll %q: %w", s.spec, err)
	}

	c.Start()
	s.log.Info("scheduler started", zap.String("spec", s.spec))

	<-ctx.Done()
	s.log.Info("scheduler stopping")
	<-c.Stop().Done()
	return nil
}

// job returns the cron job. The minute is taken when cron activates the job,
// before waiting for a previous tick to finish.
func (s *Scheduler) job(ctx context.Context) func() {
	return func() {
		at := s.now()
		s.running.Lock()
		defer s.running.Unlock()
		if waited := s.now().Sub(at); waited >= time.Minute {
			s.log.Warn("tick delayed by previous one", zap.Duration("waited", waited))
		}
		s.TickAt(ctx, at)
	}
}

// Tick performs one scheduling cycle for the current UTC minute.
func (s *Scheduler) Tick(ctx context.Context) Stats {
	return s.TickAt(ctx, s.now())
}

// TickAt finds subscriptions due in the UTC minute containing at and sends
// each one its reminder.
func (s *Scheduler) TickAt(ctx context.Context, at time.Time) Stats {
	now := at.UTC().Truncate(time.Minute)
	clock := domain.UTCClock(now)
	log := s.log.With(zap.String("tick_id", uuid.NewString()), zap.String("utc", clock))

	subs, err := s.repo.ListActiveSubscriptions(ctx)
	if err != nil {
		log.Error("ListActiveSubscriptions failed", zap.Error(err))
		return Stats{}
	}

	var st Stats
	for _, sub := range subs {
		if sub.NotifyUTC != clock {
			continue
		}
		st.Due++
		switch s.fire(ctx, log.With(zap.Int64("user_id", sub.UserID)), sub, now) {
		case sent:
			st.Sent++
		case empty:
			st.Empty++
		case duplicate:
			st.Duplicate++
		case failed:
			st.Failed++
		}
	}

	if st.Due > 0 {
		log.Info("tick done",
			zap.Int("due", st.Due),
			zap.Int("sent", st.Sent),
			zap.Int("empty", st.Empty),
			zap.Int("duplicate", st.Duplicate),
			zap.Int("failed", st.Failed),
		)
	}
	return st
}

func (s *Scheduler) fire(ctx context.Context, log *zap.Logger, sub domain.Subscription, now time.Time) outcome {
	today := domain.LocalDate(now, sub.Offset)
	if sub.LastFiredOn == today || s.firedOn(sub.UserID) == today {
		log.Debug("already fired today", zap.String("local_date", today))
		return duplicate
	}

	day, ok := domain.TomorrowWeekDay(now, sub.Offset)
	if !ok {
		log.Info("no teaching day tomorrow")
		s.markFired(ctx, log, sub.UserID, today)
		return empty
	}

	lessons, err := s.repo.ListLessonsForDay(ctx, sub.UserID, day)
	if err != nil {
		log.Error("ListLessonsForDay failed", zap.Error(err))
		return failed
	}
	if len(lessons) == 0 {
		log.Info("no lessons tomorrow", zap.String("week_day", day.String()))
		s.markFired(ctx, log, sub.UserID, today)
		return empty
	}

	msgs := domain.RenderReminder(day, lessons)
	for i, text := range msgs {
		if err := s.sender.SendMessage(sub.UserID, text); err != nil {
			log.Error("send failed", zap.Int("part", i+1), zap.Int("parts", len(msgs)), zap.Error(err))
			return failed
		}
	}
	log.Info("reminder sent",
		zap.String("week_day", day.String()),
		zap.Int("lessons", len(lessons)),
		zap.Int("parts", len(msgs)),
	)
	s.markFired(ctx, log, sub.UserID, today)
	return sent
}

func (s *Scheduler) markFired(ctx context.Context, log *zap.Logger, userID int64, localDate string) {
	s.firedMu.Lock()
	s.fired[userID] = localDate
	s.firedMu.Unlock()

	if err := s.repo.MarkFired(ctx, userID, localDate); err != nil {
		log.Error("MarkFired failed", zap.Error(err))
	}
}

func (s *Scheduler) firedOn(userID int64) string {
	s.firedMu.Lock()
	defer s.firedMu.Unlock()
	return s.fired[userID]
}

// cronLogger routes cron's own messages into zap.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
