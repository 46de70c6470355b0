package dialog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
	"github.com/rolewj/class-schedule-notifications-bot/internal/sentiment"
	"github.com/rolewj/class-schedule-notifications-bot/internal/store"
)

// Command is a user-facing command, named without the leading slash.
type Command string

const (
	CmdStart              Command = "start"
	CmdHelp               Command = "help"
	CmdAdd                Command = "add"
	CmdEdit               Command = "edit"
	CmdDelete             Command = "delete"
	CmdView               Command = "view"
	CmdWeek               Command = "week"
	CmdNotification       Command = "notification"
	CmdDumpSchedule       Command = "dump-schedule"
	CmdDumpSubscriptions  Command = "dump-subscriptions"
	CmdResetSchedule      Command = "reset-schedule"
	CmdResetSubscriptions Command = "reset-subscriptions"
)

// ParseCommand recognises "/name" and "/name@bot". Underscores are accepted in
// place of dashes since chat clients do not allow dashes in commands.
func ParseCommand(text string) (Command, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text[1:])
	if len(name) == 0 {
		return "", true
	}
	cmd, _, _ := strings.Cut(name[0], "@")
	cmd = strings.ReplaceAll(strings.ToLower(cmd), "_", "-")
	if cmd == "show" {
		cmd = string(CmdView)
	}
	return Command(cmd), true
}

func (c Command) adminOnly() bool {
	switch c {
	case CmdDumpSchedule, CmdDumpSubscriptions, CmdResetSchedule, CmdResetSubscriptions:
		return true
	}
	return false
}

// turn is the session being worked on by one Handle call, plus a logger
// carrying the turn's correlation id.
type turn struct {
	*Session
	log *zap.Logger
}

type handlerFunc func(ctx context.Context, t *turn, text string) []Reply

// Machine runs the per-user conversation. Each call to Handle is one turn;
// turns of the same user must not run concurrently.
type Machine struct {
	repo     store.Repo
	sessions SessionStore
	flavor   *sentiment.Flavorer
	adminID  int64
	log      *zap.Logger
	handlers map[State]handlerFunc
}

// NewMachine creates a Machine. flavor may be nil; adminID 0 disables admin commands.
func NewMachine(repo store.Repo, sessions SessionStore, flavor *sentiment.Flavorer, adminID int64, log *zap.Logger) *Machine {
	m := &Machine{
		repo:     repo,
		sessions: sessions,
		flavor:   flavor,
		adminID:  adminID,
		log:      log,
	}
	m.handlers = map[State]handlerFunc{
		Idle:                             m.onIdle,
		AwaitingWeekDayForAdd:            m.onAddWeekDay,
		AwaitingLessonDetailsForAdd:      m.onAddDetails,
		AwaitingWeekDayForEdit:           m.onEditWeekDay,
		AwaitingLessonSelectionForEdit:   m.onEditSelection,
		AwaitingLessonDetailsForEdit:     m.onEditDetails,
		AwaitingWeekDayForView:           m.onViewWeekDay,
		AwaitingWeekDayForDelete:         m.onDeleteWeekDay,
		AwaitingDeleteOption:             m.onDeleteOption,
		AwaitingLessonSelectionForDelete: m.onDeleteSelection,
		AwaitingDayDeletionConfirmation:  m.onDayDeletionConfirm,
		AwaitingNotificationOptIn:        m.onOptIn,
		AwaitingNotificationTime:         m.onNotifyTime,
		AwaitingNotificationTimezone:     m.onTimezone,
		AwaitingDestructiveConfirmation:  m.onDestructiveConfirm,
	}
	return m
}

// Handle processes one inbound message and returns the replies to send.
func (m *Machine) Handle(ctx context.Context, userID int64, text string) []Reply {
	text = strings.TrimSpace(text)
	s := m.sessions.Get(userID)
	t := &turn{
		Session: &s,
		log:     m.log.With(zap.String("turn_id", uuid.NewString()), zap.Int64("user_id", userID)),
	}
	from := s.State

	var out []Reply
	if cmd, ok := ParseCommand(text); ok {
		out = m.command(ctx, t, cmd)
	} else {
		out = m.input(ctx, t, text)
	}

	m.sessions.Put(s)
	t.log.Debug("turn handled", zap.Stringer("from", from), zap.Stringer("to", s.State))
	return out
}

// State returns the user's current state.
func (m *Machine) State(userID int64) State {
	return m.sessions.Get(userID).State
}

func (m *Machine) command(ctx context.Context, s *turn, cmd Command) []Reply {
	if cmd.adminOnly() && !m.isAdmin(s.UserID) {
		s.log.Warn("admin command refused", zap.String("command", string(cmd)))
		return say(permissionDenied)
	}

	// Commands work from any state and abandon the current flow.
	s.reset()

	switch cmd {
	case CmdStart, CmdHelp:
		return menu(startText)
	case CmdAdd:
		m.advance(ctx, s, evStartAdd)
		return sayWith(askAddDay, weekDaysKeyboard())
	case CmdEdit:
		m.advance(ctx, s, evStartEdit)
		return sayWith(askEditDay, weekDaysKeyboard())
	case CmdDelete:
		m.advance(ctx, s, evStartDelete)
		return sayWith(askDeleteDay, weekDaysKeyboard())
	case CmdView:
		m.advance(ctx, s, evStartView)
		return sayWith(askViewDay, weekDaysKeyboard())
	case CmdWeek:
		return m.showWeek(ctx, s)
	case CmdNotification:
		return m.startNotification(ctx, s)
	case CmdDumpSchedule:
		return m.dumpSchedule(ctx, s)
	case CmdDumpSubscriptions:
		return m.dumpSubscriptions(ctx, s)
	case CmdResetSchedule:
		return m.startReset(ctx, s, targetSchedule)
	case CmdResetSubscriptions:
		return m.startReset(ctx, s, targetSubscriptions)
	default:
		return menu(unknownCommand)
	}
}

func (m *Machine) input(ctx context.Context, s *turn, text string) []Reply {
	if isBack(text) {
		if s.State != Idle {
			m.advance(ctx, s, evBack)
		}
		return menu(menuText)
	}
	h, ok := m.handlers[s.State]
	if !ok {
		s.log.Error("no handler for state", zap.Stringer("state", s.State))
		s.reset()
		return menu(menuText)
	}
	return h(ctx, s, text)
}

func (m *Machine) onIdle(_ context.Context, _ *turn, _ string) []Reply {
	return menu(menuText)
}

// advance applies event to s. Reaching Idle clears the session.
func (m *Machine) advance(ctx context.Context, s *turn, event string) {
	to, err := nextState(ctx, s.State, event)
	if err != nil {
		s.log.Error("illegal transition", zap.Error(err))
		return
	}
	s.State = to
	if to == Idle {
		s.reset()
	}
}

func (m *Machine) isAdmin(userID int64) bool {
	return m.adminID != 0 && userID == m.adminID
}

// storeFailed logs a failed write and tells the user to retry. The state is
// left as is.
func (m *Machine) storeFailed(s *turn, op string, err error) []Reply {
	s.log.Error(op+" failed",
		zap.Error(err),
		zap.String("kind", domain.ErrorKind(err)),
		zap.Stringer("state", s.State),
	)
	return say(persistenceFailed)
}

func (m *Machine) readFailed(s *turn, op string, err error) []Reply {
	s.log.Error(op+" failed",
		zap.Error(err),
		zap.String("kind", domain.ErrorKind(err)),
		zap.Stringer("state", s.State),
	)
	return say(loadFailed)
}

// badWeekDay reprompts for a day, flavoured by the mood of what was typed.
func (m *Machine) badWeekDay(ctx context.Context, text string) []Reply {
	return sayWith(m.flavor.Flavor(ctx, text, invalidWeekDay), weekDaysKeyboard())
}

func isBack(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), btnBack)
}

func isYes(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), btnYes)
}

func isNo(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), btnNo)
}
