package dialog

import "sync"

// Session data keys.
const (
	keyWeekDay     = "weekDay"
	keySelectedDay = "selectedDay"
	keyLessonID    = "lessonId"
	keyLessonTime  = "lessonTime"
	keyLessonName  = "lessonName"
	keyTeacherName = "teacherName"
	keyClassroom   = "classroom"
	keyNotifyTime  = "notificationTime"
	keyResetTarget = "resetTarget"
)

// Values of keyResetTarget.
const (
	targetSchedule      = "schedule"
	targetSubscriptions = "subscriptions"
)

// Session is one user's position in a conversation plus the input collected
// so far. Choices maps the labels of the lessons last offered for selection
// to their ids.
type Session struct {
	UserID  int64
	State   State
	Data    map[string]string
	Choices map[string]int64
}

func newSession(userID int64) Session {
	return Session{
		UserID:  userID,
		State:   Idle,
		Data:    make(map[string]string),
		Choices: make(map[string]int64),
	}
}

// reset returns the session to Idle and drops everything collected.
func (s *Session) reset() {
	s.State = Idle
	clear(s.Data)
	clear(s.Choices)
}

// SessionStore keeps sessions between turns. Get never fails: an unknown user
// gets a fresh Idle session.
type SessionStore interface {
	Get(userID int64) Session
	Put(s Session)
}

// MemoryStore is an in-process SessionStore. Sessions do not survive restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

// Get returns a copy of the user's session.
func (m *MemoryStore) Get(userID int64) Session {
	m.mu.RLock()
	stored, ok := m.sessions[userID]
	m.mu.RUnlock()

	s := newSession(userID)
	if !ok {
		return s
	}
	s.State = stored.State
	for k, v := range stored.Data {
		s.Data[k] = v
	}
	for k, v := range stored.Choices {
		s.Choices[k] = v
	}
	return s
}

// Put stores s. Idle sessions carry nothing, so they are dropped.
func (m *MemoryStore) Put(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.State == Idle {
		delete(m.sessions, s.UserID)
		return
	}
	m.sessions[s.UserID] = s
}

