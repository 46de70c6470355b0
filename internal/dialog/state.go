package dialog

// State is what input the conversation expects next.
type State int

const (
	Idle State = iota
	AwaitingWeekDayForAdd
	AwaitingLessonDetailsForAdd
	AwaitingWeekDayForEdit
	AwaitingLessonSelectionForEdit
	AwaitingLessonDetailsForEdit
	AwaitingWeekDayForView
	AwaitingWeekDayForDelete
	AwaitingDeleteOption
	AwaitingLessonSelectionForDelete
	AwaitingDayDeletionConfirmation
	AwaitingNotificationOptIn
	AwaitingNotificationTime
	AwaitingNotificationTimezone
	AwaitingDestructiveConfirmation

	numStates // sentinel, keep last
)

var stateNames = [numStates]string{
	Idle:                             "idle",
	AwaitingWeekDayForAdd:            "await_weekday_add",
	AwaitingLessonDetailsForAdd:      "await_details_add",
	AwaitingWeekDayForEdit:           "await_weekday_edit",
	AwaitingLessonSelectionForEdit:   "await_selection_edit",
	AwaitingLessonDetailsForEdit:     "await_details_edit",
	AwaitingWeekDayForView:           "await_weekday_view",
	AwaitingWeekDayForDelete:         "await_weekday_delete",
	AwaitingDeleteOption:             "await_delete_option",
	AwaitingLessonSelectionForDelete: "await_selection_delete",
	AwaitingDayDeletionConfirmation:  "await_day_deletion_confirm",
	AwaitingNotificationOptIn:        "await_notification_optin",
	AwaitingNotificationTime:         "await_notification_time",
	AwaitingNotificationTimezone:     "await_notification_tz",
	AwaitingDestructiveConfirmation:  "await_destructive_confirm",
}

func (s State) String() string {
	if s < 0 || s >= numStates {
		return "unknown"
	}
	return stateNames[s]
}

func parseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return Idle, false
}

// States returns every state, Idle first.
func States() []State {
	out := make([]State, numStates)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

// expectsWeekDay reports whether s parses its input as a week day.
func (s State) expectsWeekDay() bool {
	switch s {
	case AwaitingWeekDayForAdd, AwaitingWeekDayForEdit, AwaitingWeekDayForView, AwaitingWeekDayForDelete:
		return true
	}
	return false
}
