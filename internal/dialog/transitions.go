package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// Events that move a conversation between states.
const (
	evBack              = "back"
	evStartAdd          = "start_add"
	evStartEdit         = "start_edit"
	evStartView         = "start_view"
	evStartDelete       = "start_delete"
	evStartNotification = "start_notification"
	evStartReset        = "start_reset"
	evDayChosen         = "day_chosen"
	evLessonSaved       = "lesson_saved"
	evLessonSelected    = "lesson_selected"
	evLessonUpdated     = "lesson_updated"
	evDeleteOne         = "delete_one"
	evDeleteDay         = "delete_day"
	evLessonDeleted     = "lesson_deleted"
	evDayDeletionDone   = "day_deletion_done"
	evOptIn             = "opt_in"
	evOptOut            = "opt_out"
	evTimeChosen        = "time_chosen"
	evSubscribed        = "subscribed"
	evResetDone         = "reset_done"
)

func src(states ...State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.String()
	}
	return out
}

// transitions is the complete table of legal moves. Anything not listed here
// is rejected by the fsm.
var transitions = buildTransitions()

func buildTransitions() fsm.Events {
	var nonIdle []State
	for _, s := range States() {
		if s != Idle {
			nonIdle = append(nonIdle, s)
		}
	}

	return fsm.Events{
		{Name: evBack, Src: src(nonIdle...), Dst: Idle.String()},

		{Name: evStartAdd, Src: src(Idle), Dst: AwaitingWeekDayForAdd.String()},
		{Name: evDayChosen, Src: src(AwaitingWeekDayForAdd), Dst: AwaitingLessonDetailsForAdd.String()},
		{Name: evLessonSaved, Src: src(AwaitingLessonDetailsForAdd), Dst: AwaitingWeekDayForAdd.String()},

		{Name: evStartEdit, Src: src(Idle), Dst: AwaitingWeekDayForEdit.String()},
		{Name: evDayChosen, Src: src(AwaitingWeekDayForEdit), Dst: AwaitingLessonSelectionForEdit.String()},
		{Name: evLessonSelected, Src: src(AwaitingLessonSelectionForEdit), Dst: AwaitingLessonDetailsForEdit.String()},
		{Name: evLessonUpdated, Src: src(AwaitingLessonDetailsForEdit), Dst: Idle.String()},

		{Name: evStartView, Src: src(Idle), Dst: AwaitingWeekDayForView.String()},

		{Name: evStartDelete, Src: src(Idle), Dst: AwaitingWeekDayForDelete.String()},
		{Name: evDayChosen, Src: src(AwaitingWeekDayForDelete), Dst: AwaitingDeleteOption.String()},
		{Name: evDeleteOne, Src: src(AwaitingDeleteOption), Dst: AwaitingLessonSelectionForDelete.String()},
		{Name: evDeleteDay, Src: src(AwaitingDeleteOption), Dst: AwaitingDayDeletionConfirmation.String()},
		{Name: evLessonDeleted, Src: src(AwaitingLessonSelectionForDelete), Dst: Idle.String()},
		{Name: evDayDeletionDone, Src: src(AwaitingDayDeletionConfirmation), Dst: Idle.String()},

		{Name: evStartNotification, Src: src(Idle), Dst: AwaitingNotificationOptIn.String()},
		{Name: evOptOut, Src: src(AwaitingNotificationOptIn), Dst: Idle.String()},
		{Name: evOptIn, Src: src(AwaitingNotificationOptIn), Dst: AwaitingNotificationTime.String()},
		{Name: evTimeChosen, Src: src(AwaitingNotificationTime), Dst: AwaitingNotificationTimezone.String()},
		{Name: evSubscribed, Src: src(AwaitingNotificationTimezone), Dst: Idle.String()},

		{Name: evStartReset, Src: src(Idle), Dst: AwaitingDestructiveConfirmation.String()},
		{Name: evResetDone, Src: src(AwaitingDestructiveConfirmation), Dst: Idle.String()},
	}
}

// nextState resolves event from state through the transition table.
func nextState(ctx context.Context, from State, event string) (State, error) {
	f := fsm.NewFSM(from.String(), transitions, nil)
	if err := f.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return from, fmt.Errorf("%s on %s: %w", event, from, err)
		}
	}
	to, ok := parseState(f.Current())
	if !ok {
		return from, fmt.Errorf("%s on %s: unknown destination %q", event, from, f.Current())
	}
	return to, nil
}
