package dialog

import "github.com/rolewj/class-schedule-notifications-bot/internal/domain"

// Button captions. Matching is case-insensitive.
const (
	btnBack        = "Back"
	btnYes         = "Yes"
	btnNo          = "No"
	btnDeleteOne   = "Delete lesson"
	btnDeleteWhole = "Delete whole day"
)

// UI texts in English
const (
	menuText = "/add - add a lesson\n" +
		"/delete - delete a lesson or a whole day\n" +
		"/edit - edit a lesson\n" +
		"/view - show the timetable for a day\n" +
		"/week - show the whole week\n" +
		"/notification - daily reminder with tomorrow's lessons\n" +
		"Choose an action:"
	startText = "Hi! I keep your class timetable and can remind you about tomorrow's lessons.\n\n" + menuText

	askAddDay       = "Which day should the lesson go on?"
	askLessonFormat = "Enter the lesson as: time, subject, teacher, classroom.\n" +
		"Example: 9:50, Defense of Information, Smith A., 420"
	lessonAdded         = "Lesson added! Want to add another one? Pick a day or go back."
	invalidLessonFormat = "Invalid input. Please follow the format: time, subject, teacher, classroom."
	invalidWeekDay      = "Please choose a valid week day."

	askEditDay      = "Choose the day of the lesson you want to edit:"
	askEditLesson   = "Choose the lesson to edit:"
	currentDetails  = "Current lesson details: %s"
	askNewDetails   = "Enter the new details as: time, subject, teacher, classroom."
	lessonUpdated   = "Lesson updated!"
	invalidChoice   = "Invalid selection. Please try again."
	noLessonsOnDay  = "There are no lessons on %s. Choose another day or go back."
	noLessonsLeft   = "There are no lessons left on %s."
	askDeleteDay    = "Choose a week day:"
	askDeleteOption = "Choose what to delete:"
	askDeleteLesson = "Choose the lesson to delete:"
	invalidOption   = "Please choose one of the options."
	confirmDayWipe  = "Are you sure you want to delete the whole timetable for %s?"
	lessonDeleted   = "Lesson deleted."
	dayDeleted      = "The timetable for %s was deleted."
	deleteCancelled = "Deletion cancelled."

	askViewDay  = "Which day do you want to see?"
	viewAnother = "Want to see another day or go back to the menu?"

	notificationIntro = "I can send you tomorrow's timetable every day.\n" +
		"Answer 'yes' to subscribe or 'no' to unsubscribe."
	currentSubscription = "You are subscribed at %s (UTC%+d)."
	askYesNo            = "Please answer 'yes' or 'no'."
	unsubscribed        = "You have unsubscribed from reminders."
	askNotifyTime       = "Enter the reminder time as HH:MM (for example 18:00):"
	invalidNotifyTime   = "Invalid time format. Please use HH:MM."
	askTimezone         = "Enter your timezone as a UTC offset N (for example 7, 0 or -3):"
	invalidTimezone     = "Invalid timezone. Enter a whole number of hours between -12 and 14."
	subscribed          = "Reminders are set for %s (UTC%+d)."

	persistenceFailed = "Something went wrong while saving. Please try again."
	loadFailed        = "Could not load your timetable. Please try again later."
	unknownCommand    = "Unknown command."

	permissionDenied     = "You are not allowed to use this command."
	confirmResetSchedule = "Are you sure you want to wipe the whole timetable table? This cannot be undone. Type 'yes' to confirm."
	confirmResetSubs     = "Are you sure you want to wipe the subscriptions table? This cannot be undone. Type 'yes' to confirm."
	scheduleReset        = "The timetable table was reset."
	subscriptionsReset   = "The subscriptions table was reset."
	resetCancelled       = "Reset cancelled."
	dumpScheduleEmpty    = "The timetable table is empty."
	dumpSubsEmpty        = "There are no subscriptions."
	dumpScheduleTitle    = "Timetable table:"
	dumpSubsTitle        = "All subscriptions:"
	dumpLessonFmt        = "ID: %d, USER_ID: %d, Day: %s, Time: %s, Lesson: %s, Teacher: %s, Room: %s"
	dumpSubFmt           = "USER_ID: %d, Active: %t, Time (UTC): %s, Offset: %+d, Last fired: %s"
)

// mainMenuKeyboard lists the commands, two per row.
func mainMenuKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{
		{"/add", "/delete"},
		{"/edit", "/view"},
		{"/week", "/notification"},
	}}
}

func backKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{btnBack}}}
}

// weekDaysKeyboard offers Back first, then one day per row.
func weekDaysKeyboard() *Keyboard {
	rows := [][]string{{btnBack}}
	for _, d := range domain.WeekDays() {
		rows = append(rows, []string{string(d)})
	}
	return &Keyboard{Rows: rows}
}

func labelsKeyboard(labels []string) *Keyboard {
	rows := [][]string{{btnBack}}
	for _, l := range labels {
		rows = append(rows, []string{l})
	}
	return &Keyboard{Rows: rows}
}

func deleteOptionsKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{btnBack}, {btnDeleteOne}, {btnDeleteWhole}}}
}

func yesNoBackKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{btnYes, btnNo, btnBack}}}
}
