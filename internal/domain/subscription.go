package domain

// Subscription is a user's standing opt-in to the daily "tomorrow's lessons"
// reminder.
type Subscription struct {
	UserID    int64
	Active    bool
	NotifyUTC string // HH:MM in UTC
	Offset    int    // hours east of UTC, as entered by the user
	// LastFiredOn is the subscriber-local date (YYYY-MM-DD) of the last
	// reminder, empty if none was ever fired.
	LastFiredOn string
}

// Validate checks that an active subscription carries a usable time and
// offset. Inactive subscriptions are always accepted.
func (s Subscription) Validate() error {
	if !s.Active {
		return nil
	}
	if _, err := ParseClock(s.NotifyUTC); err != nil {
		return &ValidationError{Field: "notify_utc", Reason: "active subscription needs a time, got " + quote(s.NotifyUTC), Err: ErrInvalidClock}
	}
	if s.Offset < MinOffset || s.Offset > MaxOffset {
		return &ValidationError{Field: "offset", Reason: "active subscription offset out of range", Err: ErrInvalidOffset}
	}
	return nil
}
