package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoAccess        = errors.New("no access window covers the current time")
	ErrWindowNotFound  = errors.New("access window not found")
	ErrDuplicateWindow = errors.New("access window for this weekday already exists")
	ErrWindowInverted  = errors.New("access window start must not be after end")
	ErrInvalidWeekday  = errors.New("weekday must be between 1 (Sunday) and 7 (Saturday)")
)

// Weekday numbers days Sunday=1 through Saturday=7, matching the stored
// access-window rows. Note this is not ISO numbering.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayFromTime converts a time.Time weekday (Sunday=0) to the
// Sunday=1..Saturday=7 convention.
func WeekdayFromTime(t time.Time) Weekday {
	return Weekday(int(t.Weekday()) + 1)
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// TimeOfDay is a wall-clock time within a day, stored as seconds since
// midnight. It maps to a SQL TIME column and serializes as "15:04:05".
type TimeOfDay int

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayFrom extracts the time-of-day component of an instant,
// in the instant's own location.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	layout := "15:04:05"
	if len(s) == len("15:04") {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDayFrom(t), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Microseconds returns the time-of-day as microseconds since midnight,
// the representation pgx uses for TIME columns.
func (t TimeOfDay) Microseconds() int64 {
	return int64(t) * 1e6
}

func TimeOfDayFromMicroseconds(us int64) TimeOfDay {
	return TimeOfDay(us / 1e6)
}

// AccessWindow is a per-user, per-weekday time-of-day interval during
// which an unlock request is authorized. At most one window exists per
// (user, weekday); a window cannot cross midnight.
type AccessWindow struct {
	UserID int64
	Day    Weekday
	Start  TimeOfDay
	End    TimeOfDay
}

// Validate enforces the write-time invariants: a known weekday and
// start <= end. An inverted window is a configuration error, not a
// wraps-past-midnight window.
func (w AccessWindow) Validate() error {
	if !w.Day.Valid() {
		return ErrInvalidWeekday
	}
	if w.Start > w.End {
		return ErrWindowInverted
	}
	return nil
}

// Covers reports whether the instant's time-of-day falls inside the
// window, inclusive at both ends.
func (w AccessWindow) Covers(tod TimeOfDay) bool {
	return w.Start <= tod && tod <= w.End
}
