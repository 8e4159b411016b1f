// Package access decides whether a user may unlock the door at the
// current instant, based on per-weekday time-of-day windows.
package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/repository"
)

// Evaluator checks a user's configured access windows against the
// current wall clock in a fixed regional timezone. The timezone and
// clock are injected so the evaluation stays pure and testable.
type Evaluator struct {
	windows  repository.AccessRepository
	location *time.Location
	now      func() time.Time
}

func NewEvaluator(windows repository.AccessRepository, location *time.Location) *Evaluator {
	return &Evaluator{windows: windows, location: location, now: time.Now}
}

// NewEvaluatorWithClock is used by tests to pin the current instant.
func NewEvaluatorWithClock(windows repository.AccessRepository, location *time.Location, now func() time.Time) *Evaluator {
	return &Evaluator{windows: windows, location: location, now: now}
}

// HasAccessNow reports whether userID has a window covering the current
// instant. Weekdays are numbered Sunday=1..Saturday=7 and window bounds
// are inclusive at both ends. No window on the current weekday is a
// plain deny; only a store failure is an error.
func (e *Evaluator) HasAccessNow(ctx context.Context, userID int64) (bool, error) {
	now := e.now().In(e.location)
	day := domain.WeekdayFromTime(now)
	tod := domain.TimeOfDayFrom(now)

	window, err := e.windows.FindWindow(ctx, userID, day)
	if err != nil {
		if errors.Is(err, domain.ErrWindowNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find access window: %w", err)
	}

	return window.Covers(tod), nil
}
