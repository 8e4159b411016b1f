package access_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gcaccess/door-gateway/internal/access"
	"github.com/gcaccess/door-gateway/internal/domain"
)

// fakeAccessRepo implements repository.AccessRepository; only FindWindow
// matters to the evaluator.
type fakeAccessRepo struct {
	findWindow func(ctx context.Context, userID int64, day domain.Weekday) (*domain.AccessWindow, error)
}

func (r *fakeAccessRepo) FindWindow(ctx context.Context, userID int64, day domain.Weekday) (*domain.AccessWindow, error) {
	return r.findWindow(ctx, userID, day)
}

func (r *fakeAccessRepo) ListByUser(context.Context, int64) ([]domain.AccessWindow, error) {
	return nil, nil
}
func (r *fakeAccessRepo) Create(context.Context, domain.AccessWindow) error  { return nil }
func (r *fakeAccessRepo) Update(context.Context, domain.AccessWindow) error  { return nil }
func (r *fakeAccessRepo) Delete(context.Context, int64, domain.Weekday) error { return nil }

// mondayWindow is 08:00-17:00 on Monday (day 2).
func mondayWindow(userID int64) *domain.AccessWindow {
	return &domain.AccessWindow{
		UserID: userID,
		Day:    domain.Monday,
		Start:  domain.NewTimeOfDay(8, 0, 0),
		End:    domain.NewTimeOfDay(17, 0, 0),
	}
}

// monday returns a Monday instant at the given wall-clock time in UTC.
// 2026-01-05 is a Monday.
func monday(hour, minute, second int) time.Time {
	return time.Date(2026, time.January, 5, hour, minute, second, 0, time.UTC)
}

func evaluatorAt(repo *fakeAccessRepo, now time.Time) *access.Evaluator {
	return access.NewEvaluatorWithClock(repo, time.UTC, func() time.Time { return now })
}

func repoWithMondayWindow(t *testing.T) *fakeAccessRepo {
	t.Helper()
	return &fakeAccessRepo{
		findWindow: func(_ context.Context, userID int64, day domain.Weekday) (*domain.AccessWindow, error) {
			if day != domain.Monday {
				return nil, domain.ErrWindowNotFound
			}
			return mondayWindow(userID), nil
		},
	}
}

func TestHasAccessNow_InsideWindow_Granted(t *testing.T) {
	e := evaluatorAt(repoWithMondayWindow(t), monday(12, 30, 0))

	granted, err := e.HasAccessNow(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !granted {
		t.Error("expected grant inside window")
	}
}

func TestHasAccessNow_BoundaryInstants_Inclusive(t *testing.T) {
	cases := []struct {
		name    string
		now     time.Time
		granted bool
	}{
		{"exactly start", monday(8, 0, 0), true},
		{"exactly end", monday(17, 0, 0), true},
		{"second before start", monday(7, 59, 59), false},
		{"second after end", monday(17, 0, 1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := evaluatorAt(repoWithMondayWindow(t), tc.now)
			granted, err := e.HasAccessNow(context.Background(), 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if granted != tc.granted {
				t.Errorf("granted = %v, want %v", granted, tc.granted)
			}
		})
	}
}

func TestHasAccessNow_NoWindowOnCurrentWeekday_Denied(t *testing.T) {
	// Window exists only on Monday; ask on a Tuesday.
	tuesdayNoon := time.Date(2026, time.January, 6, 12, 0, 0, 0, time.UTC)
	e := evaluatorAt(repoWithMondayWindow(t), tuesdayNoon)

	granted, err := e.HasAccessNow(context.Background(), 1)
	if err != nil {
		t.Fatalf("absence of a window must be a deny, not an error, got: %v", err)
	}
	if granted {
		t.Error("expected deny with no window on current weekday")
	}
}

func TestHasAccessNow_QueriesSundayBasedWeekday(t *testing.T) {
	var gotDay domain.Weekday
	repo := &fakeAccessRepo{
		findWindow: func(_ context.Context, _ int64, day domain.Weekday) (*domain.AccessWindow, error) {
			gotDay = day
			return nil, domain.ErrWindowNotFound
		},
	}

	// Sunday 2026-01-04 must map to day 1, not ISO's 7.
	sunday := time.Date(2026, time.January, 4, 12, 0, 0, 0, time.UTC)
	if _, err := evaluatorAt(repo, sunday).HasAccessNow(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDay != domain.Sunday {
		t.Errorf("queried day = %d, want 1 (Sunday)", gotDay)
	}
}

func TestHasAccessNow_EvaluatesInConfiguredTimezone(t *testing.T) {
	// 2026-01-05 01:00 UTC is still Sunday 22:00 in UTC-3.
	saoPaulo := time.FixedZone("UTC-3", -3*60*60)
	var gotDay domain.Weekday
	repo := &fakeAccessRepo{
		findWindow: func(_ context.Context, _ int64, day domain.Weekday) (*domain.AccessWindow, error) {
			gotDay = day
			return nil, domain.ErrWindowNotFound
		},
	}

	now := time.Date(2026, time.January, 5, 1, 0, 0, 0, time.UTC)
	e := access.NewEvaluatorWithClock(repo, saoPaulo, func() time.Time { return now })
	if _, err := e.HasAccessNow(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDay != domain.Sunday {
		t.Errorf("queried day = %d, want 1 (Sunday in UTC-3)", gotDay)
	}
}

func TestHasAccessNow_StoreError_Surfaces(t *testing.T) {
	storeErr := errors.New("db down")
	repo := &fakeAccessRepo{
		findWindow: func(context.Context, int64, domain.Weekday) (*domain.AccessWindow, error) {
			return nil, storeErr
		},
	}

	granted, err := evaluatorAt(repo, monday(12, 0, 0)).HasAccessNow(context.Background(), 1)
	if !errors.Is(err, storeErr) {
		t.Errorf("want wrapped store error, got %v", err)
	}
	if granted {
		t.Error("store failure must not grant")
	}
}
