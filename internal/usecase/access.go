package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/repository"
)

type AccessUsecase struct {
	windows repository.AccessRepository
	users   repository.UserRepository
}

func NewAccessUsecase(windows repository.AccessRepository, users repository.UserRepository) *AccessUsecase {
	return &AccessUsecase{windows: windows, users: users}
}

// Create stores a new access window after write-time validation. A
// window with start > end is a configuration error, never a
// wraps-past-midnight window; such windows cannot be represented.
func (u *AccessUsecase) Create(ctx context.Context, window domain.AccessWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	if _, err := u.users.FindByID(ctx, window.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return u.windows.Create(ctx, window)
}

func (u *AccessUsecase) ListByUser(ctx context.Context, userID int64) ([]domain.AccessWindow, error) {
	return u.windows.ListByUser(ctx, userID)
}

func (u *AccessUsecase) Update(ctx context.Context, window domain.AccessWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	return u.windows.Update(ctx, window)
}

func (u *AccessUsecase) Delete(ctx context.Context, userID int64, day domain.Weekday) error {
	if !day.Valid() {
		return domain.ErrInvalidWeekday
	}
	return u.windows.Delete(ctx, userID, day)
}
