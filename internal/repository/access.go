package repository

import (
	"context"

	"github.com/gcaccess/door-gateway/internal/domain"
)

type AccessRepository interface {
	// FindWindow returns the single window for (userID, day), or
	// domain.ErrWindowNotFound if none is configured for that weekday.
	FindWindow(ctx context.Context, userID int64, day domain.Weekday) (*domain.AccessWindow, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.AccessWindow, error)
	Create(ctx context.Context, window domain.AccessWindow) error
	Update(ctx context.Context, window domain.AccessWindow) error
	Delete(ctx context.Context, userID int64, day domain.Weekday) error
}
