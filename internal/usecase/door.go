package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/repository"
)

// unlockPublisher is the subset of the MQTT action client the usecase
// needs. It takes no context: once a publish has begun it runs to
// completion even if the originating HTTP request is gone.
type unlockPublisher interface {
	PublishUnlock() error
}

// accessEvaluator is satisfied by *access.Evaluator.
type accessEvaluator interface {
	HasAccessNow(ctx context.Context, userID int64) (bool, error)
}

type DoorUsecase struct {
	users     repository.UserRepository
	evaluator accessEvaluator
	publisher unlockPublisher
	auth      *AuthUsecase
	logger    *slog.Logger
}

func NewDoorUsecase(users repository.UserRepository, evaluator accessEvaluator, publisher unlockPublisher, auth *AuthUsecase, logger *slog.Logger) *DoorUsecase {
	return &DoorUsecase{
		users:     users,
		evaluator: evaluator,
		publisher: publisher,
		auth:      auth,
		logger:    logger.With("component", "door_usecase"),
	}
}

// UnlockCredentials are the optional body credentials some deployments
// send alongside the bearer token. When present they are re-verified.
type UnlockCredentials struct {
	Email    string
	Password string
}

// Unlock authorizes and actuates: resolve the token's user, re-check
// body credentials if supplied, evaluate the current access window, and
// publish the unlock command. Authorization denials and actuation
// failures are distinct errors so they stay distinguishable in logs.
func (u *DoorUsecase) Unlock(ctx context.Context, userID int64, creds *UnlockCredentials) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Token outlived the account; deny, don't error.
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("find user: %w", err)
	}

	if creds != nil {
		if creds.Email != user.Email {
			return domain.ErrInvalidCredentials
		}
		if _, err := u.auth.Authenticate(ctx, creds.Email, creds.Password); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidCredentials
			}
			return err
		}
	}

	granted, err := u.evaluator.HasAccessNow(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("evaluate access window: %w", err)
	}
	if !granted {
		u.logger.InfoContext(ctx, "access denied", "user_id", user.ID)
		return domain.ErrNoAccess
	}

	if err := u.publisher.PublishUnlock(); err != nil {
		u.logger.ErrorContext(ctx, "unlock publish failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrActuation, err)
	}

	u.logger.InfoContext(ctx, "door unlocked", "user_id", user.ID)
	return nil
}
