package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// tokenIssuer is the subset of token.Issuer the usecase needs.
type tokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	issuer tokenIssuer
}

func NewAuthUsecase(users repository.UserRepository, issuer tokenIssuer) *AuthUsecase {
	return &AuthUsecase{users: users, issuer: issuer}
}

// Authenticate resolves credentials to a user id. An unknown email
// surfaces as ErrUserNotFound; a wrong password as
// ErrInvalidCredentials. Password hashes never leave this layer.
func (u *AuthUsecase) Authenticate(ctx context.Context, email, password string) (int64, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("find user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return 0, domain.ErrInvalidCredentials
	}

	return user.ID, nil
}

// Login authenticates and mints a session token valid for 24 hours.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	userID, err := u.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	signed, err := u.issuer.Issue(userID, email)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrToken, err)
	}
	return signed, nil
}
