package usecase

import (
	"context"
	"fmt"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
}

func (u *UserUsecase) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return u.users.Create(ctx, &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
	})
}

func (u *UserUsecase) Get(ctx context.Context, id int64) (*domain.User, error) {
	return u.users.FindByID(ctx, id)
}

func (u *UserUsecase) List(ctx context.Context) ([]domain.User, error) {
	return u.users.List(ctx)
}

type UpdateUserInput struct {
	Email    string
	Name     string
	Password string // empty means keep the current hash
}

func (u *UserUsecase) Update(ctx context.Context, id int64, input UpdateUserInput) error {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Email = input.Email
	user.Name = input.Name
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	return u.users.Update(ctx, user)
}

func (u *UserUsecase) Disable(ctx context.Context, id int64) error {
	return u.users.Disable(ctx, id)
}
