package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/token"
	"github.com/gcaccess/door-gateway/internal/usecase"
)

// ---- fakes ----

type fakePublisher struct {
	publishes int
	err       error
}

func (p *fakePublisher) PublishUnlock() error {
	p.publishes++
	return p.err
}

type fakeEvaluator struct {
	hasAccessNow func(ctx context.Context, userID int64) (bool, error)
}

func (e *fakeEvaluator) HasAccessNow(ctx context.Context, userID int64) (bool, error) {
	return e.hasAccessNow(ctx, userID)
}

func grantingEvaluator() *fakeEvaluator {
	return &fakeEvaluator{
		hasAccessNow: func(context.Context, int64) (bool, error) { return true, nil },
	}
}

func denyingEvaluator() *fakeEvaluator {
	return &fakeEvaluator{
		hasAccessNow: func(context.Context, int64) (bool, error) { return false, nil },
	}
}

func repoFindingByID(user *domain.User) *fakeUserRepo {
	return &fakeUserRepo{
		findByID: func(_ context.Context, id int64) (*domain.User, error) {
			if id != user.ID {
				return nil, domain.ErrUserNotFound
			}
			return user, nil
		},
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email != user.Email {
				return nil, domain.ErrUserNotFound
			}
			return user, nil
		},
	}
}

func newDoorUsecase(repo *fakeUserRepo, eval *fakeEvaluator, pub *fakePublisher) *usecase.DoorUsecase {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	auth := usecase.NewAuthUsecase(repo, token.NewIssuer([]byte(testJWTKey)))
	return usecase.NewDoorUsecase(repo, eval, pub, auth, logger)
}

// ---- Unlock ----

func TestUnlock_CoveringWindow_PublishesExactlyOnce(t *testing.T) {
	user := testUserWithPassword(t)
	pub := &fakePublisher{}

	err := newDoorUsecase(repoFindingByID(user), grantingEvaluator(), pub).
		Unlock(context.Background(), user.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.publishes != 1 {
		t.Errorf("publishes = %d, want exactly 1", pub.publishes)
	}
}

func TestUnlock_NoCoveringWindow_DeniedWithoutPublish(t *testing.T) {
	user := testUserWithPassword(t)
	pub := &fakePublisher{}

	err := newDoorUsecase(repoFindingByID(user), denyingEvaluator(), pub).
		Unlock(context.Background(), user.ID, nil)
	if !errors.Is(err, domain.ErrNoAccess) {
		t.Errorf("want ErrNoAccess, got %v", err)
	}
	if pub.publishes != 0 {
		t.Errorf("publishes = %d, want 0", pub.publishes)
	}
}

func TestUnlock_PublishFailure_IsActuationError(t *testing.T) {
	user := testUserWithPassword(t)
	pub := &fakePublisher{err: errors.New("broker reject")}

	err := newDoorUsecase(repoFindingByID(user), grantingEvaluator(), pub).
		Unlock(context.Background(), user.ID, nil)
	if !errors.Is(err, domain.ErrActuation) {
		t.Errorf("want ErrActuation, got %v", err)
	}
}

func TestUnlock_UserGoneAfterIssuance_Unauthorized(t *testing.T) {
	repo := &fakeUserRepo{
		findByID: func(context.Context, int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	pub := &fakePublisher{}

	err := newDoorUsecase(repo, grantingEvaluator(), pub).Unlock(context.Background(), 99, nil)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
	if pub.publishes != 0 {
		t.Errorf("publishes = %d, want 0", pub.publishes)
	}
}

func TestUnlock_BodyCredentialsVerified(t *testing.T) {
	user := testUserWithPassword(t)
	pub := &fakePublisher{}
	u := newDoorUsecase(repoFindingByID(user), grantingEvaluator(), pub)

	good := &usecase.UnlockCredentials{Email: user.Email, Password: testPassword}
	if err := u.Unlock(context.Background(), user.ID, good); err != nil {
		t.Fatalf("unexpected error with matching credentials: %v", err)
	}
	if pub.publishes != 1 {
		t.Errorf("publishes = %d, want 1", pub.publishes)
	}

	bad := &usecase.UnlockCredentials{Email: user.Email, Password: "wrong-password"}
	err := u.Unlock(context.Background(), user.ID, bad)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials for wrong body password, got %v", err)
	}
	if pub.publishes != 1 {
		t.Errorf("publishes = %d after rejected credentials, want still 1", pub.publishes)
	}
}

func TestUnlock_BodyCredentialsForOtherUser_Rejected(t *testing.T) {
	user := testUserWithPassword(t)
	pub := &fakePublisher{}

	other := &usecase.UnlockCredentials{Email: "other@test.local", Password: testPassword}
	err := newDoorUsecase(repoFindingByID(user), grantingEvaluator(), pub).
		Unlock(context.Background(), user.ID, other)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials for mismatched email, got %v", err)
	}
	if pub.publishes != 0 {
		t.Errorf("publishes = %d, want 0", pub.publishes)
	}
}

func TestUnlock_EvaluatorError_NoPublish(t *testing.T) {
	user := testUserWithPassword(t)
	evalErr := errors.New("db down")
	eval := &fakeEvaluator{
		hasAccessNow: func(context.Context, int64) (bool, error) { return false, evalErr },
	}
	pub := &fakePublisher{}

	err := newDoorUsecase(repoFindingByID(user), eval, pub).Unlock(context.Background(), user.ID, nil)
	if !errors.Is(err, evalErr) {
		t.Errorf("want wrapped evaluator error, got %v", err)
	}
	if errors.Is(err, domain.ErrNoAccess) {
		t.Error("store failure must be distinguishable from a deny")
	}
	if pub.publishes != 0 {
		t.Errorf("publishes = %d, want 0", pub.publishes)
	}
}
