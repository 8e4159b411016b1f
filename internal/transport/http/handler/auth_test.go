package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/token"
	"github.com/gcaccess/door-gateway/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

const testJWTKey = "handler-test-secret-at-least-32c!!"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via
// method matching.
type fakeAuthUsecase struct {
	login func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newLoginEngine(uc *fakeAuthUsecase) *gin.Engine {
	h := handler.NewAuthHandler(uc, testLogger())
	r := gin.New()
	r.POST("/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_ValidCredentials_ReturnsTokenWithMatchingEmail(t *testing.T) {
	issuer := token.NewIssuer([]byte(testJWTKey))
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, email, password string) (string, error) {
			if email != "resident@test.local" || password != "open-sesame-123" {
				return "", domain.ErrInvalidCredentials
			}
			return issuer.Issue(7, email)
		},
	}

	w := postJSON(newLoginEngine(uc), "/login",
		`{"email":"resident@test.local","password":"open-sesame-123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	claims, err := issuer.Parse(resp.Token)
	if err != nil {
		t.Fatalf("returned token invalid: %v", err)
	}
	if claims.Email != "resident@test.local" {
		t.Errorf("token email = %q, want input email", claims.Email)
	}
}

func TestLogin_WrongPassword_Returns401NoToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}

	w := postJSON(newLoginEngine(uc), "/login",
		`{"email":"resident@test.local","password":"wrong-password"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if strings.Contains(w.Body.String(), `"token"`) {
		t.Error("response carries a token despite rejected credentials")
	}
}

func TestLogin_UnknownEmail_Returns404(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (string, error) {
			return "", domain.ErrUserNotFound
		},
	}

	w := postJSON(newLoginEngine(uc), "/login",
		`{"email":"stranger@test.local","password":"whatever-123"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLogin_IssuerFailure_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (string, error) {
			return "", errors.New("signing failed")
		},
	}

	w := postJSON(newLoginEngine(uc), "/login",
		`{"email":"resident@test.local","password":"open-sesame-123"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestLogin_MalformedBody_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{bad json}`},
		{"invalid email", `{"email":"not-an-email","password":"whatever-123"}`},
		{"short password", `{"email":"a@b.c","password":"short"}`},
		{"missing fields", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postJSON(newLoginEngine(uc), "/login", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
