package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopcart-backend/internal/users"
	pkgAuth "github.com/angelmondragon/shopcart-backend/pkg/auth"
	"github.com/angelmondragon/shopcart-backend/pkg/config"
	"github.com/angelmondragon/shopcart-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/security"
)

var (
	testJWTConfig = config.JWTConfig{
		Secret:            "secret",
		Issuer:            "shopcart",
		ExpirationMinutes: 30,
	}
	testPasswordConfig = config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

func TestServiceRegisterIssuesToken(t *testing.T) {
	svc, sessions, _ := buildTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User == nil || resp.User.Email != "ada@example.com" {
		t.Fatalf("expected lower-cased email, got %+v", resp.User)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token from session manager, got %q", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.Token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("expected user id claim %s, got %s", resp.User.ID, claims.UserID)
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatalf("expected session keyed by jti %q, got %v", claims.ID, sessions.generated)
	}
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := buildTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Name: "a", Email: "dup@example.com", Password: "password-1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterRequest{Name: "b", Email: "DUP@example.com", Password: "password-2"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceRegisterValidation(t *testing.T) {
	svc, _, _ := buildTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "  ", Email: "a@example.com", Password: "password"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestServiceLogin(t *testing.T) {
	svc, _, repo := buildTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, repo, "login@example.com", "s3cret-pass")

	resp, err := svc.Login(ctx, LoginRequest{Email: "LOGIN@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, resp.User.ID)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}

	reloaded, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.LastLoginAt == nil {
		t.Fatalf("expected last login persisted")
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, _, repo := buildTestService(t)
	mustCreateUser(t, repo, "user@example.com", "right-password")

	cases := []LoginRequest{
		{Email: "user@example.com", Password: "wrong-password"},
		{Email: "missing@example.com", Password: "right-password"},
		{Email: "", Password: "right-password"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %q, got %v", req.Email, err)
		}
		if typed.Message() != invalidCredentialsMessage {
			t.Fatalf("expected generic message, got %q", typed.Message())
		}
	}
}

func TestServiceMe(t *testing.T) {
	svc, _, repo := buildTestService(t)
	user := mustCreateUser(t, repo, "me@example.com", "password")

	dto, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if dto.Email != "me@example.com" {
		t.Fatalf("unexpected email %q", dto.Email)
	}

	_, err = svc.Me(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, sessions, _ := buildTestService(t)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("expected jti-1 revoked, got %v", sessions.revoked)
	}

	sessions.err = errors.New("redis down")
	err := svc.Logout(context.Background(), "jti-2")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	if err := svc.Logout(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for empty jti, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{SessionManager: &stubSessionManager{}}); err == nil {
		t.Fatalf("expected missing user repo to fail")
	}
	if _, err := NewService(ServiceParams{UserRepo: users.NewRepository(dbtest.Open(t))}); err == nil {
		t.Fatalf("expected missing session manager to fail")
	}
}

func buildTestService(t *testing.T) (Service, *stubSessionManager, *users.Repository) {
	t.Helper()
	repo := users.NewRepository(dbtest.Open(t))
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions, repo
}

func mustCreateUser(t *testing.T, repo *users.Repository, email, password string) *models.User {
	t.Helper()
	svc := &service{users: repo, session: &stubSessionManager{}, jwtCfg: testJWTConfig, passwordCfg: testPasswordConfig, now: time.Now}
	resp, err := svc.Register(context.Background(), RegisterRequest{Name: "Test User", Email: email, Password: password})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	user, err := repo.FindByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user
}

type stubSessionManager struct {
	refreshToken string
	generated    []string
	revoked      []string
	err          error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.generated = append(s.generated, accessID)
	return s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = append(s.revoked, accessID)
	return nil
}

func TestServiceLoginUpgradesStaleHash(t *testing.T) {
	svc, _, repo := buildTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, repo, "stale@example.com", "s3cret-pass")

	weaker := testPasswordConfig
	weaker.ArgonMemoryKB = 512
	stale, err := security.HashPassword("s3cret-pass", weaker)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := repo.UpdatePasswordHash(ctx, user.ID, stale); err != nil {
		t.Fatalf("store stale hash: %v", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "stale@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	reloaded, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.PasswordHash == stale {
		t.Fatalf("expected stale hash to be replaced")
	}
	if security.NeedsRehash(reloaded.PasswordHash, testPasswordConfig) {
		t.Fatalf("expected upgraded hash to match current params")
	}
}

func TestServiceRegisterReportsExpiry(t *testing.T) {
	svc, _, _ := buildTestService(t)
	before := time.Now()

	resp, err := svc.Register(context.Background(), RegisterRequest{Name: "E", Email: "exp@example.com", Password: "password-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	earliest := before.Add(time.Duration(testJWTConfig.ExpirationMinutes)*time.Minute - time.Second)
	if resp.ExpiresAt.Before(earliest) {
		t.Fatalf("expected expiry about %d minutes out, got %v", testJWTConfig.ExpirationMinutes, resp.ExpiresAt)
	}
}
