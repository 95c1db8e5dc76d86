package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var un, em bool
	for _, u := range r.users {
		un = un || u.Username == username
		em = em || strings.EqualFold(u.Email, email)
	}
	return un, em, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = "u-" + u.Username
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	u.LastLogin = &at
	r.users[userID] = u
	return nil
}

type storedToken struct {
	userID  string
	revoked bool
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*storedToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*storedToken)}
}

func (r *fakeTokenRepo) CreateRefreshToken(ctx context.Context, userID, token string, expiresAt int64, _ auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &storedToken{userID: userID}
	return nil
}

func (r *fakeTokenRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return "", true, nil
	}
	return t.userID, t.revoked, nil
}

func (r *fakeTokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type recorded struct {
	action      activity.Action
	description string
	userID      *string
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []recorded
}

func (f *fakeRecorder) Record(ctx context.Context, action activity.Action, description string, userID, employeeID *string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recorded{action: action, description: description, userID: userID})
}

func (f *fakeRecorder) actions() []activity.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]activity.Action, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.action)
	}
	return out
}

type authFixture struct {
	svc      auth.AuthService
	users    *fakeUserRepo
	tokens   *fakeTokenRepo
	recorder *fakeRecorder
	jwt      jwt.Service
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newFakeUserRepo(user.User{
		ID:           "u-1",
		Username:     "alice",
		PasswordHash: string(hash),
		Name:         "Alice",
		Email:        "alice@example.com",
		Role:         user.RoleManager,
	})
	tokens := newFakeTokenRepo()
	recorder := &fakeRecorder{}
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	require.NoError(t, err)

	svc := NewAuthService(fakeTransactor{}, users, jwtService, tokens, recorder,
		clock.Fixed(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))

	return authFixture{svc: svc, users: users, tokens: tokens, recorder: recorder, jwt: jwtService}
}

func asPrincipal(ctx context.Context, id string, role user.Role) context.Context {
	return auth.WithPrincipal(ctx, auth.Principal{UserID: id, Role: role})
}

// ===== LOGIN =====

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotNil(t, resp.User.LastLogin)
	assert.Contains(t, resp.User.Permissions, user.PermissionEmployeeManage)

	stored, err := f.users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)

	_, revoked, err := f.tokens.IsRefreshTokenRevoked(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, []activity.Action{activity.ActionLogin}, f.recorder.actions())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "wrong-pass"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "ghost", Password: "whatever"}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	require.Len(t, f.recorder.entries, 2)
	assert.Equal(t, activity.ActionLoginFailed, f.recorder.entries[1].action)
	assert.Equal(t, "Failed login attempt for username: ghost", f.recorder.entries[1].description)
	assert.Nil(t, f.recorder.entries[1].userID)
}

func TestLogin_ValidationError(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{}, auth.SessionTrackingRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

// ===== REFRESH / LOGOUT =====

func TestRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(asPrincipal(ctx, "u-1", user.RoleManager), auth.LogoutRequest{
		RefreshToken:         login.RefreshToken,
		AccessToken:          login.AccessToken,
		AccessTokenExpiresAt: login.AccessTokenExpiresIn,
	}))
	assert.True(t, f.jwt.IsTokenRevoked(login.AccessToken))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

// ===== PASSWORDS =====

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := asPrincipal(context.Background(), "u-1", user.RoleManager)

	err := f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{
		CurrentPassword: "nope", NewPassword: "newpass1", ConfirmPassword: "newpass1",
	})
	assert.ErrorIs(t, err, auth.ErrCurrentPasswordMismatch)

	err = f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "newpass1", ConfirmPassword: "newpass1",
	})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "newpass1"}, auth.SessionTrackingRequest{})
	assert.NoError(t, err)

	err = f.svc.ChangePassword(context.Background(), auth.ChangePasswordRequest{
		CurrentPassword: "newpass1", NewPassword: "another1", ConfirmPassword: "another1",
	})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := asPrincipal(context.Background(), "admin-1", user.RoleAdmin)

	resp, err := f.svc.ResetPassword(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, resp.NewPassword, 10)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: resp.NewPassword}, auth.SessionTrackingRequest{})
	assert.NoError(t, err)

	_, err = f.svc.ResetPassword(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(10)
	require.NoError(t, err)
	assert.Len(t, pw, 10)
	for _, c := range pw {
		assert.True(t, strings.ContainsRune(passwordAlphabet, c))
	}
}

// ===== REGISTRATION =====

func TestRegisterUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := asPrincipal(context.Background(), "admin-1", user.RoleAdmin)

	resp, err := f.svc.RegisterUser(ctx, user.CreateUserRequest{
		Username: "bob", Password: "secret1", ConfirmPassword: "secret1", Name: "Bob", Email: "bob@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, string(user.RoleUser), resp.Role)

	_, err = f.svc.RegisterUser(ctx, user.CreateUserRequest{
		Username: "bob", Password: "secret1", ConfirmPassword: "secret1", Name: "Bob 2", Email: "bob2@example.com",
	})
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	_, err = f.svc.RegisterUser(ctx, user.CreateUserRequest{
		Username: "carol", Password: "secret1", ConfirmPassword: "secret1", Name: "Carol", Email: "ALICE@example.com",
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = f.svc.RegisterUser(ctx, user.CreateUserRequest{
		Username: "dave", Password: "short", ConfirmPassword: "short", Name: "Dave", Email: "dave@example.com",
	})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestMe(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Me(asPrincipal(context.Background(), "u-1", user.RoleManager))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.Email)

	_, err = f.svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}
