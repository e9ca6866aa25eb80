package application

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmemory "github.com/avetrov/go-shop-api/internal/domains/auth/adapters/memory"
	"github.com/avetrov/go-shop-api/internal/domains/auth/ports"
	usersmemory "github.com/avetrov/go-shop-api/internal/domains/users/adapters/memory"
	userapp "github.com/avetrov/go-shop-api/internal/domains/users/application"
	userdomain "github.com/avetrov/go-shop-api/internal/domains/users/domain"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
)

type fakeMailer struct {
	sent map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: map[string]string{}}
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, email, code string) error {
	f.sent[email] = code
	return nil
}

type authFixture struct {
	svc    *Service
	users  *userapp.Service
	mailer *fakeMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := userapp.NewService(usersmemory.NewRepository())
	mailer := newFakeMailer()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	return &authFixture{
		svc:    NewService(users, issuer, mailer, authmemory.NewRevoker()),
		users:  users,
		mailer: mailer,
	}
}

func registration() userports.CreateUser {
	return userports.CreateUser{
		Email:           "alice@example.com",
		Password:        "secret1",
		FullName:        "Alice Doe",
		PhoneNumber:     "+12025550123",
		ShippingAddress: "42 Long Enough Street",
	}
}

func TestRegister_SendsFourDigitCode(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.Register(context.Background(), registration()))

	code, ok := f.mailer.sent["alice@example.com"]
	require.True(t, ok, "no verification code delivered")
	assert.Regexp(t, regexp.MustCompile(`^\d{4}$`), code)

	user, err := f.users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Equal(t, code, user.VerificationCode)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.Register(context.Background(), registration()))
	err := f.svc.Register(context.Background(), registration())
	assert.ErrorIs(t, err, userports.ErrEmailTaken)
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.svc.Register(context.Background(), registration()))
	code := f.mailer.sent["alice@example.com"]

	session, err := f.svc.VerifyEmail(context.Background(), "alice@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.True(t, session.User.IsVerified)

	// Codes are one-time: the cleared code no longer matches.
	_, err = f.svc.VerifyEmail(context.Background(), "alice@example.com", code)
	assert.ErrorIs(t, err, ports.ErrInvalidCode)
}

func TestVerifyEmail_WrongCodeOrUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.svc.Register(context.Background(), registration()))

	_, err := f.svc.VerifyEmail(context.Background(), "alice@example.com", "0000")
	assert.ErrorIs(t, err, ports.ErrInvalidCode)

	_, err = f.svc.VerifyEmail(context.Background(), "missing@example.com", "0000")
	assert.ErrorIs(t, err, ports.ErrInvalidCode)
}

func verifiedFixture(t *testing.T) *authFixture {
	t.Helper()
	f := newAuthFixture(t)
	require.NoError(t, f.svc.Register(context.Background(), registration()))
	_, err := f.svc.VerifyEmail(context.Background(), "alice@example.com", f.mailer.sent["alice@example.com"])
	require.NoError(t, err)
	return f
}

func TestLogin(t *testing.T) {
	f := verifiedFixture(t)

	session, err := f.svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "alice@example.com", session.User.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := verifiedFixture(t)

	_, err := f.svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "missing@example.com", "secret1")
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestLogin_UnverifiedUserRejected(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.svc.Register(context.Background(), registration()))

	_, err := f.svc.Login(context.Background(), "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ports.ErrNotVerified)
}

func TestLogin_UnverifiedAdminAllowed(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.users.Create(context.Background(), userports.CreateUser{
		Email:           "root@example.com",
		Password:        "secret1",
		FullName:        "Root Admin",
		PhoneNumber:     "+12025550123",
		ShippingAddress: "1 Admin Plaza, HQ",
		Role:            userdomain.RoleAdmin,
	})
	require.NoError(t, err)

	session, err := f.svc.Login(context.Background(), "root@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, string(userdomain.RoleAdmin), mustClaims(t, f, session.AccessToken).Role)
}

func TestAuthenticate(t *testing.T) {
	f := verifiedFixture(t)
	session, err := f.svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	claims, err := f.svc.Authenticate(context.Background(), session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, string(userdomain.RoleUser), claims.Role)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	f := verifiedFixture(t)

	_, err := f.svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := verifiedFixture(t)
	session, err := f.svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), session.AccessToken))

	_, err = f.svc.Authenticate(context.Background(), session.AccessToken)
	assert.ErrorIs(t, err, ports.ErrTokenRevoked)
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	user := &userdomain.User{ID: "user-1", Email: "alice@example.com", Role: userdomain.RoleUser}
	token, err := issuer.Sign(user)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", -time.Minute)
	// Negative TTL falls back to the one hour default, so force expiry
	// through a dedicated issuer.
	expired := &TokenIssuer{secret: []byte("secret"), ttl: -time.Minute}
	user := &userdomain.User{ID: "user-1", Email: "alice@example.com", Role: userdomain.RoleUser}

	token, err := expired.Sign(user)
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ports.ErrInvalidToken)
}

func mustClaims(t *testing.T, f *authFixture, token string) *Claims {
	t.Helper()
	claims, err := f.svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	return claims
}
