package application

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/avetrov/go-shop-api/internal/domains/auth/ports"
	userapp "github.com/avetrov/go-shop-api/internal/domains/users/application"
	userdomain "github.com/avetrov/go-shop-api/internal/domains/users/domain"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
)

// Session is the outcome of a successful verification or login.
type Session struct {
	AccessToken string
	User        *userdomain.User
}

// Service implements registration, email verification, login, and token
// revocation on top of the users context.
type Service struct {
	users   userports.Service
	issuer  *TokenIssuer
	mailer  ports.Mailer
	revoker ports.TokenRevoker
}

func NewService(users userports.Service, issuer *TokenIssuer, mailer ports.Mailer, revoker ports.TokenRevoker) *Service {
	return &Service{users: users, issuer: issuer, mailer: mailer, revoker: revoker}
}

// Register creates an unverified account and mails the 4-digit code. A
// duplicate email surfaces as userports.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, params userports.CreateUser) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	params.VerificationCode = code
	user, err := s.users.Create(ctx, params)
	if err != nil {
		return err
	}
	return s.mailer.SendVerificationCode(ctx, user.Email, code)
}

// VerifyEmail matches the code, marks the account verified, and opens a
// session.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			return nil, ports.ErrInvalidCode
		}
		return nil, err
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return nil, ports.ErrInvalidCode
	}
	verified, err := s.users.MarkVerified(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.openSession(verified)
}

// Login checks credentials and opens a session. Unverified non-admin
// accounts are rejected.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsVerified && user.Role != userdomain.RoleAdmin {
		return nil, ports.ErrNotVerified
	}
	if !userapp.CheckPassword(user, password) {
		return nil, ports.ErrInvalidCredentials
	}
	return s.openSession(user)
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.revoker.Revoke(ctx, token, s.issuer.TTL())
}

// Authenticate validates a bearer token: signature, expiry, revocation, and
// the verified-or-admin gate.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ports.ErrTokenRevoked
	}
	user, err := s.users.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			return nil, ports.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsVerified && user.Role != userdomain.RoleAdmin {
		return nil, ports.ErrNotVerified
	}
	return claims, nil
}

func (s *Service) openSession(user *userdomain.User) (*Session, error) {
	token, err := s.issuer.Sign(user)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, User: user}, nil
}

// generateCode draws a uniformly random 4-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
