package application

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/avetrov/go-shop-api/internal/domains/users/domain"
	"github.com/avetrov/go-shop-api/internal/domains/users/ports"
)

const bcryptCost = 10

// Service exposes user account use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params ports.CreateUser) (*domain.User, error) {
	if err := domain.ValidatePassword(params.Password); err != nil {
		return nil, mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(params.Email, string(hash), params.FullName, params.PhoneNumber, params.ShippingAddress, params.Role)
	if err != nil {
		return nil, mapError(err)
	}
	user.VerificationCode = params.VerificationCode
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return nil, ports.ErrEmailTaken
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, user)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, params ports.UpdateUser) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Password != nil {
		if err := domain.ValidatePassword(*params.Password); err != nil {
			return nil, mapError(err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	fullName := user.FullName
	phone := user.PhoneNumber
	address := user.ShippingAddress
	if params.FullName != nil {
		fullName = *params.FullName
	}
	if params.PhoneNumber != nil {
		phone = *params.PhoneNumber
	}
	if params.ShippingAddress != nil {
		address = *params.ShippingAddress
	}
	if err := user.SetProfile(fullName, phone, address); err != nil {
		return nil, mapError(err)
	}
	if params.Role != nil {
		if err := user.SetRole(*params.Role); err != nil {
			return nil, mapError(err)
		}
	}
	return s.repo.Update(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) MarkVerified(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.MarkVerified()
	return s.repo.Update(ctx, user)
}

// CheckPassword compares a plaintext candidate against the stored hash.
func CheckPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

var _ ports.Service = (*Service)(nil)
