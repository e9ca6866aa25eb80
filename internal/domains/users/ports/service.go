package ports

import (
	"context"

	"github.com/avetrov/go-shop-api/internal/domains/users/domain"
)

// CreateUser carries the fields needed to register an account. Password is
// plaintext here; the service hashes it before persistence.
type CreateUser struct {
	Email            string
	Password         string
	FullName         string
	PhoneNumber      string
	ShippingAddress  string
	Role             domain.Role
	VerificationCode string
}

// UpdateUser carries optional account mutations; nil fields are left as-is.
type UpdateUser struct {
	Password        *string
	FullName        *string
	PhoneNumber     *string
	ShippingAddress *string
	Role            *domain.Role
}

// Service exposes user account use cases to adapters.
type Service interface {
	Create(ctx context.Context, params CreateUser) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, params UpdateUser) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	MarkVerified(ctx context.Context, id string) (*domain.User, error)
}
