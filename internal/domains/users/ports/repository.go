package ports

import (
	"context"
	"errors"

	"github.com/avetrov/go-shop-api/internal/domains/users/domain"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("user with this email already exists")
)

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
