package ports

import (
	"context"
	"errors"

	"github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists catalog products.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns the page of products matching the query plus the total
	// match count before pagination.
	List(ctx context.Context, query domain.Query) ([]*domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
