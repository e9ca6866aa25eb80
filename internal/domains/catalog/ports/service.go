package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
)

// ProductUpdate carries optional product mutations; nil fields are left as-is.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	InStock     *int
}

// Page is a paginated catalog listing.
type Page struct {
	Products   []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Service exposes catalog use cases to adapters.
type Service interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, query domain.Query) (*Page, error)
	Update(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
