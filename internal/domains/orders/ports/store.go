package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrLineItemNotFound = errors.New("line item not found")
)

// Store is the transactional boundary of the orders context. InTx runs fn
// against a handle whose writes commit if and only if fn returns nil; any
// error rolls back every read-modify-write performed through the handle.
// Implementations must serialize concurrent mutation of the same product's
// stock and the same order's total (row locks or equivalent).
type Store interface {
	Orders() OrderRepository
	Products() ProductInventory
	LineItems() LineItemRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
}

// OrderRepository persists order aggregates.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetByIDForUpdate locks the order row for the remainder of the
	// enclosing transaction. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	SetTotal(ctx context.Context, id string, total decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

// ProductInventory is the orders-side view of the product table: price for
// snapshotting and the stock counter.
type ProductInventory interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// GetByIDForUpdate locks the product row for the remainder of the
	// enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error)
	// AdjustStock adds delta (negative to reserve) to the product's stock.
	AdjustStock(ctx context.Context, id string, delta int) error
}

// LineItemRepository persists order line items.
type LineItemRepository interface {
	Create(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error)
	GetByID(ctx context.Context, id string) (*domain.LineItem, error)
	List(ctx context.Context) ([]*domain.LineItem, error)
	// ListByOrder returns the order's line items; withProduct additionally
	// populates each item's Product.
	ListByOrder(ctx context.Context, orderID string, withProduct bool) ([]*domain.LineItem, error)
	Update(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error)
	Delete(ctx context.Context, id string) error
}
