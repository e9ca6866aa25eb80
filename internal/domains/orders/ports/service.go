package ports

import (
	"context"

	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
)

// OrderUpdate carries optional order mutations; nil fields are left as-is.
type OrderUpdate struct {
	PaymentStatus  *domain.PaymentStatus
	DeliveryStatus *domain.DeliveryStatus
}

// Service exposes the orders bounded context use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, userID string, payment domain.PaymentStatus, delivery domain.DeliveryStatus) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, id string, update OrderUpdate) (*domain.Order, error)
	UpdateOrderPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error

	AddLineItem(ctx context.Context, orderID, productID string, quantity int) (*domain.LineItem, error)
	GetLineItem(ctx context.Context, id string) (*domain.LineItem, error)
	ListLineItems(ctx context.Context) ([]*domain.LineItem, error)
	ListLineItemsByOrder(ctx context.Context, orderID string) ([]*domain.LineItem, error)
	UpdateLineItem(ctx context.Context, id string, quantity *int) (*domain.LineItem, error)
	RemoveLineItem(ctx context.Context, id string) error
}
