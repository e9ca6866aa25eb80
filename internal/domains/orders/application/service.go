package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/ports"
)

// Service keeps product stock and order totals consistent with the set of
// line items. Every mutation runs inside a single store transaction: the
// precondition checks, the stock adjustment, the line item write, and the
// total recomputation either all commit or none do.
type Service struct {
	store ports.Store
}

func NewService(store ports.Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateOrder(ctx context.Context, userID string, payment domain.PaymentStatus, delivery domain.DeliveryStatus) (*domain.Order, error) {
	order, err := domain.NewOrder(userID, payment, delivery)
	if err != nil {
		return nil, mapError(err)
	}
	return s.store.Orders().Create(ctx, order)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.Orders().GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.store.Orders().List(ctx)
}

func (s *Service) UpdateOrder(ctx context.Context, id string, update ports.OrderUpdate) (*domain.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.PaymentStatus != nil {
		if err := order.UpdatePaymentStatus(*update.PaymentStatus); err != nil {
			return nil, mapError(err)
		}
	}
	if update.DeliveryStatus != nil {
		if err := order.UpdateDeliveryStatus(*update.DeliveryStatus); err != nil {
			return nil, mapError(err)
		}
	}
	return s.store.Orders().Update(ctx, order)
}

func (s *Service) UpdateOrderPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	payment := status
	return s.UpdateOrder(ctx, id, ports.OrderUpdate{PaymentStatus: &payment})
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.store.Orders().Delete(ctx, id)
}

// AddLineItem reserves stock for a new line item and refreshes the owning
// order's total. Fails with ErrInsufficientStock when the product cannot
// cover the requested quantity; no partial mutation is observable.
func (s *Service) AddLineItem(ctx context.Context, orderID, productID string, quantity int) (*domain.LineItem, error) {
	item := &domain.LineItem{OrderID: orderID, ProductID: productID, Quantity: quantity}
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	var created *domain.LineItem
	err := s.store.InTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Orders().GetByIDForUpdate(ctx, orderID); err != nil {
			return err
		}
		product, err := tx.Products().GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product.InStock < quantity {
			return insufficientStock(product.InStock, quantity)
		}
		if err := tx.Products().AdjustStock(ctx, productID, -quantity); err != nil {
			return err
		}
		item.Snapshot(product.Price)
		created, err = tx.LineItems().Create(ctx, item)
		if err != nil {
			return err
		}
		return recalculateTotal(ctx, tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetLineItem(ctx context.Context, id string) (*domain.LineItem, error) {
	return s.store.LineItems().GetByID(ctx, id)
}

func (s *Service) ListLineItems(ctx context.Context) ([]*domain.LineItem, error) {
	return s.store.LineItems().List(ctx)
}

func (s *Service) ListLineItemsByOrder(ctx context.Context, orderID string) ([]*domain.LineItem, error) {
	return s.store.LineItems().ListByOrder(ctx, orderID, true)
}

// UpdateLineItem changes a line's quantity. A growing line must reserve the
// delta from stock; a shrinking line always returns it. The price snapshot
// is retaken at the product's current price and the order total re-summed.
func (s *Service) UpdateLineItem(ctx context.Context, id string, quantity *int) (*domain.LineItem, error) {
	var updated *domain.LineItem
	err := s.store.InTx(ctx, func(tx ports.Store) error {
		item, err := tx.LineItems().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.Orders().GetByIDForUpdate(ctx, item.OrderID); err != nil {
			return err
		}
		if quantity != nil && *quantity != item.Quantity {
			if *quantity < 1 {
				return mapError(domain.ErrInvalidQuantity)
			}
			product, err := tx.Products().GetByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			delta := *quantity - item.Quantity
			if delta > 0 && product.InStock < delta {
				return insufficientStock(product.InStock, delta)
			}
			if err := tx.Products().AdjustStock(ctx, item.ProductID, -delta); err != nil {
				return err
			}
			item.Quantity = *quantity
			item.Snapshot(product.Price)
		}
		updated, err = tx.LineItems().Update(ctx, item)
		if err != nil {
			return err
		}
		return recalculateTotal(ctx, tx, item.OrderID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveLineItem returns the line's full quantity to stock, deletes it, and
// re-sums the owning order's total over the remaining lines.
func (s *Service) RemoveLineItem(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(tx ports.Store) error {
		item, err := tx.LineItems().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.Orders().GetByIDForUpdate(ctx, item.OrderID); err != nil {
			return err
		}
		if _, err := tx.Products().GetByIDForUpdate(ctx, item.ProductID); err != nil {
			return err
		}
		if err := tx.Products().AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
		if err := tx.LineItems().Delete(ctx, id); err != nil {
			return err
		}
		return recalculateTotal(ctx, tx, item.OrderID)
	})
}

// recalculateTotal re-sums the order's line snapshots in decimal space.
// Full re-scan over incremental deltas: a missed or doubled delta can never
// skew the stored aggregate.
func recalculateTotal(ctx context.Context, tx ports.Store, orderID string) error {
	items, err := tx.LineItems().ListByOrder(ctx, orderID, false)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PriceAtPurchase)
	}
	return tx.Orders().SetTotal(ctx, orderID, total)
}

var _ ports.Service = (*Service)(nil)
