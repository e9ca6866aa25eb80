package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates payment progression for an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentComplete PaymentStatus = "COMPLETE"
	PaymentFailed   PaymentStatus = "FAILED"
)

// DeliveryStatus enumerates delivery progression for an order.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
)

var (
	ErrEmptyUserID           = errors.New("user id is required")
	ErrEmptyOrderID          = errors.New("order id is required")
	ErrEmptyProductID        = errors.New("product id is required")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidPaymentStatus  = errors.New("payment status is invalid")
	ErrInvalidDeliveryStatus = errors.New("delivery status is invalid")
)

// Order is the purchase aggregate. TotalAmount is a derived value: it always
// equals the sum of PriceAtPurchase over the order's line items and is only
// rewritten together with them.
type Order struct {
	ID             string
	UserID         string
	TotalAmount    decimal.Decimal
	PaymentStatus  PaymentStatus
	DeliveryStatus DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOrder builds an empty order with a zero total and defaulted statuses.
func NewOrder(userID string, payment PaymentStatus, delivery DeliveryStatus) (*Order, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	order := &Order{
		UserID:      userID,
		TotalAmount: decimal.Zero,
	}
	if err := order.UpdatePaymentStatus(payment); err != nil {
		return nil, err
	}
	if err := order.UpdateDeliveryStatus(delivery); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdatePaymentStatus accepts only known states and defaults to pending.
func (o *Order) UpdatePaymentStatus(status PaymentStatus) error {
	if status == "" {
		status = PaymentPending
	}
	switch status {
	case PaymentPending, PaymentComplete, PaymentFailed:
		o.PaymentStatus = status
		return nil
	default:
		return ErrInvalidPaymentStatus
	}
}

// UpdateDeliveryStatus accepts only known states and defaults to pending.
func (o *Order) UpdateDeliveryStatus(status DeliveryStatus) error {
	if status == "" {
		status = DeliveryPending
	}
	switch status {
	case DeliveryPending, DeliveryInTransit, DeliveryDelivered:
		o.DeliveryStatus = status
		return nil
	default:
		return ErrInvalidDeliveryStatus
	}
}

// Product is the inventory view the orders context needs: a price to
// snapshot and a stock counter to reserve against.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    decimal.Decimal
	InStock  int
}

// LineItem is one product/quantity entry within an order. PriceAtPurchase is
// snapshotted at creation or quantity change and is not affected by later
// catalog price changes.
type LineItem struct {
	ID              string
	OrderID         string
	ProductID       string
	Quantity        int
	PriceAtPurchase decimal.Decimal

	// Product is populated on by-order listings, nil otherwise.
	Product *Product
}

// Validate enforces line item invariants.
func (li *LineItem) Validate() error {
	if li.OrderID == "" {
		return ErrEmptyOrderID
	}
	if li.ProductID == "" {
		return ErrEmptyProductID
	}
	if li.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Snapshot recomputes the price snapshot for the given unit price.
func (li *LineItem) Snapshot(unitPrice decimal.Decimal) {
	li.PriceAtPurchase = unitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
