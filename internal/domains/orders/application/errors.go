package application

import (
	"errors"
	"fmt"

	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInsufficientStock signals the requested quantity exceeds the
	// product's available stock. The transaction is rolled back.
	ErrInsufficientStock = errors.New("insufficient stock")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUserID) ||
		errors.Is(err, domain.ErrEmptyOrderID) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPaymentStatus) ||
		errors.Is(err, domain.ErrInvalidDeliveryStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func insufficientStock(available, requested int) error {
	return fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, available, requested)
}
