package application

import (
	"errors"
	"fmt"

	"github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the request violated a catalog invariant.
var ErrInvalidInput = errors.New("invalid product input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyCategory) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidSortBy) ||
		errors.Is(err, domain.ErrInvalidSortDir) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
