package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrEmptyCategory   = errors.New("product category is required")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrNegativeStock   = errors.New("stock must not be negative")
	ErrInvalidSortBy   = errors.New("sort field is invalid")
	ErrInvalidSortDir  = errors.New("sort order is invalid")
)

// Product is a catalog entry. InStock is the sellable quantity; it is only
// decremented through the orders context, never directly from the catalog.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	InStock     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates and constructs a catalog product.
func NewProduct(name, description string, price decimal.Decimal, category string, inStock int) (*Product, error) {
	p := &Product{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Category:    strings.TrimSpace(category),
		InStock:     inStock,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces catalog invariants.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Category == "" {
		return ErrEmptyCategory
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.InStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// SortBy enumerates the whitelisted listing sort keys.
type SortBy string

const (
	SortByPrice     SortBy = "price"
	SortByName      SortBy = "name"
	SortByInStock   SortBy = "inStock"
	SortByCreatedAt SortBy = "createdAt"
)

// SortOrder enumerates listing sort directions.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query describes a catalog listing request.
type Query struct {
	Name        string
	Category    string
	MinStock    *int
	InStockOnly bool
	SortBy      SortBy
	Order       SortOrder
	Page        int
	Limit       int
}

// Normalize applies listing defaults and validates the sort whitelist.
func (q *Query) Normalize() error {
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	switch q.SortBy {
	case SortByPrice, SortByName, SortByInStock, SortByCreatedAt:
	default:
		return ErrInvalidSortBy
	}
	if q.Order == "" {
		q.Order = SortDesc
	}
	if q.Order != SortAsc && q.Order != SortDesc {
		return ErrInvalidSortDir
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return nil
}
