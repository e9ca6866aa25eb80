package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/avetrov/go-shop-api/internal/domains/catalog/ports"
)

var _ catalogports.Repository = (*Catalog)(nil)

// Catalog is the catalog-side view of the shared in-memory store. Products
// created here are immediately visible to order transactions, matching the
// single-schema behavior of the database adapters.
type Catalog struct {
	s *Store
}

func NewCatalog(s *Store) *Catalog {
	return &Catalog{s: s}
}

func (c *Catalog) Create(_ context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	record := fromCatalog(product)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	c.s.db.products[record.ID] = record
	return record.toCatalog(), nil
}

func (c *Catalog) GetByID(_ context.Context, id string) (*catalogdomain.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	record, ok := c.s.db.products[id]
	if !ok {
		return nil, catalogports.ErrNotFound
	}
	return record.toCatalog(), nil
}

func (c *Catalog) List(_ context.Context, query catalogdomain.Query) ([]*catalogdomain.Product, int64, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var matched []productRecord
	for _, record := range c.s.db.products {
		if query.Name != "" && !strings.Contains(strings.ToLower(record.Name), strings.ToLower(query.Name)) {
			continue
		}
		if query.Category != "" && !strings.Contains(strings.ToLower(record.Category), strings.ToLower(query.Category)) {
			continue
		}
		if query.MinStock != nil && record.InStock < *query.MinStock {
			continue
		}
		if query.InStockOnly && record.InStock <= 0 {
			continue
		}
		matched = append(matched, record)
	}

	asc := query.Order == catalogdomain.SortAsc
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch query.SortBy {
		case catalogdomain.SortByPrice:
			less = matched[i].Price.LessThan(matched[j].Price)
		case catalogdomain.SortByName:
			less = matched[i].Name < matched[j].Name
		case catalogdomain.SortByInStock:
			less = matched[i].InStock < matched[j].InStock
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})

	total := int64(len(matched))
	start := (query.Page - 1) * query.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]*catalogdomain.Product, 0, end-start)
	for _, record := range matched[start:end] {
		page = append(page, record.toCatalog())
	}
	return page, total, nil
}

func (c *Catalog) Update(_ context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	existing, ok := c.s.db.products[product.ID]
	if !ok {
		return nil, catalogports.ErrNotFound
	}
	record := fromCatalog(product)
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = time.Now().UTC()
	c.s.db.products[record.ID] = record
	return record.toCatalog(), nil
}

func (c *Catalog) Delete(_ context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.db.products[id]; !ok {
		return catalogports.ErrNotFound
	}
	delete(c.s.db.products, id)
	return nil
}

func fromCatalog(p *catalogdomain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (p productRecord) toCatalog() *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
