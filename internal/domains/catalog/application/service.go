package application

import (
	"context"

	"github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
	"github.com/avetrov/go-shop-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, query domain.Query) (*ports.Page, error) {
	if err := query.Normalize(); err != nil {
		return nil, mapError(err)
	}
	products, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	return &ports.Page{
		Products:   products,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) Update(ctx context.Context, id string, update ports.ProductUpdate) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.InStock != nil {
		product.InStock = *update.InStock
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, product)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
