package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
	"github.com/avetrov/go-shop-api/internal/domains/catalog/ports"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*domain.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	clone := *product
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	f.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeProductRepo) List(_ context.Context, query domain.Query) ([]*domain.Product, int64, error) {
	var all []*domain.Product
	for _, p := range f.products {
		if query.InStockOnly && p.InStock <= 0 {
			continue
		}
		clone := *p
		all = append(all, &clone)
	}
	total := int64(len(all))
	start := (query.Page - 1) * query.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + query.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if _, ok := f.products[product.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	f.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func seedProducts(t *testing.T, repo *fakeProductRepo, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		_, err := repo.Create(context.Background(), &domain.Product{
			Name:     "widget",
			Category: "tools",
			Price:    decimal.NewFromInt(5),
			InStock:  10,
		})
		require.NoError(t, err)
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)

	product, err := domain.NewProduct("widget", "a widget", decimal.RequireFromString("9.99"), "tools", 5)
	require.NoError(t, err)
	created, err := svc.Create(context.Background(), product)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "widget", created.Name)
}

func TestCreateProduct_Invalid(t *testing.T) {
	svc := NewService(newFakeProductRepo())

	_, err := svc.Create(context.Background(), &domain.Product{Category: "tools"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), &domain.Product{
		Name: "widget", Category: "tools", Price: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListProducts_PaginationMath(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)
	seedProducts(t, repo, 25)

	page, err := svc.List(context.Background(), domain.Query{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Products, 10)
}

func TestListProducts_DefaultsApplied(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)
	seedProducts(t, repo, 3)

	page, err := svc.List(context.Background(), domain.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListProducts_InvalidSort(t *testing.T) {
	svc := NewService(newFakeProductRepo())

	_, err := svc.List(context.Background(), domain.Query{SortBy: "color"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), domain.Query{Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProduct_MergesFields(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)
	created, err := repo.Create(context.Background(), &domain.Product{
		Name: "widget", Category: "tools", Price: decimal.NewFromInt(5), InStock: 10,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("7.50")
	updated, err := svc.Update(context.Background(), created.ID, ports.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "widget", updated.Name)
	assert.Equal(t, 10, updated.InStock)
}

func TestUpdateProduct_InvalidMerge(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)
	created, err := repo.Create(context.Background(), &domain.Product{
		Name: "widget", Category: "tools", Price: decimal.NewFromInt(5), InStock: 10,
	})
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(context.Background(), created.ID, ports.ProductUpdate{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := NewService(newFakeProductRepo())
	name := "widget"
	_, err := svc.Update(context.Background(), "missing", ports.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)
	created, err := repo.Create(context.Background(), &domain.Product{
		Name: "widget", Category: "tools", Price: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), ports.ErrNotFound)
}
