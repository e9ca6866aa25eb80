package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// productRecord carries the full catalog shape so the same store can back
// both the catalog repository and the orders-side inventory view.
type productRecord struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	InStock     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type database struct {
	products map[string]productRecord
	orders   map[string]domain.Order
	items    map[string]domain.LineItem
}

func newDatabase() *database {
	return &database{
		products: map[string]productRecord{},
		orders:   map[string]domain.Order{},
		items:    map[string]domain.LineItem{},
	}
}

func (db *database) clone() *database {
	clone := newDatabase()
	for id, p := range db.products {
		clone.products[id] = p
	}
	for id, o := range db.orders {
		clone.orders[id] = o
	}
	for id, li := range db.items {
		clone.items[id] = li
	}
	return clone
}

// Store is an in-memory orders persistence adapter. InTx clones the whole
// dataset, applies fn to the clone, and swaps it in only when fn succeeds,
// which gives the same rollback-on-error contract as the database adapter.
type Store struct {
	mu sync.Mutex
	db *database
}

func NewStore() *Store {
	return &Store{db: newDatabase()}
}

func (s *Store) Orders() ports.OrderRepository       { return lockedOrderRepo{s} }
func (s *Store) Products() ports.ProductInventory    { return lockedProductRepo{s} }
func (s *Store) LineItems() ports.LineItemRepository { return lockedLineItemRepo{s} }

func (s *Store) InTx(_ context.Context, fn func(tx ports.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.db.clone()
	if err := fn(&txStore{db: clone}); err != nil {
		return err
	}
	s.db = clone
	return nil
}

// txStore operates on the transaction's private clone without locking; the
// Store mutex is held for the whole transaction.
type txStore struct {
	db *database
}

func (t *txStore) Orders() ports.OrderRepository       { return orderRepo{t.db} }
func (t *txStore) Products() ports.ProductInventory    { return productRepo{t.db} }
func (t *txStore) LineItems() ports.LineItemRepository { return lineItemRepo{t.db} }

// InTx on an open transaction joins it, mirroring GORM's savepoint-free
// nested transaction default.
func (t *txStore) InTx(_ context.Context, fn func(tx ports.Store) error) error {
	return fn(t)
}

type orderRepo struct{ db *database }

func (r orderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	clone := *order
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.db.orders[clone.ID] = clone
	out := clone
	return &out, nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.db.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	out := order
	return &out, nil
}

func (r orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) List(_ context.Context) ([]*domain.Order, error) {
	list := make([]*domain.Order, 0, len(r.db.orders))
	for _, order := range r.db.orders {
		out := order
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r orderRepo) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	existing, ok := r.db.orders[order.ID]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	clone := *order
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now().UTC()
	r.db.orders[clone.ID] = clone
	out := clone
	return &out, nil
}

func (r orderRepo) SetTotal(_ context.Context, id string, total decimal.Decimal) error {
	order, ok := r.db.orders[id]
	if !ok {
		return ports.ErrOrderNotFound
	}
	order.TotalAmount = total
	order.UpdatedAt = time.Now().UTC()
	r.db.orders[id] = order
	return nil
}

func (r orderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.db.orders[id]; !ok {
		return ports.ErrOrderNotFound
	}
	delete(r.db.orders, id)
	for itemID, item := range r.db.items {
		if item.OrderID == id {
			delete(r.db.items, itemID)
		}
	}
	return nil
}

type productRepo struct{ db *database }

func (r productRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	record, ok := r.db.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return record.toInventory(), nil
}

func (r productRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) AdjustStock(_ context.Context, id string, delta int) error {
	record, ok := r.db.products[id]
	if !ok {
		return ports.ErrProductNotFound
	}
	record.InStock += delta
	record.UpdatedAt = time.Now().UTC()
	r.db.products[id] = record
	return nil
}

func (p productRecord) toInventory() *domain.Product {
	return &domain.Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		InStock:  p.InStock,
	}
}

type lineItemRepo struct{ db *database }

func (r lineItemRepo) Create(_ context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	clone := *item
	clone.Product = nil
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	r.db.items[clone.ID] = clone
	out := clone
	return &out, nil
}

func (r lineItemRepo) GetByID(_ context.Context, id string) (*domain.LineItem, error) {
	item, ok := r.db.items[id]
	if !ok {
		return nil, ports.ErrLineItemNotFound
	}
	out := item
	return &out, nil
}

func (r lineItemRepo) List(_ context.Context) ([]*domain.LineItem, error) {
	list := make([]*domain.LineItem, 0, len(r.db.items))
	for _, item := range r.db.items {
		out := item
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r lineItemRepo) ListByOrder(_ context.Context, orderID string, withProduct bool) ([]*domain.LineItem, error) {
	var list []*domain.LineItem
	for _, item := range r.db.items {
		if item.OrderID != orderID {
			continue
		}
		out := item
		if withProduct {
			if record, ok := r.db.products[item.ProductID]; ok {
				out.Product = record.toInventory()
			}
		}
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r lineItemRepo) Update(_ context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	if _, ok := r.db.items[item.ID]; !ok {
		return nil, ports.ErrLineItemNotFound
	}
	clone := *item
	clone.Product = nil
	r.db.items[clone.ID] = clone
	out := clone
	return &out, nil
}

func (r lineItemRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.db.items[id]; !ok {
		return ports.ErrLineItemNotFound
	}
	delete(r.db.items, id)
	return nil
}

// locked wrappers serve direct (non-transactional) access.

type lockedOrderRepo struct{ s *Store }

func (w lockedOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return orderRepo{w.s.db}.Create(ctx, order)
}

func (w lockedOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return orderRepo{w.s.db}.GetByID(ctx, id)
}

func (w lockedOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return orderRepo{w.s.db}.GetByIDForUpdate(ctx, id)
}

func (w lockedOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return orderRepo{w.s.db}.List(ctx)
}

func (w lockedOrderRepo) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return orderRepo{w.s.db}.Update(ctx, order)
}

func (w lockedOrderRepo) SetTotal(ctx context.Context, id string, total decimal.Decimal) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return orderRepo{w.s.db}.SetTotal(ctx, id, total)
}

func (w lockedOrderRepo) Delete(ctx context.Context, id string) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return orderRepo{w.s.db}.Delete(ctx, id)
}

type lockedProductRepo struct{ s *Store }

func (w lockedProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return productRepo{w.s.db}.GetByID(ctx, id)
}

func (w lockedProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return productRepo{w.s.db}.GetByIDForUpdate(ctx, id)
}

func (w lockedProductRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return productRepo{w.s.db}.AdjustStock(ctx, id, delta)
}

type lockedLineItemRepo struct{ s *Store }

func (w lockedLineItemRepo) Create(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return lineItemRepo{w.s.db}.Create(ctx, item)
}

func (w lockedLineItemRepo) GetByID(ctx context.Context, id string) (*domain.LineItem, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return lineItemRepo{w.s.db}.GetByID(ctx, id)
}

func (w lockedLineItemRepo) List(ctx context.Context) ([]*domain.LineItem, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return lineItemRepo{w.s.db}.List(ctx)
}

func (w lockedLineItemRepo) ListByOrder(ctx context.Context, orderID string, withProduct bool) ([]*domain.LineItem, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return lineItemRepo{w.s.db}.ListByOrder(ctx, orderID, withProduct)
}

func (w lockedLineItemRepo) Update(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return lineItemRepo{w.s.db}.Update(ctx, item)
}

func (w lockedLineItemRepo) Delete(ctx context.Context, id string) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return lineItemRepo{w.s.db}.Delete(ctx, id)
}
