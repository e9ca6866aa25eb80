package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// Store persists orders in PostgreSQL using GORM. InTx maps directly onto a
// database transaction; ForUpdate reads take row locks so concurrent
// mutation of the same product's stock or the same order's total serializes
// at the row level instead of relying on the default isolation level.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Orders() ports.OrderRepository       { return orderRepo{s.db} }
func (s *Store) Products() ports.ProductInventory    { return productRepo{s.db} }
func (s *Store) LineItems() ports.LineItemRepository { return lineItemRepo{s.db} }

func (s *Store) InTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

type orderRecord struct {
	ID             string          `gorm:"primaryKey;column:id;type:uuid"`
	UserID         string          `gorm:"column:user_id;type:uuid;index"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2)"`
	PaymentStatus  string          `gorm:"column:payment_status;type:varchar(16)"`
	DeliveryStatus string          `gorm:"column:delivery_status;type:varchar(16)"`
	CreatedAt      time.Time       `gorm:"column:created_at;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type productRecord struct {
	ID       string          `gorm:"primaryKey;column:id;type:uuid"`
	Name     string          `gorm:"column:name"`
	Category string          `gorm:"column:category"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	InStock  int             `gorm:"column:in_stock"`
}

func (productRecord) TableName() string { return "products" }

type orderDetailRecord struct {
	ID              string          `gorm:"primaryKey;column:id;type:uuid"`
	OrderID         string          `gorm:"column:order_id;type:uuid;index"`
	ProductID       string          `gorm:"column:product_id;type:uuid;index"`
	Quantity        int             `gorm:"column:quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2)"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderDetailRecord) TableName() string { return "order_details" }

type orderRepo struct{ db *gorm.DB }

func (r orderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	record := toOrderRecord(order)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r orderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	var record orderRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r orderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r orderRepo) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", order.ID).Updates(map[string]any{
		"payment_status":  string(order.PaymentStatus),
		"delivery_status": string(order.DeliveryStatus),
		"updated_at":      gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrOrderNotFound
	}
	return r.GetByID(ctx, order.ID)
}

func (r orderRepo) SetTotal(ctx context.Context, id string, total decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Updates(map[string]any{
		"total_amount": total,
		"updated_at":   gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func (r orderRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&orderRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrOrderNotFound
		}
		return tx.Delete(&orderDetailRecord{}, "order_id = ?", id).Error
	})
}

type productRepo struct{ db *gorm.DB }

func (r productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r productRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	var record productRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r productRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Updates(map[string]any{
		"in_stock":   gorm.Expr("in_stock + ?", delta),
		"updated_at": gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

type lineItemRepo struct{ db *gorm.DB }

func (r lineItemRepo) Create(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	record := toDetailRecord(item)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r lineItemRepo) GetByID(ctx context.Context, id string) (*domain.LineItem, error) {
	var record orderDetailRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrLineItemNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r lineItemRepo) List(ctx context.Context) ([]*domain.LineItem, error) {
	var records []orderDetailRecord
	if err := r.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.LineItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (r lineItemRepo) ListByOrder(ctx context.Context, orderID string, withProduct bool) ([]*domain.LineItem, error) {
	var records []orderDetailRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.LineItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	if !withProduct || len(items) == 0 {
		return items, nil
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	var products []productRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = products[i].toDomain()
	}
	for _, item := range items {
		item.Product = byID[item.ProductID]
	}
	return items, nil
}

func (r lineItemRepo) Update(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	result := r.db.WithContext(ctx).Model(&orderDetailRecord{}).Where("id = ?", item.ID).Updates(map[string]any{
		"quantity":          item.Quantity,
		"price_at_purchase": item.PriceAtPurchase,
		"updated_at":        gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrLineItemNotFound
	}
	return r.GetByID(ctx, item.ID)
}

func (r lineItemRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&orderDetailRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrLineItemNotFound
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:             order.ID,
		UserID:         order.UserID,
		TotalAmount:    order.TotalAmount,
		PaymentStatus:  string(order.PaymentStatus),
		DeliveryStatus: string(order.DeliveryStatus),
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:             r.ID,
		UserID:         r.UserID,
		TotalAmount:    r.TotalAmount,
		PaymentStatus:  domain.PaymentStatus(r.PaymentStatus),
		DeliveryStatus: domain.DeliveryStatus(r.DeliveryStatus),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		InStock:  r.InStock,
	}
}

func toDetailRecord(item *domain.LineItem) orderDetailRecord {
	return orderDetailRecord{
		ID:              item.ID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		PriceAtPurchase: item.PriceAtPurchase,
	}
}

func (r orderDetailRecord) toDomain() *domain.LineItem {
	return &domain.LineItem{
		ID:              r.ID,
		OrderID:         r.OrderID,
		ProductID:       r.ProductID,
		Quantity:        r.Quantity,
		PriceAtPurchase: r.PriceAtPurchase,
	}
}
