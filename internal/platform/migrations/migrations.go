package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&productRecord{},
		&orderRecord{},
		&orderDetailRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID               string    `gorm:"primaryKey;column:id;type:uuid"`
	Email            string    `gorm:"column:email;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash"`
	FullName         string    `gorm:"column:full_name"`
	PhoneNumber      string    `gorm:"column:phone_number"`
	ShippingAddress  string    `gorm:"column:shipping_address"`
	Role             string    `gorm:"column:role;type:varchar(16)"`
	IsVerified       bool      `gorm:"column:is_verified"`
	VerificationCode string    `gorm:"column:verification_code;type:varchar(8)"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;type:uuid"`
	Name        string          `gorm:"column:name;index"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Category    string          `gorm:"column:category;index"`
	InStock     int             `gorm:"column:in_stock;check:in_stock >= 0"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
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

// Order detail schema mirrors the orders Postgres adapter. Rows are owned by
// their order and removed with it.
type orderDetailRecord struct {
	ID              string          `gorm:"primaryKey;column:id;type:uuid"`
	OrderID         string          `gorm:"column:order_id;type:uuid;index"`
	Order           orderRecord     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductID       string          `gorm:"column:product_id;type:uuid;index"`
	Product         productRecord   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity        int             `gorm:"column:quantity;check:quantity > 0"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2)"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderDetailRecord) TableName() string { return "order_details" }
