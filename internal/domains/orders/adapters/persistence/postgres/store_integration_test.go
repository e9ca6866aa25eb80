//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/avetrov/go-shop-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/application"
	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/ports"
	"github.com/avetrov/go-shop-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

// seedCatalogProduct creates through the catalog adapter: the orders store
// must see products written by the other bounded context.
func seedCatalogProduct(t *testing.T, db *gorm.DB, price string, stock int) string {
	t.Helper()
	product, err := catalogpostgres.NewRepository(db).Create(context.Background(), &catalogdomain.Product{
		Name:     "widget",
		Category: "tools",
		Price:    decimal.RequireFromString(price),
		InStock:  stock,
	})
	require.NoError(t, err)
	return product.ID
}

func TestStore_LineItemLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	svc := application.NewService(store)
	ctx := context.Background()

	productID := seedCatalogProduct(t, db, "5.00", 10)
	order, err := svc.CreateOrder(ctx, uuid.NewString(), "", "")
	require.NoError(t, err)

	item, err := svc.AddLineItem(ctx, order.ID, productID, 3)
	require.NoError(t, err)
	assert.True(t, item.PriceAtPurchase.Equal(decimal.RequireFromString("15.00")))

	product, err := store.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, product.InStock)

	reloaded, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("15.00")))

	five := 5
	_, err = svc.UpdateLineItem(ctx, item.ID, &five)
	require.NoError(t, err)
	product, err = store.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.InStock)

	require.NoError(t, svc.RemoveLineItem(ctx, item.ID))
	product, err = store.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 10, product.InStock)
	reloaded, err = svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.TotalAmount.IsZero())
}

func TestStore_InsufficientStockRollsBackTransaction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	svc := application.NewService(store)
	ctx := context.Background()

	productID := seedCatalogProduct(t, db, "5.00", 2)
	order, err := svc.CreateOrder(ctx, uuid.NewString(), "", "")
	require.NoError(t, err)

	_, err = svc.AddLineItem(ctx, order.ID, productID, 5)
	require.ErrorIs(t, err, application.ErrInsufficientStock)

	product, err := store.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, product.InStock)

	items, err := store.LineItems().ListByOrder(ctx, order.ID, false)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_InTxRollsBackAllWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	ctx := context.Background()

	productID := seedCatalogProduct(t, db, "5.00", 10)

	sentinel := assert.AnError
	err := store.InTx(ctx, func(tx ports.Store) error {
		if err := tx.Products().AdjustStock(ctx, productID, -4); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	product, err := store.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 10, product.InStock)
}

func TestStore_ListByOrderPopulatesProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	svc := application.NewService(store)
	ctx := context.Background()

	productID := seedCatalogProduct(t, db, "5.00", 10)
	order, err := svc.CreateOrder(ctx, uuid.NewString(), "", "")
	require.NoError(t, err)
	_, err = svc.AddLineItem(ctx, order.ID, productID, 2)
	require.NoError(t, err)

	items, err := store.LineItems().ListByOrder(ctx, order.ID, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "widget", items[0].Product.Name)
	assert.Equal(t, 8, items[0].Product.InStock)
}

func TestStore_DeleteOrderCascadesDetails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	svc := application.NewService(store)
	ctx := context.Background()

	productID := seedCatalogProduct(t, db, "5.00", 10)
	order, err := svc.CreateOrder(ctx, uuid.NewString(), "", "")
	require.NoError(t, err)
	item, err := svc.AddLineItem(ctx, order.ID, productID, 2)
	require.NoError(t, err)

	require.NoError(t, store.Orders().Delete(ctx, order.ID))
	_, err = store.Orders().GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
	_, err = store.LineItems().GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ports.ErrLineItemNotFound)
}

func TestStore_UpdateOrderStatuses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	svc := application.NewService(NewStore(db))
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, uuid.NewString(), "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)

	updated, err := svc.UpdateOrderPaymentStatus(ctx, order.ID, domain.PaymentComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentComplete, updated.PaymentStatus)
	assert.Equal(t, domain.DeliveryPending, updated.DeliveryStatus)
}
