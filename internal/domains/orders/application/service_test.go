package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/adapters/memory"
	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/ports"
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	catalog *memory.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		svc:     NewService(store),
		store:   store,
		catalog: memory.NewCatalog(store),
	}
}

func (f *fixture) seedProduct(t *testing.T, price string, stock int) string {
	t.Helper()
	product, err := f.catalog.Create(context.Background(), &catalogdomain.Product{
		Name:     "widget",
		Category: "tools",
		Price:    decimal.RequireFromString(price),
		InStock:  stock,
	})
	require.NoError(t, err)
	return product.ID
}

func (f *fixture) seedOrder(t *testing.T) string {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	return order.ID
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	product, err := f.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.InStock
}

func (f *fixture) total(t *testing.T, orderID string) decimal.Decimal {
	t.Helper()
	order, err := f.svc.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	return order.TotalAmount
}

func TestCreateOrder_Defaults(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.CreateOrder(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Equal(t, domain.DeliveryPending, order.DeliveryStatus)
	assert.True(t, order.TotalAmount.IsZero())
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateOrder(context.Background(), "user-1", "PAID", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddLineItem_ReservesStockAndSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)

	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.PriceAtPurchase.Equal(decimal.RequireFromString("15.00")),
		"snapshot = %s", item.PriceAtPurchase)
	assert.Equal(t, 7, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("15.00")),
		"total = %s", f.total(t, orderID))
}

func TestAddLineItem_InsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)

	_, err := f.svc.AddLineItem(context.Background(), orderID, productID, 20)
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 10, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).IsZero())
	items, err := f.svc.ListLineItemsByOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddLineItem_UnknownOrderOrProduct(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)

	_, err := f.svc.AddLineItem(context.Background(), "missing", productID, 1)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)

	_, err = f.svc.AddLineItem(context.Background(), orderID, "missing", 1)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)

	// Neither failed attempt may touch stock.
	assert.Equal(t, 10, f.stock(t, productID))
}

func TestAddLineItem_InvalidQuantity(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)

	_, err := f.svc.AddLineItem(context.Background(), orderID, productID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddLineItem_ExactRemainingStock(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "2.50", 4)
	orderID := f.seedOrder(t)

	_, err := f.svc.AddLineItem(context.Background(), orderID, productID, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("10.00")))
}

func TestUpdateLineItem_GrowReservesDelta(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 3)
	require.NoError(t, err)

	five := 5
	updated, err := f.svc.UpdateLineItem(context.Background(), item.ID, &five)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Quantity)
	assert.True(t, updated.PriceAtPurchase.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, 5, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("25.00")))
}

func TestUpdateLineItem_ShrinkRestocksDelta(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 5)
	require.NoError(t, err)

	two := 2
	updated, err := f.svc.UpdateLineItem(context.Background(), item.ID, &two)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, 8, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("10.00")))
}

func TestUpdateLineItem_GrowBeyondStockRollsBack(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 3)
	require.NoError(t, err)

	twenty := 20
	_, err = f.svc.UpdateLineItem(context.Background(), item.ID, &twenty)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Quantity, stock, and total all keep their pre-update values.
	current, err := f.svc.GetLineItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.Quantity)
	assert.Equal(t, 7, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("15.00")))
}

func TestUpdateLineItem_RetakesSnapshotAtCurrentPrice(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 3)
	require.NoError(t, err)

	// Catalog price change after purchase.
	product, err := f.catalog.GetByID(context.Background(), productID)
	require.NoError(t, err)
	product.Price = decimal.RequireFromString("6.00")
	_, err = f.catalog.Update(context.Background(), product)
	require.NoError(t, err)

	four := 4
	updated, err := f.svc.UpdateLineItem(context.Background(), item.ID, &four)
	require.NoError(t, err)
	assert.True(t, updated.PriceAtPurchase.Equal(decimal.RequireFromString("24.00")))
	assert.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("24.00")))
}

func TestUpdateLineItem_SameQuantityKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 3)
	require.NoError(t, err)

	three := 3
	updated, err := f.svc.UpdateLineItem(context.Background(), item.ID, &three)
	require.NoError(t, err)
	assert.True(t, updated.PriceAtPurchase.Equal(item.PriceAtPurchase))
	assert.Equal(t, 7, f.stock(t, productID))
}

func TestUpdateLineItem_InvalidQuantity(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 3)
	require.NoError(t, err)

	zero := 0
	_, err = f.svc.UpdateLineItem(context.Background(), item.ID, &zero)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 7, f.stock(t, productID))
}

func TestRemoveLineItem_RestocksAndZeroesTotal(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 3)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveLineItem(context.Background(), item.ID))

	assert.Equal(t, 10, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).IsZero())
	_, err = f.svc.GetLineItem(context.Background(), item.ID)
	assert.ErrorIs(t, err, ports.ErrLineItemNotFound)
}

func TestRemoveLineItem_TotalCoversRemainingLines(t *testing.T) {
	f := newFixture(t)
	widget := f.seedProduct(t, "5.00", 10)
	gadget := f.seedProduct(t, "3.00", 10)
	orderID := f.seedOrder(t)

	first, err := f.svc.AddLineItem(context.Background(), orderID, widget, 2)
	require.NoError(t, err)
	_, err = f.svc.AddLineItem(context.Background(), orderID, gadget, 3)
	require.NoError(t, err)
	require.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("19.00")))

	require.NoError(t, f.svc.RemoveLineItem(context.Background(), first.ID))
	assert.True(t, f.total(t, orderID).Equal(decimal.RequireFromString("9.00")))
	assert.Equal(t, 10, f.stock(t, widget))
	assert.Equal(t, 7, f.stock(t, gadget))
}

func TestUpdateOrder_Statuses(t *testing.T) {
	f := newFixture(t)
	orderID := f.seedOrder(t)

	payment := domain.PaymentComplete
	delivery := domain.DeliveryInTransit
	order, err := f.svc.UpdateOrder(context.Background(), orderID, ports.OrderUpdate{
		PaymentStatus:  &payment,
		DeliveryStatus: &delivery,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentComplete, order.PaymentStatus)
	assert.Equal(t, domain.DeliveryInTransit, order.DeliveryStatus)

	bad := domain.PaymentStatus("PAID")
	_, err = f.svc.UpdateOrder(context.Background(), orderID, ports.OrderUpdate{PaymentStatus: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateOrderPaymentStatus(t *testing.T) {
	f := newFixture(t)
	orderID := f.seedOrder(t)

	order, err := f.svc.UpdateOrderPaymentStatus(context.Background(), orderID, domain.PaymentFailed)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, order.PaymentStatus)

	_, err = f.svc.UpdateOrderPaymentStatus(context.Background(), "missing", domain.PaymentComplete)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestDeleteOrder_CascadesLineItems(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	item, err := f.svc.AddLineItem(context.Background(), orderID, productID, 2)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteOrder(context.Background(), orderID))

	_, err = f.svc.GetOrder(context.Background(), orderID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
	_, err = f.svc.GetLineItem(context.Background(), item.ID)
	assert.ErrorIs(t, err, ports.ErrLineItemNotFound)
}

func TestListLineItemsByOrder_PopulatesProduct(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "5.00", 10)
	orderID := f.seedOrder(t)
	_, err := f.svc.AddLineItem(context.Background(), orderID, productID, 2)
	require.NoError(t, err)

	items, err := f.svc.ListLineItemsByOrder(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "widget", items[0].Product.Name)
	assert.Equal(t, 8, items[0].Product.InStock)
}

func TestConcurrentAdds_NeverOversell(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "1.00", 5)
	orderID := f.seedOrder(t)

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := f.svc.AddLineItem(context.Background(), orderID, productID, 1)
			done <- err
		}()
	}
	var succeeded int
	for i := 0; i < 10; i++ {
		if err := <-done; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, f.stock(t, productID))
	assert.True(t, f.total(t, orderID).Equal(decimal.NewFromInt(5)))
}
