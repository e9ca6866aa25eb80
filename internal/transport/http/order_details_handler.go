package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	orderdomain "github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	orderports "github.com/avetrov/go-shop-api/internal/domains/orders/ports"
)

// OrderDetailsHandler serves line item routes. Every mutation goes through
// the orders service so stock and totals stay consistent.
type OrderDetailsHandler struct {
	orders orderports.Service
}

func NewOrderDetailsHandler(orders orderports.Service) *OrderDetailsHandler {
	return &OrderDetailsHandler{orders: orders}
}

type createOrderDetailRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

func (h *OrderDetailsHandler) Create(c *gin.Context) {
	var req createOrderDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	item, err := h.orders.AddLineItem(c.Request.Context(), req.OrderID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderDetailResponse(item))
}

func (h *OrderDetailsHandler) List(c *gin.Context) {
	items, err := h.orders.ListLineItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetailResponses(items))
}

func (h *OrderDetailsHandler) ListByOrder(c *gin.Context) {
	items, err := h.orders.ListLineItemsByOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetailResponses(items))
}

func (h *OrderDetailsHandler) Get(c *gin.Context) {
	item, err := h.orders.GetLineItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetailResponse(item))
}

type updateOrderDetailRequest struct {
	Quantity *int `json:"quantity" binding:"omitempty,gte=1"`
}

func (h *OrderDetailsHandler) Update(c *gin.Context) {
	var req updateOrderDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	item, err := h.orders.UpdateLineItem(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetailResponse(item))
}

func (h *OrderDetailsHandler) Delete(c *gin.Context) {
	if err := h.orders.RemoveLineItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type orderDetailResponse struct {
	ID              string                 `json:"id"`
	OrderID         string                 `json:"orderId"`
	ProductID       string                 `json:"productId"`
	Quantity        int                    `json:"quantity"`
	PriceAtPurchase decimal.Decimal        `json:"priceAtPurchase"`
	Product         *detailProductResponse `json:"product,omitempty"`
}

type detailProductResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	InStock  int             `json:"inStock"`
}

func toOrderDetailResponse(item *orderdomain.LineItem) orderDetailResponse {
	out := orderDetailResponse{
		ID:              item.ID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		PriceAtPurchase: item.PriceAtPurchase,
	}
	if item.Product != nil {
		out.Product = &detailProductResponse{
			ID:       item.Product.ID,
			Name:     item.Product.Name,
			Category: item.Product.Category,
			Price:    item.Product.Price,
			InStock:  item.Product.InStock,
		}
	}
	return out
}

func toOrderDetailResponses(items []*orderdomain.LineItem) []orderDetailResponse {
	out := make([]orderDetailResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toOrderDetailResponse(item))
	}
	return out
}
