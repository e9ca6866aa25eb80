package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	orderdomain "github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	orderports "github.com/avetrov/go-shop-api/internal/domains/orders/ports"
	"github.com/avetrov/go-shop-api/internal/shared/problem"
)

// OrdersHandler serves order aggregate routes.
type OrdersHandler struct {
	orders orderports.Service
}

func NewOrdersHandler(orders orderports.Service) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type createOrderRequest struct {
	UserID         string `json:"userId" binding:"required"`
	PaymentStatus  string `json:"paymentStatus" binding:"omitempty,oneof=PENDING COMPLETE FAILED"`
	DeliveryStatus string `json:"deliveryStatus" binding:"omitempty,oneof=PENDING IN_TRANSIT DELIVERED"`
}

func (h *OrdersHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), req.UserID,
		orderdomain.PaymentStatus(req.PaymentStatus),
		orderdomain.DeliveryStatus(req.DeliveryStatus))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrdersHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

type updateOrderRequest struct {
	PaymentStatus  *string `json:"paymentStatus" binding:"omitempty,oneof=PENDING COMPLETE FAILED"`
	DeliveryStatus *string `json:"deliveryStatus" binding:"omitempty,oneof=PENDING IN_TRANSIT DELIVERED"`
}

func (h *OrdersHandler) Update(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	update := orderports.OrderUpdate{}
	if req.PaymentStatus != nil {
		status := orderdomain.PaymentStatus(*req.PaymentStatus)
		update.PaymentStatus = &status
	}
	if req.DeliveryStatus != nil {
		status := orderdomain.DeliveryStatus(*req.DeliveryStatus)
		update.DeliveryStatus = &status
	}
	order, err := h.orders.UpdateOrder(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdatePaymentStatus handles the payment-callback route; the new status
// arrives as a query parameter.
func (h *OrdersHandler) UpdatePaymentStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		problem.Respond(c, problem.BadRequest.WithDetail("status query parameter is required"))
		return
	}
	order, err := h.orders.UpdateOrderPaymentStatus(c.Request.Context(), c.Param("id"),
		orderdomain.PaymentStatus(status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrdersHandler) Delete(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type orderResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaymentStatus  string          `json:"paymentStatus"`
	DeliveryStatus string          `json:"deliveryStatus"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func toOrderResponse(order *orderdomain.Order) orderResponse {
	return orderResponse{
		ID:             order.ID,
		UserID:         order.UserID,
		TotalAmount:    order.TotalAmount,
		PaymentStatus:  string(order.PaymentStatus),
		DeliveryStatus: string(order.DeliveryStatus),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}
