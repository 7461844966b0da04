package handler

import (
	"net/http"

	tradeapp "github.com/billing/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves the public order listing
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Success      200 {array} tradeapp.OrderOut
// @Router       /billing/order [get]
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
