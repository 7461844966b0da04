package handler

import (
	"github.com/billing/backend/internal/application/admin"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AdminOrderHandler serves the administrative order views.
// Responses use the standard envelope; validation failures keep the bare field map.
type AdminOrderHandler struct {
	BaseHandler
	adminService *admin.OrderAdminService
}

// NewAdminOrderHandler creates a new AdminOrderHandler
func NewAdminOrderHandler(adminService *admin.OrderAdminService) *AdminOrderHandler {
	return &AdminOrderHandler{
		adminService: adminService,
	}
}

// UpdateStatusRequest is the body of an inline status edit
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"s"`
}

// List godoc
// @Summary      List orders for administration
// @Description  Paged order list with search on customer email and column filters
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Customer email substring"
// @Param        order_by query string false "Sort column" default(created_at)
// @Param        order_dir query string false "asc or desc" default(desc)
// @Param        status query string false "Status code or label"
// @Param        customer_email query string false "Exact customer email"
// @Param        total_price query number false "Exact total price"
// @Param        tracking_url query string false "Exact tracking URL"
// @Param        items query string false "Name of a product the order contains"
// @Success      200 {object} APIResponse[[]admin.OrderRow]
// @Failure      400 {object} ErrorResponse
// @Router       /admin/orders [get]
func (h *AdminOrderHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filters := make(map[string]string)
	for _, f := range h.adminService.Filters() {
		if value, ok := c.GetQuery(f.Name); ok {
			filters[f.Name] = value
		}
	}

	page, err := h.adminService.List(c.Request.Context(), admin.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  filters,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @Summary      Order details
// @Tags         admin
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[admin.OrderDetail]
// @Failure      404 {object} ErrorResponse
// @Router       /admin/orders/{id} [get]
func (h *AdminOrderHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	detail, err := h.adminService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Create godoc
// @Summary      Create an order
// @Description  Builds an order from untyped fields. Missing values take their defaults.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse[admin.OrderDetail]
// @Failure      400 {object} map[string][]string
// @Router       /admin/orders [post]
func (h *AdminOrderHandler) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		if isBodyTooLarge(err) {
			h.RequestTooLarge(c)
			return
		}
		middleware.HandleValidationError(c, err)
		return
	}

	detail, err := h.adminService.Create(c.Request.Context(), fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, detail)
}

// UpdateStatus godoc
// @Summary      Set the status of an order
// @Description  Any status is accepted from any other status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[admin.OrderDetail]
// @Failure      400 {object} map[string][]string
// @Failure      404 {object} ErrorResponse
// @Router       /admin/orders/{id}/status [patch]
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			h.RequestTooLarge(c)
			return
		}
		middleware.HandleValidationError(c, err)
		return
	}

	detail, err := h.adminService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Options godoc
// @Summary      List filters and status choices
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[AdminOrderOptions]
// @Router       /admin/orders/options [get]
func (h *AdminOrderHandler) Options(c *gin.Context) {
	h.Success(c, AdminOrderOptions{
		Filters:  h.adminService.Filters(),
		Statuses: admin.StatusChoices(),
	})
}

// AdminOrderOptions lists what the admin order list can be filtered by
type AdminOrderOptions struct {
	Filters  []admin.FilterInfo `json:"filters"`
	Statuses []admin.StatusOut  `json:"statuses"`
}
