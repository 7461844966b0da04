package handler

import (
	"net/http"

	catalogapp "github.com/billing/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints.
// Bodies are the bare schema dump of a product, not the response envelope.
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List godoc
// @Summary      List products
// @Description  List products, optionally filtered by exact name and availability
// @Tags         products
// @Produce      json
// @Param        name query string false "Exact product name"
// @Param        available query bool false "Availability flag"
// @Success      200 {array} catalogapp.ProductOut
// @Failure      400 {object} map[string][]string
// @Router       /billing/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListByQuery(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Success      201 {object} catalogapp.ProductOut
// @Failure      400 {object} map[string][]string
// @Router       /billing/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	payload, ok := h.readBody(c)
	if !ok {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} catalogapp.ProductOut
// @Failure      404 {object} ErrorResponse
// @Router       /billing/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Update godoc
// @Summary      Update a product
// @Description  Apply a partial update. PUT and PATCH behave the same.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} catalogapp.ProductOut
// @Failure      400 {object} map[string][]string
// @Failure      404 {object} ErrorResponse
// @Router       /billing/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	payload, ok := h.readBody(c)
	if !ok {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /billing/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteAll godoc
// @Summary      Delete every product
// @Description  Not supported
// @Tags         products
// @Failure      501 {object} ErrorResponse
// @Router       /billing/products [delete]
func (h *ProductHandler) DeleteAll(c *gin.Context) {
	h.HandleError(c, h.productService.DeleteAll(c.Request.Context()))
}
