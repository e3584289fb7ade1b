package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/vetcare/backend/internal/application/catalog"
	"github.com/vetcare/backend/internal/domain/catalog"
)

// ProductHandler handles catalog product API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create registers a new product
func (h *ProductHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID retrieves a product
func (h *ProductHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), hospitalID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// GetBySKU retrieves a product by its SKU
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "sku is required")
		return
	}

	product, err := h.productService.GetBySKU(c.Request.Context(), hospitalID, sku)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// List retrieves products with optional filtering
func (h *ProductHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := catalogapp.ProductListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		category := catalog.ProductCategory(categoryStr)
		filter.Category = &category
	}
	active, err := queryBoolPtr(c, "active")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.Active = active

	products, total, err := h.productService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update updates a product's details and pricing
func (h *ProductHandler) Update(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), hospitalID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Deactivate retires a product from the catalog
func (h *ProductHandler) Deactivate(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.productService.Deactivate(c.Request.Context(), hospitalID, productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a product that was never referenced
func (h *ProductHandler) Delete(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.productService.Delete(c.Request.Context(), hospitalID, productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
