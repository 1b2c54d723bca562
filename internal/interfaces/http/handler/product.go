package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/wareline/backend/internal/application/catalog"
)

// ProductHandler exposes product registration, thresholds, composition and
// supplier links
type ProductHandler struct {
	BaseHandler
	products *appcatalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), org, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), org, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetBySKU handles GET /products/sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}

	product, err := h.products.GetProductBySKU(c.Request.Context(), org, c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active == "true"
	}

	listing, err := h.products.ListProducts(c.Request.Context(), org, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, listing.Products, listing.Total, filter.Page, filter.PageSize)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), org, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UpdateThresholds handles PUT /products/:id/thresholds
func (h *ProductHandler) UpdateThresholds(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req appcatalog.UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.UpdateThresholds(c.Request.Context(), org, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Deactivate handles DELETE /products/:id
func (h *ProductHandler) Deactivate(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.products.DeactivateProduct(c.Request.Context(), org, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddComponent handles POST /products/:id/components
func (h *ProductHandler) AddComponent(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	bundleID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req appcatalog.AddComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.products.AddComponent(c.Request.Context(), org, bundleID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LinkSupplier handles POST /products/:id/suppliers
func (h *ProductHandler) LinkSupplier(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req appcatalog.LinkSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.products.LinkSupplier(c.Request.Context(), org, productID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
