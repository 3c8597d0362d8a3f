package handler

import (
	"github.com/caveo/pos-api/internal/application/service"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/caveo/pos-api/internal/presentation/http/dto/request"
	"github.com/caveo/pos-api/internal/presentation/http/dto/response"
	"github.com/caveo/pos-api/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles catalog-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Get handles retrieving a single product by slug
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Create handles product creation
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), toProductInput(req.Name, req.Appellation, req.Vintage, req.Color, req.Notes, req.PackagingUnits))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles product updates
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("slug"), toProductInput(req.Name, req.Appellation, req.Vintage, req.Color, req.Notes, req.PackagingUnits))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

// ResolveBarcode looks up the packaging unit a scanned barcode refers to
func (h *ProductHandler) ResolveBarcode(c *gin.Context) {
	unit, err := h.productService.ResolveBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if unit == nil {
		response.NotFound(c, "No packaging unit matches this barcode")
		return
	}

	response.OK(c, "Barcode resolved", unit)
}

func toProductInput(name string, appellation *string, vintage *int, color, notes *string, units []request.PackagingUnitRequest) *service.CreateProductInput {
	input := &service.CreateProductInput{
		Name:        name,
		Appellation: appellation,
		Vintage:     vintage,
		Color:       color,
		Notes:       notes,
	}
	for _, u := range units {
		input.PackagingUnits = append(input.PackagingUnits, service.PackagingUnitInput{
			Label:     u.Label,
			Barcode:   u.Barcode,
			UnitCount: u.UnitCount,
			Price:     money.FromFloat(u.Price),
			Stock:     u.Stock,
		})
	}
	return input
}
