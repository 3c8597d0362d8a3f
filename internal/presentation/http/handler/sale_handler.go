package handler

import (
	"github.com/caveo/pos-api/internal/application/service"
	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/caveo/pos-api/internal/domain/repository"
	"github.com/caveo/pos-api/internal/presentation/http/dto/request"
	"github.com/caveo/pos-api/internal/presentation/http/dto/response"
	"github.com/caveo/pos-api/pkg/apperror"
	"github.com/caveo/pos-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles the sale workflow HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// saleID parses the :id path parameter
func saleID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Create opens a new draft sale for the authenticated operator
func (h *SaleHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sale, err := h.saleService.CreateDraftSale(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Draft sale created", sale)
}

// List handles listing sales with filters
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}

	if filter.Status != "" {
		if status, ok := enum.ParseSaleStatus(filter.Status); ok {
			params.Status = &status
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// ListDrafts lists the authenticated operator's open drafts, most
// recent first, so a terminal can resume after a crash
func (h *SaleHandler) ListDrafts(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sales, err := h.saleService.ListDraftSales(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft sales retrieved", sales)
}

// Get retrieves a single sale with its lines and payments
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// AddLine adds a packaging unit to a draft sale
func (h *SaleHandler) AddLine(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	var req request.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	sale, err := h.saleService.AddLine(c.Request.Context(), id, req.PackagingUnitID, quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line added", sale)
}

// UpdateLine changes the quantity of a sale line
func (h *SaleHandler) UpdateLine(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		response.BadRequest(c, "Invalid line ID format")
		return
	}

	var req request.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.SetLineQuantity(c.Request.Context(), id, lineID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line updated", sale)
}

// RemoveLine deletes a sale line
func (h *SaleHandler) RemoveLine(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		response.BadRequest(c, "Invalid line ID format")
		return
	}

	sale, err := h.saleService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line removed", sale)
}

// ApplyDiscount sets the sale-level discount, replacing any previous one
func (h *SaleHandler) ApplyDiscount(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	var req request.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	kind, err := enum.ParseDiscountKind(req.Kind)
	if err != nil {
		response.BadRequest(c, "Invalid discount kind")
		return
	}

	discount := entity.Discount{Kind: kind}
	switch kind {
	case enum.DiscountKindPercentage:
		value, ok := req.PercentValue()
		if !ok {
			response.Error(c, apperror.ErrInvalidDiscountValue)
			return
		}
		discount.Value = value
	case enum.DiscountKindFixedAmount:
		discount.Value = money.FromFloat(req.Value).Cents()
	}

	sale, err := h.saleService.ApplyDiscount(c.Request.Context(), id, discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied", sale)
}

// RemoveDiscount clears the sale-level discount
func (h *SaleHandler) RemoveDiscount(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	sale, err := h.saleService.RemoveDiscount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount removed", sale)
}

// RecordPayment records one payment against a sale
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mode, err := enum.ParsePaymentMode(req.Mode)
	if err != nil {
		response.BadRequest(c, "Invalid payment mode")
		return
	}

	input := service.PaymentInput{
		Mode:      mode,
		Amount:    money.FromFloat(req.Amount),
		Reference: req.Reference,
	}
	if req.AmountTendered != nil {
		tendered := money.FromFloat(*req.AmountTendered)
		input.AmountTendered = &tendered
	}

	result, err := h.saleService.RecordPayment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded", result)
}

// Finalize settles a fully paid sale and projects its receipt
func (h *SaleHandler) Finalize(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	sale, receipt, err := h.saleService.Finalize(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale finalized", gin.H{
		"sale":    sale,
		"receipt": receipt,
	})
}

// Cancel abandons a draft sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	if err := h.saleService.Cancel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled", nil)
}

// GetReceipt retrieves the persisted receipt of a settled sale
func (h *SaleHandler) GetReceipt(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}

	receipt, err := h.saleService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved", receipt)
}
