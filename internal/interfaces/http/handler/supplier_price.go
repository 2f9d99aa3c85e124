package handler

import (
	purchasingapp "github.com/erp/purchase-discount/internal/application/purchasing"
	"github.com/gin-gonic/gin"
)

// SupplierPriceHandler handles supplier price tier endpoints
type SupplierPriceHandler struct {
	BaseHandler
	priceService *purchasingapp.SupplierPriceService
}

// NewSupplierPriceHandler creates a new SupplierPriceHandler
func NewSupplierPriceHandler(priceService *purchasingapp.SupplierPriceService) *SupplierPriceHandler {
	return &SupplierPriceHandler{priceService: priceService}
}

// CreateBatch handles POST /supplier-prices/batch. Each tier may carry any
// two of base price, net price and discount rate; the third is derived.
func (h *SupplierPriceHandler) CreateBatch(c *gin.Context) {
	var req purchasingapp.BatchCreateSupplierPricesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	prices, err := h.priceService.CreateBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, prices)
}

// GetByID handles GET /supplier-prices/:id
func (h *SupplierPriceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	price, err := h.priceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}

// ChangeField handles PATCH /supplier-prices/:id/fields/:field
func (h *SupplierPriceHandler) ChangeField(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.ChangeFieldRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.priceService.ChangeField(c.Request.Context(), id, c.Param("field"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListByProductSupplier handles GET /product-suppliers/:id/prices
func (h *SupplierPriceHandler) ListByProductSupplier(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	prices, err := h.priceService.ListByProductSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}
