package handler

import (
	purchasingapp "github.com/erp/purchase-discount/internal/application/purchasing"
	"github.com/gin-gonic/gin"
)

// QuoteHandler prices product lines
type QuoteHandler struct {
	BaseHandler
	quoteService *purchasingapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *purchasingapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Quote handles POST /purchase-lines/quote
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req purchasingapp.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
