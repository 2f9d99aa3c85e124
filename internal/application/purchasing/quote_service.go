package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// QuoteService prices product lines outside of a purchase order
type QuoteService struct {
	productRepo     purchasing.ProductRepository
	selector        *purchasing.Selector
	companyCurrency valueobject.Currency
	metrics         *telemetry.PricingMetrics
	logger          *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	productRepo purchasing.ProductRepository,
	selector *purchasing.Selector,
	companyCurrency valueobject.Currency,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		productRepo:     productRepo,
		selector:        selector,
		companyCurrency: companyCurrency,
		logger:          logger,
	}
}

// WithMetrics enables quote counters
func (s *QuoteService) WithMetrics(m *telemetry.PricingMetrics) *QuoteService {
	s.metrics = m
	return s
}

// Quote computes the effective price of a product line. Unit defaults to the
// product purchase unit, currency to the company currency and date to now.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (_ *QuoteResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "compute",
		telemetry.SpanAttrProductID, req.ProductID,
		telemetry.SpanAttrQuantity, req.Quantity,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), shared.ErrInvalidInput)
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	pc := purchasing.PriceContext{
		SupplierID:      req.SupplierID,
		Unit:            valueobject.NormalizeUnitCode(req.Unit),
		Currency:        currency.OrDefault(s.companyCurrency),
		CompanyCurrency: s.companyCurrency,
		Date:            time.Now(),
		Default:         ToNullDecimal(req.Default),
	}
	if pc.Unit == "" {
		pc.Unit = product.PurchaseUnit
	}
	if req.Date != nil {
		pc.Date = *req.Date
	}

	quote, err := s.selector.Quote(ctx, *product, req.Quantity, pc)
	if err != nil {
		s.logger.Error("Failed to quote product",
			zap.String("product_id", req.ProductID.String()),
			zap.Error(err))
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPriceSource, string(quote.Source))
	s.metrics.Quoted(ctx, string(quote.Source))
	s.logger.Debug("Quoted product",
		zap.String("product_id", req.ProductID.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("source", string(quote.Source)))

	response := ToQuoteResponse(req, pc, quote)
	return &response, nil
}
