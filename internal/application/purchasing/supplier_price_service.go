package purchasing

import (
	"context"
	"fmt"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SupplierPriceService handles supplier price tier operations
type SupplierPriceService struct {
	priceRepo       purchasing.SupplierPriceRepository
	supplierRepo    purchasing.ProductSupplierRepository
	reconciler      *purchasing.Reconciler
	localizer       purchasing.Localizer
	companyCurrency valueobject.Currency
	metrics         *telemetry.PricingMetrics
	logger          *zap.Logger
}

// NewSupplierPriceService creates a new SupplierPriceService
func NewSupplierPriceService(
	priceRepo purchasing.SupplierPriceRepository,
	supplierRepo purchasing.ProductSupplierRepository,
	reconciler *purchasing.Reconciler,
	localizer purchasing.Localizer,
	companyCurrency valueobject.Currency,
	logger *zap.Logger,
) *SupplierPriceService {
	return &SupplierPriceService{
		priceRepo:       priceRepo,
		supplierRepo:    supplierRepo,
		reconciler:      reconciler,
		localizer:       localizer,
		companyCurrency: companyCurrency,
		logger:          logger,
	}
}

// WithMetrics enables creation and field change counters
func (s *SupplierPriceService) WithMetrics(m *telemetry.PricingMetrics) *SupplierPriceService {
	s.metrics = m
	return s
}

// CreateBatch creates price tiers from partial field sets. Each tier is
// completed independently; the batch is stored atomically.
func (s *SupplierPriceService) CreateBatch(ctx context.Context, req BatchCreateSupplierPricesRequest) ([]SupplierPriceResponse, error) {
	inputs := make([]purchasing.PriceInput, 0, len(req.Prices))
	checked := make(map[uuid.UUID]struct{})

	for i, p := range req.Prices {
		if p.BasePrice == nil && p.NetPrice == nil {
			return nil, fmt.Errorf("price %d: base price or net price is required: %w", i, shared.ErrInvalidInput)
		}
		currency, err := valueobject.ParseCurrency(p.Currency)
		if err != nil {
			return nil, fmt.Errorf("price %d: %s: %w", i, err.Error(), shared.ErrInvalidInput)
		}
		if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
			return nil, fmt.Errorf("price %d: end date before start date: %w", i, shared.ErrInvalidInput)
		}

		if _, ok := checked[p.ProductSupplierID]; !ok {
			if _, err := s.supplierRepo.FindByID(ctx, p.ProductSupplierID); err != nil {
				return nil, fmt.Errorf("product supplier %s: %w", p.ProductSupplierID, err)
			}
			checked[p.ProductSupplierID] = struct{}{}
		}

		inputs = append(inputs, purchasing.PriceInput{
			ProductSupplierID: p.ProductSupplierID,
			Sequence:          p.Sequence,
			Quantity:          p.Quantity,
			Unit:              valueobject.NormalizeUnitCode(p.Unit),
			Currency:          currency,
			StartDate:         p.StartDate,
			EndDate:           p.EndDate,
			BasePrice:         ToNullDecimal(p.BasePrice),
			NetPrice:          ToNullDecimal(p.NetPrice),
			DiscountRate:      ToNullDecimal(p.DiscountRate),
		})
	}

	prices := s.reconciler.CreateBatch(inputs)
	if err := s.priceRepo.CreateBatch(ctx, prices); err != nil {
		s.logger.Error("Failed to store supplier prices", zap.Int("count", len(prices)), zap.Error(err))
		return nil, err
	}

	s.metrics.PricesCreated(ctx, len(prices))
	s.logger.Info("Created supplier prices", zap.Int("count", len(prices)))

	responses := make([]SupplierPriceResponse, 0, len(prices))
	for i := range prices {
		responses = append(responses, s.toResponse(&prices[i]))
	}
	return responses, nil
}

// GetByID retrieves a supplier price by ID
func (s *SupplierPriceService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierPriceResponse, error) {
	price, err := s.priceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := s.toResponse(price)
	return &response, nil
}

// ListByProductSupplier lists the tiers of a product supplier in matching order
func (s *SupplierPriceService) ListByProductSupplier(ctx context.Context, productSupplierID uuid.UUID) ([]SupplierPriceResponse, error) {
	if _, err := s.supplierRepo.FindByID(ctx, productSupplierID); err != nil {
		return nil, err
	}

	prices, err := s.priceRepo.ListByProductSupplier(ctx, productSupplierID)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierPriceResponse, 0, len(prices))
	for i := range prices {
		responses = append(responses, s.toResponse(&prices[i]))
	}
	return responses, nil
}

// ChangeField sets one field of a supplier price and reconciles the others
func (s *SupplierPriceService) ChangeField(ctx context.Context, id uuid.UUID, fieldName string, req ChangeFieldRequest) (_ *PriceChangeResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supplier_price", "change_field",
		telemetry.SpanAttrPriceID, id,
		telemetry.SpanAttrChangedField, fieldName,
	)
	defer func() {
		telemetry.RecordError(span, err)
		s.metrics.FieldChanged(ctx, metricFieldLabel(fieldName), err)
		span.End()
	}()

	field, err := purchasing.ParseField(fieldName)
	if err != nil {
		return nil, err
	}

	price, err := s.priceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateFieldValue(price, field, req.Value); err != nil {
		return nil, err
	}

	update, err := s.reconciler.Apply(price, purchasing.ChangeEvent{Field: field, Value: ToNullDecimal(req.Value)})
	if err != nil {
		return nil, err
	}
	price.Touch()

	if err := s.priceRepo.Update(ctx, price); err != nil {
		s.logger.Error("Failed to update supplier price", zap.String("price_id", id.String()), zap.Error(err))
		return nil, err
	}

	recomputed := make([]string, 0, len(update.Fields))
	for _, f := range update.Fields {
		recomputed = append(recomputed, f.String())
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRecomputedKeys, recomputed)

	s.logger.Debug("Reconciled supplier price",
		zap.String("price_id", id.String()),
		zap.String("field", field.String()),
		zap.Int("updated_fields", len(update.Fields)))

	response := ToPriceChangeResponse(field, update, s.toResponse(price))
	return &response, nil
}

func metricFieldLabel(name string) string {
	if f, err := purchasing.ParseField(name); err == nil {
		return f.String()
	}
	return "unknown"
}

// validateFieldValue rejects edits that would leave a negative net price
func validateFieldValue(p *purchasing.SupplierPrice, field purchasing.Field, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}
	switch field {
	case purchasing.FieldDiscountRate:
		if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("discount rate %s must be between 0 and 1: %w", v.String(), shared.ErrInvalidInput)
		}
	case purchasing.FieldDiscountAmount:
		if v.IsNegative() {
			return fmt.Errorf("discount amount %s must not be negative: %w", v.String(), shared.ErrInvalidInput)
		}
		if p.BasePrice.Valid && v.GreaterThan(p.BasePrice.Decimal) {
			return fmt.Errorf("discount amount %s exceeds base price %s: %w",
				v.String(), p.BasePrice.Decimal.String(), shared.ErrInvalidInput)
		}
	}
	return nil
}

func (s *SupplierPriceService) toResponse(p *purchasing.SupplierPrice) SupplierPriceResponse {
	return ToSupplierPriceResponse(p, s.reconciler, s.companyCurrency, s.localizer)
}
