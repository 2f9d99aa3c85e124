package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/domain/trade"
	"github.com/erp/purchase-discount/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order business operations.
// Lines are always priced through the selector against the order's
// supplier, currency and date.
type PurchaseOrderService struct {
	orderRepo       trade.PurchaseOrderRepository
	productRepo     purchasing.ProductRepository
	selector        *purchasing.Selector
	companyCurrency valueobject.Currency
	logger          *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	productRepo purchasing.ProductRepository,
	selector *purchasing.Selector,
	companyCurrency valueobject.Currency,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		selector:        selector,
		companyCurrency: companyCurrency,
		logger:          logger,
	}
}

// Create creates a new draft purchase order with optional initial lines
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), shared.ErrInvalidInput)
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = generateOrderNumber(time.Now())
	}
	exists, err := s.orderRepo.ExistsByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Order number %s already exists", orderNumber))
	}

	orderDate := time.Time{}
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	order, err := trade.NewPurchaseOrder(orderNumber, req.SupplierID, currency.OrDefault(s.companyCurrency), orderDate)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if _, err := s.addLine(ctx, order, line); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save purchase order", zap.String("order_number", orderNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Created purchase order",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", orderNumber),
		zap.Int("lines", len(order.Lines)))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddLine adds a product line priced from the order's supplier
func (s *PurchaseOrderService) AddLine(ctx context.Context, orderID uuid.UUID, req AddPurchaseLineRequest) (_ *PurchaseOrderLineResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "add_line",
		telemetry.SpanAttrOrderID, orderID,
		telemetry.SpanAttrProductID, req.ProductID,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	line, err := s.addLine(ctx, order, req)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderLineResponse(line)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateLineQuantity changes a line quantity and reprices the line, since a
// different quantity may reach a different price tier
func (s *PurchaseOrderService) UpdateLineQuantity(ctx context.Context, orderID, lineID uuid.UUID, req UpdateLineQuantityRequest) (_ *PurchaseOrderLineResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "update_line_quantity",
		telemetry.SpanAttrOrderID, orderID,
		telemetry.SpanAttrQuantity, req.Quantity,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	line, err := order.Line(lineID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	quote, err := s.selector.Quote(ctx, *product, req.Quantity, order.PriceContext(line.Unit, s.companyCurrency))
	if err != nil {
		return nil, err
	}

	line, err = order.UpdateLineQuantity(lineID, req.Quantity, quote)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderLineResponse(line)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Debug("Repriced purchase line",
		zap.String("order_id", orderID.String()),
		zap.String("line_id", lineID.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("source", string(quote.Source)))

	return &response, nil
}

// RemoveLine deletes a line from a draft order and returns the order with
// its recomputed total
func (s *PurchaseOrderService) RemoveLine(ctx context.Context, orderID, lineID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Debug("Removed purchase line",
		zap.String("order_id", orderID.String()),
		zap.String("line_id", lineID.String()),
		zap.Int("lines", len(order.Lines)))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm confirms a draft purchase order
func (s *PurchaseOrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, (*trade.PurchaseOrder).Confirm)
}

// Cancel cancels a purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, (*trade.PurchaseOrder).Cancel)
}

func (s *PurchaseOrderService) transition(ctx context.Context, orderID uuid.UUID, apply func(*trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("status", order.Status.String()))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) addLine(ctx context.Context, order *trade.PurchaseOrder, req AddPurchaseLineRequest) (*trade.PurchaseOrderLine, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	unit := valueobject.NormalizeUnitCode(req.Unit)
	if unit == "" {
		unit = product.PurchaseUnit
	}

	quote, err := s.selector.Quote(ctx, *product, req.Quantity, order.PriceContext(unit, s.companyCurrency))
	if err != nil {
		return nil, err
	}

	return order.AddLine(product.ID, product.Code, unit, req.Quantity, quote)
}

func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), suffix)
}
