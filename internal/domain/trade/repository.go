package trade

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// Save creates or updates a purchase order and replaces its lines
	Save(ctx context.Context, order *PurchaseOrder) error

	// ExistsByOrderNumber checks if an order number is already used
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
}
