package purchasing

import (
	"context"

	"github.com/google/uuid"
)

// SupplierPriceRepository persists supplier price tiers
type SupplierPriceRepository interface {
	Create(ctx context.Context, price *SupplierPrice) error
	CreateBatch(ctx context.Context, prices []SupplierPrice) error
	Update(ctx context.Context, price *SupplierPrice) error
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierPrice, error)
	// ListByProductSupplier returns tiers ordered by sequence ascending, then
	// quantity descending.
	ListByProductSupplier(ctx context.Context, productSupplierID uuid.UUID) ([]SupplierPrice, error)
}

// ProductSupplierRepository persists product-supplier links
type ProductSupplierRepository interface {
	Create(ctx context.Context, ps *ProductSupplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductSupplier, error)
}

// ProductRepository loads products together with their suppliers and tiers
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
}
