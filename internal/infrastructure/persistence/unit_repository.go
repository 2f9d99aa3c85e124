package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUnitRepository stores units of measure
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// Save inserts or replaces a unit
func (r *GormUnitRepository) Save(ctx context.Context, u valueobject.Unit) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(models.UnitModelFromDomain(u)).Error
}

// FindByCode returns the unit with code, or shared.ErrUnitNotFound
func (r *GormUnitRepository) FindByCode(ctx context.Context, code string) (valueobject.Unit, error) {
	code = valueobject.NormalizeUnitCode(code)
	var model models.UnitModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return valueobject.Unit{}, fmt.Errorf("%w: %s", shared.ErrUnitNotFound, code)
		}
		return valueobject.Unit{}, err
	}
	return model.ToDomain()
}
