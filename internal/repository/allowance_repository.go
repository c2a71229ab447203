package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// AllowanceRepository reads loyalty_allowances and its loyalty_allowance_skus
// join table, both populated externally (spec.md §1/§3). Read-only.
type AllowanceRepository struct {
	db *gorm.DB
}

// NewAllowanceRepository creates a new allowance repository.
func NewAllowanceRepository(db *gorm.DB) *AllowanceRepository {
	return &AllowanceRepository{db: db}
}

// ActiveForSKU returns the allowance rules effective today (spec.md
// ActiveOn) whose eligible-SKU set includes skuGUID.
func (r *AllowanceRepository) ActiveForSKU(ctx context.Context, skuGUID string, today time.Time) ([]models.AllowanceRule, error) {
	var rules []models.AllowanceRule

	err := r.db.WithContext(ctx).
		Joins("JOIN loyalty_allowance_skus ON loyalty_allowance_skus.allowance_id = loyalty_allowances.id").
		Where("loyalty_allowance_skus.skuguid = ?", skuGUID).
		Where("loyalty_allowances.start_date <= ?", today).
		Where("loyalty_allowances.end_date >= ?", today).
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query active allowances: %w", err)
	}
	return rules, nil
}

// ActiveGlobal returns the allowance rules effective today that carry no
// eligible-SKU mapping at all — spec.md §4.6's "null SKUGUID means all
// products" rules.
func (r *AllowanceRepository) ActiveGlobal(ctx context.Context, today time.Time) ([]models.AllowanceRule, error) {
	var rules []models.AllowanceRule

	err := r.db.WithContext(ctx).
		Where("start_date <= ?", today).
		Where("end_date >= ?", today).
		Where("id NOT IN (SELECT DISTINCT allowance_id FROM loyalty_allowance_skus)").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query global allowances: %w", err)
	}
	return rules, nil
}
