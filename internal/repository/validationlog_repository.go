package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// ValidationLogRepository appends to loyalty_validation_log (spec.md §4.8:
// "every LID attempt whether valid or not").
type ValidationLogRepository struct {
	db *gorm.DB
}

// NewValidationLogRepository creates a new validation-log repository.
func NewValidationLogRepository(db *gorm.DB) *ValidationLogRepository {
	return &ValidationLogRepository{db: db}
}

// Append writes one validation-attempt row.
func (r *ValidationLogRepository) Append(ctx context.Context, entry *models.ValidationLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append validation log entry: %w", err)
	}
	return nil
}
