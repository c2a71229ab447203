package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// AVTRepository appends to avt_transactions, the append-only age-verification
// audit trail spec.md §4.2/§7 treats as legally required.
type AVTRepository struct {
	db *gorm.DB
}

// NewAVTRepository creates a new AVT repository.
func NewAVTRepository(db *gorm.DB) *AVTRepository {
	return &AVTRepository{db: db}
}

// Append writes one AVT audit row. Failure here must abort the pipeline per
// spec.md §4.2 ("audit write failure is fatal, not best-effort").
func (r *AVTRepository) Append(ctx context.Context, record *models.AVTRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to append AVT record: %w", err)
	}
	return nil
}
