package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// CatalogRepository reads upc_master, the read-only catalog table populated
// by the external allowance-catalog synchronizer (spec.md §1/§3). It never
// writes.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindByUPC implements the S3 lookup order from spec.md §4.3: carton UPC
// first, then pack UPC, then the suppressed-carton alias. Returns the
// matched entry plus which column matched, or (nil, "", nil) when the UPC is
// unknown.
func (r *CatalogRepository) FindByUPC(ctx context.Context, upc string) (*models.CatalogEntry, models.MatchedUPCType, error) {
	var entry models.CatalogEntry
	db := r.db.WithContext(ctx)

	err := db.Where("carton_upc = ?", upc).First(&entry).Error
	if err == nil {
		return &entry, models.MatchedCarton, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to query carton_upc: %w", err)
	}

	err = db.Where("pack_upc = ?", upc).First(&entry).Error
	if err == nil {
		return &entry, models.MatchedPack, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to query pack_upc: %w", err)
	}

	err = db.Where("carton_suppressed_upc = ?", upc).First(&entry).Error
	if err == nil {
		return &entry, models.MatchedCartonSuppressed, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to query carton_suppressed_upc: %w", err)
	}

	return nil, "", nil
}
