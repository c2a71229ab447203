// Package repository provides data access for the loyalty-engine tables,
// grounded on order_service/src/repository/order_repository.go's
// NewXRepository(db)/Create/GetBy.../Update shape.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// ProfileRepository provides data access for customer_profiles.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByLoyaltyID returns the profile for a normalized loyalty ID, or
// (nil, nil) when no row exists yet — first-visit is not an error.
func (r *ProfileRepository) GetByLoyaltyID(ctx context.Context, loyaltyID string) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := r.db.WithContext(ctx).Where("loyalty_id = ?", loyaltyID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Create inserts a new profile row for a first-time loyalty ID.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.CustomerProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Save persists mutations to an existing profile (last_seen, verification
// flags, total_transactions).
func (r *ProfileRepository) Save(ctx context.Context, profile *models.CustomerProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
