package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// TransactionRepository persists the S7 result: one transactions row plus
// its priced transaction_lines, written once per request after S6 (spec.md
// §3/§4.8). Grounded on order_repository.Create's tx.Begin/defer-recover
// shape.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create persists a transaction and its lines in one transaction. tx is
// bound to ctx so a cancelled or timed-out request aborts the write instead
// of committing a half-built record (spec.md §5); whatever S1 already made
// durable (daily-count, validation-log) is unaffected, per that same
// section.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	tx := r.db.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(txn).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	for i := range txn.Lines {
		txn.Lines[i].TransactionRowID = txn.ID
		if err := tx.Create(&txn.Lines[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create transaction line %d: %w", i, err)
		}
	}

	return tx.Commit().Error
}

// GetByTransactionID retrieves a transaction and its lines by the POS's
// transaction_id, preloading lines in line-number order.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("transaction_id = ?", transactionID).
		First(&txn).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}
