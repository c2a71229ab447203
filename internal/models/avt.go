package models

import "time"

// AVTRecord is an append-only audit row written iff the cashier confirmed
// age for the transaction (spec.md §3).
type AVTRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID string    `gorm:"index;size:64" json:"transaction_id"`
	StoreID       string    `gorm:"size:50" json:"store_id"`
	LoyaltyID     *string   `gorm:"size:512" json:"loyalty_id,omitempty"`
	CIDCustomerID *string   `gorm:"size:36" json:"cid_customer_id,omitempty"`
	AVTPerformed  bool      `gorm:"default:true" json:"avt_performed"`
	AVTMethod     string    `gorm:"size:50" json:"avt_method"`
	AVTTimestamp  time.Time `json:"avt_timestamp"`
	CashierID     *string   `gorm:"size:50" json:"cashier_id,omitempty"`
	EAIVVerified  *bool     `json:"eaiv_verified,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (AVTRecord) TableName() string { return "avt_transactions" }

// AVTMethodInPerson is the only method this pipeline ever records, per
// spec.md §3.
const AVTMethodInPerson = "in_person_confirmation"
