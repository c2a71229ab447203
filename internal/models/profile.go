package models

import "time"

// CustomerProfile mirrors customer_profiles, keyed by the normalized
// LoyaltyID. FirstSeen and CIDCustomerID are immutable after insert.
type CustomerProfile struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	LoyaltyID         string     `gorm:"uniqueIndex;size:512" json:"loyalty_id"`
	FormatType        FormatType `gorm:"size:20" json:"format_type"`
	FirstSeen         time.Time  `json:"first_seen"`
	LastSeen          time.Time  `json:"last_seen"`
	TotalTransactions int64      `gorm:"default:0" json:"total_transactions"`
	IsManagerCard     bool       `gorm:"default:false" json:"is_manager_card"`
	StoreID           string     `gorm:"size:50" json:"store_id"`
	CIDCustomerID     string     `gorm:"uniqueIndex;size:36" json:"cid_customer_id"`
	AVTVerified       bool       `gorm:"default:false" json:"avt_verified"`
	EAIVVerified      bool       `gorm:"default:false" json:"eaiv_verified"`
	LastAVTVerified   *time.Time `json:"last_avt_verified,omitempty"`
	LastEAIVVerified  *time.Time `json:"last_eaiv_verified,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (CustomerProfile) TableName() string { return "customer_profiles" }

// DailyCount mirrors daily_transaction_counts, unique per (loyalty_id, date).
type DailyCount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LoyaltyID string    `gorm:"uniqueIndex:idx_loyalty_day,size:512" json:"loyalty_id"`
	Day       string    `gorm:"uniqueIndex:idx_loyalty_day,size:10" json:"day"` // YYYY-MM-DD
	Count     int64     `gorm:"default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DailyCount) TableName() string { return "daily_transaction_counts" }

// ValidationLogEntry mirrors loyalty_validation_log, written for every LID
// attempt whether valid or not (spec.md §4.8).
type ValidationLogEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID string    `gorm:"index;size:64" json:"transaction_id"`
	StoreID       string    `gorm:"size:50" json:"store_id"`
	RawLoyaltyID  string    `gorm:"size:512" json:"raw_loyalty_id"`
	Valid         bool      `json:"valid"`
	Reason        string    `gorm:"size:255" json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ValidationLogEntry) TableName() string { return "loyalty_validation_log" }
