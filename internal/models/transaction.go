package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors transactions, written once per request after S6
// (spec.md §3/§4.8), together with its TransactionLines.
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TransactionID   string    `gorm:"uniqueIndex;size:64" json:"transaction_id"`
	StoreID         string    `gorm:"size:50" json:"store_id"`
	LoyaltyID       *string   `gorm:"size:512" json:"loyalty_id,omitempty"`
	CIDCustomerID   *string   `gorm:"size:36" json:"cid_customer_id,omitempty"`
	Tier3Eligible   bool      `json:"tier3_eligible"`
	CIDFundEligible bool      `json:"cid_fund_eligible"`
	AgeVerified     bool      `json:"age_verified"`
	EAIVVerified    bool      `json:"eaiv_verified"`

	TotalDiscount decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_discount"`

	Lines []TransactionLine `gorm:"foreignKey:TransactionRowID" json:"lines"`

	CreatedAt time.Time `json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }

// TransactionLine is the persisted form of a PricedLine (spec.md §3/§4.8).
type TransactionLine struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	TransactionRowID  uint   `gorm:"index" json:"transaction_row_id"`
	LineNumber        int    `json:"line_number"`
	UPC               string `gorm:"size:20" json:"upc"`
	Quantity          int    `json:"quantity"`

	UnitPrice          decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	FinalUnitPrice     decimal.Decimal `gorm:"type:decimal(10,2)" json:"final_unit_price"`
	FinalExtendedPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"final_extended_price"`
	TotalDiscount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_discount"`

	LoyaltyDiscount           decimal.Decimal `gorm:"type:decimal(10,2)" json:"loyalty_discount"`
	ManufacturerCouponDiscount decimal.Decimal `gorm:"type:decimal(10,2)" json:"manufacturer_coupon_discount"`
	MultiUnitDiscount         decimal.Decimal `gorm:"type:decimal(10,2)" json:"multi_unit_discount"`
	RetailerDiscount          decimal.Decimal `gorm:"type:decimal(10,2)" json:"retailer_discount"`
	OtherManufacturerDiscount decimal.Decimal `gorm:"type:decimal(10,2)" json:"other_manufacturer_discount"`
	TransactionDiscount       decimal.Decimal `gorm:"type:decimal(10,2)" json:"transaction_discount"`
	ManufacturerDiscount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"manufacturer_discount"`
}

func (TransactionLine) TableName() string { return "transaction_lines" }
