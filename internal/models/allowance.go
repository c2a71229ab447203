package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllowanceRule mirrors loyalty_allowances (spec.md §3). Read-only to this
// service; eligible SKUs are joined via loyalty_allowance_skus.
type AllowanceRule struct {
	ID                             uint            `gorm:"primaryKey" json:"id"`
	AllowanceType                  string          `gorm:"size:50" json:"allowance_type"`
	EligibleUOMs                   string          `gorm:"size:100" json:"eligible_uoms"` // comma-separated, e.g. "CARTON,PACK"
	MinQty                         int             `json:"min_qty"`
	MaxAllowancePerTransaction     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"max_allowance_per_transaction,omitempty"`
	MaxDailyTransactionsPerLoyalty int             `json:"max_daily_transactions_per_loyalty"`
	ManufacturerFundedAmount       decimal.Decimal `gorm:"type:decimal(10,2)" json:"manufacturer_funded_amount"`
	PromoCode                      string          `gorm:"size:50" json:"promo_code"`
	PromotionalUPCsEligible        bool            `json:"promotional_upcs_eligible"`
	StartDate                      time.Time       `json:"start_date"`
	EndDate                        time.Time       `json:"end_date"`
	CreatedAt                      time.Time       `json:"created_at"`
	UpdatedAt                      time.Time       `json:"updated_at"`
}

func (AllowanceRule) TableName() string { return "loyalty_allowances" }

// Allowance type values S6 uses to route a rule to the bucket it funds
// (spec.md §4.6).
const (
	AllowanceTypeLoyalty      = "loyalty"
	AllowanceTypeManufacturer = "manufacturer"
)

// ActiveOn reports whether the rule's effective window covers the given date.
func (a AllowanceRule) ActiveOn(today time.Time) bool {
	d := today.Truncate(24 * time.Hour)
	return !d.Before(a.StartDate.Truncate(24*time.Hour)) && !d.After(a.EndDate.Truncate(24*time.Hour))
}

// AllowanceSKU is the many-to-many mapping loyalty_allowance_skus.
type AllowanceSKU struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AllowanceID uint   `gorm:"index" json:"allowance_id"`
	SKUGUID     string `gorm:"size:36;index" json:"skuguid"`
}

func (AllowanceSKU) TableName() string { return "loyalty_allowance_skus" }
