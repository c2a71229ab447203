// Package pipeline implements the seven-stage decision pipeline (S1-S7):
// LID validation, age gating, basket normalization, discount typing,
// eligibility gating, pricing, and response assembly. Grounded on
// AdvancedPromotionEngine's PromotionRule/Condition/Action evaluation chain,
// generalized from one rule-matching loop into the sequential stage
// pipeline this domain requires.
package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// Request is the inbound POS rewards request (spec.md §6), already decoded
// from whatever wire format the POS listener (out of scope) used.
type Request struct {
	StoreLocationID string
	TransactionID   string
	CashierID       string
	LoyaltyID       string
	AVTStatus       string // "verified" | "not_verified" | "unknown" | ""
	Lines           []models.BasketLine
}

// Response is the outbound POS response (spec.md §6).
type Response struct {
	Rewards        []models.Reward
	ReceiptLines   []string
	Tier3Eligible  bool
	CIDFundEligible bool
	AgeVerified    bool
	EAIVVerified   bool
}

// DecisionContext accumulates every stage's output, per spec.md §2: "A
// shared DecisionContext accumulates results." Stages only ever append to
// it; no stage reads output produced later than itself.
type DecisionContext struct {
	Now time.Time

	Request Request

	// S1
	LID              models.LoyaltyID
	DailyCount       int64
	IsManagerCard    bool
	EligibleTier3    bool
	EligibleCIDFund  bool
	S1Reason         string
	Profile          *models.CustomerProfile
	ProfileIsNew     bool

	// S2
	AgeVerified                   bool
	EAIVVerified                  bool
	EligibleTier3Incentives       bool
	EligibleEAIVOnlyIncentives    bool
	S2Reason                      string
	AVTRecordWritten              bool

	// S3
	Normalized  []models.NormalizedLine
	UnknownUPCs []string
	MergeCount  int

	// S4
	MultiPackMarkers    []models.MultiPackMarker
	AllowancesBySKUGUID map[string][]models.AllowanceRule

	// S5
	PMUSAAllowancesEligible bool
	EligibleBuckets         map[models.DiscountBucket]bool
	S5Reasons               []string

	// S6
	Priced        []models.PricedLine
	Rewards       []models.Reward
	TotalDiscount decimal.Decimal

	// S7
	ReceiptLines []string
}

// globalAllowanceKey is the sentinel map key AllowancesBySKUGUID uses to
// hold rules with no SKU mapping at all — spec.md §4.6's "null SKUGUID
// means all products".
const globalAllowanceKey = ""

// NewDecisionContext seeds a context for one request at the given
// "today", which is the injectable date provider spec.md §6 requires for
// tests.
func NewDecisionContext(req Request, now time.Time) *DecisionContext {
	return &DecisionContext{
		Now:                 now,
		Request:             req,
		AllowancesBySKUGUID: make(map[string][]models.AllowanceRule),
		EligibleBuckets:     make(map[models.DiscountBucket]bool),
		TotalDiscount:       decimal.Zero,
	}
}

// Day formats Now as the daily-count partition key (YYYY-MM-DD).
func (d *DecisionContext) Day() string {
	return d.Now.Format("2006-01-02")
}

// Outcome classifies a completed request for metrics, in the same
// precedence order Stage7's explanatoryReason uses for the receipt.
func (d *DecisionContext) Outcome() string {
	switch {
	case !d.LID.Valid:
		return "invalid_lid"
	case d.IsManagerCard:
		return "manager_card"
	case !d.AgeVerified:
		return "age_not_verified"
	default:
		return "valid"
	}
}

// toTransactionModel maps the S6 pricing result to the persisted
// transactions/transaction_lines rows (spec.md §4.8, write phase v).
func (d *DecisionContext) toTransactionModel() models.Transaction {
	txn := models.Transaction{
		TransactionID:   d.Request.TransactionID,
		StoreID:         d.Request.StoreLocationID,
		Tier3Eligible:   d.EligibleTier3,
		CIDFundEligible: d.EligibleCIDFund,
		AgeVerified:     d.AgeVerified,
		EAIVVerified:    d.EAIVVerified,
		TotalDiscount:   d.TotalDiscount,
	}
	if d.LID.Valid {
		txn.LoyaltyID = &d.LID.NormalizedID
	}
	if d.Profile != nil {
		txn.CIDCustomerID = &d.Profile.CIDCustomerID
	}

	txn.Lines = make([]models.TransactionLine, 0, len(d.Priced))
	for _, pl := range d.Priced {
		txn.Lines = append(txn.Lines, models.TransactionLine{
			LineNumber:                 pl.LineNumber,
			UPC:                        pl.UPC,
			Quantity:                   pl.Quantity,
			UnitPrice:                  pl.UnitPrice,
			FinalUnitPrice:             pl.FinalUnitPrice,
			FinalExtendedPrice:         pl.FinalExtendedPrice,
			TotalDiscount:              pl.TotalDiscount,
			LoyaltyDiscount:            pl.DiscountsByBucket[models.BucketLoyalty],
			ManufacturerCouponDiscount: pl.DiscountsByBucket[models.BucketManufacturerCoupon],
			MultiUnitDiscount:          pl.DiscountsByBucket[models.BucketMultiUnit],
			RetailerDiscount:           pl.DiscountsByBucket[models.BucketRetailer],
			OtherManufacturerDiscount:  pl.DiscountsByBucket[models.BucketOtherManufacturer],
			TransactionDiscount:        pl.DiscountsByBucket[models.BucketTransaction],
			ManufacturerDiscount:       pl.DiscountsByBucket[models.BucketManufacturer],
		})
	}

	return txn
}
