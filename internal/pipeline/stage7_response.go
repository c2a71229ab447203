package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

const (
	receiptMaxLineLen   = 32
	receiptMaxLineCount = 10

	receiptHeader    = "*** LOYALTY REWARDS ***"
	receiptSeparator = "------------------------------"
	receiptFooter    = "*** THANK YOU ***"

	bodyReasonNotEligible     = "Loyalty ID not eligible"
	bodyReasonAgeNotVerified  = "Age verification required"
	bodyReasonNoneEligible    = "No eligible rewards"
	appBonusLine1             = "APP BONUS AVAILABLE"
	appBonusLine2             = "VERIFY ID IN APP TO UNLOCK"
)

// Stage7 implements the Response Builder (spec.md §4.7): pure formatting
// over S6 output, no I/O.
type Stage7 struct{}

// NewStage7 creates the response-building stage.
func NewStage7() *Stage7 {
	return &Stage7{}
}

// Run executes S7 against dc and returns the POS-facing Response.
func (s *Stage7) Run(dc *DecisionContext) Response {
	dc.ReceiptLines = s.buildReceipt(dc)

	return Response{
		Rewards:         dc.Rewards,
		ReceiptLines:    dc.ReceiptLines,
		Tier3Eligible:   dc.EligibleTier3,
		CIDFundEligible: dc.EligibleCIDFund,
		AgeVerified:     dc.AgeVerified,
		EAIVVerified:    dc.EAIVVerified,
	}
}

func (s *Stage7) buildReceipt(dc *DecisionContext) []string {
	lines := []string{receiptHeader}

	if len(dc.Rewards) == 0 {
		lines = append(lines, truncate(s.explanatoryReason(dc), receiptMaxLineLen))
		lines = append(lines, receiptFooter)
		return capLines(lines)
	}

	buckets := aggregateBuckets(dc.Priced)

	if amt, ok := buckets[models.BucketLoyalty]; ok && amt.IsPositive() {
		lines = append(lines, formatReceiptLine("LOYALTY SAVINGS", amt))
	}
	if amt, ok := buckets[models.BucketManufacturerCoupon]; ok && amt.IsPositive() {
		lines = append(lines, formatReceiptLine("MFG COUPON", amt))
	}
	if amt, ok := buckets[models.BucketMultiUnit]; ok && amt.IsPositive() {
		lines = append(lines, formatReceiptLine("MULTI-BUY SAVINGS", amt))
	}
	if amt, ok := buckets[models.BucketRetailer]; ok && amt.IsPositive() {
		lines = append(lines, formatReceiptLine("STORE SAVINGS", amt))
	}

	lines = append(lines, receiptSeparator)
	lines = append(lines, formatReceiptLine("TOTAL SAVINGS", dc.TotalDiscount))
	lines = append(lines, receiptFooter)

	if dc.EligibleTier3 && !dc.EAIVVerified {
		// Header/total/footer have priority over the app-bonus upsell; only
		// append it if the 10-line budget allows both lines (spec.md §4.7).
		if len(lines)+2 <= receiptMaxLineCount {
			lines = append(lines, appBonusLine1, appBonusLine2)
		}
	}

	return capLines(lines)
}

func (s *Stage7) explanatoryReason(dc *DecisionContext) string {
	switch {
	case !dc.LID.Valid:
		return bodyReasonNotEligible
	case !dc.AgeVerified:
		return bodyReasonAgeNotVerified
	default:
		return bodyReasonNoneEligible
	}
}

func aggregateBuckets(priced []models.PricedLine) map[models.DiscountBucket]decimal.Decimal {
	totals := make(map[models.DiscountBucket]decimal.Decimal)
	for _, pl := range priced {
		for bucket, amount := range pl.DiscountsByBucket {
			totals[bucket] = totals[bucket].Add(amount)
		}
	}
	return totals
}

func formatReceiptLine(label string, amount decimal.Decimal) string {
	value := fmt.Sprintf("-$%s", amount.StringFixed(2))
	padding := receiptMaxLineLen - len(label) - len(value)
	if padding < 1 {
		padding = 1
	}
	line := label + strings.Repeat(" ", padding) + value
	if len(line) > receiptMaxLineLen {
		line = line[:receiptMaxLineLen]
	}
	return line
}

func capLines(lines []string) []string {
	if len(lines) > receiptMaxLineCount {
		return lines[:receiptMaxLineCount]
	}
	return lines
}
