package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

func TestStage7_NoRewardsExplanatoryReason(t *testing.T) {
	s7 := NewStage7()

	dc := NewDecisionContext(Request{}, time.Now())
	dc.LID = models.LoyaltyID{Valid: false}

	resp := s7.Run(dc)

	assert.Empty(t, resp.Rewards)
	assert.Contains(t, resp.ReceiptLines, "Loyalty ID not eligible")
	assert.LessOrEqual(t, len(resp.ReceiptLines), receiptMaxLineCount)
	for _, line := range resp.ReceiptLines {
		assert.LessOrEqual(t, len(line), receiptMaxLineLen)
	}
}

func TestStage7_AgeNotVerifiedExplanatoryReason(t *testing.T) {
	s7 := NewStage7()

	dc := NewDecisionContext(Request{}, time.Now())
	dc.LID = models.LoyaltyID{Valid: true, NormalizedID: "5551234567"}
	dc.AgeVerified = false

	resp := s7.Run(dc)

	assert.Contains(t, resp.ReceiptLines, "Age verification required")
}

func TestStage7_ReceiptLineBudget(t *testing.T) {
	s7 := NewStage7()

	dc := NewDecisionContext(Request{}, time.Now())
	dc.LID = models.LoyaltyID{Valid: true}
	dc.EligibleTier3 = true
	dc.EAIVVerified = false
	dc.TotalDiscount = decimal.NewFromFloat(0.97)
	dc.Rewards = []models.Reward{{LineNumber: 1, Value: decimal.NewFromFloat(0.97)}}
	dc.Priced = []models.PricedLine{
		func() models.PricedLine {
			pl := models.NewPricedLine(models.NormalizedLine{LineNumber: 1})
			pl.DiscountsByBucket[models.BucketLoyalty] = decimal.NewFromFloat(0.97)
			pl.TotalDiscount = decimal.NewFromFloat(0.97)
			return pl
		}(),
	}

	resp := s7.Run(dc)

	assert.LessOrEqual(t, len(resp.ReceiptLines), receiptMaxLineCount)
	for _, line := range resp.ReceiptLines {
		assert.LessOrEqual(t, len(line), receiptMaxLineLen)
	}
	assert.Contains(t, resp.ReceiptLines, "*** LOYALTY REWARDS ***")
}
