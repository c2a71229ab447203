package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rtnapps/Loyalty-Program/internal/config"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// pricingOrder is the fixed bucket application order spec.md §4.6/§9
// mandates: new buckets are inserted explicitly here, never iterated over a
// map, since order affects rounding and the price floor.
var pricingOrder = []models.DiscountBucket{
	models.BucketMultiUnit,
	models.BucketManufacturerCoupon,
	models.BucketLoyalty,
	models.BucketRetailer,
	models.BucketOtherManufacturer,
	models.BucketTransaction,
}

// Stage6 implements Pricing (spec.md §4.6): pure arithmetic over S3-S5
// output, no I/O.
type Stage6 struct {
	business config.BusinessConfig
}

// NewStage6 creates the pricing stage.
func NewStage6(business config.BusinessConfig) *Stage6 {
	return &Stage6{business: business}
}

// Run executes S6 against dc, mutating it in place.
func (s *Stage6) Run(dc *DecisionContext) {
	priced := make([]models.PricedLine, 0, len(dc.Normalized))
	total := decimal.Zero

	for _, line := range dc.Normalized {
		pl := s.priceLine(dc, line)
		total = total.Add(pl.TotalDiscount)
		priced = append(priced, pl)
	}

	dc.Priced = priced
	dc.TotalDiscount = total
	dc.Rewards = s.buildRewards(priced)
}

func (s *Stage6) priceLine(dc *DecisionContext, line models.NormalizedLine) models.PricedLine {
	pl := models.NewPricedLine(line)
	baseExtended := line.ExtendedPrice()

	remaining := baseExtended
	for _, bucket := range pricingOrder {
		if !dc.EligibleBuckets[bucket] {
			continue
		}
		amount := s.bucketAmount(dc, bucket, line, remaining)
		if amount.IsZero() {
			continue
		}
		pl.DiscountsByBucket[bucket] = amount
		remaining = remaining.Sub(amount)
	}

	// Round half-up to 2 decimals exactly once, at the final summation
	// (spec.md §4.6/§9), not per bucket.
	total := decimal.Zero
	for _, amount := range pl.DiscountsByBucket {
		total = total.Add(amount)
	}
	total = total.Round(2)

	pl.TotalDiscount = total
	pl.FinalExtendedPrice = decimal.Max(decimal.Zero, baseExtended.Sub(total)).Round(2)
	if line.Quantity > 0 {
		pl.FinalUnitPrice = pl.FinalExtendedPrice.Div(decimal.NewFromInt(int64(line.Quantity))).Round(2)
	}

	return pl
}

// bucketAmount computes the monetary amount for one bucket on one line,
// clamped so the running total discount never exceeds the line's extended
// price (spec.md §4.6 step 2). Only loyalty and manufacturer-coupon carry
// real rule data in this version; the remaining fixed-order buckets are
// placeholders (spec.md §4.4) and always return zero.
func (s *Stage6) bucketAmount(dc *DecisionContext, bucket models.DiscountBucket, line models.NormalizedLine, remaining decimal.Decimal) decimal.Decimal {
	switch bucket {
	case models.BucketLoyalty:
		return s.allowanceAmount(dc, line, remaining, models.AllowanceTypeLoyalty, s.business.DefaultLoyaltyDiscount)
	case models.BucketManufacturerCoupon:
		if !dc.EligibleBuckets[models.BucketManufacturer] || !dc.LineEligibleForPMUSA(line) {
			return decimal.Zero
		}
		return s.allowanceAmount(dc, line, remaining, models.AllowanceTypeManufacturer, decimal.Zero)
	default:
		return decimal.Zero
	}
}

// allowanceAmount takes the first active AllowanceRule of allowanceType for
// line (SKU-specific rules take priority over the "all products" global
// rule, spec.md §4.6). fallback is used only when the matched rule has no
// MaxAllowancePerTransaction; when no rule matches, the amount is zero.
func (s *Stage6) allowanceAmount(dc *DecisionContext, line models.NormalizedLine, remaining decimal.Decimal, allowanceType string, fallback decimal.Decimal) decimal.Decimal {
	amount := decimal.Zero
	found := false

	for _, candidateKey := range []string{line.SKUGUID, globalAllowanceKey} {
		rules, ok := dc.AllowancesBySKUGUID[candidateKey]
		if !ok {
			continue
		}
		for _, rule := range rules {
			if rule.AllowanceType != allowanceType {
				continue
			}
			if rule.MaxAllowancePerTransaction != nil {
				amount = *rule.MaxAllowancePerTransaction
			} else {
				amount = fallback
			}
			found = true
			break
		}
		if found {
			break
		}
	}

	if !found {
		return decimal.Zero
	}
	return decimal.Min(amount, remaining)
}

// buildRewards implements spec.md §4.6 step 4: one Reward per line with
// total_discount > 0.
func (s *Stage6) buildRewards(priced []models.PricedLine) []models.Reward {
	var rewards []models.Reward
	for _, pl := range priced {
		if !pl.TotalDiscount.IsPositive() {
			continue
		}

		var buckets []models.DiscountBucket
		var tokens []string
		if pl.DiscountsByBucket[models.BucketLoyalty].IsPositive() {
			buckets = append(buckets, models.BucketLoyalty)
			tokens = append(tokens, "LOYALTY")
		}
		if pl.DiscountsByBucket[models.BucketManufacturerCoupon].IsPositive() {
			buckets = append(buckets, models.BucketManufacturerCoupon)
			tokens = append(tokens, "MANUFACTURER")
		}

		shortDesc := joinTokens(tokens)
		rewards = append(rewards, models.Reward{
			RewardID:   fmt.Sprintf("%d-1-B2_S150", pl.LineNumber),
			LineNumber: pl.LineNumber,
			Value:      pl.TotalDiscount,
			ShortDesc:  truncate(shortDesc, 32),
			LongDesc:   truncate(shortDesc, 32),
			Buckets:    buckets,
		})
	}
	return rewards
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += "+"
		}
		out += t
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
