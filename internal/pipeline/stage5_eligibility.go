package pipeline

import (
	"fmt"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// Stage5 implements the Eligibility Gate (spec.md §4.5): a pure function of
// S1-S4 output, no I/O. It computes the transaction-level flags and the
// per-bucket eligibility bitmap S6 consumes.
type Stage5 struct{}

// NewStage5 creates the eligibility-gating stage.
func NewStage5() *Stage5 {
	return &Stage5{}
}

// Run executes S5 against dc, mutating it in place.
func (s *Stage5) Run(dc *DecisionContext) {
	dc.PMUSAAllowancesEligible = dc.EligibleCIDFund

	dc.EligibleBuckets[models.BucketLoyalty] = dc.EligibleTier3Incentives
	dc.EligibleBuckets[models.BucketManufacturer] = dc.PMUSAAllowancesEligible
	dc.EligibleBuckets[models.BucketManufacturerCoupon] = dc.PMUSAAllowancesEligible
	dc.EligibleBuckets[models.BucketMultiPack] = dc.PMUSAAllowancesEligible

	// Retailer, multi-unit, other-manufacturer, and transaction buckets
	// carry no rule data in this version (spec.md §4.4: "placeholders ...
	// empty lists").
	dc.EligibleBuckets[models.BucketMultiUnit] = false
	dc.EligibleBuckets[models.BucketRetailer] = false
	dc.EligibleBuckets[models.BucketOtherManufacturer] = false
	dc.EligibleBuckets[models.BucketTransaction] = false

	if !dc.EligibleCIDFund {
		dc.S5Reasons = append(dc.S5Reasons, fmt.Sprintf(
			"PM USA allowances ineligible: loyalty ID exceeded 5 transactions/day (%d today)", dc.DailyCount))
	}
}

// LineEligibleForPMUSA implements the per-line PM USA eligibility rule of
// spec.md §4.5.
func (dc *DecisionContext) LineEligibleForPMUSA(line models.NormalizedLine) bool {
	return dc.PMUSAAllowancesEligible && line.IsMarlboroPack() && !line.IsPromotionalUPC
}
