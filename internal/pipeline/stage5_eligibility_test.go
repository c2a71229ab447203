package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

func TestStage5_ManagerCardForcesBucketsOff(t *testing.T) {
	s5 := NewStage5()

	dc := NewDecisionContext(Request{}, time.Now())
	dc.EligibleTier3 = true
	dc.EligibleCIDFund = false // manager card, per spec.md §4.1 step 5
	dc.DailyCount = 6

	s5.Run(dc)

	assert.False(t, dc.EligibleBuckets[models.BucketManufacturer])
	assert.False(t, dc.EligibleBuckets[models.BucketMultiPack])
	assert.NotEmpty(t, dc.S5Reasons)
	assert.Contains(t, dc.S5Reasons[0], "exceeded")
}

func TestStage5_EligibleCustomerGetsBuckets(t *testing.T) {
	s5 := NewStage5()

	dc := NewDecisionContext(Request{}, time.Now())
	dc.EligibleTier3 = true
	dc.EligibleCIDFund = true
	dc.EligibleTier3Incentives = true

	s5.Run(dc)

	assert.True(t, dc.EligibleBuckets[models.BucketManufacturer])
	assert.True(t, dc.EligibleBuckets[models.BucketMultiPack])
	assert.True(t, dc.EligibleBuckets[models.BucketLoyalty])
	assert.Empty(t, dc.S5Reasons)
}

func TestLineEligibleForPMUSA(t *testing.T) {
	dc := NewDecisionContext(Request{}, time.Now())
	dc.PMUSAAllowancesEligible = true

	eligible := models.NormalizedLine{Brand: "Marlboro", UnitOfMeasure: models.UOMPack}
	assert.True(t, dc.LineEligibleForPMUSA(eligible))

	promo := models.NormalizedLine{Brand: "Marlboro", UnitOfMeasure: models.UOMPack, IsPromotionalUPC: true}
	assert.False(t, dc.LineEligibleForPMUSA(promo))
}
