package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rtnapps/Loyalty-Program/internal/config"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

func TestStage6_LoyaltyAllowanceApplied(t *testing.T) {
	s6 := NewStage6(config.DefaultBusinessConfig())

	dc := NewDecisionContext(Request{}, time.Now())
	dc.EligibleTier3 = true
	dc.EligibleCIDFund = true
	dc.EligibleBuckets[models.BucketLoyalty] = true

	maxAllowance := decimal.NewFromFloat(0.97)
	dc.AllowancesBySKUGUID["sku-1"] = []models.AllowanceRule{
		{AllowanceType: models.AllowanceTypeLoyalty, MaxAllowancePerTransaction: &maxAllowance},
	}
	dc.Normalized = []models.NormalizedLine{
		{LineNumber: 1, UPC: "upc-1", SKUGUID: "sku-1", Brand: "Marlboro", UnitOfMeasure: models.UOMPack, Quantity: 1, UnitPrice: decimal.NewFromFloat(7.00)},
	}

	s6.Run(dc)

	assert.True(t, dc.TotalDiscount.Equal(decimal.NewFromFloat(0.97)))
	assert.Len(t, dc.Rewards, 1)
	assert.True(t, dc.Rewards[0].Value.Equal(decimal.NewFromFloat(0.97)))
	assert.Equal(t, "LOYALTY", dc.Rewards[0].ShortDesc)
}

func TestStage6_ManagerCardZerosManufacturerAndMultiPack(t *testing.T) {
	s6 := NewStage6(config.DefaultBusinessConfig())

	dc := NewDecisionContext(Request{}, time.Now())
	dc.EligibleTier3 = true
	dc.EligibleCIDFund = false // manager card
	dc.EligibleBuckets[models.BucketManufacturer] = false
	dc.EligibleBuckets[models.BucketMultiPack] = false
	dc.EligibleBuckets[models.BucketManufacturerCoupon] = false

	mfg := decimal.NewFromFloat(1.00)
	dc.AllowancesBySKUGUID["sku-1"] = []models.AllowanceRule{
		{AllowanceType: models.AllowanceTypeManufacturer, MaxAllowancePerTransaction: &mfg},
	}
	dc.Normalized = []models.NormalizedLine{
		{LineNumber: 1, UPC: "upc-1", SKUGUID: "sku-1", Brand: "Marlboro", UnitOfMeasure: models.UOMPack, Quantity: 1, UnitPrice: decimal.NewFromFloat(7.00)},
	}

	s6.Run(dc)

	assert.True(t, dc.TotalDiscount.IsZero())
	assert.Empty(t, dc.Rewards)
}

func TestStage6_AgeNotVerifiedYieldsZeroDiscount(t *testing.T) {
	s6 := NewStage6(config.DefaultBusinessConfig())

	dc := NewDecisionContext(Request{}, time.Now())
	dc.EligibleTier3 = true
	dc.EligibleCIDFund = true
	// S2 sets EligibleTier3Incentives = age_verified; simulate age not verified
	dc.EligibleTier3Incentives = false
	dc.EligibleBuckets[models.BucketLoyalty] = dc.EligibleTier3Incentives

	maxAllowance := decimal.NewFromFloat(0.97)
	dc.AllowancesBySKUGUID["sku-1"] = []models.AllowanceRule{
		{AllowanceType: models.AllowanceTypeLoyalty, MaxAllowancePerTransaction: &maxAllowance},
	}
	dc.Normalized = []models.NormalizedLine{
		{LineNumber: 1, UPC: "upc-1", SKUGUID: "sku-1", Quantity: 1, UnitPrice: decimal.NewFromFloat(7.00)},
	}

	s6.Run(dc)

	assert.True(t, dc.TotalDiscount.IsZero())
}

func TestStage5AndStage6_NonManagerCardEarnsManufacturerCoupon(t *testing.T) {
	s5 := NewStage5()
	s6 := NewStage6(config.DefaultBusinessConfig())

	dc := NewDecisionContext(Request{}, time.Now())
	dc.EligibleTier3 = true
	dc.EligibleCIDFund = true // not a manager card
	dc.EligibleTier3Incentives = true

	mfg := decimal.NewFromFloat(1.00)
	dc.AllowancesBySKUGUID["sku-1"] = []models.AllowanceRule{
		{AllowanceType: models.AllowanceTypeManufacturer, MaxAllowancePerTransaction: &mfg},
	}
	dc.Normalized = []models.NormalizedLine{
		{LineNumber: 1, UPC: "upc-1", SKUGUID: "sku-1", Brand: "Marlboro", UnitOfMeasure: models.UOMPack, Quantity: 1, UnitPrice: decimal.NewFromFloat(7.00)},
	}

	s5.Run(dc)
	s6.Run(dc)

	assert.True(t, dc.EligibleBuckets[models.BucketManufacturerCoupon])
	assert.True(t, dc.Priced[0].DiscountsByBucket[models.BucketManufacturerCoupon].Equal(decimal.NewFromFloat(1.00)))
	assert.True(t, dc.TotalDiscount.Equal(decimal.NewFromFloat(1.00)))
	assert.Len(t, dc.Rewards, 1)
	assert.Equal(t, "MANUFACTURER", dc.Rewards[0].ShortDesc)
}

func TestStage6_DiscountNeverExceedsExtendedPrice(t *testing.T) {
	s6 := NewStage6(config.DefaultBusinessConfig())

	dc := NewDecisionContext(Request{}, time.Now())
	dc.EligibleBuckets[models.BucketLoyalty] = true

	huge := decimal.NewFromFloat(100.00)
	dc.AllowancesBySKUGUID["sku-1"] = []models.AllowanceRule{
		{AllowanceType: models.AllowanceTypeLoyalty, MaxAllowancePerTransaction: &huge},
	}
	dc.Normalized = []models.NormalizedLine{
		{LineNumber: 1, UPC: "upc-1", SKUGUID: "sku-1", Quantity: 1, UnitPrice: decimal.NewFromFloat(7.00)},
	}

	s6.Run(dc)

	assert.True(t, dc.Priced[0].FinalExtendedPrice.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, dc.Priced[0].TotalDiscount.LessThanOrEqual(decimal.NewFromFloat(7.00)))
}
