package models

import "github.com/shopspring/decimal"

// DiscountBucket names an independent discount category (spec.md §3/§4.6).
// Order here has no significance; the fixed application order lives in
// pipeline/stage6_pricing.go.
type DiscountBucket string

const (
	BucketLoyalty            DiscountBucket = "loyalty"
	BucketManufacturerCoupon DiscountBucket = "manufacturer_coupon"
	BucketMultiUnit          DiscountBucket = "multi_unit"
	BucketRetailer           DiscountBucket = "retailer"
	BucketOtherManufacturer  DiscountBucket = "other_manufacturer"
	BucketTransaction        DiscountBucket = "transaction"
	// BucketMultiPack is detected by S4 but never priced by S6 (spec.md §4.6:
	// "Multi-pack bucket is intentionally left zero (POS applies)").
	BucketMultiPack DiscountBucket = "multi_pack"
	// BucketManufacturer is the PM USA / manufacturer-allowance bucket gated
	// by eligible_for_cid_fund in S5.
	BucketManufacturer DiscountBucket = "manufacturer"
)

// MultiPackMarker is S4's detection-only output for a Marlboro pack line
// whose merged quantity is 2 or 3 (spec.md §4.4). No monetary amount is ever
// attached; the POS applies the fund itself.
type MultiPackMarker struct {
	LineNumber       int
	RequiredQuantity int
	NeedsRateLookup  bool
}

// PricedLine is a NormalizedLine plus the per-bucket discount amounts S6
// computed (spec.md §3).
type PricedLine struct {
	NormalizedLine

	DiscountsByBucket map[DiscountBucket]decimal.Decimal
	TotalDiscount     decimal.Decimal
	FinalUnitPrice    decimal.Decimal
	FinalExtendedPrice decimal.Decimal
}

// NewPricedLine seeds every bucket at zero so downstream summation never
// has to nil-check a missing key.
func NewPricedLine(n NormalizedLine) PricedLine {
	buckets := map[DiscountBucket]decimal.Decimal{
		BucketLoyalty:            decimal.Zero,
		BucketManufacturerCoupon: decimal.Zero,
		BucketMultiUnit:          decimal.Zero,
		BucketRetailer:           decimal.Zero,
		BucketOtherManufacturer:  decimal.Zero,
		BucketTransaction:        decimal.Zero,
		BucketMultiPack:          decimal.Zero,
		BucketManufacturer:       decimal.Zero,
	}
	return PricedLine{
		NormalizedLine:    n,
		DiscountsByBucket: buckets,
		TotalDiscount:     decimal.Zero,
	}
}

// Reward is emitted once per PricedLine with TotalDiscount > 0 (spec.md §3).
type Reward struct {
	RewardID   string
	LineNumber int
	Value      decimal.Decimal
	ShortDesc  string
	LongDesc   string
	Buckets    []DiscountBucket
}
