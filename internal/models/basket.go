package models

import "github.com/shopspring/decimal"

// BasketLine is a single raw line sent by the POS (spec.md §3).
type BasketLine struct {
	LineNumber  int
	UPC         string
	Quantity    int
	UnitPrice   decimal.Decimal
	Description string
}

// NormalizedLine is a raw line enriched with the resolved catalog fields
// (spec.md §3). Produced by S3.
type NormalizedLine struct {
	LineNumber  int
	UPC         string
	Quantity    int
	UnitPrice   decimal.Decimal
	Description string

	SKUGUID            string
	SKUName            string
	Brand              string
	Manufacturer       string
	Category           Category
	ProgramEligibility bool
	IsPromotionalUPC   bool

	UnitOfMeasure  UnitOfMeasure
	MatchedUPCType MatchedUPCType
	IsUnknown      bool

	// OriginalLineNumbers tracks which raw POS line numbers were merged into
	// this normalized line, lowest first — needed to address rewards back at
	// a specific POS line per spec.md §3's Reward.reward_id shape.
	OriginalLineNumbers []int
}

// ExtendedPrice is unit_price * quantity prior to any discount.
func (n NormalizedLine) ExtendedPrice() decimal.Decimal {
	return n.UnitPrice.Mul(decimal.NewFromInt(int64(n.Quantity)))
}

// IsMarlboroPack reports the brand/UOM part of the line-level condition used
// by S4/S5 multi-pack and PM USA eligibility: brand contains MARLBORO and UOM
// is PACK. It does not look at IsPromotionalUPC; S4 and S5 check that
// separately.
func (n NormalizedLine) IsMarlboroPack() bool {
	return containsMarlboro(n.Brand) && n.UnitOfMeasure == UOMPack
}

func containsMarlboro(brand string) bool {
	return CatalogEntry{Brand: brand}.IsMarlboro()
}
