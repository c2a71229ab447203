package models

import (
	"strings"
	"time"
)

// Category enumerates the product categories a catalog row can carry.
type Category string

const (
	CategoryCigarette      Category = "CIG"
	CategoryMoistSnuff     Category = "MST"
	CategoryCigar          Category = "CIGAR"
	CategoryOtherNonPack   Category = "ONP"
	CategoryUnknownTobacco Category = "UNKNOWN_TOBACCO"
)

// UnitOfMeasure is the resolved UOM for a basket line, derived from which
// catalog column family matched.
type UnitOfMeasure string

const (
	UOMCarton UnitOfMeasure = "CARTON"
	UOMPack   UnitOfMeasure = "PACK"
)

// MatchedUPCType records exactly which catalog column satisfied the lookup,
// carton, pack, or a suppressed carton alias.
type MatchedUPCType string

const (
	MatchedCarton           MatchedUPCType = "CARTON"
	MatchedPack             MatchedUPCType = "PACK"
	MatchedCartonSuppressed MatchedUPCType = "CARTON_SUPPRESSED"
)

// CatalogEntry mirrors one SKU row of upc_master/products (spec.md §3). It is
// read-only to this service — populated by the external allowance-catalog
// synchronizer.
type CatalogEntry struct {
	ID                   uint     `gorm:"primaryKey" json:"id"`
	SKUGUID              string   `gorm:"uniqueIndex;size:36" json:"skuguid"`
	SKUName              string   `gorm:"size:255" json:"sku_name"`
	Brand                string   `gorm:"size:100;index" json:"brand"`
	Manufacturer         string   `gorm:"size:100" json:"manufacturer"`
	Category             Category `gorm:"size:20" json:"category"`
	ProgramEligibility   bool     `json:"program_eligibility"`

	CartonUPC             *string `gorm:"size:20;index" json:"carton_upc,omitempty"`
	CartonSuppressedUPC   *string `gorm:"size:20;index" json:"carton_suppressed_upc,omitempty"`
	CartonConversionFactor float64 `json:"carton_conversion_factor"`
	CartonIsPromotional   bool    `json:"carton_is_promotional"`

	PackUPC             *string `gorm:"size:20;index" json:"pack_upc,omitempty"`
	PackConversionFactor float64 `json:"pack_conversion_factor"`
	PackIsPromotional    bool    `json:"pack_is_promotional"`

	EffectiveSource string    `gorm:"size:50" json:"effective_source"`
	SyncedAt        time.Time `json:"synced_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (CatalogEntry) TableName() string { return "upc_master" }

// IsMarlboro reports brand match for the multi-pack detection rule of
// spec.md §4.4 ("brand contains MARLBORO").
func (c CatalogEntry) IsMarlboro() bool {
	return strings.Contains(strings.ToUpper(c.Brand), "MARLBORO")
}
