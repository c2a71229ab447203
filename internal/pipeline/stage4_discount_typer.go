package pipeline

import (
	"context"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/cache"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// Stage4 implements the Discount Typer (spec.md §4.4): populates discount
// buckets without assigning monetary amounts, and detects 2-/3-pack
// Marlboro configurations for the PM USA multi-pack fund.
type Stage4 struct {
	catalog *cache.CatalogCache
}

// NewStage4 creates the discount-typing stage.
func NewStage4(catalog *cache.CatalogCache) *Stage4 {
	return &Stage4{catalog: catalog}
}

// Run executes S4 against dc, mutating it in place.
func (s *Stage4) Run(ctx context.Context, dc *DecisionContext) error {
	if dc.EligibleTier3 {
		if err := s.resolveAllowances(ctx, dc); err != nil {
			return err
		}
	}

	dc.MultiPackMarkers = s.detectMultiPacks(dc.Normalized)
	return nil
}

func (s *Stage4) resolveAllowances(ctx context.Context, dc *DecisionContext) error {
	global, err := s.catalog.ActiveGlobalAllowances(ctx, dc.Now)
	if err != nil {
		return apperr.CatalogUnreachable("stage4.resolve_global_allowances", err)
	}
	dc.AllowancesBySKUGUID[globalAllowanceKey] = global

	seen := make(map[string]bool)
	for _, line := range dc.Normalized {
		if line.SKUGUID == "" || seen[line.SKUGUID] {
			continue
		}
		seen[line.SKUGUID] = true

		rules, err := s.catalog.ActiveAllowancesForSKU(ctx, line.SKUGUID, dc.Now)
		if err != nil {
			return apperr.CatalogUnreachable("stage4.resolve_allowances", err)
		}
		dc.AllowancesBySKUGUID[line.SKUGUID] = rules
	}
	return nil
}

// detectMultiPacks implements spec.md §4.4: a merged line qualifies as a
// PM USA multi-pack candidate when brand contains MARLBORO, unit of measure
// is PACK, the matched UPC is not promotional, and the merged quantity is
// 2 or 3. Only detection — no amount is ever attached (spec.md §9).
func (s *Stage4) detectMultiPacks(lines []models.NormalizedLine) []models.MultiPackMarker {
	var markers []models.MultiPackMarker
	for _, line := range lines {
		if !line.IsMarlboroPack() || line.IsPromotionalUPC {
			continue
		}
		if line.Quantity == 2 || line.Quantity == 3 {
			markers = append(markers, models.MultiPackMarker{
				LineNumber:       line.LineNumber,
				RequiredQuantity: line.Quantity,
				NeedsRateLookup:  true,
			})
		}
	}
	return markers
}
