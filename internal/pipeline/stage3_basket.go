package pipeline

import (
	"context"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/cache"
	"github.com/rtnapps/Loyalty-Program/internal/logging"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

var s3log = logging.GetLogger("stage3-basket-normalizer")

// Stage3 implements the Basket Normalizer (spec.md §4.3): catalog
// resolution of each raw line followed by a merge pass keyed on
// (upc, unit_price).
type Stage3 struct {
	catalog *cache.CatalogCache
}

// NewStage3 creates the basket-normalization stage.
func NewStage3(catalog *cache.CatalogCache) *Stage3 {
	return &Stage3{catalog: catalog}
}

// Run executes S3 against dc, mutating it in place.
func (s *Stage3) Run(ctx context.Context, dc *DecisionContext) error {
	resolved := make([]models.NormalizedLine, 0, len(dc.Request.Lines))

	for _, raw := range dc.Request.Lines {
		if raw.UPC == "" {
			s3log.Warn("dropping basket line with no UPC", "line_number", raw.LineNumber)
			continue
		}

		line, err := s.resolve(ctx, raw)
		if err != nil {
			return apperr.CatalogUnreachable("stage3.resolve_upc", err)
		}
		if line.IsUnknown {
			dc.UnknownUPCs = append(dc.UnknownUPCs, raw.UPC)
		}
		resolved = append(resolved, line)
	}

	merged, mergeCount := s.merge(resolved)
	dc.Normalized = merged
	dc.MergeCount = mergeCount
	return nil
}

func (s *Stage3) resolve(ctx context.Context, raw models.BasketLine) (models.NormalizedLine, error) {
	line := models.NormalizedLine{
		LineNumber:          raw.LineNumber,
		UPC:                 raw.UPC,
		Quantity:            raw.Quantity,
		UnitPrice:           raw.UnitPrice,
		Description:         raw.Description,
		OriginalLineNumbers: []int{raw.LineNumber},
	}

	entry, matched, err := s.catalog.FindByUPC(ctx, raw.UPC)
	if err != nil {
		return models.NormalizedLine{}, err
	}

	if entry == nil {
		line.Category = models.CategoryUnknownTobacco
		line.IsUnknown = true
		return line, nil
	}

	line.SKUGUID = entry.SKUGUID
	line.SKUName = entry.SKUName
	line.Brand = entry.Brand
	line.Manufacturer = entry.Manufacturer
	line.Category = entry.Category
	line.ProgramEligibility = entry.ProgramEligibility
	line.MatchedUPCType = matched

	switch matched {
	case models.MatchedCarton, models.MatchedCartonSuppressed:
		line.UnitOfMeasure = models.UOMCarton
		line.IsPromotionalUPC = entry.CartonIsPromotional
	case models.MatchedPack:
		line.UnitOfMeasure = models.UOMPack
		line.IsPromotionalUPC = entry.PackIsPromotional
	}

	return line, nil
}

type mergeKey struct {
	upc       string
	unitPrice string
}

// merge groups resolved lines by (upc, unit_price) in first-occurrence
// order, summing quantity while every other field keeps the first
// occurrence's value (spec.md §4.3).
func (s *Stage3) merge(lines []models.NormalizedLine) ([]models.NormalizedLine, int) {
	order := make([]mergeKey, 0, len(lines))
	groups := make(map[mergeKey]*models.NormalizedLine)

	for _, line := range lines {
		key := mergeKey{upc: line.UPC, unitPrice: line.UnitPrice.String()}
		if existing, ok := groups[key]; ok {
			existing.Quantity += line.Quantity
			existing.OriginalLineNumbers = append(existing.OriginalLineNumbers, line.OriginalLineNumbers...)
			continue
		}
		copy := line
		groups[key] = &copy
		order = append(order, key)
	}

	merged := make([]models.NormalizedLine, 0, len(order))
	for _, key := range order {
		merged = append(merged, *groups[key])
	}

	return merged, len(lines) - len(merged)
}
