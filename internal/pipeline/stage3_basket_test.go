package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rtnapps/Loyalty-Program/internal/models"
)

func TestStage3Merge_CombinesIdenticalUPCAndPrice(t *testing.T) {
	s3 := &Stage3{}

	lines := []models.NormalizedLine{
		{LineNumber: 1, UPC: "111", UnitPrice: decimal.NewFromFloat(7.00), Quantity: 1, OriginalLineNumbers: []int{1}},
		{LineNumber: 2, UPC: "111", UnitPrice: decimal.NewFromFloat(7.00), Quantity: 1, OriginalLineNumbers: []int{2}},
	}

	merged, mergeCount := s3.merge(lines)

	assert.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].Quantity)
	assert.Equal(t, 1, mergeCount)
	assert.ElementsMatch(t, []int{1, 2}, merged[0].OriginalLineNumbers)
}

func TestStage3Merge_DifferentPriceDoesNotMerge(t *testing.T) {
	s3 := &Stage3{}

	lines := []models.NormalizedLine{
		{LineNumber: 1, UPC: "111", UnitPrice: decimal.NewFromFloat(7.00), Quantity: 1},
		{LineNumber: 2, UPC: "111", UnitPrice: decimal.NewFromFloat(7.50), Quantity: 1},
	}

	merged, mergeCount := s3.merge(lines)

	assert.Len(t, merged, 2)
	assert.Equal(t, 0, mergeCount)
}

func TestStage3Merge_IsIdempotent(t *testing.T) {
	s3 := &Stage3{}

	lines := []models.NormalizedLine{
		{LineNumber: 1, UPC: "111", UnitPrice: decimal.NewFromFloat(7.00), Quantity: 1, OriginalLineNumbers: []int{1}},
		{LineNumber: 2, UPC: "111", UnitPrice: decimal.NewFromFloat(7.00), Quantity: 1, OriginalLineNumbers: []int{2}},
		{LineNumber: 3, UPC: "222", UnitPrice: decimal.NewFromFloat(3.00), Quantity: 2, OriginalLineNumbers: []int{3}},
	}

	once, _ := s3.merge(lines)
	twice, mergeCount := s3.merge(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, 0, mergeCount)

	totalBefore := decimal.Zero
	for _, l := range lines {
		totalBefore = totalBefore.Add(l.ExtendedPrice())
	}
	totalAfter := decimal.Zero
	for _, l := range once {
		totalAfter = totalAfter.Add(l.ExtendedPrice())
	}
	assert.True(t, totalBefore.Equal(totalAfter))
}
