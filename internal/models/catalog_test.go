package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogEntry_IsMarlboro(t *testing.T) {
	assert.True(t, CatalogEntry{Brand: "Marlboro Red"}.IsMarlboro())
	assert.True(t, CatalogEntry{Brand: "MARLBORO"}.IsMarlboro())
	assert.False(t, CatalogEntry{Brand: "Camel"}.IsMarlboro())
}

func TestNormalizedLine_IsMarlboroPack(t *testing.T) {
	line := NormalizedLine{Brand: "Marlboro Gold", UnitOfMeasure: UOMPack}
	assert.True(t, line.IsMarlboroPack())

	carton := NormalizedLine{Brand: "Marlboro Gold", UnitOfMeasure: UOMCarton}
	assert.False(t, carton.IsMarlboroPack())
}
