package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(5), cfg.Business.DailyCap)
}

func TestLoadBusinessConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/business.yaml"
	err := os.WriteFile(path, []byte("default_loyalty_discount: \"0.75\"\ndaily_cap: 5\n"), 0o644)
	assert.NoError(t, err)

	cfg, err := loadBusinessConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "0.75", cfg.DefaultLoyaltyDiscount.String())
}
