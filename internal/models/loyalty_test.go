package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLoyaltyID_Missing(t *testing.T) {
	lid := ParseLoyaltyID("")
	assert.False(t, lid.Valid)
	assert.Equal(t, "LoyaltyID is missing", lid.InvalidReason)

	lid = ParseLoyaltyID("   ")
	assert.False(t, lid.Valid)
	assert.Equal(t, "LoyaltyID is missing", lid.InvalidReason)
}

func TestParseLoyaltyID_ValidPhone(t *testing.T) {
	lid := ParseLoyaltyID("5551234567")
	assert.True(t, lid.Valid)
	assert.Equal(t, FormatPhoneNumber, lid.Format)
	assert.Equal(t, "5551234567", lid.NormalizedID)
}

func TestParseLoyaltyID_PhoneWrongLength(t *testing.T) {
	lid := ParseLoyaltyID("123456789")
	assert.False(t, lid.Valid)
	assert.Contains(t, lid.InvalidReason, "length 9 not in range [10, 12]")
}

func TestParseLoyaltyID_ValidQR(t *testing.T) {
	lid := ParseLoyaltyID(QRBasePrefix + "abc123+/=")
	assert.True(t, lid.Valid)
	assert.Equal(t, FormatQRCode, lid.Format)
	assert.Equal(t, QRBasePrefix+"abc123+/=", lid.NormalizedID)
}

func TestParseLoyaltyID_BadQR(t *testing.T) {
	lid := ParseLoyaltyID(QRBasePrefix + "@@@")
	assert.False(t, lid.Valid)
	assert.Contains(t, lid.InvalidReason, "QR code format invalid")
}

func TestParseLoyaltyID_BadQREmptySuffix(t *testing.T) {
	lid := ParseLoyaltyID(QRBasePrefix)
	assert.False(t, lid.Valid)
	assert.Contains(t, lid.InvalidReason, "QR code format invalid")
}

func TestParseLoyaltyID_Unrecognized(t *testing.T) {
	lid := ParseLoyaltyID("not-a-loyalty-id")
	assert.False(t, lid.Valid)
	assert.Contains(t, lid.InvalidReason, "unrecognized")
}
