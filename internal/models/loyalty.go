package models

import (
	"regexp"
	"strconv"
	"strings"
)

// FormatType distinguishes the two loyalty ID shapes the program recognizes.
// Phone and QR forms of the same human are treated as distinct entities by
// design — see DESIGN.md for the rationale.
type FormatType string

const (
	FormatPhoneNumber FormatType = "PHONE_NUMBER"
	FormatQRCode      FormatType = "QR_CODE"
)

// QRBasePrefix is the fixed literal every valid QR-code loyalty ID begins with.
const QRBasePrefix = "https://rtnsmart.com/rtnsmartapp/?USER_"

var (
	phoneIDPattern   = regexp.MustCompile(`^[0-9]{10,12}$`)
	allDigitsPattern = regexp.MustCompile(`^[0-9]+$`)
	qrPayloadPattern = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)
)

// LoyaltyID is the discriminated, normalized loyalty identifier a request
// carries. NormalizedID is set only when Valid is true.
type LoyaltyID struct {
	Valid         bool
	Format        FormatType
	NormalizedID  string // full QR URL, or bare digit string for phone
	InvalidReason string
}

// ParseLoyaltyID implements the S1 LID classification decision order from
// spec.md §4.1 steps 1-3. It does not touch the daily-count table; that is
// the caller's (stage1) responsibility once a LoyaltyID is known valid.
func ParseLoyaltyID(raw string) LoyaltyID {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return LoyaltyID{Valid: false, InvalidReason: "LoyaltyID is missing"}
	}

	if strings.HasPrefix(trimmed, QRBasePrefix) {
		suffix := trimmed[len(QRBasePrefix):]
		if suffix == "" || !qrPayloadPattern.MatchString(suffix) {
			return LoyaltyID{
				Valid:         false,
				InvalidReason: "LoyaltyID QR code format invalid: invalid URL or encoded parameter",
			}
		}
		return LoyaltyID{
			Valid:        true,
			Format:       FormatQRCode,
			NormalizedID: trimmed,
		}
	}

	if phoneIDPattern.MatchString(trimmed) {
		return LoyaltyID{
			Valid:        true,
			Format:       FormatPhoneNumber,
			NormalizedID: trimmed,
		}
	}

	if allDigitsPattern.MatchString(trimmed) {
		return LoyaltyID{
			Valid: false,
			InvalidReason: "LoyaltyID format invalid: length " +
				strconv.Itoa(len(trimmed)) + " not in range [10, 12]",
		}
	}

	return LoyaltyID{
		Valid:         false,
		InvalidReason: "LoyaltyID format unrecognized (must be phone number or RTNSmart QR code)",
	}
}
