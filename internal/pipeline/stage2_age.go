package pipeline

import (
	"context"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// AVTStore is the S2 dependency on AVTRepository, narrowed to the one
// write this stage performs. Grounded on order_service's
// OfferServiceClient/PaymentServiceClient interface-dependency pattern.
type AVTStore interface {
	Append(ctx context.Context, record *models.AVTRecord) error
}

// Stage2 implements the Age Gate (spec.md §4.2). It short-circuits
// Tier-3 benefits on a failed AVT check but still lets S3-S7 run so a
// zero-reward response is produced.
type Stage2 struct {
	avt AVTStore
}

// NewStage2 creates the age-gating stage.
func NewStage2(avt AVTStore) *Stage2 {
	return &Stage2{avt: avt}
}

// Run executes S2 against dc, mutating it in place.
func (s *Stage2) Run(ctx context.Context, dc *DecisionContext) error {
	dc.AgeVerified = dc.Request.AVTStatus == "verified"

	if dc.Profile != nil {
		dc.EAIVVerified = dc.Profile.EAIVVerified
	} else {
		dc.EAIVVerified = false
	}

	dc.EligibleTier3Incentives = dc.AgeVerified
	dc.EligibleEAIVOnlyIncentives = dc.AgeVerified && dc.EAIVVerified

	if !dc.AgeVerified {
		dc.S2Reason = "Age verification required"
		return nil
	}

	if dc.Request.TransactionID != "" && dc.Request.StoreLocationID != "" {
		record := &models.AVTRecord{
			TransactionID: dc.Request.TransactionID,
			StoreID:       dc.Request.StoreLocationID,
			AVTPerformed:  true,
			AVTMethod:     models.AVTMethodInPerson,
			AVTTimestamp:  dc.Now,
		}
		if dc.LID.Valid {
			record.LoyaltyID = &dc.LID.NormalizedID
		}
		if dc.Profile != nil {
			record.CIDCustomerID = &dc.Profile.CIDCustomerID
		}
		if dc.Request.CashierID != "" {
			record.CashierID = &dc.Request.CashierID
		}
		eaiv := dc.EAIVVerified
		record.EAIVVerified = &eaiv

		if err := s.avt.Append(ctx, record); err != nil {
			// Fatal: the AVT audit write is legally required (spec.md §4.2/§7).
			return apperr.AVTWriteFailed("stage2.append_avt_record", err)
		}
		dc.AVTRecordWritten = true
	}

	return nil
}
