package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/locking"
	"github.com/rtnapps/Loyalty-Program/internal/logging"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

var s1log = logging.GetLogger("stage1-lid-validator")

const managerCardDailyCap = 5

// DailyCountStore is the S1 dependency on DailyCountRepository, narrowed to
// the one atomic operation this stage needs.
type DailyCountStore interface {
	IncrementAndGet(ctx context.Context, loyaltyID, day string) (int64, error)
}

// ProfileStore is the S1 dependency on ProfileRepository.
type ProfileStore interface {
	GetByLoyaltyID(ctx context.Context, loyaltyID string) (*models.CustomerProfile, error)
	Create(ctx context.Context, profile *models.CustomerProfile) error
	Save(ctx context.Context, profile *models.CustomerProfile) error
}

// ValidationLogStore is the S1 dependency on ValidationLogRepository.
type ValidationLogStore interface {
	Append(ctx context.Context, entry *models.ValidationLogEntry) error
}

// Stage1 implements the LID Validator (spec.md §4.1). Requests sharing a
// normalized_id are serialized through lidLocks so the daily-count upsert
// and the manager-card decision it gates observe a consistent count
// (spec.md §5/§9). Grounded on order_service's OfferServiceClient/
// PaymentServiceClient interface-dependency pattern.
type Stage1 struct {
	dailyCounts DailyCountStore
	profiles    ProfileStore
	validation  ValidationLogStore
	lidLocks    *locking.KeyMutex
}

// NewStage1 creates the LID validation stage.
func NewStage1(dailyCounts DailyCountStore, profiles ProfileStore, validation ValidationLogStore, lidLocks *locking.KeyMutex) *Stage1 {
	return &Stage1{dailyCounts: dailyCounts, profiles: profiles, validation: validation, lidLocks: lidLocks}
}

// ActiveLocks reports the number of loyalty IDs currently holding the
// per-LID serialization lock, for the loyalty_active_lid_locks gauge.
func (s *Stage1) ActiveLocks() int {
	return s.lidLocks.Len()
}

// Run executes S1 decision order against dc, mutating it in place.
func (s *Stage1) Run(ctx context.Context, dc *DecisionContext) error {
	lid := models.ParseLoyaltyID(dc.Request.LoyaltyID)
	dc.LID = lid

	if !lid.Valid {
		dc.S1Reason = lid.InvalidReason
		s.logAttempt(ctx, dc, false, lid.InvalidReason)
		return nil
	}

	// Per-LID serialization: the daily-count upsert and the manager-card
	// decision it gates must observe a consistent count across concurrent
	// requests for the same normalized_id (spec.md §5).
	s.lidLocks.Lock(lid.NormalizedID)
	defer s.lidLocks.Unlock(lid.NormalizedID)

	count, err := s.dailyCounts.IncrementAndGet(ctx, lid.NormalizedID, dc.Day())
	if err != nil {
		return apperr.DatabaseUnavailable("stage1.increment_daily_count", err)
	}
	dc.DailyCount = count

	dc.EligibleTier3 = true
	if count > managerCardDailyCap {
		dc.IsManagerCard = true
		dc.EligibleCIDFund = false
		dc.S1Reason = fmt.Sprintf("Manager/store card detected: %d transactions today (exceeds cap of %d)", count, managerCardDailyCap)
	} else {
		dc.EligibleCIDFund = true
	}

	if err := s.upsertProfile(ctx, dc); err != nil {
		return apperr.DatabaseUnavailable("stage1.upsert_profile", err)
	}

	s.logAttempt(ctx, dc, true, dc.S1Reason)
	return nil
}

func (s *Stage1) upsertProfile(ctx context.Context, dc *DecisionContext) error {
	existing, err := s.profiles.GetByLoyaltyID(ctx, dc.LID.NormalizedID)
	if err != nil {
		return err
	}

	if existing == nil {
		profile := &models.CustomerProfile{
			LoyaltyID:         dc.LID.NormalizedID,
			FormatType:        dc.LID.Format,
			FirstSeen:         dc.Now,
			LastSeen:          dc.Now,
			TotalTransactions: 1,
			IsManagerCard:     dc.IsManagerCard,
			StoreID:           dc.Request.StoreLocationID,
			CIDCustomerID:     uuid.New().String(),
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return err
		}
		dc.Profile = profile
		dc.ProfileIsNew = true
		return nil
	}

	existing.LastSeen = dc.Now
	existing.TotalTransactions++
	if dc.IsManagerCard {
		existing.IsManagerCard = true
	}
	if err := s.profiles.Save(ctx, existing); err != nil {
		return err
	}
	dc.Profile = existing
	return nil
}

func (s *Stage1) logAttempt(ctx context.Context, dc *DecisionContext, valid bool, reason string) {
	entry := &models.ValidationLogEntry{
		TransactionID: dc.Request.TransactionID,
		StoreID:       dc.Request.StoreLocationID,
		RawLoyaltyID:  dc.Request.LoyaltyID,
		Valid:         valid,
		Reason:        reason,
	}
	if err := s.validation.Append(ctx, entry); err != nil {
		s1log.Warn("failed to append validation log entry", "transaction_id", dc.Request.TransactionID, "error", err)
	}
}
