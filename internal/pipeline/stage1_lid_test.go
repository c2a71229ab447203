package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/locking"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// fakeDailyCounts is an in-memory DailyCountStore, grounded on
// promotion_service/tests/promotion_test.go's in-memory-fake test style.
type fakeDailyCounts struct {
	counts map[string]int64
	err    error
}

func newFakeDailyCounts() *fakeDailyCounts {
	return &fakeDailyCounts{counts: make(map[string]int64)}
}

func (f *fakeDailyCounts) IncrementAndGet(ctx context.Context, loyaltyID, day string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	key := loyaltyID + "|" + day
	f.counts[key]++
	return f.counts[key], nil
}

type fakeProfiles struct {
	byLoyaltyID map[string]*models.CustomerProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byLoyaltyID: make(map[string]*models.CustomerProfile)}
}

func (f *fakeProfiles) GetByLoyaltyID(ctx context.Context, loyaltyID string) (*models.CustomerProfile, error) {
	return f.byLoyaltyID[loyaltyID], nil
}

func (f *fakeProfiles) Create(ctx context.Context, profile *models.CustomerProfile) error {
	f.byLoyaltyID[profile.LoyaltyID] = profile
	return nil
}

func (f *fakeProfiles) Save(ctx context.Context, profile *models.CustomerProfile) error {
	f.byLoyaltyID[profile.LoyaltyID] = profile
	return nil
}

type fakeValidationLog struct {
	entries []*models.ValidationLogEntry
}

func (f *fakeValidationLog) Append(ctx context.Context, entry *models.ValidationLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func TestStage1_InvalidLIDSkipsDailyCount(t *testing.T) {
	dailyCounts := newFakeDailyCounts()
	validationLog := &fakeValidationLog{}
	stage1 := NewStage1(dailyCounts, newFakeProfiles(), validationLog, locking.NewKeyMutex())

	dc := NewDecisionContext(Request{LoyaltyID: "notaloyaltyid", TransactionID: "t1"}, time.Now())
	err := stage1.Run(context.Background(), dc)

	assert.NoError(t, err)
	assert.False(t, dc.EligibleTier3)
	assert.NotEmpty(t, dc.S1Reason)
	assert.Empty(t, dailyCounts.counts)
	assert.Len(t, validationLog.entries, 1)
	assert.False(t, validationLog.entries[0].Valid)
}

func TestStage1_FirstVisitCreatesProfile(t *testing.T) {
	stage1 := NewStage1(newFakeDailyCounts(), newFakeProfiles(), &fakeValidationLog{}, locking.NewKeyMutex())

	dc := NewDecisionContext(Request{LoyaltyID: "5551234567", TransactionID: "t1", StoreLocationID: "S1"}, time.Now())
	err := stage1.Run(context.Background(), dc)

	assert.NoError(t, err)
	assert.True(t, dc.EligibleTier3)
	assert.True(t, dc.EligibleCIDFund)
	assert.NotNil(t, dc.Profile)
	assert.True(t, dc.ProfileIsNew)
	assert.NotEmpty(t, dc.Profile.CIDCustomerID)
}

func TestStage1_SixthTransactionIsManagerCard(t *testing.T) {
	dailyCounts := newFakeDailyCounts()
	profiles := newFakeProfiles()
	stage1 := NewStage1(dailyCounts, profiles, &fakeValidationLog{}, locking.NewKeyMutex())

	now := time.Now()
	var dc *DecisionContext
	for i := 0; i < 6; i++ {
		dc = NewDecisionContext(Request{LoyaltyID: "5551234567", TransactionID: "t1", StoreLocationID: "S1"}, now)
		err := stage1.Run(context.Background(), dc)
		assert.NoError(t, err)
	}

	assert.Equal(t, int64(6), dc.DailyCount)
	assert.True(t, dc.IsManagerCard)
	assert.False(t, dc.EligibleCIDFund)
	assert.Contains(t, dc.S1Reason, "Manager/store card")
}

func TestStage1_DailyCountFailureAbortsWithInfraFault(t *testing.T) {
	dailyCounts := newFakeDailyCounts()
	dailyCounts.err = errors.New("connection refused")
	stage1 := NewStage1(dailyCounts, newFakeProfiles(), &fakeValidationLog{}, locking.NewKeyMutex())

	dc := NewDecisionContext(Request{LoyaltyID: "5551234567", TransactionID: "t1"}, time.Now())
	err := stage1.Run(context.Background(), dc)

	var fault *apperr.InfraFault
	assert.ErrorAs(t, err, &fault)
	assert.True(t, fault.Retryable)
	assert.Equal(t, apperr.CodeDatabaseUnavailable, fault.Code)
}
