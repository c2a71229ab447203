package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

type fakeAVTStore struct {
	records []*models.AVTRecord
	err     error
}

func (f *fakeAVTStore) Append(ctx context.Context, record *models.AVTRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func TestStage2_VerifiedAgeWritesAVTRecord(t *testing.T) {
	avt := &fakeAVTStore{}
	stage2 := NewStage2(avt)

	dc := NewDecisionContext(Request{AVTStatus: "verified", TransactionID: "t1", StoreLocationID: "S1"}, time.Now())
	err := stage2.Run(context.Background(), dc)

	assert.NoError(t, err)
	assert.True(t, dc.AgeVerified)
	assert.True(t, dc.EligibleTier3Incentives)
	assert.True(t, dc.AVTRecordWritten)
	assert.Len(t, avt.records, 1)
}

func TestStage2_UnverifiedAgeSkipsAVTWrite(t *testing.T) {
	avt := &fakeAVTStore{}
	stage2 := NewStage2(avt)

	dc := NewDecisionContext(Request{AVTStatus: "not_verified", TransactionID: "t1", StoreLocationID: "S1"}, time.Now())
	err := stage2.Run(context.Background(), dc)

	assert.NoError(t, err)
	assert.False(t, dc.AgeVerified)
	assert.False(t, dc.EligibleTier3Incentives)
	assert.Equal(t, "Age verification required", dc.S2Reason)
	assert.False(t, dc.AVTRecordWritten)
	assert.Empty(t, avt.records)
}

func TestStage2_AVTWriteFailureIsFatalNotRetryable(t *testing.T) {
	avt := &fakeAVTStore{err: errors.New("disk full")}
	stage2 := NewStage2(avt)

	dc := NewDecisionContext(Request{AVTStatus: "verified", TransactionID: "t1", StoreLocationID: "S1"}, time.Now())
	err := stage2.Run(context.Background(), dc)

	var fault *apperr.InfraFault
	assert.ErrorAs(t, err, &fault)
	assert.False(t, fault.Retryable)
	assert.Equal(t, apperr.CodeAVTWriteFailed, fault.Code)
}
