package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseUnavailable_Retryable(t *testing.T) {
	cause := errors.New("connection refused")
	fault := DatabaseUnavailable("test.op", cause)

	assert.Equal(t, CodeDatabaseUnavailable, fault.Code)
	assert.True(t, fault.Retryable)
	assert.ErrorIs(t, fault, cause)
	assert.NotEmpty(t, fault.ID)
}

func TestAVTWriteFailed_NotRetryable(t *testing.T) {
	fault := AVTWriteFailed("test.op", errors.New("disk full"))
	assert.False(t, fault.Retryable)
	assert.Equal(t, CodeAVTWriteFailed, fault.Code)
}

func TestMalformedRequest_NoCause(t *testing.T) {
	fault := MalformedRequest("test.op", "missing transaction_id")
	assert.False(t, fault.Retryable)
	assert.Nil(t, fault.Unwrap())
	assert.Contains(t, fault.Error(), "missing transaction_id")
}
