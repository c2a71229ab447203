package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed_AlwaysReturnsSameInstant(t *testing.T) {
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	c := Fixed{At: at}

	assert.Equal(t, at, c.Now())
	assert.Equal(t, at, c.Now())
}

func TestDay_FormatsYYYYMMDD(t *testing.T) {
	c := Fixed{At: time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, "2026-03-05", Day(c))
}
