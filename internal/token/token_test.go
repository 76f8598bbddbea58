package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_SequentialDay(t *testing.T) {
	// N <= 100 sequential orders in one day get tokens exactly 1..N.
	for n := 0; n < 100; n++ {
		assert.Equal(t, n+1, Next(n, 0))
	}
}

func TestNext_WrapsPastMax(t *testing.T) {
	assert.Equal(t, 100, Next(99, 0))
	assert.Equal(t, 1, Next(100, 0))
	assert.Equal(t, 1, Next(200, 0))
	assert.Equal(t, 37, Next(136, 0))
}

func TestNext_CountsPendingOffline(t *testing.T) {
	assert.Equal(t, 6, Next(3, 2))
	assert.Equal(t, 1, Next(0, 100))
}

func TestNext_RangeInvariant(t *testing.T) {
	for today := 0; today < 250; today += 7 {
		for pending := 0; pending < 30; pending += 3 {
			got := Next(today, pending)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, Max)
		}
	}
}

func TestNext_NegativeCountsClamped(t *testing.T) {
	assert.Equal(t, 1, Next(-5, -1))
}
