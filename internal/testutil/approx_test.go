package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClose(t *testing.T) {
	assert.True(t, Close(1.0, 1.0, 0))
	assert.True(t, Close(1.0, 1.0+1e-12, 1e-9))
	assert.False(t, Close(1.0, 1.1, 1e-9))

	// Relative comparison for large magnitudes.
	assert.True(t, Close(1e12, 1e12+1, 1e-9))
	assert.False(t, Close(1e12, 1e12*1.01, 1e-9))

	// Absolute comparison near zero.
	assert.True(t, Close(0, 1e-12, 1e-9))
	assert.False(t, Close(0, 1e-6, 1e-9))
}

func TestCloseNaN(t *testing.T) {
	assert.False(t, Close(math.NaN(), math.NaN(), 1))
	assert.False(t, Close(math.NaN(), 0, 1))
}
