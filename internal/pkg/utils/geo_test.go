package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Hyderabad -> Warangal, ~ 140 km
	d := HaversineDistance(17.3617, 78.4747, 17.9784, 79.5941)
	assert.InDelta(t, 135, d, 10)

	assert.Zero(t, HaversineDistance(17.0, 78.0, 17.0, 78.0))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(17.4, 78.4))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(91, 0))
	assert.False(t, ValidateCoordinates(0, -181))
}
