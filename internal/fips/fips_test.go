package fips

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGEOID(t *testing.T) {
	assert.Equal(t, "01001", GEOID(1001))
	assert.Equal(t, "56045", GEOID(56045))
	assert.Equal(t, "00001", GEOID(1))
}

func TestStateCounty(t *testing.T) {
	assert.Equal(t, "01", State(1001))
	assert.Equal(t, "001", County(1001))
	assert.Equal(t, "56", State(56045))
	assert.Equal(t, "045", County(56045))
}
