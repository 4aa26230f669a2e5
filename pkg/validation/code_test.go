package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewReferralCode()
		require.NoError(t, err)
		assert.Len(t, code, ReferralCodeLength)
		assert.NoError(t, ValidateReferralCode(code))
		assert.Equal(t, code, NormalizeReferralCode(code), "generated codes are already normalized")
		seen[code] = true
	}
	// 100 draws from a 32-bit space should not collide.
	assert.Len(t, seen, 100)
}

func TestValidateReferralCode(t *testing.T) {
	assert.NoError(t, ValidateReferralCode("DEADBEEF"))
	assert.NoError(t, ValidateReferralCode("deadbeef"))
	assert.NoError(t, ValidateReferralCode("  A1B2C3D4  "))

	assert.Error(t, ValidateReferralCode(""))
	assert.Error(t, ValidateReferralCode("SHORT"))
	assert.Error(t, ValidateReferralCode("DEADBEEF00"))
	assert.Error(t, ValidateReferralCode("NOTHEXXX"))
}

func TestNormalizeReferralCode(t *testing.T) {
	assert.Equal(t, "DEADBEEF", NormalizeReferralCode(" deadbeef "))
	assert.Equal(t, "A1B2C3D4", NormalizeReferralCode("a1b2c3d4"))
}
