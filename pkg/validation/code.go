package validation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// ReferralCodeLength is the length of a referral code in hex characters.
const ReferralCodeLength = 8

// NewReferralCode generates a random referral code: 4 random bytes rendered
// as 8 uppercase hex characters. Uniqueness is enforced by the store.
func NewReferralCode() (string, error) {
	buf := make([]byte, ReferralCodeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// ValidateReferralCode checks a user-supplied referral code format.
func ValidateReferralCode(code string) error {
	if code == "" {
		return fmt.Errorf("referral code cannot be empty")
	}

	normalized := NormalizeReferralCode(code)

	if len(normalized) != ReferralCodeLength {
		return fmt.Errorf("invalid referral code length: expected %d characters, got %d", ReferralCodeLength, len(normalized))
	}

	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid referral code: %w", err)
	}

	return nil
}

// NormalizeReferralCode uppercases a referral code and strips spaces.
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
