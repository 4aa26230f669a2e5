package hunt

import (
	"fmt"
)

// The ledger is the only path through which balances change. Each call is
// paired by its caller with exactly one Reward or Transaction record; the
// pairing itself is not transactional (see DESIGN.md).

// credit increases a user's balance. Amounts are never negative.
func (h *Hunt) credit(userID uint, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative: %d", amount)
	}

	return h.repo.CreditBalance(userID, amount)
}

// debit decreases a user's balance, failing with ErrInsufficientBalance when
// the balance does not cover the amount.
func (h *Hunt) debit(userID uint, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("debit amount must not be negative: %d", amount)
	}

	return h.repo.DebitBalance(userID, amount)
}

// refund returns previously held funds. It does not count as earnings.
func (h *Hunt) refund(userID uint, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("refund amount must not be negative: %d", amount)
	}

	return h.repo.RefundBalance(userID, amount)
}

// grantXP adds XP and applies the level-up rule: when accumulated XP reaches
// level*100, the level increases and the threshold is consumed.
func (h *Hunt) grantXP(userID uint, amount int64) error {
	if amount <= 0 {
		return nil
	}

	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return err
	}

	xp := user.XP + amount
	level := user.Level
	if threshold := int64(level) * 100; xp >= threshold {
		level++
		xp -= threshold
	}

	return h.repo.UpdateProgress(userID, xp, level)
}
