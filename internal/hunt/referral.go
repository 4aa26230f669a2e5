package hunt

import (
	"errors"
	"fmt"

	"github.com/onehunt/onehuntbot/internal/models"
	"github.com/onehunt/onehuntbot/pkg/validation"
)

// Referral hop levels. The chain is capped at exactly two hops: the
// propagation never walks past the immediate referrer's referrer.
const (
	referralLevelDirect   = 1
	referralLevelIndirect = 2
)

// propagateReferral links a newly registered user to the owner of the given
// code and pays the referral bonuses. Unknown codes are skipped silently,
// and bonus failures are logged without failing the registration.
func (h *Hunt) propagateReferral(user *models.User, code string) {
	referrer, err := h.repo.GetUserByReferralCode(validation.NormalizeReferralCode(code))
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.logger.Errorw("Failed to look up referral code", "code", code, "error", err)
		}
		return
	}
	if referrer.ID == user.ID {
		return
	}

	linked, err := h.repo.SetReferrer(user.ID, referrer.ID)
	if err != nil {
		h.logger.Errorw("Failed to link referrer", "user", user.ID, "referrer", referrer.ID, "error", err)
		return
	}
	if !linked {
		return
	}
	user.ReferredByID = &referrer.ID

	if err := h.payReferralBonus(referrer, user, referralLevelDirect); err != nil {
		h.logger.Errorw("Failed to pay direct referral bonus", "referrer", referrer.ID, "error", err)
	}

	// Second hop: the referrer's own referrer earns the indirect bonus.
	if referrer.ReferredByID == nil {
		return
	}
	indirect, err := h.repo.GetUserByID(*referrer.ReferredByID)
	if err != nil {
		h.logger.Errorw("Failed to load indirect referrer", "id", *referrer.ReferredByID, "error", err)
		return
	}
	if err := h.payReferralBonus(indirect, user, referralLevelIndirect); err != nil {
		h.logger.Errorw("Failed to pay indirect referral bonus", "referrer", indirect.ID, "error", err)
	}
}

// payReferralBonus records the hop, credits the bonus and writes the paired
// reward event.
func (h *Hunt) payReferralBonus(referrer, referred *models.User, level int) error {
	bonus := h.economy.DirectReferralBonus
	xp := int64(20)
	description := fmt.Sprintf("Direct referral: %s", referred.Username)
	if level == referralLevelIndirect {
		bonus = h.economy.IndirectReferralBonus
		xp = 10
		description = fmt.Sprintf("Indirect referral: %s", referred.Username)
	}

	if err := h.repo.CreateReferral(&models.Referral{
		ReferrerID: referrer.ID,
		ReferredID: referred.ID,
		Level:      level,
	}); err != nil {
		return err
	}

	if err := h.credit(referrer.ID, bonus); err != nil {
		return err
	}

	return h.repo.CreateReward(&models.Reward{
		UserID:        referrer.ID,
		Type:          models.RewardReferral,
		Amount:        bonus,
		XP:            xp,
		Description:   description,
		RelatedUserID: &referred.ID,
	})
}

// ApplyReferralCode lets an already registered user apply a code after the
// fact. Unlike registration, an unknown code is a visible error here.
func (h *Hunt) ApplyReferralCode(userID uint, code string) (*models.User, error) {
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.ReferredByID != nil {
		return nil, models.ErrAlreadyReferred
	}

	referrer, err := h.repo.GetUserByReferralCode(validation.NormalizeReferralCode(code))
	if err != nil {
		return nil, err
	}
	if referrer.ID == userID {
		return nil, models.ErrSelfReferral
	}

	linked, err := h.repo.SetReferrer(userID, referrer.ID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, models.ErrAlreadyReferred
	}

	if err := h.payReferralBonus(referrer, user, referralLevelDirect); err != nil {
		h.logger.Errorw("Failed to pay direct referral bonus", "referrer", referrer.ID, "error", err)
	}

	if referrer.ReferredByID != nil {
		indirect, err := h.repo.GetUserByID(*referrer.ReferredByID)
		if err == nil {
			if err := h.payReferralBonus(indirect, user, referralLevelIndirect); err != nil {
				h.logger.Errorw("Failed to pay indirect referral bonus", "referrer", indirect.ID, "error", err)
			}
		}
	}

	return referrer, nil
}

// ReferralInfo reports the user's code, invite link and referral earnings.
func (h *Hunt) ReferralInfo(userID uint) (*models.ReferralInfo, error) {
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	direct, err := h.repo.ListReferredUsers(userID, referralLevelDirect)
	if err != nil {
		return nil, err
	}
	indirect, err := h.repo.ListReferredUsers(userID, referralLevelIndirect)
	if err != nil {
		return nil, err
	}
	earned, err := h.repo.SumRewards(userID, models.RewardReferral)
	if err != nil {
		return nil, err
	}

	link := ""
	if h.miniAppURL != "" {
		link = fmt.Sprintf("%s?startapp=%s", h.miniAppURL, user.ReferralCode)
	}

	return &models.ReferralInfo{
		ReferralCode:      user.ReferralCode,
		ReferralLink:      link,
		DirectReferrals:   direct,
		IndirectReferrals: indirect,
		TotalEarned:       earned,
	}, nil
}
