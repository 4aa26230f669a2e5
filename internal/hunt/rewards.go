package hunt

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/onehunt/onehuntbot/internal/models"
)

// streakBlockDays is the streak length that earns one more bonus unit.
const streakBlockDays = 7

// ClaimDailyReward grants the daily login reward. The claim is committed
// with a conditional update on last_daily_reward, so two racing claims for
// the same day cannot both succeed.
func (h *Hunt) ClaimDailyReward(userID uint) (*models.DailyRewardResult, error) {
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := dayStart(now)

	streak := 1
	if user.LastDailyReward != nil {
		lastDay := dayStart(user.LastDailyReward.UTC())
		if lastDay.Equal(today) {
			return nil, models.ErrAlreadyClaimed
		}
		if lastDay.Equal(today.AddDate(0, 0, -1)) {
			streak = user.DailyRewardStreak + 1
		}
	}

	claimed, err := h.repo.ClaimDaily(userID, now, today, streak)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, models.ErrAlreadyClaimed
	}

	reward := h.economy.DailyBaseReward + int64(streak/streakBlockDays)*h.economy.DailyStreakBonusUnit

	if err := h.credit(userID, reward); err != nil {
		return nil, err
	}
	if err := h.grantXP(userID, h.economy.DailyRewardXP); err != nil {
		h.logger.Errorw("Failed to grant daily reward XP", "user", userID, "error", err)
	}
	if err := h.repo.CreateReward(&models.Reward{
		UserID:      userID,
		Type:        models.RewardDailyLogin,
		Amount:      reward,
		XP:          h.economy.DailyRewardXP,
		Description: fmt.Sprintf("Day %d streak reward", streak),
	}); err != nil {
		h.logger.Errorw("Failed to record daily reward", "user", userID, "error", err)
	}

	return &models.DailyRewardResult{
		Reward:          reward,
		Streak:          streak,
		NextStreakBonus: int64((streak+1)/streakBlockDays) * h.economy.DailyStreakBonusUnit,
	}, nil
}

// SpinWheel draws uniformly from the configured payout table and credits
// the result. Cooldowns, if any, are enforced by the client.
func (h *Hunt) SpinWheel(userID uint) (*models.SpinResult, error) {
	if _, err := h.repo.GetUserByID(userID); err != nil {
		return nil, err
	}

	payout := h.economy.SpinWheelPayouts[rand.Intn(len(h.economy.SpinWheelPayouts))]

	if err := h.credit(userID, payout); err != nil {
		return nil, err
	}
	if err := h.repo.CreateReward(&models.Reward{
		UserID:      userID,
		Type:        models.RewardSpinWheel,
		Amount:      payout,
		Description: "Spin wheel reward",
	}); err != nil {
		h.logger.Errorw("Failed to record spin reward", "user", userID, "error", err)
	}

	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	return &models.SpinResult{Reward: payout, Balance: user.Balance}, nil
}

// RewardHistory lists a user's reward events, newest first.
func (h *Hunt) RewardHistory(userID uint, page, limit int) ([]*models.Reward, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rewards, total, err := h.repo.ListRewards(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	return rewards, &models.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}
