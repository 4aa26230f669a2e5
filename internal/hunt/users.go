package hunt

import (
	"errors"
	"fmt"
	"time"

	"github.com/onehunt/onehuntbot/internal/models"
	"github.com/onehunt/onehuntbot/pkg/validation"
)

// referralCodeAttempts bounds the retries when a freshly generated code
// collides with an existing one.
const referralCodeAttempts = 5

// dayStart floors a timestamp to midnight in its location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TelegramAuth registers a new user or logs an existing one in. A referral
// code supplied at registration triggers the referral propagation; bonus
// failures never block the registration itself.
func (h *Hunt) TelegramAuth(input models.TelegramAuthInput) (*models.AuthResult, error) {
	user, err := h.repo.GetUserByTelegramID(input.TelegramID)
	if err == nil {
		// Existing user: login, update the consecutive-day login streak.
		now := time.Now().UTC()
		today := dayStart(now)
		if user.LastLoginDate != nil {
			switch days := int(today.Sub(dayStart(user.LastLoginDate.UTC())).Hours() / 24); {
			case days == 1:
				user.Streak++
			case days > 1:
				user.Streak = 1
			}
		} else {
			user.Streak = 1
		}
		user.LastLoginDate = &now
		if input.Username != "" {
			user.Username = input.Username
		}
		if err := h.repo.SaveUser(user); err != nil {
			return nil, err
		}

		return &models.AuthResult{User: user, Created: false}, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	// New user
	code, err := h.newUniqueReferralCode()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user = &models.User{
		TelegramID:    input.TelegramID,
		Username:      input.Username,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Level:         1,
		Streak:        1,
		IsActive:      true,
		ReferralCode:  code,
		LastLoginDate: &now,
	}
	if err := h.repo.CreateUser(user); err != nil {
		return nil, err
	}

	h.logger.Infow("Registered new user", "telegramId", input.TelegramID, "username", input.Username)

	if input.ReferralCode != "" {
		h.propagateReferral(user, input.ReferralCode)
	}

	return &models.AuthResult{User: user, Created: true}, nil
}

func (h *Hunt) newUniqueReferralCode() (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code, err := validation.NewReferralCode()
		if err != nil {
			return "", err
		}
		_, err = h.repo.GetUserByReferralCode(code)
		if errors.Is(err, models.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("failed to generate a unique referral code")
}

func (h *Hunt) GetUser(id uint) (*models.User, error) {
	return h.repo.GetUserByID(id)
}

func (h *Hunt) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	return h.repo.GetUserByTelegramID(telegramID)
}

func (h *Hunt) UpdateProfile(userID uint, username, firstName, lastName string) (*models.User, error) {
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}

	if err := h.repo.SaveUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (h *Hunt) GetUserStats(userID uint) (*models.UserStats, error) {
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	direct, err := h.repo.CountReferrals(userID, referralLevelDirect)
	if err != nil {
		return nil, err
	}
	indirect, err := h.repo.CountReferrals(userID, referralLevelIndirect)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		Balance:           user.Balance,
		TotalEarned:       user.TotalEarned,
		TotalWithdrawn:    user.TotalWithdrawn,
		Level:             user.Level,
		XP:                user.XP,
		Streak:            user.Streak,
		DailyRewardStreak: user.DailyRewardStreak,
		TasksCompleted:    user.TasksCompleted,
		DirectReferrals:   direct,
		IndirectReferrals: indirect,
	}, nil
}
