package models

import "time"

// User represents a registered player and its economic/progression state.
type User struct {
	ID uint `json:"id" gorm:"primaryKey"`
	// TelegramID is the external Telegram identity of the user.
	TelegramID int64  `json:"telegramId" gorm:"uniqueIndex;not null"`
	Username   string `json:"username" gorm:"size:255"`
	FirstName  string `json:"firstName" gorm:"size:255"`
	LastName   string `json:"lastName" gorm:"size:255"`

	// Balance is the spendable coin balance. Never negative; mutated only
	// through the ledger credit/debit operations.
	Balance int64 `json:"balance" gorm:"not null;default:0"`
	// TotalEarned is the lifetime sum of all credits.
	TotalEarned int64 `json:"totalEarned" gorm:"not null;default:0"`
	// TotalWithdrawn is the lifetime sum of completed withdrawals (fees excluded).
	TotalWithdrawn int64 `json:"totalWithdrawn" gorm:"not null;default:0"`

	// Progression
	Level int   `json:"level" gorm:"not null;default:1"`
	XP    int64 `json:"xp" gorm:"not null;default:0"`

	// Streak is the consecutive-day login count.
	Streak        int        `json:"streak" gorm:"not null;default:0"`
	LastLoginDate *time.Time `json:"lastLoginDate"`
	// DailyRewardStreak counts consecutive daily reward claims.
	DailyRewardStreak int        `json:"dailyRewardStreak" gorm:"not null;default:0"`
	LastDailyReward   *time.Time `json:"lastDailyReward"`

	// ReferralCode is the unique 8-char uppercase hex code handed out to invitees.
	ReferralCode string `json:"referralCode" gorm:"size:16;uniqueIndex;not null"`
	// ReferredByID points at the user whose code was used at registration, if any.
	ReferredByID *uint `json:"referredBy,omitempty" gorm:"index"`

	TasksCompleted int `json:"tasksCompleted" gorm:"not null;default:0"`

	IsAdmin  bool `json:"isAdmin" gorm:"not null;default:false"`
	IsActive bool `json:"isActive" gorm:"not null;default:true"`
	IsBanned bool `json:"isBanned" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Referral is one hop of referral ancestry. Level 1 is a direct referral,
// level 2 an indirect one (a referral of one's own referral). A referred user
// appears at most once per level.
type Referral struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ReferrerID uint      `json:"referrerId" gorm:"index;not null"`
	ReferredID uint      `json:"referredId" gorm:"not null;uniqueIndex:idx_referred_level"`
	Level      int       `json:"level" gorm:"not null;uniqueIndex:idx_referred_level"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReferrerStats is an aggregated leaderboard row for the referral ranking.
type ReferrerStats struct {
	UserID        uint   `json:"userId"`
	Username      string `json:"username"`
	FirstName     string `json:"firstName"`
	DirectCount   int64  `json:"directCount"`
	IndirectCount int64  `json:"indirectCount"`
	TotalCount    int64  `json:"totalCount"`
}
