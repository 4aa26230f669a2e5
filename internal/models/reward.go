package models

import "time"

// Reward event types.
const (
	RewardDailyLogin     = "daily_login"
	RewardTaskCompletion = "task_completion"
	RewardReferral       = "referral"
	RewardAchievement    = "achievement"
	RewardSpinWheel      = "spin_wheel"
	RewardBonus          = "bonus"
	RewardLevelUp        = "level_up"
)

// Reward is an immutable audit record of a coin/XP grant. Created once,
// never mutated afterwards.
type Reward struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"userId" gorm:"index:idx_reward_user_created;not null"`
	Type   string `json:"type" gorm:"size:32;not null"`
	// Amount is the coins credited, always >= 0.
	Amount      int64  `json:"amount" gorm:"not null"`
	XP          int64  `json:"xp" gorm:"not null;default:0"`
	Description string `json:"description" gorm:"size:255"`
	// RelatedTaskID links a task_completion reward to its task.
	RelatedTaskID *uint `json:"relatedTask,omitempty"`
	// RelatedUserID links a referral reward to the referred user.
	RelatedUserID *uint     `json:"relatedReferral,omitempty"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index:idx_reward_user_created"`
}
