package models

import "time"

// Task verification methods.
const (
	VerificationAuto   = "auto"
	VerificationManual = "manual"
)

// Task completion statuses.
const (
	CompletionPending  = "pending"
	CompletionVerified = "verified"
	CompletionRejected = "rejected"
)

// Task describes an earnable activity from the task catalog.
type Task struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"size:1024"`
	// Type groups tasks (daily, weekly, social, quiz, survey, referral, special).
	Type string `json:"type" gorm:"size:32;not null;default:'daily';index"`
	// Category names the platform the task relates to (telegram, twitter, ...).
	Category string `json:"category" gorm:"size:32;default:'general'"`

	RewardCoins int64 `json:"rewardCoins" gorm:"not null"`
	RewardXP    int64 `json:"rewardXp" gorm:"not null;default:10"`

	RequirementAction  string `json:"requirementAction" gorm:"size:64"`
	RequirementLink    string `json:"requirementLink" gorm:"size:512"`
	VerificationMethod string `json:"verificationMethod" gorm:"size:32;default:'auto'"`

	Difficulty string `json:"difficulty" gorm:"size:32;default:'easy'"`

	// MaxCompletions is how many times one user may complete the task.
	MaxCompletions int `json:"maxCompletions" gorm:"not null;default:1"`
	// TotalCompletionsLimit caps completions across all users. Zero means unlimited.
	TotalCompletionsLimit int `json:"totalCompletionsLimit" gorm:"not null;default:0"`
	CurrentCompletions    int `json:"currentCompletions" gorm:"not null;default:0"`

	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	IsActive   bool   `json:"isActive" gorm:"not null;default:true;index"`
	IsFeatured bool   `json:"isFeatured" gorm:"not null;default:false"`
	Icon       string `json:"icon" gorm:"size:255"`
	Priority   int    `json:"priority" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskCompletion records a user's completion of a task and the reward that
// was granted for it.
type TaskCompletion struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"userId" gorm:"index;not null"`
	TaskID      uint       `json:"taskId" gorm:"index;not null"`
	Status      string     `json:"status" gorm:"size:32;not null;default:'pending'"`
	Proof       string     `json:"proof" gorm:"size:512"`
	RewardCoins int64      `json:"rewardCoins" gorm:"not null;default:0"`
	RewardXP    int64      `json:"rewardXp" gorm:"not null;default:0"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
	CompletedAt time.Time  `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}
