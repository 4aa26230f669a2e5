package models

// TelegramAuthInput carries the identity fields received from the mini-app
// on register/login, plus an optional referral code for new users.
type TelegramAuthInput struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	ReferralCode string
}

// AuthResult is the outcome of a telegram auth call.
type AuthResult struct {
	User *User
	// Created is true when a new account was registered.
	Created bool
}

// DailyRewardResult reports a successful daily reward claim.
type DailyRewardResult struct {
	Reward int64 `json:"reward"`
	Streak int   `json:"streak"`
	// NextStreakBonus is the streak bonus that will apply on the next claim.
	NextStreakBonus int64 `json:"nextStreakBonus"`
}

// SpinResult reports a spin wheel draw.
type SpinResult struct {
	Reward  int64 `json:"reward"`
	Balance int64 `json:"balance"`
}

// UserStats is the aggregated profile statistics view.
type UserStats struct {
	Balance           int64 `json:"balance"`
	TotalEarned       int64 `json:"totalEarned"`
	TotalWithdrawn    int64 `json:"totalWithdrawn"`
	Level             int   `json:"level"`
	XP                int64 `json:"xp"`
	Streak            int   `json:"streak"`
	DailyRewardStreak int   `json:"dailyRewardStreak"`
	TasksCompleted    int   `json:"tasksCompleted"`
	DirectReferrals   int64 `json:"directReferrals"`
	IndirectReferrals int64 `json:"indirectReferrals"`
}

// ReferralInfo is the user's view of their referral standing.
type ReferralInfo struct {
	ReferralCode      string  `json:"referralCode"`
	ReferralLink      string  `json:"referralLink"`
	DirectReferrals   []*User `json:"directReferrals"`
	IndirectReferrals []*User `json:"indirectReferrals"`
	TotalEarned       int64   `json:"totalEarned"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// LeaderboardEntry is one ranked row of a leaderboard.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	Balance   int64  `json:"balance"`
	Level     int    `json:"level"`
	XP        int64  `json:"xp"`
}

// RankInfo is the caller's own position in the rankings.
type RankInfo struct {
	BalanceRank int64 `json:"balanceRank"`
	LevelRank   int64 `json:"levelRank"`
	Balance     int64 `json:"balance"`
	Level       int   `json:"level"`
	XP          int64 `json:"xp"`
}

// WithdrawalResult reports a withdrawal request or cancellation outcome.
type WithdrawalResult struct {
	Transaction  *Transaction `json:"transaction,omitempty"`
	RefundAmount int64        `json:"refundAmount,omitempty"`
	NewBalance   int64        `json:"newBalance"`
}

// APIServer is the HTTP surface of the application.
type APIServer interface {
	Start()
	Shutdown() error
}

// HuntI is the application service consumed by the HTTP API and the bot.
type HuntI interface {
	// Start launches the scheduled background jobs.
	Start()
	// Stop halts the scheduled background jobs.
	Stop()

	// Auth and profile
	TelegramAuth(input TelegramAuthInput) (*AuthResult, error)
	GetUser(id uint) (*User, error)
	GetUserByTelegramID(telegramID int64) (*User, error)
	UpdateProfile(userID uint, username, firstName, lastName string) (*User, error)
	GetUserStats(userID uint) (*UserStats, error)

	// Rewards
	ClaimDailyReward(userID uint) (*DailyRewardResult, error)
	SpinWheel(userID uint) (*SpinResult, error)
	RewardHistory(userID uint, page, limit int) ([]*Reward, *Pagination, error)

	// Tasks
	ListTasks() ([]*Task, error)
	GetTask(id uint) (*Task, error)
	ListTasksByType(taskType string) ([]*Task, error)
	AvailableTasks(userID uint) ([]*Task, error)
	CompletedTasks(userID uint) ([]*TaskCompletion, error)
	CompleteTask(userID, taskID uint, proof string) (*TaskCompletion, error)
	CreateTask(task *Task) error
	UpdateTask(task *Task) error
	DeleteTask(id uint) error

	// Referrals
	ReferralInfo(userID uint) (*ReferralInfo, error)
	ApplyReferralCode(userID uint, code string) (*User, error)
	TopReferrers(limit int) ([]*ReferrerStats, error)

	// Withdrawals
	TransactionHistory(userID uint, txType string, page, limit int) ([]*Transaction, *Pagination, error)
	RequestWithdrawal(userID uint, amount int64, walletAddress, method string) (*WithdrawalResult, error)
	WithdrawalStatus(userID, txID uint) (*Transaction, error)
	CancelWithdrawal(userID, txID uint) (*WithdrawalResult, error)
	ProcessWithdrawal(adminID, txID uint, status, txHash, adminNotes string) (*Transaction, error)

	// Leaderboards
	TopByBalance(limit int) ([]*LeaderboardEntry, error)
	TopByLevel(limit int) ([]*LeaderboardEntry, error)
	UserRank(userID uint) (*RankInfo, error)
}
