package models

import "time"

// Repository is the persistence boundary of the service. Balance mutations
// are implemented as conditional atomic updates by the backing store, never
// as read-modify-write from the caller side.
type Repository interface {
	Close() error

	// Users
	CreateUser(user *User) error
	GetUserByID(id uint) (*User, error)
	GetUserByTelegramID(telegramID int64) (*User, error)
	GetUserByReferralCode(code string) (*User, error)
	SaveUser(user *User) error

	// Ledger primitives. CreditBalance also advances total_earned.
	// DebitBalance fails with ErrInsufficientBalance when the guarded
	// decrement matches no row.
	CreditBalance(userID uint, amount int64) error
	// RefundBalance restores held funds without counting them as earnings.
	RefundBalance(userID uint, amount int64) error
	DebitBalance(userID uint, amount int64) error
	UpdateProgress(userID uint, xp int64, level int) error
	IncrementTotalWithdrawn(userID uint, amount int64) error
	IncrementTasksCompleted(userID uint) error

	// ClaimDaily commits a daily claim only if the stored last_daily_reward
	// is older than dayStart; reports whether the claim won.
	ClaimDaily(userID uint, claimedAt time.Time, dayStart time.Time, streak int) (bool, error)
	// SetReferrer records the referrer only if none is set yet.
	SetReferrer(userID, referrerID uint) (bool, error)

	// Referrals
	CreateReferral(referral *Referral) error
	ListReferredUsers(referrerID uint, level int) ([]*User, error)
	CountReferrals(referrerID uint, level int) (int64, error)

	// Rewards (append-only)
	CreateReward(reward *Reward) error
	ListRewards(userID uint, page, limit int) ([]*Reward, int64, error)
	SumRewards(userID uint, rewardType string) (int64, error)

	// Transactions
	CreateTransaction(tx *Transaction) error
	GetUserWithdrawal(id, userID uint) (*Transaction, error)
	GetTransactionByID(id uint) (*Transaction, error)
	ListTransactions(userID uint, txType string, page, limit int) ([]*Transaction, int64, error)
	// TransitionWithdrawal persists tx's mutable fields only while the stored
	// status still equals fromStatus; reports whether the transition won.
	TransitionWithdrawal(tx *Transaction, fromStatus string) (bool, error)

	// Tasks
	CreateTask(task *Task) error
	SaveTask(task *Task) error
	DeleteTask(id uint) error
	GetTaskByID(id uint) (*Task, error)
	ListActiveTasks() ([]*Task, error)
	ListTasksByType(taskType string) ([]*Task, error)
	CreateTaskCompletion(completion *TaskCompletion) error
	GetVerifiedCompletion(userID, taskID uint) (*TaskCompletion, error)
	ListCompletions(userID uint) ([]*TaskCompletion, error)
	IncrementTaskCompletions(taskID uint) error
	DeactivateExpiredTasks(now time.Time) (int64, error)

	// Leaderboards
	TopUsersByBalance(limit int) ([]*User, error)
	TopUsersByLevel(limit int) ([]*User, error)
	TopReferrers(limit int) ([]*ReferrerStats, error)
	CountUsersWithHigherBalance(balance int64) (int64, error)
	CountUsersRankedAbove(level int, xp int64) (int64, error)

	// Locks used to coordinate scheduled jobs between instances
	AcquireLock(name, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(name, instanceID string) error
}
