package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/onehunt/onehuntbot/internal/models"
	"github.com/onehunt/onehuntbot/pkg/logger"
)

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Referral{},
		&models.Reward{},
		&models.Transaction{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.JobLock{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

// Users

func (db *PostgresDB) CreateUser(user *models.User) error {
	if err := db.Conn.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %s", err)
	}

	return nil
}

func (db *PostgresDB) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := db.Conn.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %s", err)
	}

	return &user, nil
}

func (db *PostgresDB) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	if err := db.Conn.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by telegram id: %s", err)
	}

	return &user, nil
}

func (db *PostgresDB) GetUserByReferralCode(code string) (*models.User, error) {
	var user models.User
	if err := db.Conn.Where("referral_code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by referral code: %s", err)
	}

	return &user, nil
}

func (db *PostgresDB) SaveUser(user *models.User) error {
	if err := db.Conn.Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %s", err)
	}

	return nil
}

// CreditBalance atomically increases balance and total_earned.
func (db *PostgresDB) CreditBalance(userID uint, amount int64) error {
	result := db.Conn.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"balance":      gorm.Expr("balance + ?", amount),
		"total_earned": gorm.Expr("total_earned + ?", amount),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to credit balance: %s", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// RefundBalance restores held funds to the balance. Unlike CreditBalance it
// leaves total_earned untouched: a refund is not income.
func (db *PostgresDB) RefundBalance(userID uint, amount int64) error {
	result := db.Conn.Model(&models.User{}).Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to refund balance: %s", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DebitBalance decrements the balance with a guard so it can never go
// negative, regardless of concurrent requests.
func (db *PostgresDB) DebitBalance(userID uint, amount int64) error {
	result := db.Conn.Model(&models.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit balance: %s", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := db.GetUserByID(userID); err != nil {
			return err
		}
		return models.ErrInsufficientBalance
	}

	return nil
}

func (db *PostgresDB) UpdateProgress(userID uint, xp int64, level int) error {
	result := db.Conn.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"xp":    xp,
		"level": level,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update progress: %s", result.Error)
	}

	return nil
}

func (db *PostgresDB) IncrementTotalWithdrawn(userID uint, amount int64) error {
	result := db.Conn.Model(&models.User{}).Where("id = ?", userID).
		Update("total_withdrawn", gorm.Expr("total_withdrawn + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to update total withdrawn: %s", result.Error)
	}

	return nil
}

func (db *PostgresDB) IncrementTasksCompleted(userID uint) error {
	result := db.Conn.Model(&models.User{}).Where("id = ?", userID).
		Update("tasks_completed", gorm.Expr("tasks_completed + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to update tasks completed: %s", result.Error)
	}

	return nil
}

// ClaimDaily commits the daily claim as one conditional update so two
// concurrent claims for the same day cannot both win.
func (db *PostgresDB) ClaimDaily(userID uint, claimedAt time.Time, dayStart time.Time, streak int) (bool, error) {
	result := db.Conn.Model(&models.User{}).
		Where("id = ? AND (last_daily_reward IS NULL OR last_daily_reward < ?)", userID, dayStart).
		Updates(map[string]interface{}{
			"last_daily_reward":   claimedAt,
			"daily_reward_streak": streak,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim daily reward: %s", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (db *PostgresDB) SetReferrer(userID, referrerID uint) (bool, error) {
	result := db.Conn.Model(&models.User{}).
		Where("id = ? AND referred_by_id IS NULL", userID).
		Update("referred_by_id", referrerID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to set referrer: %s", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// Referrals

func (db *PostgresDB) CreateReferral(referral *models.Referral) error {
	if err := db.Conn.Create(referral).Error; err != nil {
		return fmt.Errorf("failed to create referral: %s", err)
	}

	return nil
}

func (db *PostgresDB) ListReferredUsers(referrerID uint, level int) ([]*models.User, error) {
	var users []*models.User
	if err := db.Conn.
		Joins("JOIN referrals ON referrals.referred_id = users.id").
		Where("referrals.referrer_id = ? AND referrals.level = ?", referrerID, level).
		Order("referrals.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list referred users: %s", err)
	}

	return users, nil
}

func (db *PostgresDB) CountReferrals(referrerID uint, level int) (int64, error) {
	var count int64
	if err := db.Conn.Model(&models.Referral{}).
		Where("referrer_id = ? AND level = ?", referrerID, level).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count referrals: %s", err)
	}

	return count, nil
}

// Rewards

func (db *PostgresDB) CreateReward(reward *models.Reward) error {
	if err := db.Conn.Create(reward).Error; err != nil {
		return fmt.Errorf("failed to create reward: %s", err)
	}

	return nil
}

func (db *PostgresDB) ListRewards(userID uint, page, limit int) ([]*models.Reward, int64, error) {
	var total int64
	if err := db.Conn.Model(&models.Reward{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rewards: %s", err)
	}

	var rewards []*models.Reward
	if err := db.Conn.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rewards).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list rewards: %s", err)
	}

	return rewards, total, nil
}

func (db *PostgresDB) SumRewards(userID uint, rewardType string) (int64, error) {
	var sum int64
	if err := db.Conn.Model(&models.Reward{}).
		Where("user_id = ? AND type = ?", userID, rewardType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error; err != nil {
		return 0, fmt.Errorf("failed to sum rewards: %s", err)
	}

	return sum, nil
}

// Transactions

func (db *PostgresDB) CreateTransaction(tx *models.Transaction) error {
	if err := db.Conn.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %s", err)
	}

	return nil
}

func (db *PostgresDB) GetUserWithdrawal(id, userID uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.Conn.Where("id = ? AND user_id = ? AND type = ?", id, userID, models.TxWithdrawal).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal: %s", err)
	}

	return &tx, nil
}

func (db *PostgresDB) GetTransactionByID(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.Conn.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %s", err)
	}

	return &tx, nil
}

func (db *PostgresDB) ListTransactions(userID uint, txType string, page, limit int) ([]*models.Transaction, int64, error) {
	query := db.Conn.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %s", err)
	}

	var txs []*models.Transaction
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %s", err)
	}

	return txs, total, nil
}

// TransitionWithdrawal persists the transaction's settlement fields only if
// the stored status still matches fromStatus; a lost race reports false.
func (db *PostgresDB) TransitionWithdrawal(tx *models.Transaction, fromStatus string) (bool, error) {
	result := db.Conn.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", tx.ID, fromStatus).
		Updates(map[string]interface{}{
			"status":           tx.Status,
			"transaction_hash": tx.TransactionHash,
			"admin_notes":      tx.AdminNotes,
			"processed_by_id":  tx.ProcessedByID,
			"processed_at":     tx.ProcessedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition withdrawal: %s", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// Tasks

func (db *PostgresDB) CreateTask(task *models.Task) error {
	if err := db.Conn.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %s", err)
	}

	return nil
}

func (db *PostgresDB) SaveTask(task *models.Task) error {
	if err := db.Conn.Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %s", err)
	}

	return nil
}

func (db *PostgresDB) DeleteTask(id uint) error {
	result := db.Conn.Delete(&models.Task{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %s", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (db *PostgresDB) GetTaskByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := db.Conn.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %s", err)
	}

	return &task, nil
}

func (db *PostgresDB) ListActiveTasks() ([]*models.Task, error) {
	var tasks []*models.Task
	if err := db.Conn.Where("is_active = ?", true).
		Order("priority DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %s", err)
	}

	return tasks, nil
}

func (db *PostgresDB) ListTasksByType(taskType string) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := db.Conn.Where("type = ? AND is_active = ?", taskType, true).
		Order("priority DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks by type: %s", err)
	}

	return tasks, nil
}

func (db *PostgresDB) CreateTaskCompletion(completion *models.TaskCompletion) error {
	if err := db.Conn.Create(completion).Error; err != nil {
		return fmt.Errorf("failed to create task completion: %s", err)
	}

	return nil
}

func (db *PostgresDB) GetVerifiedCompletion(userID, taskID uint) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	if err := db.Conn.Where("user_id = ? AND task_id = ? AND status = ?", userID, taskID, models.CompletionVerified).
		First(&completion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task completion: %s", err)
	}

	return &completion, nil
}

func (db *PostgresDB) ListCompletions(userID uint) ([]*models.TaskCompletion, error) {
	var completions []*models.TaskCompletion
	if err := db.Conn.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("failed to list task completions: %s", err)
	}

	return completions, nil
}

func (db *PostgresDB) IncrementTaskCompletions(taskID uint) error {
	result := db.Conn.Model(&models.Task{}).Where("id = ?", taskID).
		Update("current_completions", gorm.Expr("current_completions + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to update task completion count: %s", result.Error)
	}

	return nil
}

func (db *PostgresDB) DeactivateExpiredTasks(now time.Time) (int64, error) {
	result := db.Conn.Model(&models.Task{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, now).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate expired tasks: %s", result.Error)
	}

	return result.RowsAffected, nil
}

// Leaderboards

func (db *PostgresDB) TopUsersByBalance(limit int) ([]*models.User, error) {
	var users []*models.User
	if err := db.Conn.Where("is_active = ? AND is_banned = ?", true, false).
		Order("balance DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get top users by balance: %s", err)
	}

	return users, nil
}

func (db *PostgresDB) TopUsersByLevel(limit int) ([]*models.User, error) {
	var users []*models.User
	if err := db.Conn.Where("is_active = ? AND is_banned = ?", true, false).
		Order("level DESC, xp DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get top users by level: %s", err)
	}

	return users, nil
}

func (db *PostgresDB) TopReferrers(limit int) ([]*models.ReferrerStats, error) {
	var stats []*models.ReferrerStats
	if err := db.Conn.Table("users").
		Select(`users.id AS user_id, users.username, users.first_name,
			SUM(CASE WHEN referrals.level = 1 THEN 1 ELSE 0 END) AS direct_count,
			SUM(CASE WHEN referrals.level = 2 THEN 1 ELSE 0 END) AS indirect_count,
			COUNT(referrals.id) AS total_count`).
		Joins("JOIN referrals ON referrals.referrer_id = users.id").
		Where("users.is_active = ? AND users.is_banned = ?", true, false).
		Group("users.id, users.username, users.first_name").
		Order("total_count DESC, direct_count DESC").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get top referrers: %s", err)
	}

	return stats, nil
}

func (db *PostgresDB) CountUsersWithHigherBalance(balance int64) (int64, error) {
	var count int64
	if err := db.Conn.Model(&models.User{}).
		Where("is_active = ? AND is_banned = ? AND balance > ?", true, false, balance).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by balance: %s", err)
	}

	return count, nil
}

func (db *PostgresDB) CountUsersRankedAbove(level int, xp int64) (int64, error) {
	var count int64
	if err := db.Conn.Model(&models.User{}).
		Where("is_active = ? AND is_banned = ? AND (level > ? OR (level = ? AND xp > ?))", true, false, level, level, xp).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by level: %s", err)
	}

	return count, nil
}

// Locks

func (db *PostgresDB) AcquireLock(name, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()
	lock := models.JobLock{
		LockName:   name,
		InstanceID: instanceID,
		AcquiredAt: now.Unix(),
		ExpiresAt:  now.Add(ttl).Unix(),
	}

	if err := db.Conn.Create(&lock).Error; err == nil {
		return true, nil
	}

	// Lock row exists: take it over only if expired or already ours.
	result := db.Conn.Model(&models.JobLock{}).
		Where("lock_name = ? AND (expires_at <= ? OR instance_id = ?)", name, now.Unix(), instanceID).
		Updates(map[string]interface{}{
			"instance_id": instanceID,
			"acquired_at": lock.AcquiredAt,
			"expires_at":  lock.ExpiresAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to acquire lock: %s", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (db *PostgresDB) ReleaseLock(name, instanceID string) error {
	if err := db.Conn.Where("lock_name = ? AND instance_id = ?", name, instanceID).
		Delete(&models.JobLock{}).Error; err != nil {
		return fmt.Errorf("failed to release lock: %s", err)
	}

	return nil
}
