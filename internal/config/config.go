package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Economy holds the reward and withdrawal constants. It is built once at
// startup and passed into the service at construction, read-only afterwards.
type Economy struct {
	// DailyBaseReward is the coin reward for a daily login claim.
	DailyBaseReward int64
	// DailyStreakBonusUnit is the extra coins granted per completed 7-day streak block.
	DailyStreakBonusUnit int64
	// DailyRewardXP is the XP granted with every daily claim.
	DailyRewardXP int64
	// DirectReferralBonus is the coin bonus for the immediate referrer.
	DirectReferralBonus int64
	// IndirectReferralBonus is the coin bonus for the referrer's referrer.
	IndirectReferralBonus int64
	// WithdrawalFeePercent is the fee charged on withdrawal requests, in percent.
	WithdrawalFeePercent int64
	// MinWithdrawal is the minimum withdrawal amount in coins.
	MinWithdrawal int64
	// SpinWheelPayouts is the discrete payout table for the reward wheel.
	SpinWheelPayouts []int64
}

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// Redis configuration (leaderboard cache)
	RedisHost     string
	RedisPort     int
	RedisPassword string

	// Auth configuration
	JWTSecret string
	JWTExpire time.Duration

	// Telegram configuration
	TelegramBotToken string
	MiniAppURL       string

	// Economy configuration
	Economy Economy
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		APIPort:          getEnvAsInt("API_PORT", 3000),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "onehunt"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnvAsInt("REDIS_PORT", 6379),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpire:        getEnvAsDuration("JWT_EXPIRE", 7*24*time.Hour),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		MiniAppURL:       getEnv("MINI_APP_URL", ""),
		Economy: Economy{
			DailyBaseReward:       getEnvAsInt64("DAILY_LOGIN_REWARD", 10),
			DailyStreakBonusUnit:  getEnvAsInt64("DAILY_STREAK_BONUS_UNIT", 5),
			DailyRewardXP:         getEnvAsInt64("DAILY_LOGIN_XP", 5),
			DirectReferralBonus:   getEnvAsInt64("REFERRAL_REWARD_DIRECT", 100),
			IndirectReferralBonus: getEnvAsInt64("REFERRAL_REWARD_INDIRECT", 50),
			WithdrawalFeePercent:  getEnvAsInt64("WITHDRAWAL_FEE_PERCENT", 2),
			MinWithdrawal:         getEnvAsInt64("MIN_WITHDRAWAL_AMOUNT", 100),
			SpinWheelPayouts:      getEnvAsInt64List("SPIN_WHEEL_PAYOUTS", []int64{5, 10, 15, 20, 25, 50, 75, 100}),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	if c.Economy.WithdrawalFeePercent < 0 || c.Economy.WithdrawalFeePercent > 100 {
		return fmt.Errorf("WITHDRAWAL_FEE_PERCENT must be between 0 and 100")
	}

	if c.Economy.MinWithdrawal <= 0 {
		return fmt.Errorf("MIN_WITHDRAWAL_AMOUNT must be positive")
	}

	if len(c.Economy.SpinWheelPayouts) == 0 {
		return fmt.Errorf("SPIN_WHEEL_PAYOUTS must not be empty")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt64(name string, defaultValue int64) int64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt64List(name string, defaultValue []int64) []int64 {
	valueStr, exists := os.LookupEnv(name)
	if !exists {
		return defaultValue
	}
	var values []int64
	for _, part := range strings.Split(valueStr, ",") {
		value, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return defaultValue
		}
		values = append(values, value)
	}
	return values
}
