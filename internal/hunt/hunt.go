package hunt

import (
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/onehunt/onehuntbot/internal/config"
	"github.com/onehunt/onehuntbot/internal/models"
	"github.com/onehunt/onehuntbot/pkg/logger"
)

const (
	// maintenanceLockTTL is the lease on the scheduled-job locks; a crashed
	// instance frees them after this long.
	maintenanceLockTTL = time.Hour

	dailyLockName  = "daily_maintenance"
	weeklyLockName = "weekly_maintenance"
)

// Hunt is the main application service: it owns the account ledger, the
// reward issuer, the referral propagator and the withdrawal workflow.
type Hunt struct {
	logger  *logger.Logger
	economy config.Economy

	repo  models.Repository
	cache *redis.Client

	miniAppURL string
	instanceID string
	cron       *cron.Cron
}

// NewHunt creates a new Hunt service instance. cache may be nil; leaderboard
// responses are then served from the store on every request.
func NewHunt(
	repo models.Repository,
	cache *redis.Client,
	logger *logger.Logger,
	cfg *config.Config,
) models.HuntI {
	return &Hunt{
		repo:       repo,
		cache:      cache,
		logger:     logger,
		economy:    cfg.Economy,
		miniAppURL: cfg.MiniAppURL,
		instanceID: uuid.NewString(),
	}
}

// Start launches the scheduled maintenance jobs. No job performs ledger
// work: the jobs expire outdated tasks and keep leaderboard caches warm.
func (h *Hunt) Start() {
	h.cron = cron.New()

	// Daily reset at midnight
	if _, err := h.cron.AddFunc("0 0 * * *", h.runDailyMaintenance); err != nil {
		h.logger.Errorw("Failed to schedule daily maintenance", "error", err)
	}
	// Weekly leaderboard refresh
	if _, err := h.cron.AddFunc("0 0 * * 0", h.runWeeklyMaintenance); err != nil {
		h.logger.Errorw("Failed to schedule weekly maintenance", "error", err)
	}

	h.cron.Start()
	h.logger.Infow("Scheduled jobs started", "instance", h.instanceID)
}

// Stop halts the scheduled jobs.
func (h *Hunt) Stop() {
	if h.cron != nil {
		h.cron.Stop()
	}
}

func (h *Hunt) runDailyMaintenance() {
	acquired, err := h.repo.AcquireLock(dailyLockName, h.instanceID, maintenanceLockTTL)
	if err != nil {
		h.logger.Errorw("Failed to acquire daily maintenance lock", "error", err)
		return
	}
	if !acquired {
		h.logger.Debug("Daily maintenance already running on another instance")
		return
	}
	defer func() {
		if err := h.repo.ReleaseLock(dailyLockName, h.instanceID); err != nil {
			h.logger.Errorw("Failed to release daily maintenance lock", "error", err)
		}
	}()

	h.logger.Info("Running daily maintenance")

	expired, err := h.repo.DeactivateExpiredTasks(time.Now())
	if err != nil {
		h.logger.Errorw("Failed to deactivate expired tasks", "error", err)
	} else if expired > 0 {
		h.logger.Infow("Deactivated expired tasks", "count", expired)
	}

	h.warmLeaderboardCaches()
}

func (h *Hunt) runWeeklyMaintenance() {
	acquired, err := h.repo.AcquireLock(weeklyLockName, h.instanceID, maintenanceLockTTL)
	if err != nil {
		h.logger.Errorw("Failed to acquire weekly maintenance lock", "error", err)
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := h.repo.ReleaseLock(weeklyLockName, h.instanceID); err != nil {
			h.logger.Errorw("Failed to release weekly maintenance lock", "error", err)
		}
	}()

	h.logger.Info("Running weekly leaderboard refresh")
	h.invalidateLeaderboardCaches()
	h.warmLeaderboardCaches()
}
