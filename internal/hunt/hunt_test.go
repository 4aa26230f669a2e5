package hunt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onehunt/onehuntbot/internal/config"
	"github.com/onehunt/onehuntbot/internal/models"
	"github.com/onehunt/onehuntbot/pkg/logger"
)

func testEconomy() config.Economy {
	return config.Economy{
		DailyBaseReward:       10,
		DailyStreakBonusUnit:  5,
		DailyRewardXP:         5,
		DirectReferralBonus:   100,
		IndirectReferralBonus: 50,
		WithdrawalFeePercent:  2,
		MinWithdrawal:         100,
		SpinWheelPayouts:      []int64{5, 10, 15, 20, 25, 50, 75, 100},
	}
}

func newTestHunt(t *testing.T) (*Hunt, *fakeRepo) {
	t.Helper()

	log, err := logger.NewLogger(true)
	require.NoError(t, err)

	repo := newFakeRepo()
	cfg := &config.Config{
		Economy:    testEconomy(),
		MiniAppURL: "https://t.me/onehuntbot/app",
	}

	return NewHunt(repo, nil, log, cfg).(*Hunt), repo
}

func TestDailyMaintenance_DeactivatesExpiredTasks(t *testing.T) {
	h, repo := newTestHunt(t)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.CreateTask(&models.Task{Title: "Expired", IsActive: true, EndDate: &past}))
	require.NoError(t, repo.CreateTask(&models.Task{Title: "Open", IsActive: true}))

	h.runDailyMaintenance()

	active, err := repo.ListActiveTasks()
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Open", active[0].Title)
}

func TestDailyMaintenance_LockHeldElsewhere(t *testing.T) {
	h, repo := newTestHunt(t)

	acquired, err := repo.AcquireLock(dailyLockName, "other-instance", time.Hour)
	require.NoError(t, err)
	require.True(t, acquired)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.CreateTask(&models.Task{Title: "Expired", IsActive: true, EndDate: &past}))

	h.runDailyMaintenance()

	// The job yields, so the expired task stays active.
	active, err := repo.ListActiveTasks()
	require.NoError(t, err)
	require.Len(t, active, 1)
}
