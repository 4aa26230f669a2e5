package hunt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onehunt/onehuntbot/internal/models"
)

func seedTask(t *testing.T, repo *fakeRepo, task *models.Task) *models.Task {
	t.Helper()
	if task.VerificationMethod == "" {
		task.VerificationMethod = models.VerificationAuto
	}
	if task.MaxCompletions == 0 {
		task.MaxCompletions = 1
	}
	task.IsActive = true
	require.NoError(t, repo.CreateTask(task))
	return task
}

func TestCompleteTask_AutoVerifiedPaysOut(t *testing.T) {
	h, repo := newTestHunt(t)
	user := repo.addUser(&models.User{TelegramID: 1, Username: "hunter"})
	task := seedTask(t, repo, &models.Task{Title: "Join channel", Type: "social", RewardCoins: 200, RewardXP: 20})

	completion, err := h.CompleteTask(user.ID, task.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.CompletionVerified, completion.Status)
	require.NotNil(t, completion.VerifiedAt)

	stored, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), stored.Balance)
	assert.Equal(t, int64(20), stored.XP)
	assert.Equal(t, 1, stored.TasksCompleted)

	storedTask, err := repo.GetTaskByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, storedTask.CurrentCompletions)
}

func TestCompleteTask_ManualStaysPending(t *testing.T) {
	h, repo := newTestHunt(t)
	user := repo.addUser(&models.User{TelegramID: 1, Username: "hunter"})
	task := seedTask(t, repo, &models.Task{
		Title:              "Post a review",
		Type:               "social",
		RewardCoins:        500,
		VerificationMethod: models.VerificationManual,
	})

	completion, err := h.CompleteTask(user.ID, task.ID, "https://example.com/proof")
	require.NoError(t, err)
	assert.Equal(t, models.CompletionPending, completion.Status)
	assert.Equal(t, "https://example.com/proof", completion.Proof)

	// No payout until the completion is verified.
	stored, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Balance)
}

func TestCompleteTask_RepeatRejected(t *testing.T) {
	h, repo := newTestHunt(t)
	user := repo.addUser(&models.User{TelegramID: 1, Username: "hunter"})
	task := seedTask(t, repo, &models.Task{Title: "Join channel", Type: "social", RewardCoins: 200})

	_, err := h.CompleteTask(user.ID, task.ID, "")
	require.NoError(t, err)

	_, err = h.CompleteTask(user.ID, task.ID, "")
	assert.ErrorIs(t, err, models.ErrTaskAlreadyCompleted)
}

func TestCompleteTask_RepeatableTask(t *testing.T) {
	h, repo := newTestHunt(t)
	user := repo.addUser(&models.User{TelegramID: 1, Username: "hunter"})
	task := seedTask(t, repo, &models.Task{Title: "Daily quiz", Type: "daily", RewardCoins: 10, MaxCompletions: 7})

	for i := 0; i < 3; i++ {
		_, err := h.CompleteTask(user.ID, task.ID, "")
		require.NoError(t, err)
	}

	stored, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), stored.Balance)
}

func TestCompleteTask_Unavailable(t *testing.T) {
	h, repo := newTestHunt(t)
	user := repo.addUser(&models.User{TelegramID: 1, Username: "hunter"})

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	inactive := seedTask(t, repo, &models.Task{Title: "Inactive", RewardCoins: 10})
	inactive.IsActive = false
	require.NoError(t, repo.SaveTask(inactive))

	ended := seedTask(t, repo, &models.Task{Title: "Ended", RewardCoins: 10, EndDate: &past})
	notStarted := seedTask(t, repo, &models.Task{Title: "Not started", RewardCoins: 10, StartDate: &future})
	capped := seedTask(t, repo, &models.Task{Title: "Capped", RewardCoins: 10, TotalCompletionsLimit: 1, CurrentCompletions: 1})

	for _, task := range []*models.Task{inactive, ended, notStarted, capped} {
		_, err := h.CompleteTask(user.ID, task.ID, "")
		assert.ErrorIs(t, err, models.ErrTaskUnavailable, "task %q", task.Title)
	}
}

func TestAvailableTasks_ExcludesCompletedOneShots(t *testing.T) {
	h, repo := newTestHunt(t)
	user := repo.addUser(&models.User{TelegramID: 1, Username: "hunter"})

	oneShot := seedTask(t, repo, &models.Task{Title: "One shot", RewardCoins: 10})
	seedTask(t, repo, &models.Task{Title: "Repeatable", RewardCoins: 10, MaxCompletions: 7})

	_, err := h.CompleteTask(user.ID, oneShot.ID, "")
	require.NoError(t, err)

	available, err := h.AvailableTasks(user.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Repeatable", available[0].Title)
}

func TestTaskCatalogAdmin(t *testing.T) {
	h, repo := newTestHunt(t)

	task := &models.Task{Title: "New task", Type: "social", RewardCoins: 50, MaxCompletions: 1, IsActive: true}
	require.NoError(t, h.CreateTask(task))
	require.NotZero(t, task.ID)

	task.Title = "Renamed task"
	require.NoError(t, h.UpdateTask(task))

	stored, err := h.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed task", stored.Title)

	require.NoError(t, h.DeleteTask(task.ID))
	_, err = repo.GetTaskByID(task.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
