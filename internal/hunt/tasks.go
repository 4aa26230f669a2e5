package hunt

import (
	"errors"
	"time"

	"github.com/onehunt/onehuntbot/internal/models"
)

func (h *Hunt) ListTasks() ([]*models.Task, error) {
	return h.repo.ListActiveTasks()
}

func (h *Hunt) GetTask(id uint) (*models.Task, error) {
	return h.repo.GetTaskByID(id)
}

func (h *Hunt) ListTasksByType(taskType string) ([]*models.Task, error) {
	return h.repo.ListTasksByType(taskType)
}

// AvailableTasks lists active tasks the user can still complete.
func (h *Hunt) AvailableTasks(userID uint) ([]*models.Task, error) {
	tasks, err := h.repo.ListActiveTasks()
	if err != nil {
		return nil, err
	}

	completions, err := h.repo.ListCompletions(userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(completions))
	for _, c := range completions {
		if c.Status == models.CompletionVerified {
			completed[c.TaskID] = true
		}
	}

	available := make([]*models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.MaxCompletions == 1 && completed[task.ID] {
			continue
		}
		available = append(available, task)
	}

	return available, nil
}

func (h *Hunt) CompletedTasks(userID uint) ([]*models.TaskCompletion, error) {
	return h.repo.ListCompletions(userID)
}

// CompleteTask verifies eligibility and records a completion. Auto-verified
// tasks pay out immediately; manual ones stay pending for review.
func (h *Hunt) CompleteTask(userID, taskID uint, proof string) (*models.TaskCompletion, error) {
	task, err := h.repo.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !h.taskOpen(task, now) {
		return nil, models.ErrTaskUnavailable
	}

	if task.MaxCompletions == 1 {
		_, err := h.repo.GetVerifiedCompletion(userID, taskID)
		if err == nil {
			return nil, models.ErrTaskAlreadyCompleted
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	completion := &models.TaskCompletion{
		UserID:      userID,
		TaskID:      taskID,
		Status:      models.CompletionPending,
		Proof:       proof,
		RewardCoins: task.RewardCoins,
		RewardXP:    task.RewardXP,
		CompletedAt: now,
	}

	if task.VerificationMethod == models.VerificationAuto || task.VerificationMethod == "" {
		completion.Status = models.CompletionVerified
		completion.VerifiedAt = &now

		if err := h.credit(userID, task.RewardCoins); err != nil {
			return nil, err
		}
		if err := h.grantXP(userID, task.RewardXP); err != nil {
			h.logger.Errorw("Failed to grant task XP", "user", userID, "task", taskID, "error", err)
		}
		if err := h.repo.CreateReward(&models.Reward{
			UserID:        userID,
			Type:          models.RewardTaskCompletion,
			Amount:        task.RewardCoins,
			XP:            task.RewardXP,
			Description:   "Task completed: " + task.Title,
			RelatedTaskID: &task.ID,
		}); err != nil {
			h.logger.Errorw("Failed to record task reward", "user", userID, "task", taskID, "error", err)
		}
		if err := h.repo.IncrementTasksCompleted(userID); err != nil {
			h.logger.Errorw("Failed to bump tasks completed", "user", userID, "error", err)
		}
		if err := h.repo.IncrementTaskCompletions(taskID); err != nil {
			h.logger.Errorw("Failed to bump task completion count", "task", taskID, "error", err)
		}
	}

	if err := h.repo.CreateTaskCompletion(completion); err != nil {
		return nil, err
	}

	return completion, nil
}

func (h *Hunt) taskOpen(task *models.Task, now time.Time) bool {
	if !task.IsActive {
		return false
	}
	if task.StartDate != nil && now.Before(*task.StartDate) {
		return false
	}
	if task.EndDate != nil && now.After(*task.EndDate) {
		return false
	}
	if task.TotalCompletionsLimit > 0 && task.CurrentCompletions >= task.TotalCompletionsLimit {
		return false
	}
	return true
}

// Admin task catalog management

func (h *Hunt) CreateTask(task *models.Task) error {
	return h.repo.CreateTask(task)
}

func (h *Hunt) UpdateTask(task *models.Task) error {
	return h.repo.SaveTask(task)
}

func (h *Hunt) DeleteTask(id uint) error {
	return h.repo.DeleteTask(id)
}
