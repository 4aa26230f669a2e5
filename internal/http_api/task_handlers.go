package http_api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/onehunt/onehuntbot/internal/models"
)

// CompleteTaskRequest is the JSON body for a task completion attempt.
type CompleteTaskRequest struct {
	Proof string `json:"proof"`
}

// TaskRequest is the JSON body for creating or updating a task.
type TaskRequest struct {
	Title                 string     `json:"title" binding:"required"`
	Description           string     `json:"description"`
	Type                  string     `json:"type" binding:"required"`
	Category              string     `json:"category"`
	RewardCoins           int64      `json:"rewardCoins" binding:"required,min=1"`
	RewardXP              int64      `json:"rewardXp"`
	RequirementAction     string     `json:"requirementAction"`
	RequirementLink       string     `json:"requirementLink"`
	VerificationMethod    string     `json:"verificationMethod"`
	Difficulty            string     `json:"difficulty"`
	MaxCompletions        int        `json:"maxCompletions"`
	TotalCompletionsLimit int        `json:"totalCompletionsLimit"`
	StartDate             *time.Time `json:"startDate"`
	EndDate               *time.Time `json:"endDate"`
	IsActive              *bool      `json:"isActive"`
	IsFeatured            bool       `json:"isFeatured"`
	Icon                  string     `json:"icon"`
	Priority              int        `json:"priority"`
}

func (r *TaskRequest) toTask() *models.Task {
	task := &models.Task{
		Title:                 r.Title,
		Description:           r.Description,
		Type:                  r.Type,
		Category:              r.Category,
		RewardCoins:           r.RewardCoins,
		RewardXP:              r.RewardXP,
		RequirementAction:     r.RequirementAction,
		RequirementLink:       r.RequirementLink,
		VerificationMethod:    r.VerificationMethod,
		Difficulty:            r.Difficulty,
		MaxCompletions:        r.MaxCompletions,
		TotalCompletionsLimit: r.TotalCompletionsLimit,
		StartDate:             r.StartDate,
		EndDate:               r.EndDate,
		IsActive:              true,
		IsFeatured:            r.IsFeatured,
		Icon:                  r.Icon,
		Priority:              r.Priority,
	}
	if r.IsActive != nil {
		task.IsActive = *r.IsActive
	}
	if task.VerificationMethod == "" {
		task.VerificationMethod = models.VerificationAuto
	}
	if task.MaxCompletions < 1 {
		task.MaxCompletions = 1
	}
	return task
}

func (s *HTTPServer) listTasks(c *gin.Context) {
	tasks, err := s.hunt.ListTasks()
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", tasks)
}

func (s *HTTPServer) taskByID(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task, err := s.hunt.GetTask(id)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", task)
}

func (s *HTTPServer) tasksByType(c *gin.Context) {
	tasks, err := s.hunt.ListTasksByType(c.Param("type"))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", tasks)
}

func (s *HTTPServer) availableTasks(c *gin.Context) {
	tasks, err := s.hunt.AvailableTasks(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", tasks)
}

func (s *HTTPServer) completedTasks(c *gin.Context) {
	completions, err := s.hunt.CompletedTasks(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", completions)
}

func (s *HTTPServer) completeTask(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	completion, err := s.hunt.CompleteTask(s.userID(c), id, req.Proof)
	if err != nil {
		s.failErr(c, err)
		return
	}

	message := "Task completed"
	if completion.Status == models.CompletionPending {
		message = "Task submitted for verification"
	}
	respond(c, http.StatusOK, message, completion)
}

func (s *HTTPServer) createTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	task := req.toTask()
	if err := s.hunt.CreateTask(task); err != nil {
		s.failErr(c, err)
		return
	}

	s.logger.Infow("Task created", "task", task.ID, "title", task.Title)
	respond(c, http.StatusCreated, "Task created", task)
}

func (s *HTTPServer) updateTask(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	existing, err := s.hunt.GetTask(id)
	if err != nil {
		s.failErr(c, err)
		return
	}

	task := req.toTask()
	task.ID = existing.ID
	task.CurrentCompletions = existing.CurrentCompletions
	task.CreatedAt = existing.CreatedAt
	if err := s.hunt.UpdateTask(task); err != nil {
		s.failErr(c, err)
		return
	}

	respond(c, http.StatusOK, "Task updated", task)
}

func (s *HTTPServer) deleteTask(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := s.hunt.DeleteTask(id); err != nil {
		s.failErr(c, err)
		return
	}

	s.logger.Infow("Task deleted", "task", id)
	respond(c, http.StatusOK, "Task deleted", nil)
}
