package delivery

import (
	"errors"
	"net/http"

	"dayboard-backend/internal/task/domain"
	"dayboard-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// GetTasks returns all tasks for the authenticated user
// GET /tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	ownerID := c.GetString("userID")

	tasks, err := h.taskUsecase.List(ownerID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask creates a new task
// POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID := c.GetString("userID")

	var req usecase.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.taskUsecase.Create(ownerID, req)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

type updateTaskBody struct {
	ID string `json:"id"`
	usecase.UpdateTaskRequest
}

// UpdateTask updates an existing task, owner-scoped
// PUT /tasks
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID := c.GetString("userID")

	var body updateTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: id", "field": "id"})
		return
	}

	task, err := h.taskUsecase.Update(ownerID, body.ID, body.UpdateTaskRequest)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask deletes a task, owner-scoped
// DELETE /tasks?id=...
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID := c.GetString("userID")

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: id", "field": "id"})
		return
	}

	if err := h.taskUsecase.Delete(ownerID, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondTaskError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process task"})
}
