package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/flowtask/flowtask-api/internal/dto"
	apierrors "github.com/flowtask/flowtask-api/internal/errors"
	"github.com/flowtask/flowtask-api/internal/middleware"
	"github.com/flowtask/flowtask-api/internal/models"
	"github.com/flowtask/flowtask-api/internal/services"
	"github.com/flowtask/flowtask-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// TaskRequest is the request body for creating and fully replacing a
// task. There is no created_by field: the creator always comes from the
// authenticated caller and any such key in the payload is ignored.
type TaskRequest struct {
	Title          string            `json:"title" binding:"required"`
	Description    string            `json:"description"`
	Status         models.TaskStatus `json:"status" binding:"required"`
	Deadline       *time.Time        `json:"deadline"`
	AssignedUserID *uint64           `json:"assigned_user_id"`
	AttachmentURL  string            `json:"attachment_url"`
}

func (r TaskRequest) toInput() services.TaskInput {
	return services.TaskInput{
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		Deadline:       r.Deadline,
		AssignedUserID: r.AssignedUserID,
		AttachmentURL:  r.AttachmentURL,
	}
}

// CreateTask creates a new task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(req.toInput(), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns tasks, optionally filtered by status and assignee.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPageParams(c)

	input := services.ListTasksInput{
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}
	if assignedStr := c.Query("assigned_to"); assignedStr != "" {
		assignedTo, err := strconv.ParseUint(assignedStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return
		}
		input.AssignedUserID = &assignedTo
	}

	tasks, total, err := h.taskService.List(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Offset, params.Limit, total))
}

// GetTask returns a single task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask fully replaces the mutable fields of a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(taskID, req.toInput(), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task and its dependent rows.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateComment attaches a comment to a task.
func (h *TaskHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	type CommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.taskService.AddComment(taskID, userID, req.Content)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns a task's comments, newest first.
func (h *TaskHandler) ListComments(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	params := utils.GetPageParams(c)

	comments, err := h.taskService.ListComments(taskID, params.Offset, params.Limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

// ListHistory returns a task's audit log, newest first.
func (h *TaskHandler) ListHistory(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	params := utils.GetPageParams(c)

	entries, err := h.taskService.ListHistory(taskID, params.Offset, params.Limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskHistoryDTOs(entries))
}

// taskIDParam parses the :id path parameter, responding 400 on failure.
func taskIDParam(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

// respondTaskError maps task service errors to HTTP responses.
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrContentRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
