package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

// TaskHandler 封装了任务 CRUD 相关的 HTTP 处理逻辑
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler 创建 TaskHandler 实例
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	if taskService == nil {
		panic("TaskService cannot be nil for TaskHandler")
	}
	return &TaskHandler{taskService: taskService}
}

// TaskRequest 定义创建/编辑任务的表单字段。
// 字段名沿用页面表单：task-name / task-description / due-date (YYYY-MM-DD)。
type TaskRequest struct {
	Name        string `json:"task-name" form:"task-name" binding:"required"`
	Description string `json:"task-description" form:"task-description"`
	DueDate     string `json:"due-date" form:"due-date" binding:"required"`
}

// List 处理 GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"tasks": tasks})
}

// Create 处理 POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateTask: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), userID, req.Name, req.Description, req.DueDate)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "task_id": task.ID}).Info("Handler.CreateTask: Task created")
	SuccessResponse(c, http.StatusCreated, gin.H{"message": "Task created", "task": task})
}

// Detail 处理 GET /task_information/:id
func (h *TaskHandler) Detail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"task": task})
}

// Update 处理 POST /task_information/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateTask: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), userID, taskID, req.Name, req.Description, req.DueDate)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).Info("Handler.UpdateTask: Task updated")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Task updated", "task": task})
}

// Delete 处理 GET /delete/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), userID, taskID); err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).Info("Handler.DeleteTask: Task deleted")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Task deleted"})
}

// parseIDParam 解析 URL 中的 :id 参数
func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id64, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		logrus.Warnf("Handler: Invalid id parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id64), true
}
