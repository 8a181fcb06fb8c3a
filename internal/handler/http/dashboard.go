package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

// DashboardHandler 聚合当前用户的任务、成就目录和通知，供首页展示。
type DashboardHandler struct {
	taskService         *service.TaskService
	achievementService  *service.AchievementService
	notificationService *service.NotificationService
}

// NewDashboardHandler 创建 DashboardHandler 实例
func NewDashboardHandler(taskService *service.TaskService, achievementService *service.AchievementService, notificationService *service.NotificationService) *DashboardHandler {
	if taskService == nil {
		panic("TaskService cannot be nil for DashboardHandler")
	}
	if achievementService == nil {
		panic("AchievementService cannot be nil for DashboardHandler")
	}
	if notificationService == nil {
		panic("NotificationService cannot be nil for DashboardHandler")
	}
	return &DashboardHandler{
		taskService:         taskService,
		achievementService:  achievementService,
		notificationService: notificationService,
	}
}

// Show 处理 GET /
func (h *DashboardHandler) Show(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	tasks, err := h.taskService.List(ctx, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	achievements, err := h.achievementService.Catalog(ctx, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	notifications, err := h.notificationService.List(ctx, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"tasks":         tasks,
		"achievements":  achievements,
		"notifications": notifications,
	})
}
