package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

// AchievementHandler 封装了成就相关的 HTTP 处理逻辑
type AchievementHandler struct {
	achievementService *service.AchievementService
}

// NewAchievementHandler 创建 AchievementHandler 实例
func NewAchievementHandler(achievementService *service.AchievementService) *AchievementHandler {
	if achievementService == nil {
		panic("AchievementService cannot be nil for AchievementHandler")
	}
	return &AchievementHandler{achievementService: achievementService}
}

// Evaluate 处理 GET /achievements。
// 访问成就页即触发一次评估，然后返回带解锁状态的完整目录。
func (h *AchievementHandler) Evaluate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	events, err := h.achievementService.Evaluate(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	catalog, err := h.achievementService.Catalog(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	if len(events) > 0 {
		logrus.WithFields(logrus.Fields{"user_id": userID, "new_unlocks": len(events)}).
			Info("Handler.Achievements: New achievements unlocked")
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"achievements":   catalog,
		"newly_unlocked": events,
	})
}
