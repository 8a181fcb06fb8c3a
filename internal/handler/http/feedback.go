package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

// FeedbackHandler 封装了用户反馈相关的 HTTP 处理逻辑
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler 创建 FeedbackHandler 实例
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	if feedbackService == nil {
		panic("FeedbackService cannot be nil for FeedbackHandler")
	}
	return &FeedbackHandler{feedbackService: feedbackService}
}

// FeedbackRequest 定义反馈提交的表单字段
type FeedbackRequest struct {
	Feedback string `json:"feedback" form:"feedback" binding:"required"`
}

// Show 处理 GET /feedback
func (h *FeedbackHandler) Show(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Submit your feedback via POST"})
}

// Submit 处理 POST /feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Feedback: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: feedback text required"})
		return
	}

	if _, err := h.feedbackService.Submit(c.Request.Context(), userID, req.Feedback); err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithField("user_id", userID).Info("Handler.Feedback: Feedback submitted")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Thank you for your feedback!"})
}
