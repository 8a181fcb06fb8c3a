package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	handler "taskboard/internal/handler/http"
	"taskboard/internal/repository"
	"taskboard/internal/repository/mocks"
	"taskboard/internal/service"
)

// setupTaskRouter 构造一个带认证上下文的测试路由。
// 认证中间件在测试里简化为直接注入 user_id。
func setupTaskRouter(t *testing.T, taskRepo *mocks.TaskRepository, enqueuer *mocks.AchievementEnqueuer, userID uint) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	taskService := service.NewTaskService(taskRepo, enqueuer)
	taskHandler := handler.NewTaskHandler(taskService)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.GET("/tasks", taskHandler.List)
	router.POST("/tasks", taskHandler.Create)
	router.GET("/delete/:id", taskHandler.Delete)
	return router
}

func TestTaskHandler_Create_Success(t *testing.T) {
	// Arrange
	mockTaskRepo := new(mocks.TaskRepository)
	mockEnqueuer := new(mocks.AchievementEnqueuer)
	router := setupTaskRouter(t, mockTaskRepo, mockEnqueuer, 1)

	mockTaskRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Task")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Task).ID = 3
		}).
		Return(nil).
		Once()
	mockEnqueuer.On("EnqueueAchievementEvaluation", mock.Anything, uint(1)).Return(nil).Once()

	form := url.Values{}
	form.Set("task-name", "Buy milk")
	form.Set("task-description", "2 liters")
	form.Set("due-date", "2024-01-15")

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Task created")

	mockTaskRepo.AssertExpectations(t)
	mockEnqueuer.AssertExpectations(t)
}

func TestTaskHandler_Create_MissingName(t *testing.T) {
	// Arrange: task-name 是必填字段，缺失时绑定失败
	mockTaskRepo := new(mocks.TaskRepository)
	mockEnqueuer := new(mocks.AchievementEnqueuer)
	router := setupTaskRouter(t, mockTaskRepo, mockEnqueuer, 1)

	form := url.Values{}
	form.Set("due-date", "2024-01-15")

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTaskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskHandler_Delete_NotFound(t *testing.T) {
	// Arrange: 删除别人的任务与删除不存在的任务统一返回 404
	mockTaskRepo := new(mocks.TaskRepository)
	mockEnqueuer := new(mocks.AchievementEnqueuer)
	router := setupTaskRouter(t, mockTaskRepo, mockEnqueuer, 1)

	mockTaskRepo.On("Delete", mock.Anything, uint(99), uint(1)).
		Return(repository.ErrTaskNotFound).
		Once()

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/delete/99", nil)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	mockEnqueuer.AssertNotCalled(t, "EnqueueAchievementEvaluation", mock.Anything, mock.Anything)
}

func TestTaskHandler_Delete_InvalidIDParam(t *testing.T) {
	// Arrange
	mockTaskRepo := new(mocks.TaskRepository)
	mockEnqueuer := new(mocks.AchievementEnqueuer)
	router := setupTaskRouter(t, mockTaskRepo, mockEnqueuer, 1)

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/delete/abc", nil)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTaskRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_List_OnlyOwnTasks(t *testing.T) {
	// Arrange: 列表查询必须按当前用户过滤
	mockTaskRepo := new(mocks.TaskRepository)
	mockEnqueuer := new(mocks.AchievementEnqueuer)
	router := setupTaskRouter(t, mockTaskRepo, mockEnqueuer, 42)

	owned := []domain.Task{{ID: 1, UserID: 42, Name: "Buy milk"}}
	mockTaskRepo.On("FindByOwner", mock.Anything, uint(42)).Return(owned, nil).Once()

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Buy milk")
	mockTaskRepo.AssertExpectations(t)
}
