package service_test // 测试包

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/repository/mocks" // 导入 Mock 实现
	"taskboard/internal/service"          // 导入被测试的包

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newAuthService 构造带 Mock 依赖的 AuthService，测试的公共前置
func newAuthService(t *testing.T, userRepo *mocks.UserRepository, sessionRepo *mocks.SessionRepository) *service.AuthService {
	t.Helper()
	authService, err := service.NewAuthService(userRepo, sessionRepo, "very-secret-key", 1)
	require.NoError(t, err, "创建 AuthService 不应失败")
	return authService
}

// --- 测试 Register 方法 ---

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange: 准备 Mock 对象, Service 实例, 和测试数据
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)

	ctx := context.Background()
	username := "newbie"
	email := "newbie@example.com"
	password := "StrongPass123"

	// 设置 Mock 预期:
	// 1. 当 FindByUsername 被调用时，模拟用户不存在
	mockUserRepo.On("FindByUsername", ctx, username).
		Return(nil, repository.ErrUserNotFound).
		Once()

	// 2. 当 Save 被调用时，模拟保存成功，并填充 ID
	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		assert.Equal(t, username, user.Username)
		assert.Equal(t, email, user.Email)
		// 验证密码已哈希且可以校验通过
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)), "密码应被正确哈希")
		return true
	})).
		Run(func(args mock.Arguments) { // 模拟数据库填充字段
			userArg := args.Get(1).(*domain.User)
			userArg.ID = 5
			userArg.CreatedAt = time.Now().Add(-time.Second)
			userArg.UpdatedAt = time.Now().Add(-time.Second)
		}).
		Return(nil).
		Once()

	// Act: 执行被测试的 Register 方法
	registeredUser, err := authService.Register(ctx, username, email, password)

	// Assert: 验证 Register 的结果
	assert.NoError(t, err, "成功注册时不应有错误")
	require.NotNil(t, registeredUser, "成功注册时应返回用户对象")
	assert.Equal(t, uint(5), registeredUser.ID)
	assert.Equal(t, username, registeredUser.Username)
	assert.Equal(t, email, registeredUser.Email)
	assert.Empty(t, registeredUser.PasswordHash, "返回的用户不应携带密码哈希")

	// Verify: 确保 Mock 的所有预期都被满足
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()
	username := "existingUser"

	// 设置 Mock 预期: FindByUsername 找到一个已存在的用户
	existingUser := &domain.User{ID: 10, Username: username}
	mockUserRepo.On("FindByUsername", ctx, username).Return(existingUser, nil).Once()

	// Act
	_, err := authService.Register(ctx, username, "email@test.com", "password")

	// Assert
	require.Error(t, err, "用户名已存在时应返回错误")
	assert.True(t, errors.Is(err, service.ErrDuplicateUsername), "错误类型应为 ErrDuplicateUsername")

	// Verify: 第一个用户不受影响，Save 不应被调用
	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_SaveFails_DuplicateEntry(t *testing.T) {
	// Arrange: 查重和插入之间的竞争窗口由唯一约束兜底
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()
	username := "anotherNewUser"

	mockUserRepo.On("FindByUsername", ctx, username).Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	// Act
	_, err := authService.Register(ctx, username, "email2@test.com", "password")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrDuplicateUsername), "保存冲突时应返回 ErrDuplicateUsername")

	mockUserRepo.AssertExpectations(t)
}

// --- 测试 Login 方法 ---

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()
	username := "testuser"
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: username, PasswordHash: string(hashedPassword)}

	// 设置 Mock 预期: 找到用户，会话写入成功
	mockUserRepo.On("FindByUsername", ctx, username).Return(userInDb, nil).Once()
	mockSessionRepo.On("Put", ctx, mock.AnythingOfType("string"), uint(1), mock.AnythingOfType("time.Duration")).
		Return(nil).
		Once()

	// Act
	token, err := authService.Login(ctx, username, password)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	mockUserRepo.AssertExpectations(t)
	mockSessionRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()
	username := "nonexistent"

	mockUserRepo.On("FindByUsername", ctx, username).Return(nil, repository.ErrUserNotFound).Once()

	// Act
	token, err := authService.Login(ctx, username, "password")

	// Assert
	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))

	mockUserRepo.AssertExpectations(t)
	// 用户不存在时不应建立会话
	mockSessionRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()
	username := "testuser"
	correctPassword := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(correctPassword), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: username, PasswordHash: string(hashedPassword)}

	mockUserRepo.On("FindByUsername", ctx, username).Return(userInDb, nil).Once()

	// Act
	token, err := authService.Login(ctx, username, "wrongpassword")

	// Assert
	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))

	mockUserRepo.AssertExpectations(t)
	mockSessionRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- 测试会话解析与登出 ---

func TestAuthService_ResolveSession_RoundTrip(t *testing.T) {
	// Arrange: 登录拿到的令牌应能解析回同一个用户
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 42, Username: "roundtrip", PasswordHash: string(hashedPassword)}

	var capturedSessionID string
	mockUserRepo.On("FindByUsername", ctx, "roundtrip").Return(userInDb, nil).Once()
	mockSessionRepo.On("Put", ctx, mock.AnythingOfType("string"), uint(42), mock.AnythingOfType("time.Duration")).
		Run(func(args mock.Arguments) {
			capturedSessionID = args.Get(1).(string)
		}).
		Return(nil).
		Once()

	token, err := authService.Login(ctx, "roundtrip", password)
	require.NoError(t, err)

	// 会话记录仍然存在
	mockSessionRepo.On("Get", ctx, mock.AnythingOfType("string")).Return(uint(42), nil).Once()

	// Act
	userID, sessionID, err := authService.ResolveSession(ctx, token)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, capturedSessionID, sessionID, "令牌中的会话 ID 应与登录时写入的一致")

	mockSessionRepo.AssertExpectations(t)
}

func TestAuthService_ResolveSession_AfterLogout(t *testing.T) {
	// Arrange: 登出后的令牌即使签名有效也不再可用
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 7, Username: "leaver", PasswordHash: string(hashedPassword)}

	mockUserRepo.On("FindByUsername", ctx, "leaver").Return(userInDb, nil).Once()
	mockSessionRepo.On("Put", ctx, mock.AnythingOfType("string"), uint(7), mock.AnythingOfType("time.Duration")).Return(nil).Once()

	token, err := authService.Login(ctx, "leaver", password)
	require.NoError(t, err)

	// 模拟登出后会话记录已被删除
	mockSessionRepo.On("Get", ctx, mock.AnythingOfType("string")).Return(uint(0), repository.ErrSessionNotFound).Once()

	// Act
	_, _, err = authService.ResolveSession(ctx, token)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrSessionExpired))
}

func TestAuthService_ResolveSession_InvalidToken(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)

	// Act: 随便一个非法令牌
	_, _, err := authService.ResolveSession(context.Background(), "not-a-valid-token")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrSessionExpired))
	// 签名都没过，不应查询会话存储
	mockSessionRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	// Arrange: 重复登出同一会话同样成功
	mockUserRepo := new(mocks.UserRepository)
	mockSessionRepo := new(mocks.SessionRepository)
	authService := newAuthService(t, mockUserRepo, mockSessionRepo)
	ctx := context.Background()

	// Delete 对不存在的会话也返回 nil
	mockSessionRepo.On("Delete", ctx, "session-abc").Return(nil).Twice()

	// Act & Assert
	assert.NoError(t, authService.Logout(ctx, "session-abc"))
	assert.NoError(t, authService.Logout(ctx, "session-abc"))

	mockSessionRepo.AssertExpectations(t)
}
