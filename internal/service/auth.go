package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 负责用户注册、登录和会话管理的业务逻辑。
// 会话令牌是签名的 JWT，其中 jti 是写入 Redis 的会话 ID：
// 签名保证令牌未被篡改，Redis 记录的存在保证会话未被登出、未过期。
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtSecret   []byte        // 存储密钥的字节形式
	sessionTTL  time.Duration // 会话生存时间，同时作为 JWT 过期时间和 Redis TTL
}

// NewAuthService 创建 AuthService 实例。
// jwtSecretKey 应从安全配置中获取。
// sessionTTLHours 定义会话过期的小时数。
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, jwtSecretKey string, sessionTTLHours int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if sessionRepo == nil {
		panic("SessionRepository cannot be nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if sessionTTLHours <= 0 {
		sessionTTLHours = 24 // 默认 24 小时
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecretKey),
		sessionTTL:  time.Duration(sessionTTLHours) * time.Hour,
	}, nil
}

// Register 处理用户注册。
// 用户名重复（精确匹配，区分大小写）返回 ErrDuplicateUsername，
// 已存在的用户不受影响。
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	// 1. 基本验证
	if username == "" || password == "" || email == "" {
		return nil, ErrInvalidInput
	}

	// 2. 先查重：给调用方一个明确的业务错误，而不是裸的约束冲突
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		logCtx.Warn("Registration failed: Username already taken")
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking username availability")
		return nil, ErrInternalServer
	}

	// 3. 哈希密码
	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	// 4. 创建用户对象
	user := &domain.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Email:        email,
	}

	// 5. 保存用户 (调用 Repository 接口)
	err = s.userRepo.Save(ctx, user)
	if err != nil {
		// 唯一索引兜住了查重和插入之间的竞争窗口
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: Username already exists (repo error)")
			return nil, ErrDuplicateUsername
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.PasswordHash = "" // 清除密码哈希再返回
	return user, nil
}

// Login 处理用户登录。
// 成功时建立一个新会话并返回签名的会话令牌。
// 用户不存在和密码错误对客户端统一返回 ErrInvalidCredentials。
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	logCtx := logrus.WithField("username", username)

	// 1. 查找用户
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.WithError(err).Warn("Login attempt failed: User not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: Error finding user")
		}
		return "", ErrInvalidCredentials
	}
	// 防御性检查，以防仓库实现返回 nil, nil
	if user == nil {
		logCtx.Warn("Login attempt failed: User not found (repo returned nil user without error)")
		return "", ErrInvalidCredentials
	}

	// 2. 验证密码
	if !checkPassword(password, user) {
		logCtx.Warn("Login attempt failed: Invalid password")
		return "", ErrInvalidCredentials
	}

	// 3. 建立会话：先写 Redis，再签发令牌
	sessionID := uuid.NewString()
	if err := s.sessionRepo.Put(ctx, sessionID, user.ID, s.sessionTTL); err != nil {
		logCtx.WithError(err).Error("Failed to store session during login")
		return "", ErrInternalServer
	}

	token, err := s.generateSessionToken(user.ID, sessionID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate session token during login")
		return "", ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{"user_id": user.ID, "session_id": sessionID}).Info("User logged in successfully")
	return token, nil
}

// Logout 使指定会话失效。删除不存在的会话同样成功（幂等）。
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // 没有会话可登出
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to delete session during logout")
		return ErrInternalServer
	}
	logrus.WithField("session_id", sessionID).Info("Session invalidated")
	return nil
}

// ResolveSession 将会话令牌解析为已认证的用户身份。
// 先验证令牌签名和过期时间，再要求会话记录仍然存在于 Redis 中
// （登出会删除记录）。无效、过期或已登出统一返回 ErrSessionExpired。
func (s *AuthService) ResolveSession(ctx context.Context, tokenStr string) (uint, string, error) {
	claims, err := s.parseSessionToken(tokenStr)
	if err != nil {
		logrus.WithError(err).Debug("ResolveSession: Token validation failed")
		return 0, "", ErrSessionExpired
	}

	userID, sessionID, err := extractIdentity(claims)
	if err != nil {
		logrus.WithError(err).Warn("ResolveSession: Malformed claims in valid token")
		return 0, "", ErrSessionExpired
	}

	// 会话记录必须仍然存在，并且绑定的是同一个用户
	storedUserID, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			logrus.WithField("session_id", sessionID).Debug("ResolveSession: Session no longer active")
		} else {
			logrus.WithError(err).Error("ResolveSession: Session store error")
		}
		return 0, "", ErrSessionExpired
	}
	if storedUserID != userID {
		logrus.WithFields(logrus.Fields{"session_id": sessionID, "token_user": userID, "stored_user": storedUserID}).
			Error("ResolveSession: Session user mismatch")
		return 0, "", ErrSessionExpired
	}

	return userID, sessionID, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与实体存储的哈希匹配
func checkPassword(password string, holder domain.HasCredential) bool {
	err := bcrypt.CompareHashAndPassword([]byte(holder.Credential()), []byte(password))
	return err == nil
}

// generateSessionToken 为指定用户和会话签发 JWT
func (s *AuthService) generateSessionToken(userID uint, sessionID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     sessionID,
		"exp":     now.Add(s.sessionTTL).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// parseSessionToken 解析并验证会话令牌
func (s *AuthService) parseSessionToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法是否为 HMAC (HS256)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}

// extractIdentity 从 Claims 中取出 user_id 和会话 ID (jti)
func extractIdentity(claims jwt.MapClaims) (uint, string, error) {
	userIDClaim, ok := claims["user_id"]
	if !ok {
		return 0, "", errors.New("'user_id' claim missing in token")
	}
	// JWT 数字默认为 float64，需要安全转换为 uint
	userIDFloat, ok := userIDClaim.(float64)
	if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
		return 0, "", fmt.Errorf("'user_id' claim is not a valid positive integer: %v", userIDClaim)
	}

	sessionID, ok := claims["jti"].(string)
	if !ok || sessionID == "" {
		return 0, "", errors.New("'jti' claim missing or empty in token")
	}
	return uint(userIDFloat), sessionID, nil
}
