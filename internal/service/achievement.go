package service

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
)

// unlockMessage 是解锁成就时写入的通知内容。
const unlockMessage = "Achievement unlocked!"

// AchievementService 负责成就评估的业务逻辑。
// 解锁状态按 (用户, 成就) 建模：目录是全局的，解锁是每个用户自己的。
type AchievementService struct {
	achievementRepo repository.AchievementRepository
	taskRepo        repository.TaskRepository
}

// NewAchievementService 创建 AchievementService 实例。
func NewAchievementService(achievementRepo repository.AchievementRepository, taskRepo repository.TaskRepository) *AchievementService {
	if achievementRepo == nil {
		panic("AchievementRepository cannot be nil for AchievementService")
	}
	if taskRepo == nil {
		panic("TaskRepository cannot be nil for AchievementService")
	}
	return &AchievementService{
		achievementRepo: achievementRepo,
		taskRepo:        taskRepo,
	}
}

// Evaluate 重新计算指定用户的成就解锁状态。
//
// 目录按 ID 升序遍历，保证相同输入下解锁顺序确定。对每个
// 任务数达到阈值且尚未解锁的定义，暂存一条解锁记录和一条通知，
// 然后在单个事务中一次性提交：持久化失败时不会留下任何部分解锁。
// 已解锁的成就不会重复解锁，也不会产生重复通知（幂等）。
func (s *AchievementService) Evaluate(ctx context.Context, userID uint) ([]domain.UnlockEvent, error) {
	logCtx := logrus.WithField("user_id", userID)

	// 1. 当前任务总数
	taskCount, err := s.taskRepo.CountByOwner(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Evaluate: Failed to count tasks")
		return nil, ErrInternalServer
	}

	// 2. 目录 + 已有解锁
	definitions, err := s.achievementRepo.ListDefinitions(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Evaluate: Failed to list achievement definitions")
		return nil, ErrInternalServer
	}
	unlocked, err := s.unlockedSet(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Evaluate: Failed to list existing unlocks")
		return nil, ErrInternalServer
	}

	// 3. 暂存新达到阈值的解锁
	now := time.Now()
	var unlocks []domain.AchievementUnlock
	var notifications []domain.Notification
	var events []domain.UnlockEvent
	for _, def := range definitions {
		if taskCount < int64(def.Threshold) {
			continue
		}
		if unlocked[def.ID] {
			continue // 已解锁，保持幂等
		}
		unlocks = append(unlocks, domain.AchievementUnlock{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    now,
		})
		notifications = append(notifications, domain.Notification{
			UserID:  userID,
			Content: unlockMessage,
		})
		events = append(events, domain.UnlockEvent{
			Achievement: def,
			UnlockedAt:  now,
		})
	}

	if len(unlocks) == 0 {
		logCtx.WithField("task_count", taskCount).Debug("Evaluate: No new unlocks")
		return nil, nil
	}

	// 4. 单事务提交，全有或全无
	if err := s.achievementRepo.CommitUnlocks(ctx, unlocks, notifications); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// 并发评估的竞争者先提交了：这些成就已经解锁，不算失败，
			// 也绝不能补发通知
			logCtx.Warn("Evaluate: Concurrent evaluation already unlocked these achievements")
			return nil, nil
		}
		logCtx.WithError(err).Error("Evaluate: Failed to commit unlocks")
		return nil, ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{"task_count": taskCount, "new_unlocks": len(events)}).
		Info("Achievements unlocked")
	return events, nil
}

// Catalog 返回完整的成就目录以及指定用户的解锁状态，用于展示。
func (s *AchievementService) Catalog(ctx context.Context, userID uint) ([]domain.AchievementStatus, error) {
	definitions, err := s.achievementRepo.ListDefinitions(ctx)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Catalog: Failed to list definitions")
		return nil, ErrInternalServer
	}
	unlocked, err := s.unlockedSet(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Catalog: Failed to list unlocks")
		return nil, ErrInternalServer
	}

	statuses := make([]domain.AchievementStatus, 0, len(definitions))
	for _, def := range definitions {
		statuses = append(statuses, domain.AchievementStatus{
			Achievement: def,
			Unlocked:    unlocked[def.ID],
		})
	}
	return statuses, nil
}

// unlockedSet 返回用户已解锁成就 ID 的集合
func (s *AchievementService) unlockedSet(ctx context.Context, userID uint) (map[uint]bool, error) {
	existing, err := s.achievementRepo.ListUnlocksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(existing))
	for _, u := range existing {
		set[u.AchievementID] = true
	}
	return set, nil
}
