package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskboard/internal/domain"
)

// MigrateDB handles all database migrations using the provided GORM DB instance.
// 迁移完成后播种固定的成就目录。返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.User{},
		&domain.Task{},
		&domain.Notification{},
		&domain.Achievement{},
		&domain.AchievementUnlock{},
		&domain.Feedback{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	if err := seedAchievements(db); err != nil {
		return fmt.Errorf("failed to seed achievement catalog: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// seedAchievements 播种固定的成就目录。
// 按名称做 FirstOrCreate，重复启动不会产生重复行，目录运行期只读。
func seedAchievements(db *gorm.DB) error {
	catalog := []domain.Achievement{
		{Name: "First Steps", Description: "Create your first task", Threshold: 1},
		{Name: "Getting Things Done", Description: "Create 5 tasks", Threshold: 5},
		{Name: "Task Master", Description: "Create 10 tasks", Threshold: 10},
		{Name: "Productivity Pro", Description: "Create 25 tasks", Threshold: 25},
		{Name: "Legendary Organizer", Description: "Create 50 tasks", Threshold: 50},
	}

	for _, def := range catalog {
		var existing domain.Achievement
		err := db.Where("name = ?", def.Name).FirstOrCreate(&existing, def).Error
		if err != nil {
			return fmt.Errorf("seed achievement '%s': %w", def.Name, err)
		}
	}
	logrus.WithField("count", len(catalog)).Debug("Achievement catalog seeded")
	return nil
}
