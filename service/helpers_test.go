package service

import (
	"fmt"
	"testing"

	"wegram_server/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, model.Migrate(db))
	return db
}

// createTestProfile 创建测试用户
func createTestProfile(t *testing.T, db *gorm.DB, username string) *model.Profile {
	t.Helper()

	email := username + "@example.com"
	profile := &model.Profile{
		Username:    username,
		DisplayName: username,
		Email:       &email,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// reloadProfile 重新读取用户（取最新计数）
func reloadProfile(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Profile {
	t.Helper()

	var profile model.Profile
	require.NoError(t, db.First(&profile, "id = ?", id).Error)
	return &profile
}

// countRows 数边表行数
func countRows(t *testing.T, db *gorm.DB, modelPtr interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(modelPtr).Where(query, args...).Count(&count).Error)
	return count
}
