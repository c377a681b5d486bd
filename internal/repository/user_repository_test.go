package repository

import (
	"testing"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/util"
	"github.com/aelied/structureality-server/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&model.User{
		Username: "alice", Email: "alice@example.com", Password: "x",
		DifficultyLevel: model.Beginner,
	}))

	user, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = repo.FindByUsername("missing")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUserRepositoryUpdateFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&model.User{
		Username: "alice", Email: "alice@example.com", Password: "x",
		DifficultyLevel: model.Beginner,
	}))

	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	progress := model.ProgressMap{"Trees": {LessonsCompleted: 2}}

	// 进度、连续天数和活跃时间在一次更新里落库
	err := repo.UpdateFields("alice", map[string]interface{}{
		"progress":      datatypes.NewJSONType(progress),
		"streak":        3,
		"last_activity": now,
	})
	require.NoError(t, err)

	user, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Streak)
	assert.Equal(t, 2, user.Progress.Data()["Trees"].LessonsCompleted)
	require.NotNil(t, user.LastActivity)
	assert.Equal(t, now.Unix(), user.LastActivity.UTC().Unix())

	err = repo.UpdateFields("missing", map[string]interface{}{"streak": 1})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	// 值没变的更新算命中，不能报用户不存在。
	// MySQL 侧依赖 DSN 的 clientFoundRows=true 保证同样的语义。
	err = repo.UpdateFields("alice", map[string]interface{}{"streak": 3})
	require.NoError(t, err)
}

func TestUserRepositoryListAllOmitsPassword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&model.User{
		Username: "alice", Email: "alice@example.com", Password: "hashed",
		DifficultyLevel: model.Beginner,
	}))

	users, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}

func TestUserRepositoryCountActiveSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)
	old := now.Add(-10 * 24 * time.Hour)

	require.NoError(t, repo.Create(&model.User{
		Username: "a", Email: "a@example.com", Password: "x",
		DifficultyLevel: model.Beginner, LastLogin: recent,
	}))
	require.NoError(t, repo.Create(&model.User{
		Username: "b", Email: "b@example.com", Password: "x",
		DifficultyLevel: model.Beginner, LastLogin: old,
	}))
	require.NoError(t, repo.Create(&model.User{
		Username: "c", Email: "c@example.com", Password: "x",
		DifficultyLevel: model.Beginner,
	}))

	count, err := repo.CountActiveSince(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&model.User{
		Username: "alice", Email: "alice@example.com", Password: "x",
		DifficultyLevel: model.Beginner,
	}))

	require.NoError(t, repo.DeleteByUsername("alice"))
	_, err := repo.FindByUsername("alice")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	assert.ErrorIs(t, repo.DeleteByUsername("alice"), util.ErrUserNotFound)
}
