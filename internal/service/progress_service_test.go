package service

import (
	"testing"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
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

func seedLessons(t *testing.T, db *gorm.DB, topic string, level model.DifficultyLevel, count int) {
	t.Helper()
	repo := repository.NewLessonRepository(db)
	for i := 0; i < count; i++ {
		require.NoError(t, repo.Create(&model.Lesson{
			TopicName:       topic,
			Title:           topic + " lesson",
			Order:           i + 1,
			DifficultyLevel: level,
		}))
	}
}

func seedUser(t *testing.T, db *gorm.DB, user *model.User) {
	t.Helper()
	require.NoError(t, repository.NewUserRepository(db).Create(user))
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewUserRepository(db),
		repository.NewLessonRepository(db),
	)
}

func TestSyncProgressMergesAndPersists(t *testing.T) {
	db := setupTestDB(t)
	seedLessons(t, db, "Trees", model.Beginner, 4)

	yesterday := time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC)
	seedUser(t, db, &model.User{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
		Streak:          1,
		LastActivity:    &yesterday,
		Progress: datatypes.NewJSONType(model.ProgressMap{
			"Trees": {LessonsCompleted: 2, ProgressPercentage: 25},
		}),
	})

	svc := newProgressService(db)
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	result, err := svc.SyncProgress("alice", model.SyncRequest{
		Topics: []model.TopicUpdate{{
			TopicName:        "Trees",
			LessonsCompleted: intPtr(3),
			TimeSpent:        floatPtr(420),
		}},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Streak)
	assert.Equal(t, 1, result.SyncedTopics)

	stored, err := repository.NewUserRepository(db).FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Streak)
	require.NotNil(t, stored.LastActivity)
	assert.Equal(t, now.Unix(), stored.LastActivity.UTC().Unix())

	trees := stored.Progress.Data()["Trees"]
	assert.Equal(t, 3, trees.LessonsCompleted)
	assert.InDelta(t, 37.5, trees.ProgressPercentage, 0.001)
	assert.Equal(t, 420.0, trees.TimeSpent)
}

func TestSyncProgressIsIdempotentForRepeatedPayload(t *testing.T) {
	db := setupTestDB(t)
	seedLessons(t, db, "Queue", model.Beginner, 2)
	seedUser(t, db, &model.User{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
	})

	svc := newProgressService(db)
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	payload := model.SyncRequest{
		Topics: []model.TopicUpdate{{
			TopicName:        "Queue",
			LessonsCompleted: intPtr(2),
			DifficultyScores: map[string]int{"easy": 80},
		}},
	}

	_, err := svc.SyncProgress("bob", payload, now)
	require.NoError(t, err)
	_, err = svc.SyncProgress("bob", payload, now.Add(time.Minute))
	require.NoError(t, err)

	stored, err := repository.NewUserRepository(db).FindByUsername("bob")
	require.NoError(t, err)
	queue := stored.Progress.Data()["Queue"]
	assert.Equal(t, 2, queue.LessonsCompleted)
	assert.Equal(t, 80, queue.DifficultyScores.Easy)
	assert.InDelta(t, 62.5, queue.ProgressPercentage, 0.001)
	assert.Equal(t, 1, stored.Streak)
}

func TestSyncProgressValidation(t *testing.T) {
	db := setupTestDB(t)
	seedLessons(t, db, "Trees", model.Beginner, 2)
	seedUser(t, db, &model.User{
		Username:        "carol",
		Email:           "carol@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
	})

	svc := newProgressService(db)
	now := time.Now().UTC()

	tests := []struct {
		name string
		req  model.SyncRequest
	}{
		{
			name: "empty topic name",
			req:  model.SyncRequest{Topics: []model.TopicUpdate{{TopicName: ""}}},
		},
		{
			name: "unknown topic",
			req:  model.SyncRequest{Topics: []model.TopicUpdate{{TopicName: "Quantum"}}},
		},
		{
			name: "negative lessons",
			req: model.SyncRequest{Topics: []model.TopicUpdate{{
				TopicName:        "Trees",
				LessonsCompleted: intPtr(-1),
			}}},
		},
		{
			name: "bad difficulty key",
			req: model.SyncRequest{Topics: []model.TopicUpdate{{
				TopicName:        "Trees",
				DifficultyScores: map[string]int{"extreme": 50},
			}}},
		},
		{
			name: "score out of range",
			req: model.SyncRequest{Topics: []model.TopicUpdate{{
				TopicName:        "Trees",
				DifficultyScores: map[string]int{"easy": 101},
			}}},
		},
		{
			name: "negative time spent",
			req: model.SyncRequest{Topics: []model.TopicUpdate{{
				TopicName: "Trees",
				TimeSpent: floatPtr(-5),
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SyncProgress("carol", tt.req, now)
			assert.True(t, util.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// 校验失败不触碰存储
	stored, err := repository.NewUserRepository(db).FindByUsername("carol")
	require.NoError(t, err)
	assert.Nil(t, stored.LastActivity)
	assert.Equal(t, 0, stored.Streak)
}

func TestSyncProgressUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db)

	_, err := svc.SyncProgress("nobody", model.SyncRequest{}, time.Now().UTC())
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestSyncProgressUpdatesOptionalProfileFields(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, &model.User{
		Username:        "dave",
		Email:           "dave@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
	})

	svc := newProgressService(db)
	completed := 3
	_, err := svc.SyncProgress("dave", model.SyncRequest{
		CompletedTopics: &completed,
		Name:            "Dave L",
		Email:           "Dave.L@Example.COM",
	}, time.Now().UTC())
	require.NoError(t, err)

	stored, err := repository.NewUserRepository(db).FindByUsername("dave")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CompletedTopics)
	assert.Equal(t, "Dave L", stored.Name)
	// 邮箱与注册一致统一存小写，按小写仍可检索
	assert.Equal(t, "dave.l@example.com", stored.Email)
	byEmail, err := repository.NewUserRepository(db).FindByEmail("dave.l@example.com")
	require.NoError(t, err)
	assert.Equal(t, "dave", byEmail.Username)
}

func TestUpdateLessonsRoutesThroughMerge(t *testing.T) {
	db := setupTestDB(t)
	seedLessons(t, db, "Stacks", model.Beginner, 4)
	seedUser(t, db, &model.User{
		Username:        "erin",
		Email:           "erin@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
		Progress: datatypes.NewJSONType(model.ProgressMap{
			"Stacks": {LessonsCompleted: 3, ProgressPercentage: 37.5},
		}),
	})

	svc := newProgressService(db)
	now := time.Now().UTC()

	// 回退的课程数不生效
	_, err := svc.UpdateLessons("erin", "Stacks", 1, now)
	require.NoError(t, err)

	stored, err := repository.NewUserRepository(db).FindByUsername("erin")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Progress.Data()["Stacks"].LessonsCompleted)

	_, err = svc.UpdateLessons("erin", "Stacks", 4, now)
	require.NoError(t, err)

	stored, err = repository.NewUserRepository(db).FindByUsername("erin")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Progress.Data()["Stacks"].LessonsCompleted)
	assert.InDelta(t, 50.0, stored.Progress.Data()["Stacks"].ProgressPercentage, 0.001)
}

func TestNewUserFirstTwoSubmissions(t *testing.T) {
	db := setupTestDB(t)
	seedLessons(t, db, "Trees", model.Beginner, 6)

	authSvc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewLessonRepository(db),
		NewMemoryTokenStore(),
		LogNotifier{},
		30*time.Minute,
	)
	_, err := authSvc.Register(RegisterRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	svc := newProgressService(db)
	day1 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	result, err := svc.SyncProgress("newbie", model.SyncRequest{
		Topics: []model.TopicUpdate{{
			TopicName:        "Trees",
			LessonsCompleted: intPtr(3),
		}},
	}, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)

	stored, err := repository.NewUserRepository(db).FindByUsername("newbie")
	require.NoError(t, err)
	trees := stored.Progress.Data()["Trees"]
	assert.InDelta(t, 25.0, trees.ProgressPercentage, 0.001)
	assert.False(t, trees.PuzzleCompleted)

	// 第二天只交一个难度的测验分
	day2 := day1.Add(24 * time.Hour)
	result, err = svc.SyncProgress("newbie", model.SyncRequest{
		Topics: []model.TopicUpdate{{
			TopicName:        "Trees",
			DifficultyScores: map[string]int{"easy": 70},
		}},
	}, day2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Streak)

	stored, err = repository.NewUserRepository(db).FindByUsername("newbie")
	require.NoError(t, err)
	trees = stored.Progress.Data()["Trees"]
	assert.Equal(t, 3, trees.LessonsCompleted)
	assert.InDelta(t, 37.5, trees.ProgressPercentage, 0.001)
	assert.Equal(t, 70, trees.Score)
}

func TestGetProgressView(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, &model.User{
		Username:        "frank",
		Email:           "frank@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
		Streak:          4,
		CompletedTopics: 2,
		Progress: datatypes.NewJSONType(model.ProgressMap{
			"Trees": {
				LessonsCompleted:   2,
				Score:              88,
				ProgressPercentage: 50,
				DifficultyScores:   model.DifficultyScores{Easy: 88},
			},
		}),
	})

	svc := newProgressService(db)
	view, err := svc.GetProgress("frank")
	require.NoError(t, err)

	assert.Equal(t, "frank", view.Username)
	assert.Equal(t, 4, view.Streak)
	require.Len(t, view.Topics, 1)
	assert.Equal(t, "Trees", view.Topics[0].TopicName)
	// 对外视图保留旧字段名 puzzleScore
	assert.Equal(t, 88, view.Topics[0].PuzzleScore)
}

func TestGetAllProgress(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, &model.User{
		Username: "gina", Email: "gina@example.com", Password: "x", DifficultyLevel: model.Beginner,
	})
	seedUser(t, db, &model.User{
		Username: "hank", Email: "hank@example.com", Password: "x", DifficultyLevel: model.Beginner,
	})

	svc := newProgressService(db)
	views, err := svc.GetAllProgress()
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
