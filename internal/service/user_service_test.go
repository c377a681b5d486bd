package service

import (
	"testing"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileNameAndEmail(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, &model.User{
		Username:        "alice",
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
	})

	svc := NewUserService(repository.NewUserRepository(db))
	require.NoError(t, svc.UpdateProfile("alice", "Alice Liddell", "Alice.Liddell@Example.COM"))

	stored, err := repository.NewUserRepository(db).FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", stored.Name)
	assert.Equal(t, "alice.liddell@example.com", stored.Email)
}

// 难度在注册时定死，资料更新不能改，否则评分分母会整套换掉
func TestUpdateProfileKeepsDifficultyLevel(t *testing.T) {
	db := setupTestDB(t)
	seedLessons(t, db, "Trees", model.Beginner, 4)
	seedLessons(t, db, "Trees", model.Intermediate, 8)
	seedUser(t, db, &model.User{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
	})

	require.NoError(t, NewUserService(repository.NewUserRepository(db)).UpdateProfile("bob", "Bob", ""))

	stored, err := repository.NewUserRepository(db).FindByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, model.Beginner, stored.DifficultyLevel)

	// 仍按注册时的初级课程数（4 节）计分
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	_, err = newProgressService(db).SyncProgress("bob", model.SyncRequest{
		Topics: []model.TopicUpdate{{TopicName: "Trees", LessonsCompleted: intPtr(2)}},
	}, now)
	require.NoError(t, err)

	stored, err = repository.NewUserRepository(db).FindByUsername("bob")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, stored.Progress.Data()["Trees"].ProgressPercentage, 0.001)
}

func TestUpdateProfileSameValueIsNotNotFound(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, &model.User{
		Username:        "carol",
		Name:            "Carol",
		Email:           "carol@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
	})

	// 值没变的更新也必须成功，不能当成用户不存在
	err := NewUserService(repository.NewUserRepository(db)).UpdateProfile("carol", "Carol", "")
	require.NoError(t, err)
}

func TestUpdateProfileValidation(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, &model.User{
		Username:        "dave",
		Email:           "dave@example.com",
		Password:        "hashed",
		DifficultyLevel: model.Beginner,
	})
	svc := NewUserService(repository.NewUserRepository(db))

	err := svc.UpdateProfile("dave", "", "")
	assert.True(t, util.IsValidation(err))

	err = svc.UpdateProfile("nobody", "Name", "")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
