package service

import (
	"testing"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBuildReportEmptyFleet(t *testing.T) {
	report := BuildReport(nil, nil, time.Now().UTC())

	assert.Equal(t, 0, report.Metrics.TotalUsers)
	assert.Equal(t, 0.0, report.Metrics.CompletionRate)
	assert.Equal(t, 0.0, report.Metrics.EngagementScore)
	assert.Equal(t, 0, report.UserStatus.Active+report.UserStatus.Idle+report.UserStatus.Inactive)
	assert.Len(t, report.Activity.Labels, 7)
	assert.Empty(t, report.LessonPerformance)
}

func TestBuildReportDistributions(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * time.Hour)
	lastWeek := now.Add(-3 * 24 * time.Hour)
	longAgo := now.Add(-30 * 24 * time.Hour)

	users := []model.User{
		{
			Username: "a", Streak: 2, LastActivity: &recent,
			Progress: datatypes.NewJSONType(model.ProgressMap{
				"Trees": {LessonsCompleted: 2, ProgressPercentage: 90, Score: 80, TutorialCompleted: true},
			}),
		},
		{
			Username: "b", Streak: 10, LastActivity: &lastWeek,
			Progress: datatypes.NewJSONType(model.ProgressMap{
				"Trees": {LessonsCompleted: 1, ProgressPercentage: 30},
			}),
		},
		{
			Username: "c", Streak: 0, LastActivity: &longAgo,
		},
	}
	lessons := []model.Lesson{
		{TopicName: "Trees", Title: "Tree basics"},
		{TopicName: "Trees", Title: "Traversals"},
	}

	report := BuildReport(users, lessons, now)

	assert.Equal(t, 1, report.ProgressDistribution["81-100"])
	assert.Equal(t, 1, report.ProgressDistribution["21-40"])
	assert.Equal(t, 1, report.ProgressDistribution["0-20"])

	assert.Equal(t, 1, report.StreakDistribution["1-3"])
	assert.Equal(t, 1, report.StreakDistribution["8-14"])

	assert.Equal(t, 1, report.UserStatus.Active)
	assert.Equal(t, 1, report.UserStatus.Idle)
	assert.Equal(t, 1, report.UserStatus.Inactive)

	// 3 个用户各可完成 2 节课，总共完成 3 节
	assert.InDelta(t, 50.0, report.Metrics.CompletionRate, 0.001)
	// min(10, 1/3*5 + 50/10) = 6.7
	assert.InDelta(t, 6.7, report.Metrics.EngagementScore, 0.001)
	assert.Equal(t, 2, report.Metrics.TotalLessons)
	assert.InDelta(t, 4.0, report.Metrics.AvgStreak, 0.001)
}

func TestBuildReportSkipsUnknownTopics(t *testing.T) {
	now := time.Now().UTC()
	users := []model.User{
		{
			Username: "a",
			Progress: datatypes.NewJSONType(model.ProgressMap{
				"Trees":   {LessonsCompleted: 1},
				"Removed": {LessonsCompleted: 99},
			}),
		},
	}
	lessons := []model.Lesson{{TopicName: "Trees", Title: "Tree basics"}}

	report := BuildReport(users, lessons, now)

	_, hasRemoved := report.TopicPopularity["Removed"]
	assert.False(t, hasRemoved)
	assert.Equal(t, 100, report.TopicPopularity["Trees"])
	// 目录外主题的课程数不计入总量
	assert.InDelta(t, 100.0, report.Metrics.CompletionRate, 0.001)
}

func TestBuildReportActivityStatusFallsBackToLastAccessed(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	users := []model.User{
		{
			// lastActivity 缺失，用最近一次主题访问时间判定状态
			Username: "legacy",
			Progress: datatypes.NewJSONType(model.ProgressMap{
				"Trees": {LessonsCompleted: 1, LastAccessed: "2025-06-15T10:00:00Z"},
			}),
		},
		{
			// 两个时间都没有，判定为不活跃
			Username: "ghost",
		},
	}
	lessons := []model.Lesson{{TopicName: "Trees", Title: "Tree basics"}}

	report := BuildReport(users, lessons, now)
	assert.Equal(t, 1, report.UserStatus.Active)
	assert.Equal(t, 1, report.UserStatus.Inactive)
}

func TestBuildReportActivitySeries(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	users := []model.User{
		{
			Username: "a",
			Progress: datatypes.NewJSONType(model.ProgressMap{
				// 今天访问 -> 序列最后一格
				"Trees": {LessonsCompleted: 2, LastAccessed: "2025-06-15T08:00:00Z"},
				// 3 天前访问 -> 下标 3
				"Queue": {LessonsCompleted: 1, LastAccessed: "2025-06-12T08:00:00Z"},
				// 超过 7 天，不进序列
				"Stacks": {LessonsCompleted: 5, LastAccessed: "2025-06-01T08:00:00Z"},
			}),
		},
	}
	lessons := []model.Lesson{
		{TopicName: "Trees", Title: "t"},
		{TopicName: "Queue", Title: "q"},
		{TopicName: "Stacks", Title: "s"},
	}

	report := BuildReport(users, lessons, now)

	assert.Equal(t, 1, report.Activity.ActiveUsers[6])
	assert.Equal(t, 2, report.Activity.LessonsCompleted[6])
	assert.Equal(t, 1, report.Activity.ActiveUsers[3])
	assert.Equal(t, 1, report.Activity.LessonsCompleted[3])
	assert.Equal(t, 0, report.Activity.ActiveUsers[0])
	assert.Len(t, report.Activity.Labels, 7)
	assert.Equal(t, "Sun", report.Activity.Labels[6]) // 2025-06-15 是周日
}

func TestBuildReportLessonPerformance(t *testing.T) {
	now := time.Now().UTC()
	users := []model.User{
		{
			Username: "a",
			Progress: datatypes.NewJSONType(model.ProgressMap{
				"Trees": {LessonsCompleted: 2, Score: 80, TimeSpent: 3600, TutorialCompleted: true},
			}),
		},
		{
			Username: "b",
			Progress: datatypes.NewJSONType(model.ProgressMap{
				"Trees": {LessonsCompleted: 1, Score: 60, TimeSpent: 1800},
			}),
		},
	}
	lessons := []model.Lesson{{TopicName: "Trees", Title: "Tree basics"}}

	report := BuildReport(users, lessons, now)
	require.Len(t, report.LessonPerformance, 1)

	row := report.LessonPerformance[0]
	assert.Equal(t, "Tree basics", row.Name)
	assert.Equal(t, "Trees", row.Topic)
	assert.Equal(t, "yellow", row.Color)
	assert.Equal(t, 3, row.Completions)
	assert.Equal(t, "70.0%", row.AvgScore)
	assert.Equal(t, "45m", row.AvgTime)
	assert.Equal(t, "3.5", row.Rating)
}

func TestSummary(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	seedUser(t, db, &model.User{
		Username: "a", Email: "a@example.com", Password: "x",
		DifficultyLevel: model.Beginner,
		Streak:          4, CompletedTopics: 2,
		LastLogin: now.Add(-24 * time.Hour),
	})
	seedUser(t, db, &model.User{
		Username: "b", Email: "b@example.com", Password: "x",
		DifficultyLevel: model.Beginner,
		Streak:          1, CompletedTopics: 1,
		LastLogin: now.Add(-10 * 24 * time.Hour),
	})

	svc := NewAnalyticsService(
		repository.NewUserRepository(db),
		repository.NewLessonRepository(db),
	)

	summary, err := svc.Summary(now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalUsers)
	assert.Equal(t, int64(1), summary.ActiveUsers)
	assert.InDelta(t, 2.5, summary.AvgStreak, 0.001)
	assert.InDelta(t, 1.5, summary.AvgCompletion, 0.001)
}
