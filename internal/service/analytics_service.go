package service

import (
	"math"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/internal/util"
)

// 图表里每个主题的固定配色，未登记的主题用 gray
var topicColors = map[string]string{
	"Arrays":      "orange",
	"Queue":       "blue",
	"Stacks":      "green",
	"LinkedLists": "purple",
	"Trees":       "yellow",
	"Graphs":      "red",
}

type AnalyticsService struct {
	UserRepo   *repository.UserRepository
	LessonRepo *repository.LessonRepository
}

func NewAnalyticsService(userRepo *repository.UserRepository, lessonRepo *repository.LessonRepository) *AnalyticsService {
	return &AnalyticsService{UserRepo: userRepo, LessonRepo: lessonRepo}
}

// Report 拉取全量用户与课程后做一次只读折叠
func (s *AnalyticsService) Report(now time.Time) (*model.AnalyticsReport, error) {
	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, err
	}
	lessons, err := s.LessonRepo.ListAll()
	if err != nil {
		return nil, err
	}
	report := BuildReport(users, lessons, now)
	return &report, nil
}

// Summary 管理后台首页用的简要统计，活跃定义为 7 天内登录过
func (s *AnalyticsService) Summary(now time.Time) (*model.StatsSummary, error) {
	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, err
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	var active int64
	totalStreak := 0
	totalCompleted := 0
	for i := range users {
		if users[i].LastLogin.After(weekAgo) {
			active++
		}
		totalStreak += users[i].Streak
		totalCompleted += users[i].CompletedTopics
	}

	summary := &model.StatsSummary{
		TotalUsers:  int64(len(users)),
		ActiveUsers: active,
	}
	if len(users) > 0 {
		summary.AvgStreak = util.Round1(float64(totalStreak) / float64(len(users)))
		summary.AvgCompletion = util.Round1(float64(totalCompleted) / float64(len(users)))
	}
	return summary, nil
}

type topicStat struct {
	completions  int
	totalLessons int
	totalScore   int
	totalTime    float64
	users        int
}

// BuildReport 对用户与课程记录的纯折叠，不做任何写操作。
// 用户进度里出现目录之外的主题名时直接跳过，不计入也不报错。
func BuildReport(users []model.User, lessons []model.Lesson, now time.Time) model.AnalyticsReport {
	totalUsers := len(users)

	// 统计只覆盖目录里实际存在的主题
	topicStats := make(map[string]*topicStat)
	for i := range lessons {
		if _, ok := topicStats[lessons[i].TopicName]; !ok {
			topicStats[lessons[i].TopicName] = &topicStat{}
		}
	}

	progressRanges := map[string]int{"0-20": 0, "21-40": 0, "41-60": 0, "61-80": 0, "81-100": 0}
	streakRanges := map[string]int{"1-3": 0, "4-7": 0, "8-14": 0, "15-30": 0, "30+": 0}

	activityByDay := make([]int, 7)
	lessonsByDay := make([]int, 7)

	var activeUsers, idleUsers, inactiveUsers int
	totalStreak := 0
	totalLessonsCompleted := 0
	totalTimeSpent := 0.0

	for i := range users {
		user := &users[i]
		progress := user.Progress.Data()

		// 平均进度分桶
		userProgress := 0.0
		if len(progress) > 0 {
			for _, topic := range progress {
				userProgress += topic.ProgressPercentage
			}
			userProgress /= float64(len(progress))
		}
		switch {
		case userProgress <= 20:
			progressRanges["0-20"]++
		case userProgress <= 40:
			progressRanges["21-40"]++
		case userProgress <= 60:
			progressRanges["41-60"]++
		case userProgress <= 80:
			progressRanges["61-80"]++
		default:
			progressRanges["81-100"]++
		}

		totalStreak += user.Streak
		switch {
		case user.Streak >= 1 && user.Streak <= 3:
			streakRanges["1-3"]++
		case user.Streak >= 4 && user.Streak <= 7:
			streakRanges["4-7"]++
		case user.Streak >= 8 && user.Streak <= 14:
			streakRanges["8-14"]++
		case user.Streak >= 15 && user.Streak <= 30:
			streakRanges["15-30"]++
		case user.Streak > 30:
			streakRanges["30+"]++
		}

		var mostRecent *time.Time
		for topicName, topic := range progress {
			stat, ok := topicStats[topicName]
			if !ok {
				continue
			}

			stat.totalLessons += topic.LessonsCompleted
			stat.totalScore += topic.Score
			stat.totalTime += topic.TimeSpent
			if topic.PuzzleCompleted {
				stat.completions++
			}
			if topic.LessonsCompleted > 0 || topic.TutorialCompleted {
				stat.users++
			}

			totalLessonsCompleted += topic.LessonsCompleted
			totalTimeSpent += topic.TimeSpent

			if topic.LastAccessed != "" {
				accessed, err := time.Parse(time.RFC3339, topic.LastAccessed)
				if err != nil {
					continue
				}
				if mostRecent == nil || accessed.After(*mostRecent) {
					t := accessed
					mostRecent = &t
				}
				daysDiff := int(now.Sub(accessed).Hours() / 24)
				if daysDiff >= 0 && daysDiff < 7 {
					activityByDay[6-daysDiff]++
					lessonsByDay[6-daysDiff] += topic.LessonsCompleted
				}
			}
		}

		// 活跃状态优先看 lastActivity，没有再退回最近一次主题访问时间
		reference := user.LastActivity
		if reference == nil {
			reference = mostRecent
		}
		if reference == nil {
			inactiveUsers++
		} else {
			hoursSince := now.Sub(*reference).Hours()
			switch {
			case hoursSince < 24:
				activeUsers++
			case hoursSince < 168:
				idleUsers++
			default:
				inactiveUsers++
			}
		}
	}

	avgStreak := 0.0
	avgTimePerUser := 0.0
	if totalUsers > 0 {
		avgStreak = util.Round1(float64(totalStreak) / float64(totalUsers))
		avgTimePerUser = totalTimeSpent / float64(totalUsers)
	}

	completionRate := 0.0
	if possible := totalUsers * len(lessons); possible > 0 {
		completionRate = util.Round1(float64(totalLessonsCompleted) / float64(possible) * 100)
	}

	engagementScore := 0.0
	if totalUsers > 0 {
		raw := float64(activeUsers)/float64(totalUsers)*5 + completionRate/10
		engagementScore = util.Round1(math.Min(10, raw))
	}

	totalTopicUsers := 0
	for _, stat := range topicStats {
		totalTopicUsers += stat.users
	}
	topicPopularity := make(map[string]int, len(topicStats))
	for topic, stat := range topicStats {
		if totalTopicUsers > 0 {
			topicPopularity[topic] = int(math.Round(float64(stat.users) / float64(totalTopicUsers) * 100))
		} else {
			topicPopularity[topic] = 0
		}
	}

	labels := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		labels = append(labels, now.AddDate(0, 0, -i).Format("Mon"))
	}

	return model.AnalyticsReport{
		Metrics: model.AnalyticsMetrics{
			CompletionRate:  completionRate,
			AvgTimePerUser:  avgTimePerUser,
			TotalTimeSpent:  totalTimeSpent,
			EngagementScore: engagementScore,
			TotalUsers:      totalUsers,
			ActiveUsers:     activeUsers,
			TotalLessons:    len(lessons),
			AvgStreak:       avgStreak,
		},
		Activity: model.ActivitySeries{
			Labels:           labels,
			ActiveUsers:      activityByDay,
			LessonsCompleted: lessonsByDay,
		},
		TopicPopularity:      topicPopularity,
		ProgressDistribution: progressRanges,
		StreakDistribution:   streakRanges,
		LessonPerformance:    buildLessonPerformance(lessons, topicStats),
		UserStatus: model.UserStatusBreakdown{
			Active:   activeUsers,
			Idle:     idleUsers,
			Inactive: inactiveUsers,
		},
	}
}

// buildLessonPerformance 取目录前 10 节课，按所属主题的汇总值填充表现行
func buildLessonPerformance(lessons []model.Lesson, topicStats map[string]*topicStat) []model.LessonPerformance {
	rows := make([]model.LessonPerformance, 0, 10)
	for i := range lessons {
		if len(rows) >= 10 {
			break
		}
		lesson := &lessons[i]
		stat, ok := topicStats[lesson.TopicName]
		if !ok {
			continue
		}

		avgScore := 0.0
		avgTimeSeconds := 0.0
		if stat.users > 0 {
			avgScore = util.Round1(float64(stat.totalScore) / float64(stat.users))
			avgTimeSeconds = stat.totalTime / float64(stat.users)
		}

		color := topicColors[lesson.TopicName]
		if color == "" {
			color = "gray"
		}

		rows = append(rows, model.LessonPerformance{
			Name:        lesson.Title,
			Topic:       lesson.TopicName,
			Color:       color,
			Completions: stat.totalLessons,
			AvgScore:    util.FormatPercent(avgScore),
			AvgTime:     util.FormatSeconds(avgTimeSeconds),
			Rating:      util.FormatRating(avgScore / 20),
		})
	}
	return rows
}
