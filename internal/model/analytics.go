package model

// AnalyticsMetrics 全局指标
// swagger:model AnalyticsMetrics
type AnalyticsMetrics struct {
	CompletionRate  float64 `json:"completionRate"`
	AvgTimePerUser  float64 `json:"avgTimePerUser"`
	TotalTimeSpent  float64 `json:"totalTimeSpent"`
	EngagementScore float64 `json:"engagementScore"`
	TotalUsers      int     `json:"totalUsers"`
	ActiveUsers     int     `json:"activeUsers"`
	TotalLessons    int     `json:"totalLessons"`
	AvgStreak       float64 `json:"avgStreak"`
}

// ActivitySeries 最近 7 天的活跃度与完课时间序列，下标 0 为 6 天前
// swagger:model ActivitySeries
type ActivitySeries struct {
	Labels           []string `json:"labels"`
	ActiveUsers      []int    `json:"activeUsers"`
	LessonsCompleted []int    `json:"lessonsCompleted"`
}

// LessonPerformance 单节课的表现汇总行
// swagger:model LessonPerformance
type LessonPerformance struct {
	Name        string `json:"name"`
	Topic       string `json:"topic"`
	Color       string `json:"color"`
	Completions int    `json:"completions"`
	AvgScore    string `json:"avgScore"`
	AvgTime     string `json:"avgTime"`
	Rating      string `json:"rating"`
}

// UserStatusBreakdown 按最后活跃时间划分的用户状态分布
// swagger:model UserStatusBreakdown
type UserStatusBreakdown struct {
	Active   int `json:"active"`   // < 24h
	Idle     int `json:"idle"`     // 24h - 7d
	Inactive int `json:"inactive"` // >= 7d 或从未活跃
}

// AnalyticsReport 全量分析报告，对所有用户与课程做一次只读折叠
// swagger:model AnalyticsReport
type AnalyticsReport struct {
	Metrics              AnalyticsMetrics    `json:"metrics"`
	Activity             ActivitySeries      `json:"activity"`
	TopicPopularity      map[string]int      `json:"topicPopularity"`
	ProgressDistribution map[string]int      `json:"progressDistribution"`
	StreakDistribution   map[string]int      `json:"streakDistribution"`
	LessonPerformance    []LessonPerformance `json:"lessonPerformance"`
	UserStatus           UserStatusBreakdown `json:"userStatus"`
}

// StatsSummary 管理后台首页的简要统计
// swagger:model StatsSummary
type StatsSummary struct {
	TotalUsers    int64   `json:"totalUsers"`
	ActiveUsers   int64   `json:"activeUsers"`
	AvgStreak     float64 `json:"avgStreak"`
	AvgCompletion float64 `json:"avgCompletion"`
}
