package service

import (
	"time"

	"github.com/aelied/structureality-server/internal/model"
)

// 进度百分比的权重拆分：课程最多 50 分，四个测验难度档位各 12.5 分。
const (
	lessonWeight    = 50.0
	perBucketWeight = 12.5
)

// ComputeStreak 按 UTC 日历日比较上次活跃时间和当前时间，返回新的连续天数。
// 与 24 小时滚动窗口不同：昨天 23:59 活跃、今天 00:01 提交也算连续。
func ComputeStreak(prevStreak int, lastActivity *time.Time, now time.Time) int {
	if lastActivity == nil {
		return 1
	}

	last := lastActivity.UTC()
	cur := now.UTC()
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	curDay := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, time.UTC)

	diffDays := int(curDay.Sub(lastDay).Hours() / 24)

	switch {
	case diffDays == 0:
		// 今天已经活跃过，保持不变；历史数据缺失时至少为 1
		if prevStreak < 1 {
			return 1
		}
		return prevStreak
	case diffDays == 1:
		if prevStreak < 0 {
			prevStreak = 0
		}
		return prevStreak + 1
	default:
		// 断签或时钟偏移（diffDays < 0），一律重置
		return 1
	}
}

// ScoreTopic 由合并后的状态和该主题在目录中的课程总数推导完成度。
// 测验部分只看"是否尝试过"（得分大于 0），不看分数高低。
func ScoreTopic(lessonsCompleted, totalLessons int, scores model.DifficultyScores) (percentage float64, puzzleCompleted bool, attempted int) {
	var lessonScore float64
	if totalLessons > 0 && lessonsCompleted > 0 {
		if lessonsCompleted >= totalLessons {
			lessonScore = lessonWeight
		} else {
			lessonScore = float64(lessonsCompleted) / float64(totalLessons) * lessonWeight
		}
	}

	attempted = scores.AttemptedCount()
	percentage = lessonScore + float64(attempted)*perBucketWeight
	if percentage > 100 {
		percentage = 100
	}

	return percentage, attempted == len(model.DifficultyKeys), attempted
}

// MergeTopic 把一次客户端提交合并进已存进度。任何一步都不允许回退已记录的成绩：
// 课程数、各难度分、累计时长、完成度只增不减，tutorialCompleted 置真后不再置假。
func MergeTopic(existing model.TopicProgress, in model.TopicUpdate, totalLessons int, now time.Time) model.TopicProgress {
	out := existing

	// 缺省或为 0 的课程数视为"本次未提交课程进度"，保留已有值，
	// 防止纯测验提交把课程进度清零
	if in.LessonsCompleted != nil && *in.LessonsCompleted > out.LessonsCompleted {
		out.LessonsCompleted = *in.LessonsCompleted
	}

	for _, key := range model.DifficultyKeys {
		if v, ok := in.DifficultyScores[key]; ok && v > out.DifficultyScores.Get(key) {
			out.DifficultyScores.Set(key, v)
		}
	}

	if in.TutorialCompleted != nil && *in.TutorialCompleted {
		out.TutorialCompleted = true
	}

	if in.TimeSpent != nil && *in.TimeSpent > out.TimeSpent {
		out.TimeSpent = *in.TimeSpent
	}

	if in.LastAccessed != "" {
		out.LastAccessed = in.LastAccessed
	} else {
		out.LastAccessed = now.UTC().Format(time.RFC3339)
	}

	// puzzleCompleted 不信任客户端，始终由评分器重新推导
	percentage, puzzleCompleted, _ := ScoreTopic(out.LessonsCompleted, totalLessons, out.DifficultyScores)
	out.PuzzleCompleted = puzzleCompleted

	score := out.Score
	candidates := []int{
		intOrZero(in.Score),
		intOrZero(in.PuzzleScore),
		out.DifficultyScores.Easy,
		out.DifficultyScores.Medium,
		out.DifficultyScores.Hard,
		out.DifficultyScores.Mixed,
	}
	for _, v := range candidates {
		if v > score {
			score = v
		}
	}
	out.Score = score

	// 目录课程数变化可能导致重算结果变小，完成度同样不允许回退
	if percentage < existing.ProgressPercentage {
		percentage = existing.ProgressPercentage
	}
	out.ProgressPercentage = percentage

	return out
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
