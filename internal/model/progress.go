package model

// 四个固定的测验难度档位
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyMixed  = "mixed"
)

// DifficultyKeys 是 difficultyScores 中唯一合法的键集合
var DifficultyKeys = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed}

// DifficultyScores 每个难度档位的历史最高分（0-100）
// swagger:model DifficultyScores
type DifficultyScores struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Mixed  int `json:"mixed"`
}

// Get 按键名取分，键名必须在 DifficultyKeys 内
func (d DifficultyScores) Get(key string) int {
	switch key {
	case DifficultyEasy:
		return d.Easy
	case DifficultyMedium:
		return d.Medium
	case DifficultyHard:
		return d.Hard
	case DifficultyMixed:
		return d.Mixed
	}
	return 0
}

func (d *DifficultyScores) Set(key string, value int) {
	switch key {
	case DifficultyEasy:
		d.Easy = value
	case DifficultyMedium:
		d.Medium = value
	case DifficultyHard:
		d.Hard = value
	case DifficultyMixed:
		d.Mixed = value
	}
}

// AttemptedCount 已尝试过（得分大于 0）的档位数量
func (d DifficultyScores) AttemptedCount() int {
	n := 0
	for _, key := range DifficultyKeys {
		if d.Get(key) > 0 {
			n++
		}
	}
	return n
}

// TopicProgress 单个用户在单个主题上的进度。除 LastAccessed 外，
// 所有数值字段在连续合并中只增不减。
// swagger:model TopicProgress
type TopicProgress struct {
	TutorialCompleted  bool             `json:"tutorialCompleted"`
	PuzzleCompleted    bool             `json:"puzzleCompleted"` // 派生字段：四个难度档位都尝试过才为 true
	LessonsCompleted   int              `json:"lessonsCompleted"`
	DifficultyScores   DifficultyScores `json:"difficultyScores"`
	Score              int              `json:"score"` // 所有难度分与历史单分字段的最大值
	ProgressPercentage float64          `json:"progressPercentage"`
	TimeSpent          float64          `json:"timeSpent"` // 秒
	LastAccessed       string           `json:"lastAccessed"`
}

// ProgressMap 主题名 -> 进度，键由课程目录决定
type ProgressMap map[string]TopicProgress

// TopicUpdate 客户端提交的单主题增量。指针字段缺省表示"未提交"。
// swagger:model TopicUpdate
type TopicUpdate struct {
	TopicName         string         `json:"topicName"`
	TutorialCompleted *bool          `json:"tutorialCompleted,omitempty"`
	PuzzleCompleted   *bool          `json:"puzzleCompleted,omitempty"` // 忽略，由评分器重新计算
	LessonsCompleted  *int           `json:"lessonsCompleted,omitempty"`
	DifficultyScores  map[string]int `json:"difficultyScores,omitempty"`
	TimeSpent         *float64       `json:"timeSpent,omitempty"`
	LastAccessed      string         `json:"lastAccessed,omitempty"`
	Score             *int           `json:"score,omitempty"`       // 旧版客户端的单分字段
	PuzzleScore       *int           `json:"puzzleScore,omitempty"` // 旧版客户端的单分字段
}

// SyncRequest 进度同步请求体
// swagger:model SyncRequest
type SyncRequest struct {
	Topics          []TopicUpdate `json:"topics"`
	CompletedTopics *int          `json:"completedTopics,omitempty"`
	Name            string        `json:"name,omitempty"`
	Email           string        `json:"email,omitempty"`
}

// SyncResult 进度同步结果
// swagger:model SyncResult
type SyncResult struct {
	Streak       int `json:"streak"`
	SyncedTopics int `json:"syncedTopics"`
}

// TopicProgressView 单主题进度的对外视图（保留旧字段名 puzzleScore）
// swagger:model TopicProgressView
type TopicProgressView struct {
	TopicName          string           `json:"topicName"`
	TutorialCompleted  bool             `json:"tutorialCompleted"`
	PuzzleCompleted    bool             `json:"puzzleCompleted"`
	PuzzleScore        int              `json:"puzzleScore"`
	DifficultyScores   DifficultyScores `json:"difficultyScores"`
	LessonsCompleted   int              `json:"lessonsCompleted"`
	ProgressPercentage float64          `json:"progressPercentage"`
	TimeSpent          float64          `json:"timeSpent"`
	LastAccessed       string           `json:"lastAccessed"`
}

// UserProgressView 单用户全部主题进度的对外视图
// swagger:model UserProgressView
type UserProgressView struct {
	Username        string              `json:"username"`
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Streak          int                 `json:"streak"`
	CompletedTopics int                 `json:"completedTopics"`
	LastUpdated     string              `json:"lastUpdated"`
	Topics          []TopicProgressView `json:"topics"`
}
