package service

import (
	"strings"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/internal/util"
	"github.com/aelied/structureality-server/pkg/logger"
	"github.com/aelied/structureality-server/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ProgressService 进度同步的唯一入口。用户记录只通过这里的合并流程变更。
type ProgressService struct {
	UserRepo   *repository.UserRepository
	LessonRepo *repository.LessonRepository
}

func NewProgressService(userRepo *repository.UserRepository, lessonRepo *repository.LessonRepository) *ProgressService {
	return &ProgressService{
		UserRepo:   userRepo,
		LessonRepo: lessonRepo,
	}
}

// SyncProgress 执行一次完整的进度同步：读取当前记录 -> 计算连续天数 ->
// 逐主题合并 -> 单条 UPDATE 原子写回。校验失败时不触碰存储。
func (s *ProgressService) SyncProgress(username string, req model.SyncRequest, now time.Time) (*model.SyncResult, error) {
	if err := s.validateSync(req); err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	merged := user.ProgressSnapshot()
	for _, topic := range req.Topics {
		// 每个主题到课程目录查一次权威课程数；查不到按 0 处理，不报错
		total, err := s.LessonRepo.CountByTopicAndLevel(topic.TopicName, user.DifficultyLevel)
		if err != nil {
			return nil, err
		}
		merged[topic.TopicName] = MergeTopic(merged[topic.TopicName], topic, int(total), now)
	}

	streak := ComputeStreak(user.Streak, user.LastActivity, now)

	fields := map[string]interface{}{
		"progress":      datatypes.NewJSONType(merged),
		"streak":        streak,
		"last_activity": now,
	}
	// completedTopics 是客户端上报的不透明计数，按原样保存
	if req.CompletedTopics != nil {
		fields["completed_topics"] = *req.CompletedTopics
	}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Email != "" {
		// 与注册、找回密码一致，邮箱统一存小写
		fields["email"] = strings.ToLower(req.Email)
	}

	if err := s.UserRepo.UpdateFields(username, fields); err != nil {
		return nil, err
	}

	monitoring.ProgressSyncCounter.Inc()
	monitoring.TopicsSyncedCounter.Add(float64(len(req.Topics)))
	logger.Log.Info("progress synced",
		zap.String("username", username),
		zap.Int("topics", len(req.Topics)),
		zap.Int("streak", streak),
	)

	return &model.SyncResult{
		Streak:       streak,
		SyncedTopics: len(req.Topics),
	}, nil
}

// UpdateLessons 旧版客户端的"只报课程数"接口。不绕过合并引擎，
// 以同样的单调规则走一次单主题同步。
func (s *ProgressService) UpdateLessons(username, topicName string, lessonsCompleted int, now time.Time) (*model.SyncResult, error) {
	count := lessonsCompleted
	req := model.SyncRequest{
		Topics: []model.TopicUpdate{{
			TopicName:        topicName,
			LessonsCompleted: &count,
		}},
	}
	return s.SyncProgress(username, req, now)
}

// GetProgress 单用户的全部主题进度视图
func (s *ProgressService) GetProgress(username string) (*model.UserProgressView, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	view := buildProgressView(user)
	return &view, nil
}

// GetAllProgress 管理后台的全量进度列表
func (s *ProgressService) GetAllProgress() ([]model.UserProgressView, error) {
	users, err := s.UserRepo.ListAll()
	if err != nil {
		return nil, err
	}

	views := make([]model.UserProgressView, 0, len(users))
	for i := range users {
		views = append(views, buildProgressView(&users[i]))
	}
	return views, nil
}

func (s *ProgressService) validateSync(req model.SyncRequest) error {
	if req.CompletedTopics != nil && *req.CompletedTopics < 0 {
		return util.Validationf("completedTopics", "must be non-negative")
	}

	known, err := s.LessonRepo.DistinctTopics()
	if err != nil {
		return err
	}
	knownSet := make(map[string]bool, len(known))
	for _, t := range known {
		knownSet[t] = true
	}

	for _, topic := range req.Topics {
		if topic.TopicName == "" {
			return util.Validationf("topicName", "is required")
		}
		// 主题名只在适配层校验；目录为空时放行（引擎自身容忍未知主题）
		if len(knownSet) > 0 && !knownSet[topic.TopicName] {
			return util.Validationf("topicName", "unknown topic %q", topic.TopicName)
		}
		if topic.LessonsCompleted != nil && *topic.LessonsCompleted < 0 {
			return util.Validationf("lessonsCompleted", "must be non-negative")
		}
		for key, v := range topic.DifficultyScores {
			if !isDifficultyKey(key) {
				return util.Validationf("difficultyScores", "invalid difficulty %q", key)
			}
			if v < 0 || v > 100 {
				return util.Validationf("difficultyScores", "%s score out of range: %d", key, v)
			}
		}
		if topic.TimeSpent != nil && *topic.TimeSpent < 0 {
			return util.Validationf("timeSpent", "must be non-negative")
		}
	}
	return nil
}

func isDifficultyKey(key string) bool {
	for _, k := range model.DifficultyKeys {
		if k == key {
			return true
		}
	}
	return false
}

func buildProgressView(user *model.User) model.UserProgressView {
	progress := user.Progress.Data()
	topics := make([]model.TopicProgressView, 0, len(progress))
	for name, tp := range progress {
		topics = append(topics, model.TopicProgressView{
			TopicName:          name,
			TutorialCompleted:  tp.TutorialCompleted,
			PuzzleCompleted:    tp.PuzzleCompleted,
			PuzzleScore:        tp.Score,
			DifficultyScores:   tp.DifficultyScores,
			LessonsCompleted:   tp.LessonsCompleted,
			ProgressPercentage: tp.ProgressPercentage,
			TimeSpent:          tp.TimeSpent,
			LastAccessed:       tp.LastAccessed,
		})
	}

	return model.UserProgressView{
		Username:        user.Username,
		Name:            user.Name,
		Email:           user.Email,
		Streak:          user.Streak,
		CompletedTopics: user.CompletedTopics,
		LastUpdated:     user.UpdatedAt.UTC().Format(time.RFC3339),
		Topics:          topics,
	}
}
