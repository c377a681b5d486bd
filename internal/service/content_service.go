package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/google/uuid"
)

// ContentService 课程目录的唯一写入口，同时承载场景配置与课程媒体上传
type ContentService struct {
	LessonRepo   *repository.LessonRepository
	QuizRepo     *repository.QuizRepository
	ScenarioRepo *repository.ScenarioRepository
	Storage      *StorageService
}

func NewContentService(lessonRepo *repository.LessonRepository, quizRepo *repository.QuizRepository, scenarioRepo *repository.ScenarioRepository, storage *StorageService) *ContentService {
	return &ContentService{
		LessonRepo:   lessonRepo,
		QuizRepo:     quizRepo,
		ScenarioRepo: scenarioRepo,
		Storage:      storage,
	}
}

// Topics 课程目录中出现过的主题名，进度与统计都以它为准
func (s *ContentService) Topics() ([]string, error) {
	return s.LessonRepo.DistinctTopics()
}

func (s *ContentService) ListLessons(topicName string) ([]model.Lesson, error) {
	if topicName == "" {
		return s.LessonRepo.ListAll()
	}
	return s.LessonRepo.ListByTopic(topicName)
}

func (s *ContentService) GetLesson(id uint) (*model.Lesson, error) {
	return s.LessonRepo.FindByID(id)
}

func (s *ContentService) CreateLesson(lesson *model.Lesson) error {
	if err := validateLesson(lesson); err != nil {
		return err
	}
	return s.LessonRepo.Create(lesson)
}

func (s *ContentService) UpdateLesson(id uint, updated *model.Lesson) (*model.Lesson, error) {
	if err := validateLesson(updated); err != nil {
		return nil, err
	}

	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	lesson.TopicName = updated.TopicName
	lesson.Title = updated.Title
	lesson.Description = updated.Description
	lesson.Content = updated.Content
	lesson.Order = updated.Order
	lesson.DifficultyLevel = updated.DifficultyLevel
	if updated.MediaURL != "" {
		lesson.MediaURL = updated.MediaURL
	}
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) DeleteLesson(id uint) error {
	return s.LessonRepo.Delete(id)
}

// CountLessons 主题 + 难度维度的权威课程数，评分器的分母来源
func (s *ContentService) CountLessons(topicName string, level model.DifficultyLevel) (int64, error) {
	return s.LessonRepo.CountByTopicAndLevel(topicName, level)
}

// UploadLessonMedia 上传课程媒体并把地址写回课程记录
func (s *ContentService) UploadLessonMedia(ctx context.Context, lessonID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	objectName := fmt.Sprintf("lessons/%d/%s%s", lessonID, uuid.NewString(), ext)
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	lesson.MediaURL = url
	if err := s.LessonRepo.Update(lesson); err != nil {
		return "", err
	}
	return url, nil
}

func (s *ContentService) ListQuizzes(topicName string) ([]model.Quiz, error) {
	return s.QuizRepo.ListByTopic(topicName)
}

func (s *ContentService) CreateQuiz(quiz *model.Quiz) error {
	if quiz.TopicName == "" {
		return util.Validationf("topicName", "is required")
	}
	// mixed 只是进度里的聚合桶，题库本身只分三档
	if quiz.Difficulty != model.DifficultyEasy && quiz.Difficulty != model.DifficultyMedium && quiz.Difficulty != model.DifficultyHard {
		return util.Validationf("difficulty", "invalid difficulty %q", quiz.Difficulty)
	}
	if strings.TrimSpace(quiz.Question) == "" {
		return util.Validationf("question", "is required")
	}
	return s.QuizRepo.Create(quiz)
}

func (s *ContentService) DeleteQuiz(id uint) error {
	return s.QuizRepo.Delete(id)
}

// CountQuizzes 主题 + 难度维度的测验数，给统计口径用
func (s *ContentService) CountQuizzes(topicName, difficulty string) (int64, error) {
	return s.QuizRepo.CountByTopicAndDifficulty(topicName, difficulty)
}

// ListScenarios 全部主题的场景配置
func (s *ContentService) ListScenarios() ([]model.ScenarioConfig, error) {
	return s.ScenarioRepo.ListAll()
}

// GetScenarios 单主题的场景列表，没有配置时回退到默认场景
func (s *ContentService) GetScenarios(topicName string) ([]string, error) {
	cfg, err := s.ScenarioRepo.FindByTopic(topicName)
	if err != nil {
		return nil, err
	}
	if cfg == nil || len(cfg.Scenarios) == 0 {
		return model.DefaultScenarios, nil
	}
	return cfg.Scenarios, nil
}

func (s *ContentService) SaveScenarios(topicName string, scenarios []string) error {
	if topicName == "" {
		return util.Validationf("topicName", "is required")
	}
	if len(scenarios) == 0 {
		return util.Validationf("scenarios", "must not be empty")
	}
	for _, sc := range scenarios {
		if strings.TrimSpace(sc) == "" {
			return util.Validationf("scenarios", "scenario names must not be blank")
		}
	}
	return s.ScenarioRepo.Save(topicName, scenarios)
}

func validateLesson(lesson *model.Lesson) error {
	if lesson.TopicName == "" {
		return util.Validationf("topicName", "is required")
	}
	if strings.TrimSpace(lesson.Title) == "" {
		return util.Validationf("title", "is required")
	}
	if lesson.DifficultyLevel != model.Beginner && lesson.DifficultyLevel != model.Intermediate {
		return util.Validationf("difficultyLevel", "must be beginner or intermediate")
	}
	if lesson.Order < 0 {
		return util.Validationf("order", "must be non-negative")
	}
	return nil
}
