package repository

import (
	"github.com/aelied/structureality-server/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) ListByTopic(topicName string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("topic_name = ?", topicName).Order("difficulty ASC, quiz_order ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) CountByTopicAndDifficulty(topicName, difficulty string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).
		Where("topic_name = ? AND difficulty = ?", topicName, difficulty).
		Count(&count).Error
	return count, err
}
