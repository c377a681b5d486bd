package repository

import (
	"errors"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/util"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	res := r.DB.Delete(&model.Lesson{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrLessonNotFound
	}
	return nil
}

func (r *LessonRepository) ListAll() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Order("topic_name ASC, lesson_order ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) ListByTopic(topicName string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("topic_name = ?", topicName).Order("lesson_order ASC").Find(&lessons).Error
	return lessons, err
}

// CountByTopicAndLevel 评分器的权威课程数来源。没有匹配记录时返回 0，不视为错误。
func (r *LessonRepository) CountByTopicAndLevel(topicName string, level model.DifficultyLevel) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("topic_name = ? AND difficulty_level = ?", topicName, level).
		Count(&count).Error
	return count, err
}

func (r *LessonRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Count(&count).Error
	return count, err
}

// DistinctTopics 目录中出现过的主题集合，用于注册时预置进度和提交校验
func (r *LessonRepository) DistinctTopics() ([]string, error) {
	var topics []string
	err := r.DB.Model(&model.Lesson{}).Distinct("topic_name").Order("topic_name ASC").Pluck("topic_name", &topics).Error
	return topics, err
}
