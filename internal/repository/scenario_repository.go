package repository

import (
	"errors"

	"github.com/aelied/structureality-server/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScenarioRepository struct {
	DB *gorm.DB
}

func NewScenarioRepository(db *gorm.DB) *ScenarioRepository {
	return &ScenarioRepository{DB: db}
}

func (r *ScenarioRepository) ListAll() ([]model.ScenarioConfig, error) {
	var configs []model.ScenarioConfig
	err := r.DB.Order("topic_name ASC").Find(&configs).Error
	return configs, err
}

// FindByTopic 未配置的主题返回 (nil, nil)，由调用方决定回退值
func (r *ScenarioRepository) FindByTopic(topicName string) (*model.ScenarioConfig, error) {
	var cfg model.ScenarioConfig
	err := r.DB.Where("topic_name = ?", topicName).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save 按主题覆盖保存场景列表
func (r *ScenarioRepository) Save(topicName string, scenarios []string) error {
	cfg := model.ScenarioConfig{
		TopicName: topicName,
		Scenarios: datatypes.NewJSONSlice(scenarios),
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "topic_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"scenarios", "updated_at"}),
	}).Create(&cfg).Error
}
