package model

import "gorm.io/datatypes"

// 新主题在没有保存过配置时使用的默认场景
var DefaultScenarios = []string{"ParkingLot", "VendingMachine"}

// ScenarioConfig 每个主题在 Unity 客户端中启用的 AR 场景列表
// swagger:model ScenarioConfig
type ScenarioConfig struct {
	BaseModel
	TopicName string                      `gorm:"size:50;uniqueIndex;not null" json:"topicName"`
	Scenarios datatypes.JSONSlice[string] `json:"scenarios"`
}

func (ScenarioConfig) TableName() string {
	return "scenario_configs"
}
