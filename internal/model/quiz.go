package model

// Quiz 某主题某难度下的一道测验题
// swagger:model Quiz
type Quiz struct {
	BaseModel
	TopicName  string `gorm:"size:50;not null;index:idx_quiz_topic_difficulty" json:"topicName"`
	Difficulty string `gorm:"size:20;not null;index:idx_quiz_topic_difficulty" json:"difficulty"` // easy/medium/hard
	Question   string `gorm:"type:text;not null" json:"question"`
	Answer     string `gorm:"size:500" json:"answer"`
	Order      int    `gorm:"column:quiz_order;default:1" json:"order"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
