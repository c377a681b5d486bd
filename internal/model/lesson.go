package model

// Lesson 课程目录中的一节课。引擎只读，计数用于评分。
// swagger:model Lesson
type Lesson struct {
	BaseModel
	TopicName       string          `gorm:"size:50;not null;index:idx_lesson_topic_order" json:"topicName"`
	Title           string          `gorm:"size:200;not null" json:"title"`
	Description     string          `gorm:"size:500" json:"description"`
	Content         string          `gorm:"type:text" json:"content"`
	MediaURL        string          `gorm:"size:255" json:"mediaUrl,omitempty"`
	Order           int             `gorm:"column:lesson_order;default:1;index:idx_lesson_topic_order" json:"order"`
	DifficultyLevel DifficultyLevel `gorm:"size:20;default:'beginner'" json:"difficultyLevel"`
}

func (Lesson) TableName() string {
	return "lessons"
}
