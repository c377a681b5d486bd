package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// DifficultyLevel 注册时选择的课程难度，决定课程目录的查询范围
type DifficultyLevel string

const (
	Beginner     DifficultyLevel = "beginner"
	Intermediate DifficultyLevel = "intermediate"
)

// swagger:model User
type User struct {
	BaseModel
	Username        string          `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Name            string          `gorm:"size:100" json:"name"`
	Email           string          `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password        string          `gorm:"size:100;not null" json:"-"`
	Role            UserRole        `gorm:"size:20;default:'student'" json:"role"`
	DifficultyLevel DifficultyLevel `gorm:"size:20;default:'beginner'" json:"difficultyLevel"`
	Streak          int             `gorm:"default:0" json:"streak"` // 连续学习天数（按日历天计算）
	CompletedTopics int             `gorm:"default:0" json:"completedTopics"`
	LastActivity    *time.Time      `json:"lastActivity,omitempty"`
	LastLogin       time.Time       `json:"lastLogin"`
	// 每个主题的学习进度，整体作为一个 JSON 文档读写
	Progress datatypes.JSONType[ProgressMap] `json:"progress"`
}

func (User) TableName() string {
	return "users"
}

// ProgressSnapshot 返回进度字典的副本，nil 时返回空 map
func (u *User) ProgressSnapshot() ProgressMap {
	m := u.Progress.Data()
	out := make(ProgressMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UserSummary Unity 客户端需要的用户概要信息
// swagger:model UserSummary
type UserSummary struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Streak          int    `json:"streak"`
	CompletedTopics int    `json:"completedTopics"`
}

func (u *User) Summary() UserSummary {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return UserSummary{
		Username:        u.Username,
		Name:            name,
		Email:           u.Email,
		Streak:          u.Streak,
		CompletedTopics: u.CompletedTopics,
	}
}
