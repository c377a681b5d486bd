package repository

import (
	"errors"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/util"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameOrEmail 登录与注册查重共用：任意一项命中即返回
func (r *UserRepository) FindByUsernameOrEmail(username, email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFields 对单个用户记录做一次原子的多字段更新。
// 进度文档、连续天数等必须在同一条 UPDATE 中落库，
// 避免并发读者看到合并到一半的记录。
func (r *UserRepository) UpdateFields(username string, fields map[string]interface{}) error {
	res := r.DB.Model(&model.User{}).Where("username = ?", username).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

// ListAll 返回全部用户，永远不查询密码列
func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	err := r.DB.Omit("password").Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) DeleteByUsername(username string) error {
	res := r.DB.Where("username = ?", username).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}

// CountActiveSince 统计在给定时间后登录过的用户数
func (r *UserRepository) CountActiveSince(t time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("last_login > ?", t).Count(&count).Error
	return count, err
}
