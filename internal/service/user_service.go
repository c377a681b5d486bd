package service

import (
	"strings"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/internal/util"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	return s.UserRepo.FindByUsername(username)
}

// GetSummary Unity 客户端启动时拉取的概要信息
func (s *UserService) GetSummary(username string) (*model.UserSummary, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) ListAll() ([]model.User, error) {
	return s.UserRepo.ListAll()
}

// UpdateProfile 只允许改姓名和邮箱。难度在注册时定死，换难度会让已有进度
// 按另一套课程数重新计分，所以这里不开放。
func (s *UserService) UpdateProfile(username string, name, email string) error {
	fields := map[string]interface{}{}
	if name != "" {
		fields["name"] = name
	}
	if email != "" {
		fields["email"] = strings.ToLower(email)
	}
	if len(fields) == 0 {
		return util.Validationf("body", "no updatable fields provided")
	}
	return s.UserRepo.UpdateFields(username, fields)
}

func (s *UserService) Delete(username string) error {
	return s.UserRepo.DeleteByUsername(username)
}
