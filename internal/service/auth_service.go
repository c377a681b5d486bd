package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/internal/util"
	"github.com/aelied/structureality-server/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo   *repository.UserRepository
	LessonRepo *repository.LessonRepository
	Tokens     TokenStore
	Notifier   ResetNotifier
	TokenTTL   time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, lessonRepo *repository.LessonRepository, tokens TokenStore, notifier ResetNotifier, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		LessonRepo: lessonRepo,
		Tokens:     tokens,
		Notifier:   notifier,
		TokenTTL:   tokenTTL,
	}
}

type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=32"`
	Name            string `json:"name"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	DifficultyLevel string `json:"difficultyLevel"`
}

// Register 创建账号并按当前课程目录播种一份全零的进度文档，
// 保证新用户的进度键集合和目录一致。
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	level := model.DifficultyLevel(req.DifficultyLevel)
	if level == "" {
		level = model.Beginner
	}
	if level != model.Beginner && level != model.Intermediate {
		return nil, util.Validationf("difficultyLevel", "must be beginner or intermediate")
	}

	topics, err := s.LessonRepo.DistinctTopics()
	if err != nil {
		return nil, err
	}
	progress := make(model.ProgressMap, len(topics))
	for _, topic := range topics {
		progress[topic] = model.TopicProgress{}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:        req.Username,
		Name:            req.Name,
		Email:           strings.ToLower(req.Email),
		Password:        string(hashed),
		Role:            model.Student,
		DifficultyLevel: level,
		Progress:        datatypes.NewJSONType(progress),
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrDuplicateUser
		}
		// MySQL 唯一键冲突不总是映射到 gorm 哨兵错误
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, util.ErrDuplicateUser
		}
		return nil, err
	}

	logger.Log.Info("user registered", zap.String("username", user.Username))
	return user, nil
}

// Login 用户名或邮箱 + 密码登录。两种查不到和密码错误统一返回
// ErrInvalidCredentials，不向调用方泄露账号是否存在。
func (s *AuthService) Login(identifier, password string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsernameOrEmail(identifier, strings.ToLower(identifier))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.UserRepo.UpdateFields(user.Username, map[string]interface{}{"last_login": now}); err != nil {
		logger.Log.Warn("failed to record last login", zap.String("username", user.Username), zap.Error(err))
	}
	user.LastLogin = now
	return user, nil
}

// ChangePassword 已登录用户修改密码，需要验证旧密码
func (s *AuthService) ChangePassword(username, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return util.Validationf("newPassword", "must be at least 6 characters")
	}

	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdateFields(username, map[string]interface{}{"password": string(hashed)})
}

// RequestReset 签发一次性重置令牌。邮箱未注册时静默成功，防止账号枚举。
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			logger.Log.Info("reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.Tokens.Put(ctx, token, user.Username, s.TokenTTL); err != nil {
		return err
	}
	return s.Notifier.NotifyReset(user.Email, token)
}

// ResetPassword 用令牌重置密码。令牌消费即删，重放直接失败。
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return util.Validationf("newPassword", "must be at least 6 characters")
	}

	username, err := s.Tokens.Consume(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdateFields(username, map[string]interface{}{"password": string(hashed)}); err != nil {
		return err
	}

	logger.Log.Info("password reset completed", zap.String("username", username))
	return nil
}
