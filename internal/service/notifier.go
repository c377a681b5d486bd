package service

import (
	"github.com/aelied/structureality-server/pkg/logger"

	"go.uber.org/zap"
)

// ResetNotifier 把重置令牌送达用户的通道。邮件网关接入前先用日志实现。
type ResetNotifier interface {
	NotifyReset(email, token string) error
}

// LogNotifier 把令牌写进结构化日志，供开发和联调环境取用
type LogNotifier struct{}

func (LogNotifier) NotifyReset(email, token string) error {
	logger.Log.Info("password reset token issued",
		zap.String("email", email),
		zap.String("token", token),
	)
	return nil
}
