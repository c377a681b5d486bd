package controller

import (
	"errors"

	"github.com/aelied/structureality-server/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 把服务层错误翻译成对应的 HTTP 状态码。
// 未识别的错误一律按 500 处理并记日志，不把内部细节透给客户端。
func respondError(ctx *gin.Context, err error) {
	switch {
	case util.IsValidation(err):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrDuplicateUser):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, 401, err.Error())
	case errors.Is(err, util.ErrInvalidResetToken):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
