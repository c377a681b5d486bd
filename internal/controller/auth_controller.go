package controller

import (
	"github.com/aelied/structureality-server/internal/config"
	"github.com/aelied/structureality-server/internal/service"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Config      *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{AuthService: authService, Config: cfg}
}

// LoginRequest 登录请求，identifier 为用户名或邮箱
// swagger:model LoginRequest
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ResetRequest 重置令牌申请
// swagger:model ResetRequest
type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 用令牌提交新密码
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// Register godoc
// @Summary 注册新用户
// @Description 创建账号并按课程目录初始化进度
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名或邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := util.GenerateJWT(user, c.Config.JWT.Secret, c.Config.JWT.ExpireTime)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"token": token,
		"user":  user.Summary(),
	})
}

// Login godoc
// @Summary 用户登录
// @Description 用户名或邮箱 + 密码登录，返回 JWT
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Login(req.Identifier, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := util.GenerateJWT(user, c.Config.JWT.Secret, c.Config.JWT.ExpireTime)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user":  user.Summary(),
	})
}

// ChangePassword godoc
// @Summary 修改密码
// @Description 已登录用户用旧密码换新密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response "修改成功"
// @Failure 401 {object} util.Response "旧密码错误"
// @Security BearerAuth
// @Router /api/auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(claims.Username, req.OldPassword, req.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RequestReset godoc
// @Summary 申请密码重置
// @Description 给注册邮箱签发一次性重置令牌。无论邮箱是否存在都返回成功。
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetRequest true "注册邮箱"
// @Success 200 {object} util.Response "已受理"
// @Router /api/auth/reset/request [post]
func (c *AuthController) RequestReset(ctx *gin.Context) {
	var req ResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.RequestReset(ctx.Request.Context(), req.Email); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ResetPassword godoc
// @Summary 重置密码
// @Description 用重置令牌设置新密码，令牌一次性有效
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordRequest true "令牌与新密码"
// @Success 200 {object} util.Response "重置成功"
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/auth/reset [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
