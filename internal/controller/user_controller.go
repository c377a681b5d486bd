package controller

import (
	"github.com/aelied/structureality-server/internal/service"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateProfileRequest 资料更新请求。难度注册后不可改，进度字段走同步接口。
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

// GetSummary godoc
// @Summary 查询用户概要
// @Description 客户端启动时拉取的概要信息
// @Tags 用户
// @Produce  json
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=model.UserSummary} "查询成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Security BearerAuth
// @Router /api/users/{username}/summary [get]
func (c *UserController) GetSummary(ctx *gin.Context) {
	summary, err := c.UserService.GetSummary(ctx.Param("username"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// Get godoc
// @Summary 查询用户详情
// @Tags 用户
// @Produce  json
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=model.User} "查询成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Security BearerAuth
// @Router /api/users/{username} [get]
func (c *UserController) Get(ctx *gin.Context) {
	user, err := c.UserService.GetByUsername(ctx.Param("username"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// List godoc
// @Summary 用户列表
// @Description 管理员查看全部用户，不含密码字段
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.User} "查询成功"
// @Security BearerAuth
// @Router /api/users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.UserService.ListAll()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// UpdateProfile godoc
// @Summary 更新用户资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   username path string true "用户名"
// @Param   body body UpdateProfileRequest true "要更新的字段"
// @Success 200 {object} util.Response "更新成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Security BearerAuth
// @Router /api/users/{username} [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdateProfile(ctx.Param("username"), req.Name, req.Email); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除用户
// @Description 管理员删除账号，进度记录一并删除
// @Tags 用户
// @Produce  json
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Security BearerAuth
// @Router /api/users/{username} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	if err := c.UserService.Delete(ctx.Param("username")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
