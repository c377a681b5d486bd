package controller

import (
	"time"

	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/service"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// UpdateLessonsRequest 旧版客户端的单主题课程数上报
// swagger:model UpdateLessonsRequest
type UpdateLessonsRequest struct {
	TopicName        string `json:"topicName" binding:"required"`
	LessonsCompleted int    `json:"lessonsCompleted" binding:"min=0"`
}

// Sync godoc
// @Summary 同步学习进度
// @Description 把客户端上报的多主题进度合并进当前记录，所有数值只增不减
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   username path string true "用户名"
// @Param   body body model.SyncRequest true "进度增量"
// @Success 200 {object} util.Response{data=model.SyncResult} "同步成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "用户不存在"
// @Security BearerAuth
// @Router /api/progress/{username}/sync [post]
func (c *ProgressController) Sync(ctx *gin.Context) {
	var req model.SyncRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SyncProgress(ctx.Param("username"), req, time.Now().UTC())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// UpdateLessons godoc
// @Summary 上报课程完成数
// @Description 单主题课程数上报，走同一套单调合并流程
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   username path string true "用户名"
// @Param   body body UpdateLessonsRequest true "主题与课程数"
// @Success 200 {object} util.Response{data=model.SyncResult} "更新成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Security BearerAuth
// @Router /api/progress/{username}/lessons [put]
func (c *ProgressController) UpdateLessons(ctx *gin.Context) {
	var req UpdateLessonsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.UpdateLessons(ctx.Param("username"), req.TopicName, req.LessonsCompleted, time.Now().UTC())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Get godoc
// @Summary 查询单用户进度
// @Tags 进度
// @Produce  json
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=model.UserProgressView} "查询成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Security BearerAuth
// @Router /api/progress/{username} [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	view, err := c.ProgressService.GetProgress(ctx.Param("username"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetAll godoc
// @Summary 查询全部用户进度
// @Description 管理后台用的全量列表
// @Tags 进度
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.UserProgressView} "查询成功"
// @Security BearerAuth
// @Router /api/progress [get]
func (c *ProgressController) GetAll(ctx *gin.Context) {
	views, err := c.ProgressService.GetAllProgress()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, views)
}
