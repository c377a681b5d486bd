package controller

import (
	"github.com/aelied/structureality-server/internal/service"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/gin-gonic/gin"
)

type ScenarioController struct {
	ContentService *service.ContentService
}

func NewScenarioController(contentService *service.ContentService) *ScenarioController {
	return &ScenarioController{ContentService: contentService}
}

// ScenarioRequest 主题场景配置
// swagger:model ScenarioRequest
type ScenarioRequest struct {
	Scenarios []string `json:"scenarios" binding:"required,min=1"`
}

// List godoc
// @Summary 全部场景配置
// @Tags 场景
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.ScenarioConfig} "查询成功"
// @Router /api/scenarios [get]
func (c *ScenarioController) List(ctx *gin.Context) {
	configs, err := c.ContentService.ListScenarios()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, configs)
}

// Get godoc
// @Summary 单主题场景列表
// @Description 未配置的主题返回默认场景
// @Tags 场景
// @Produce  json
// @Param   topic path string true "主题名"
// @Success 200 {object} util.Response{data=[]string} "查询成功"
// @Router /api/scenarios/{topic} [get]
func (c *ScenarioController) Get(ctx *gin.Context) {
	scenarios, err := c.ContentService.GetScenarios(ctx.Param("topic"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, scenarios)
}

// Save godoc
// @Summary 保存主题场景配置
// @Tags 场景
// @Accept  json
// @Produce  json
// @Param   topic path string true "主题名"
// @Param   body body ScenarioRequest true "场景列表"
// @Success 200 {object} util.Response "保存成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Security BearerAuth
// @Router /api/scenarios/{topic} [put]
func (c *ScenarioController) Save(ctx *gin.Context) {
	var req ScenarioRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ContentService.SaveScenarios(ctx.Param("topic"), req.Scenarios); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
