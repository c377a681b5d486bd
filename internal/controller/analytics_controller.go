package controller

import (
	"time"

	"github.com/aelied/structureality-server/internal/service"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Report godoc
// @Summary 全量分析报告
// @Description 对全部用户与课程做一次只读折叠，生成分布、活跃度和主题热度
// @Tags 统计
// @Produce  json
// @Success 200 {object} util.Response{data=model.AnalyticsReport} "查询成功"
// @Security BearerAuth
// @Router /api/analytics [get]
func (c *AnalyticsController) Report(ctx *gin.Context) {
	report, err := c.AnalyticsService.Report(time.Now().UTC())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Summary godoc
// @Summary 简要统计
// @Description 管理后台首页的用户数与平均值
// @Tags 统计
// @Produce  json
// @Success 200 {object} util.Response{data=model.StatsSummary} "查询成功"
// @Security BearerAuth
// @Router /api/stats [get]
func (c *AnalyticsController) Summary(ctx *gin.Context) {
	summary, err := c.AnalyticsService.Summary(time.Now().UTC())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
