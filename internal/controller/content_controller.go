package controller

import (
	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/service"
	"github.com/aelied/structureality-server/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// LessonRequest 课程创建/更新请求
// swagger:model LessonRequest
type LessonRequest struct {
	TopicName       string `json:"topicName" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Content         string `json:"content"`
	Order           int    `json:"order"`
	DifficultyLevel string `json:"difficultyLevel" binding:"required,oneof=beginner intermediate"`
}

// QuizRequest 测验创建请求
// swagger:model QuizRequest
type QuizRequest struct {
	TopicName  string `json:"topicName" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Question   string `json:"question" binding:"required"`
	Answer     string `json:"answer"`
	Order      int    `json:"order"`
}

func (r *LessonRequest) toModel() *model.Lesson {
	return &model.Lesson{
		TopicName:       r.TopicName,
		Title:           r.Title,
		Description:     r.Description,
		Content:         r.Content,
		Order:           r.Order,
		DifficultyLevel: model.DifficultyLevel(r.DifficultyLevel),
	}
}

// Topics godoc
// @Summary 主题列表
// @Description 课程目录中出现过的全部主题名
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]string} "查询成功"
// @Router /api/topics [get]
func (c *ContentController) Topics(ctx *gin.Context) {
	topics, err := c.ContentService.Topics()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// ListLessons godoc
// @Summary 课程列表
// @Description 按主题过滤，不传 topic 返回全部
// @Tags 课程
// @Produce  json
// @Param   topic query string false "主题名"
// @Success 200 {object} util.Response{data=[]model.Lesson} "查询成功"
// @Router /api/lessons [get]
func (c *ContentController) ListLessons(ctx *gin.Context) {
	lessons, err := c.ContentService.ListLessons(ctx.Query("topic"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// GetLesson godoc
// @Summary 课程详情
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response{data=model.Lesson} "查询成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/lessons/{id} [get]
func (c *ContentController) GetLesson(ctx *gin.Context) {
	lesson, err := c.ContentService.GetLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// CreateLesson godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Param   body body LessonRequest true "课程内容"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Security BearerAuth
// @Router /api/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := req.toModel()
	if err := c.ContentService.CreateLesson(lesson); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Param   id path int true "课程 ID"
// @Param   body body LessonRequest true "课程内容"
// @Success 200 {object} util.Response{data=model.Lesson} "更新成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Security BearerAuth
// @Router /api/lessons/{id} [put]
func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.UpdateLesson(util.MustParseUint(ctx.Param("id")), req.toModel())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课程
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Security BearerAuth
// @Router /api/lessons/{id} [delete]
func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	if err := c.ContentService.DeleteLesson(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadLessonMedia godoc
// @Summary 上传课程媒体
// @Description 上传图片或视频并把地址写回课程记录
// @Tags 课程
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path int true "课程 ID"
// @Param   file formData file true "媒体文件"
// @Success 200 {object} util.Response{data=object} "上传成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Security BearerAuth
// @Router /api/lessons/{id}/media [post]
func (c *ContentController) UploadLessonMedia(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.ContentService.UploadLessonMedia(
		ctx.Request.Context(),
		util.MustParseUint(ctx.Param("id")),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"mediaUrl": url})
}

// ListQuizzes godoc
// @Summary 测验列表
// @Tags 测验
// @Produce  json
// @Param   topic query string true "主题名"
// @Success 200 {object} util.Response{data=[]model.Quiz} "查询成功"
// @Router /api/quizzes [get]
func (c *ContentController) ListQuizzes(ctx *gin.Context) {
	topic := ctx.Query("topic")
	if topic == "" {
		util.BadRequest(ctx, "topic is required")
		return
	}

	quizzes, err := c.ContentService.ListQuizzes(topic)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param   body body QuizRequest true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Security BearerAuth
// @Router /api/quizzes [post]
func (c *ContentController) CreateQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		TopicName:  req.TopicName,
		Difficulty: req.Difficulty,
		Question:   req.Question,
		Answer:     req.Answer,
		Order:      req.Order,
	}
	if err := c.ContentService.CreateQuiz(quiz); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Tags 测验
// @Produce  json
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response "删除成功"
// @Security BearerAuth
// @Router /api/quizzes/{id} [delete]
func (c *ContentController) DeleteQuiz(ctx *gin.Context) {
	if err := c.ContentService.DeleteQuiz(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
