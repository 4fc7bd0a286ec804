package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	quizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

// ListQuizzes 分页浏览测验
// @Summary 测验列表
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (ctrl *QuizController) ListQuizzes(c *gin.Context) {
	page, limit := parsePagination(c)

	quizzes, total, err := ctrl.quizService.ListQuizzes(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: quizzes, Total: total, Page: page, Limit: limit})
}

// GetQuiz 查看测验基础信息（不含题目）
// @Summary 测验详情
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (ctrl *QuizController) GetQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	quiz, err := ctrl.quizService.GetQuiz(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, quiz)
}

// CreateQuiz 管理员创建测验
// @Summary 创建测验
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.QuizInput true "测验内容"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/quizzes [post]
func (ctrl *QuizController) CreateQuiz(c *gin.Context) {
	var input service.QuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	quiz, err := ctrl.quizService.CreateQuiz(c.Request.Context(), &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Created(c, quiz)
}

// GetQuizDetail 管理员查看测验全量内容（含答案标记）
// @Summary 测验管理详情
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [get]
func (ctrl *QuizController) GetQuizDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	quiz, err := ctrl.quizService.GetQuizWithQuestions(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, quiz)
}

// UpdateQuiz 管理员整体更新测验与题目
// @Summary 更新测验
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param request body service.QuizInput true "测验内容"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [put]
func (ctrl *QuizController) UpdateQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.QuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	quiz, err := ctrl.quizService.UpdateQuiz(c.Request.Context(), id, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, quiz)
}

// DeleteQuiz 管理员删除测验及其答卷
// @Summary 删除测验
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [delete]
func (ctrl *QuizController) DeleteQuiz(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.quizService.DeleteQuiz(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// PreviewExam 管理员预览一份随机试卷，不落库
// @Summary 预览试卷
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id}/preview [get]
func (ctrl *QuizController) PreviewExam(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	preview, err := ctrl.quizService.PreviewExam(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, preview)
}
