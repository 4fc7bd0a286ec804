package controller

import (
	"strconv"
	"time"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	attemptService *service.AttemptService
	quizService    *service.QuizService
}

func NewAttemptController(attemptService *service.AttemptService, quizService *service.QuizService) *AttemptController {
	return &AttemptController{attemptService: attemptService, quizService: quizService}
}

// AutosaveRequest 暂存作答请求体
type AutosaveRequest struct {
	Answers []model.AnswerItem `json:"answers" binding:"required"`
}

// SubmitRequest 交卷请求体，answers 为空时以暂存内容为准
type SubmitRequest struct {
	Answers []model.AnswerItem `json:"answers"`
}

// AttemptView 答卷视图：题目按页返回
type AttemptView struct {
	ID          uint                     `json:"id"`
	QuizID      uint                     `json:"quizId"`
	StartedAt   time.Time                `json:"startedAt"`
	SubmittedAt *time.Time               `json:"submittedAt"`
	Score       *int                     `json:"score"`
	Questions   []model.SnapshotQuestion `json:"questions"`
	Answers     []model.AnswerItem       `json:"answers"`
	Page        int                      `json:"page"`
	TotalPages  int                      `json:"totalPages"`
	Resumed     bool                     `json:"resumed"`
}

// buildView 组装答卷视图，page 为 0 时返回全部题目
func (ctrl *AttemptController) buildView(attempt *model.QuizAttempt, page int, resumed bool) (*AttemptView, error) {
	snapshot, err := attempt.DecodeSnapshot()
	if err != nil {
		return nil, err
	}
	answers, err := attempt.DecodeAnswers()
	if err != nil {
		return nil, err
	}

	perPage := util.DefaultQuestionsPerPage
	if quiz, err := ctrl.quizService.GetQuiz(attempt.QuizID); err == nil && quiz.QuestionsPerPage > 0 {
		perPage = quiz.QuestionsPerPage
	}

	totalPages := (len(snapshot) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	questions := snapshot
	if page > 0 {
		if page > totalPages {
			page = totalPages
		}
		start := (page - 1) * perPage
		end := start + perPage
		if end > len(snapshot) {
			end = len(snapshot)
		}
		questions = snapshot[start:end]
	}

	return &AttemptView{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		StartedAt:   attempt.StartedAt,
		SubmittedAt: attempt.SubmittedAt,
		Score:       attempt.Score,
		Questions:   questions,
		Answers:     answers,
		Page:        page,
		TotalPages:  totalPages,
		Resumed:     resumed,
	}, nil
}

// StartAttempt 开始或继续答题
// @Summary 开始答题
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/attempts [post]
func (ctrl *AttemptController) StartAttempt(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)

	attempt, resumed, err := ctrl.attemptService.StartAttempt(claims.UserID, quizID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	view, err := ctrl.buildView(attempt, 0, resumed)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	if resumed {
		util.Success(c, view)
		return
	}
	util.Created(c, view)
}

// GetAttempt 查看答卷，支持按页取题
// @Summary 查看答卷
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "答卷ID"
// @Param page query int false "题目页码，缺省返回全部"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id} [get]
func (ctrl *AttemptController) GetAttempt(c *gin.Context) {
	attemptID, ok := parseID(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)

	attempt, err := ctrl.attemptService.GetAttempt(claims.UserID, claims.Role, attemptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	view, err := ctrl.buildView(attempt, page, false)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, view)
}

// Autosave 暂存作答
// @Summary 暂存作答
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "答卷ID"
// @Param request body AutosaveRequest true "作答内容"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/attempts/{id}/answers [patch]
func (ctrl *AttemptController) Autosave(c *gin.Context) {
	attemptID, ok := parseID(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)

	var req AutosaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	attempt, err := ctrl.attemptService.Autosave(claims.UserID, attemptID, req.Answers)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	answers, err := attempt.DecodeAnswers()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{"answers": answers})
}

// Submit 交卷
// @Summary 交卷
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "答卷ID"
// @Param request body SubmitRequest false "最终作答，为空则使用暂存内容"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/attempts/{id}/submit [post]
func (ctrl *AttemptController) Submit(c *gin.Context) {
	attemptID, ok := parseID(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	attempt, err := ctrl.attemptService.Submit(claims.UserID, attemptID, req.Answers)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, gin.H{
		"id":          attempt.ID,
		"score":       attempt.Score,
		"submittedAt": attempt.SubmittedAt,
	})
}

// ListMyAttempts 查看自己的答卷历史
// @Summary 我的答卷
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/attempts [get]
func (ctrl *AttemptController) ListMyAttempts(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	page, limit := parsePagination(c)

	attempts, total, err := ctrl.attemptService.ListMyAttempts(claims.UserID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// ListQuizAttempts 管理员查看某测验的全部答卷
// @Summary 测验答卷列表
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id}/attempts [get]
func (ctrl *AttemptController) ListQuizAttempts(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, limit := parsePagination(c)

	attempts, total, err := ctrl.attemptService.ListQuizAttempts(quizID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// Reopen 管理员重开已提交的答卷
// @Summary 重开答卷
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "答卷ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/attempts/{id}/reopen [post]
func (ctrl *AttemptController) Reopen(c *gin.Context) {
	attemptID, ok := parseID(c, "id")
	if !ok {
		return
	}

	attempt, err := ctrl.attemptService.Reopen(attemptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, attempt)
}
