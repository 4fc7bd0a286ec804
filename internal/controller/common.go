package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// parsePagination 解析分页参数，非法值回退默认
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(util.DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = util.DefaultPageSize
	}
	return page, limit
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(c, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError 将业务错误映射到HTTP状态码
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(c, err.Error())
	case util.IsValidationErr(err),
		errors.Is(err, util.ErrEmptyQuiz),
		errors.Is(err, util.ErrEmailRegistered):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials),
		errors.Is(err, util.ErrUserDisabled):
		util.Unauthorized(c, err.Error())
	case errors.Is(err, util.ErrConflict):
		util.Error(c, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
