package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetProfile 查看个人资料
// @Summary 查看个人资料
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/me [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	user, err := ctrl.userService.GetUser(claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, user)
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "资料"
// @Success 200 {object} util.Response
// @Router /api/users/me [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := ctrl.userService.UpdateProfile(claims.UserID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, user)
}

// ListUsers 管理员分页查看用户
// @Summary 用户列表
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param keyword query string false "按名称或邮箱搜索"
// @Success 200 {object} util.Response
// @Router /api/admin/users [get]
func (ctrl *UserController) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	keyword := c.Query("keyword")

	users, total, err := ctrl.userService.ListUsers(page, limit, keyword)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// UpdateUser 管理员更新用户角色或禁用状态
// @Summary 更新用户
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body service.UpdateUserInput true "变更内容"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [put]
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := ctrl.userService.UpdateUser(id, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, user)
}

// DeleteUser 管理员删除用户
// @Summary 删除用户
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(c)
	if claims.UserID == id {
		util.BadRequest(c, "不能删除当前登录的账号")
		return
	}

	if err := ctrl.userService.DeleteUser(id); err != nil {
		respondServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
