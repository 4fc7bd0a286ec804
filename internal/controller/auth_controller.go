package controller

import (
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{authService: authService, cfg: cfg}
}

// Register 用户注册
// @Summary 用户注册
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := ctrl.authService.Register(&input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.Created(c, user)
}

// Login 用户登录
// @Summary 用户登录
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录凭证"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	token, user, err := ctrl.authService.Login(&input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// 同时写入Cookie，便于浏览器端直接访问
	maxAge := int(ctrl.cfg.JWT.ExpireTime.Seconds())
	c.SetCookie("token", token, maxAge, "/", "", ctrl.cfg.Server.Mode == "release", true)

	util.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout 退出登录，清除Cookie
// @Summary 退出登录
// @Tags auth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", ctrl.cfg.Server.Mode == "release", true)
	util.Success(c, nil)
}
