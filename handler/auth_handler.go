package handler

import (
	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup 注册
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required,min=3,max=50"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	profile, verifyToken, err := h.authSvc.Signup(req.Username, req.DisplayName, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := middleware.GenerateToken(profile.ID)
	if err != nil {
		utils.InternalServerError(c, "failed to issue token")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"profile": profile,
		"token":   token,
		// TODO: 接入邮件服务后改为邮件投递，不再返回给客户端
		"verification_token": verifyToken,
	})
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	profile, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := middleware.GenerateToken(profile.ID)
	if err != nil {
		utils.InternalServerError(c, "failed to issue token")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"profile": profile,
		"token":   token,
	})
}

// VerifyEmail 邮箱验证（令牌单次使用，24 小时过期）
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.authSvc.VerifyEmail(req.Token); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "email verified", nil)
}
