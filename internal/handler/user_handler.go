package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jbmillenial/file-share/internal/auth"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/jbmillenial/file-share/internal/logger"
	"github.com/jbmillenial/file-share/internal/response"
	userservice "github.com/jbmillenial/file-share/internal/service/user"
)

// UserHandler 用户注册登录处理器
type UserHandler struct {
	users    userservice.UserService
	sessions *auth.SessionManager
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(users userservice.UserService, sessions *auth.SessionManager) *UserHandler {
	return &UserHandler{
		users:    users,
		sessions: sessions,
	}
}

// RegisterRequest 注册请求参数
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150" example:"alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest 登录请求参数
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required"`
}

// UserInfo 用户信息响应
type UserInfo struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户，用户名和邮箱必须唯一，注册成功后自动登录
// @Tags 用户管理
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} response.Response{data=UserInfo} "注册成功"
// @Failure 400 {object} response.Response "参数错误或邮箱/用户名已存在"
// @Router /api/v1/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewWithDetails(apperrors.ErrInvalidParams, err.Error()))
		return
	}

	user, err := h.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.SetSession(c, user.ID, user.Username); err != nil {
		logger.Errorf("Failed to set session after registration for user %d: %v", user.ID, err)
	}

	response.Created(c, "registered", UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户名密码登录，成功后写入会话Cookie
// @Tags 用户管理
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=UserInfo} "登录成功"
// @Failure 401 {object} response.Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewWithDetails(apperrors.ErrInvalidParams, err.Error()))
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.SetSession(c, user.ID, user.Username); err != nil {
		logger.Errorf("Failed to set session for user %d: %v", user.ID, err)
		respondError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	response.Success(c, UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Logout 用户登出
// @Summary 用户登出
// @Description 清除会话Cookie
// @Tags 用户管理
// @Produce json
// @Success 200 {object} response.Response "登出成功"
// @Router /api/v1/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	h.sessions.ClearSession(c)
	response.SuccessWithMessage(c, "logged out", nil)
}
