package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/service"
	"herois-da-vida/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	debug   bool
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, debug bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, debug: debug}
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, gin.H{
		"message": "登录成功",
		"user":    result.User,
		"token":   result.Token,
	})
}

// Register 用户注册
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "注册成功",
		"user":    result.User,
		"token":   result.Token,
	})
}

// GetCurrentUser 获取当前用户信息
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), identity.UserID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, response.CodeInvalidLogin, "邮箱或密码错误")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, response.CodeEmailExists, "该邮箱已被注册")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, response.CodeUserNotFound, "用户不存在")
	default:
		internalError(c, err, h.debug)
	}
}
