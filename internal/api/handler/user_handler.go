package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/service"
	"herois-da-vida/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
	debug   bool
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, debug bool) *UserHandler {
	return &UserHandler{userSvc: userSvc, debug: debug}
}

// ListUsers 用户列表
// GET /api/users
// 管理员得到完整信息，普通用户得到精简信息
func (h *UserHandler) ListUsers(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), identity)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, gin.H{"users": users, "total": total})
}

// CreateUser 创建用户（管理员）
// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, gin.H{"message": "用户创建成功", "user": user})
}

// GetUser 获取用户详情（本人或管理员）
// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id, identity)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}

// UpdateUser 更新用户（本人或管理员）
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, identity)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "用户更新成功", "user": user})
}

// DeleteUser 删除用户（管理员，不能删除自己）
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "用户删除成功"})
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, response.CodeUserNotFound, "用户不存在")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, response.CodeEmailExists, "该邮箱已被注册")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, response.CodeSelfDelete, "不能删除自己的账号")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.Forbidden(c, response.CodeForbidden, "不能修改自己的角色")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, response.CodeForbidden, "无权操作")
	default:
		internalError(c, err, h.debug)
	}
}
