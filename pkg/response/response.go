package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeOK               = 0
	CodeValidation       = 10001
	CodeUnauthorized     = 10002
	CodeForbidden        = 10003
	CodeRateLimited      = 10004
	CodeBodyTooLarge     = 10005
	CodeRouteNotFound    = 10006
	CodeInvalidLogin     = 11001
	CodeUserNotFound     = 20001
	CodeEmailExists      = 20002
	CodeSelfDelete       = 20003
	CodeCampaignNotFound = 30001
	CodeAlreadyJoined    = 30002
	CodeCampaignClosed   = 30003
	CodeInternal         = 50000
)

// Response 统一错误响应结构
// 成功响应不使用该结构，而是把资源键合并到顶层（见 OK / Created）
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ── 成功响应 ──

// OK 200 成功响应，payload 中的键合并到顶层
func OK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, merge(payload))
}

// Created 201 创建成功
func Created(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, merge(payload))
}

func merge(payload gin.H) gin.H {
	body := gin.H{"success": true, "code": CodeOK}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message string, details interface{}) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Success: false,
		Code:    code,
		Error:   message,
		Details: details,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// ValidationFailed 400，附带逐字段错误
func ValidationFailed(c *gin.Context, fields []FieldError) {
	ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, "请求参数校验失败", fields)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, CodeRateLimited, message)
}

// InternalError 500
// err 非空且开启调试时附带错误详情
func InternalError(c *gin.Context, err error, debug bool) {
	if debug && err != nil {
		ErrorWithDetails(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误", err.Error())
		return
	}
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}
