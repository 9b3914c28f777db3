package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/api/middleware"
	"herois-da-vida/backend/pkg/response"
)

// MustGetIdentity 从 Gin 上下文中安全提取已认证身份。
// 如果 JWT 中间件未正确注入身份，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetIdentity(c *gin.Context) (access.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return access.Identity{}, false
	}
	return identity, true
}

// parseID 解析路径参数中的正整数 ID，失败时写入 400 响应
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeValidation, "无效的 ID")
		return 0, false
	}
	return id, true
}

// bindJSON 绑定并校验 JSON 请求体，失败时写入响应并返回 false
//   - 请求体超限 → 413
//   - 字段校验失败 → 400，details 为逐字段错误
//   - 其他解析错误 → 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
	case errors.As(err, &verrs):
		response.ValidationFailed(c, fieldErrors(verrs))
	default:
		response.BadRequest(c, response.CodeValidation, "请求体格式无效")
	}
	return false
}

// internalError 记录错误并返回 500，debug 为 true 时附带错误详情
func internalError(c *gin.Context, err error, debug bool) {
	_ = c.Error(err)
	response.InternalError(c, err, debug)
}
