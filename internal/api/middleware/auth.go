package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/service"
	"herois-da-vida/backend/pkg/response"
)

// 上下文键
const (
	identityKey = "identity"
	userIDKey   = "user_id"
	roleKey     = "role"
)

// Authenticator 校验 Token 并返回调用者身份，由 service.AuthService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*access.Identity, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取 Token，验证签名与有效期，
// 并确认 Token 主体仍存在于用户存储中
func JWTAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证头")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "认证头格式无效")
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, service.ErrTokenInvalid) {
				response.Unauthorized(c, response.CodeUnauthorized, "Token 无效或已过期")
				return
			}
			_ = c.Error(err)
			response.InternalError(c, nil, false)
			return
		}

		SetIdentity(c, *identity)
		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一，需在 JWTAuth 之后使用
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			return
		}

		if !access.HasRole(identity, allowedRoles...) {
			response.Forbidden(c, response.CodeForbidden, "无权限访问")
			return
		}

		c.Next()
	}
}

// OwnershipOrAdmin 资源所有权中间件
// 路径参数 param 为资源所有者 ID，仅所有者本人或管理员可继续
// 在查询资源之前判断，无权调用者无法探测资源是否存在
func OwnershipOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			return
		}

		ownerID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || ownerID <= 0 {
			response.BadRequest(c, response.CodeValidation, "无效的 ID")
			return
		}

		if !access.CanAccessOwned(identity, ownerID) {
			response.Forbidden(c, response.CodeForbidden, "无权限访问")
			return
		}

		c.Next()
	}
}

// ── 上下文读写 ──

// SetIdentity 将已认证身份写入上下文
func SetIdentity(c *gin.Context, identity access.Identity) {
	c.Set(identityKey, identity)
	c.Set(userIDKey, identity.UserID)
	c.Set(roleKey, identity.Role)
}

// GetIdentity 读取已认证身份
func GetIdentity(c *gin.Context) (access.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return access.Identity{}, false
	}
	identity, ok := v.(access.Identity)
	if !ok || identity.UserID <= 0 {
		return access.Identity{}, false
	}
	return identity, true
}
