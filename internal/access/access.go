// Package access 包含与传输层无关的访问控制判定。
// 所有判定只依赖已验证的身份，由中间件与业务层共同调用。
package access

import "herois-da-vida/backend/internal/model"

// Identity 已通过 Token 验证且在用户存储中仍存在的调用者身份
// Role 取自用户存储中的当前值，而非 Token 声明
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

// IsAdmin 是否为管理员
func (i Identity) IsAdmin() bool { return i.Role == model.RoleAdmin }

// HasRole 身份角色是否为 allowed 之一
func HasRole(i Identity, allowed ...string) bool {
	for _, r := range allowed {
		if i.Role == r {
			return true
		}
	}
	return false
}

// CanAccessOwned 管理员或资源所有者可访问
func CanAccessOwned(i Identity, ownerID int64) bool {
	return i.IsAdmin() || i.UserID == ownerID
}

// CanDeleteUser 管理员不能删除自己的账号
// 角色检查由路由完成，这里只判断业务规则
func CanDeleteUser(i Identity, targetID int64) bool {
	return i.UserID != targetID
}

// CanChangeRole 仅管理员可修改角色
func CanChangeRole(i Identity) bool {
	return i.IsAdmin()
}
