package dto

// ── 用户模块 DTO ──

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72,bcrypt_len,password_strength"`
	Role     string `json:"role"     binding:"omitempty,oneof=user admin"`
	IsDonor  bool   `json:"isDonor"`
}

// UpdateUserRequest 更新用户请求
// 指针字段为 nil 表示不修改；DonatedOrgans 为 nil 表示不修改，空数组表示清空
type UpdateUserRequest struct {
	Name          *string  `json:"name"          binding:"omitempty,min=2,max=100"`
	Email         *string  `json:"email"         binding:"omitempty,email,max=255"`
	Password      *string  `json:"password"      binding:"omitempty,min=8,max=72,bcrypt_len,password_strength"`
	Role          *string  `json:"role"          binding:"omitempty,oneof=user admin"`
	IsDonor       *bool    `json:"isDonor"`
	DonatedOrgans []string `json:"donatedOrgans" binding:"omitempty,max=5,dive,oneof=heart liver kidney lung cornea"`
}
