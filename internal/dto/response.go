package dto

import "time"

// ── 用户模块响应 ──

// UserResponse 用户完整信息（脱敏，不含密码摘要）
// 仅返回给管理员或用户本人
type UserResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	IsDonor       bool       `json:"isDonor"`
	DonatedOrgans []string   `json:"donatedOrgans"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLogin     *time.Time `json:"lastLogin"`
}

// UserPublicResponse 用户公开信息（其他普通用户可见）
type UserPublicResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsDonor   bool      `json:"isDonor"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary 被引用用户的简要信息
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ── 捐献活动模块响应 ──

// CampaignResponse 活动信息
// Creator 在创建者已被删除时为 null
type CampaignResponse struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	TargetOrgan      string       `json:"targetOrgan"`
	Goal             int          `json:"goal"`
	Current          int          `json:"current"`
	Status           string       `json:"status"`
	CreatedBy        int64        `json:"createdBy"`
	Creator          *UserSummary `json:"creator"`
	CreatedAt        time.Time    `json:"createdAt"`
	Participants     []int64      `json:"participants"`
	ParticipantCount int          `json:"participantCount"`
}

// ── 认证模块响应 ──

// AuthResult 登录结果
type AuthResult struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
