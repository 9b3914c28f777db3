package dto

// ── 捐献活动模块 DTO ──

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	Title       string `json:"title"       binding:"required,min=5,max=200"`
	Description string `json:"description" binding:"required,min=10,max=1000"`
	TargetOrgan string `json:"targetOrgan" binding:"required,oneof=heart liver kidney lung cornea"`
	Goal        int    `json:"goal"        binding:"required,min=1,max=100000"`
}

// UpdateCampaignRequest 更新活动请求（仅更新非 nil 字段）
type UpdateCampaignRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=5,max=200"`
	Description *string `json:"description" binding:"omitempty,min=10,max=1000"`
	TargetOrgan *string `json:"targetOrgan" binding:"omitempty,oneof=heart liver kidney lung cornea"`
	Goal        *int    `json:"goal"        binding:"omitempty,min=1,max=100000"`
	Status      *string `json:"status"      binding:"omitempty,oneof=active paused completed"`
}
