package model

import "time"

// 目标器官
const (
	OrganHeart  = "heart"
	OrganLiver  = "liver"
	OrganKidney = "kidney"
	OrganLung   = "lung"
	OrganCornea = "cornea"
)

// 活动状态
const (
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignCompleted = "completed"
)

// Organs 全部合法器官取值
var Organs = []string{OrganHeart, OrganLiver, OrganKidney, OrganLung, OrganCornea}

// Campaign 捐献活动表：对应 campaigns
// CreatedBy 与 Participants 为弱引用，用户删除后不级联清理
type Campaign struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Title        string     `gorm:"type:varchar(200);not null"                json:"title"`
	Description  string     `gorm:"type:varchar(1000);not null"               json:"description"`
	TargetOrgan  string     `gorm:"type:varchar(20);not null"                 json:"targetOrgan"`
	Goal         int        `gorm:"not null"                                  json:"goal"`
	Current      int        `gorm:"not null;default:0"                        json:"current"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedBy    int64      `gorm:"not null"                                  json:"createdBy"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"createdAt"`
	Participants Int64Array `gorm:"type:int8[];not null;default:'{}'"         json:"participants"`
}

// TableName 指定表名
func (Campaign) TableName() string { return "campaigns" }

// Clone 深拷贝
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Participants != nil {
		cp.Participants = append(Int64Array{}, c.Participants...)
	}
	return &cp
}

// IsValidOrgan 判断器官取值是否合法
func IsValidOrgan(organ string) bool {
	for _, o := range Organs {
		if o == organ {
			return true
		}
	}
	return false
}

// IsValidCampaignStatus 判断活动状态是否合法
func IsValidCampaignStatus(status string) bool {
	switch status {
	case CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}
