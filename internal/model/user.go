package model

import "time"

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户表：对应 users
// Email 始终以小写存储，规范化后唯一
type User struct {
	ID            int64       `gorm:"primaryKey;autoIncrement"                json:"id"`
	Name          string      `gorm:"type:varchar(100);not null"              json:"name"`
	Email         string      `gorm:"type:varchar(255);not null"              json:"email"`
	PasswordHash  string      `gorm:"column:password_hash;not null"           json:"-"`
	Role          string      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsDonor       bool        `gorm:"not null;default:false"                  json:"isDonor"`
	DonatedOrgans StringArray `gorm:"type:text[];not null;default:'{}'"       json:"donatedOrgans"`
	CreatedAt     time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"      json:"createdAt"`
	LastLogin     *time.Time  `json:"lastLogin"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Clone 深拷贝，存储层读写均返回副本
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.DonatedOrgans != nil {
		cp.DonatedOrgans = append(StringArray{}, u.DonatedOrgans...)
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}
