package models

import (
	"strings"
	"time"
)

// User 用户表（文章作者与后台账号）
type User struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                      // 主键
	Username           string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`    // 登录账号
	DisplayName        string     `gorm:"type:varchar(150);not null;default:''" json:"display_name"` // 显示名称
	PasswordHash       string     `gorm:"not null" json:"-"`                                         // 密码哈希（不返回给前端）
	IsSuper            bool       `gorm:"not null;default:false;index" json:"is_super"`              // 是否超级管理员（免权限校验）
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`                               // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`                                            // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time `json:"last_login_at"`                                             // 最后登录时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt          time.Time  `json:"updated_at"`                                                // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// String 返回显示名称，未设置时回退为账号
func (u User) String() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	return u.Username
}
